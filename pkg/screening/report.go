package screening

import "github.com/AISHITA-10/ai-resume-screener/pkg/retriever"

// Fit grades how well a candidate matches the screened query.
type Fit string

const (
	FitStrong   Fit = "Strong"
	FitModerate Fit = "Moderate"
	FitWeak     Fit = "Weak"
	FitUnclear  Fit = "Unclear"
)

// Citation is one quoted piece of evidence supporting a screening claim.
type Citation struct {
	Source  string `json:"source"`
	ChunkID string `json:"chunk_id"`
	Quote   string `json:"quote"`
}

// CandidateResult is the screening outcome for one candidate document.
// Either Citations carry evidence, or Refusal explains why none exists;
// a refused candidate is reported, never dropped or guessed at.
type CandidateResult struct {
	DocID      string             `json:"doc_id"`
	DocName    string             `json:"doc_name"`
	Fit        Fit                `json:"overall_fit"`
	Confidence float32            `json:"confidence"`
	Summary    string             `json:"summary"`
	Strengths  []string           `json:"strengths,omitempty"`
	Gaps       []string           `json:"gaps,omitempty"`
	Citations  []Citation         `json:"citations,omitempty"`
	Refusal    *retriever.Refusal `json:"refusal,omitempty"`
}

// InsufficientEvidence reports whether retrieval was refused for this
// candidate.
func (c *CandidateResult) InsufficientEvidence() bool {
	return c.Refusal != nil
}

// ScreeningReport groups screening results per candidate document.
type ScreeningReport struct {
	JobQuery   string            `json:"job_query"`
	Candidates []CandidateResult `json:"candidates"`
}

// CandidateEvidence is the scoped retrieval outcome for one candidate in a
// comparison. Evidence for different candidates is never interleaved; each
// entry holds only chunks retrieved under that candidate's own doc filter.
type CandidateEvidence struct {
	DocID    string               `json:"doc_id"`
	DocName  string               `json:"doc_name"`
	Evidence []retriever.Citation `json:"evidence,omitempty"`
	Refusal  *retriever.Refusal   `json:"refusal,omitempty"`
}

// InsufficientEvidence reports whether retrieval was refused for this
// candidate.
func (c *CandidateEvidence) InsufficientEvidence() bool {
	return c.Refusal != nil
}

// ComparisonReport holds per-candidate evidence for one query, keyed by
// document, plus an optional synthesized summary over that evidence.
type ComparisonReport struct {
	Query      string              `json:"query"`
	Candidates []CandidateEvidence `json:"candidates"`
	Summary    string              `json:"summary,omitempty"`
}

// Candidate returns the entry for the given doc ID, or nil.
func (r *ComparisonReport) Candidate(docID string) *CandidateEvidence {
	for i := range r.Candidates {
		if r.Candidates[i].DocID == docID {
			return &r.Candidates[i]
		}
	}
	return nil
}
