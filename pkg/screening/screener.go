// Package screening orchestrates guarded, document-scoped retrieval into
// screening and comparison reports. Every claim in a report traces back to a
// chunk citation; candidates without sufficient evidence are reported as
// such, never backfilled with a guess.
package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/llm"
	"github.com/AISHITA-10/ai-resume-screener/pkg/retriever"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

// ErrTooFewCandidates is returned when a comparison is requested for fewer
// than two candidate documents.
var ErrTooFewCandidates = errors.New("comparison requires at least two candidate documents")

// Fit thresholds for the evidence-only heuristic: the mean of the top
// retrieval scores approximates confidence.
const (
	moderateConfidence = 0.35
	strongConfidence   = 0.55
)

// Screener runs screening and comparison flows over a retriever. The
// completion service is optional; when absent or failing, every flow
// degrades to evidence-only output instead of failing.
type Screener struct {
	retriever *retriever.Retriever
	store     vector.Store
	synth     Synthesizer
	completer llm.Completer
	logger    *zap.Logger
}

// New creates a Screener. completer may be nil, in which case all output is
// evidence-only.
func New(ret *retriever.Retriever, store vector.Store, completer llm.Completer, logger *zap.Logger) *Screener {
	var synth Synthesizer = EvidenceSynthesizer{}
	if completer != nil {
		synth = NewLLMSynthesizer(completer)
	}
	return &Screener{
		retriever: ret,
		store:     store,
		synth:     synth,
		completer: completer,
		logger:    logger,
	}
}

// Answer is the outcome of one free-form question.
type Answer struct {
	Text     string               `json:"text"`
	Evidence []retriever.Citation `json:"evidence,omitempty"`
	Refusal  *retriever.Refusal   `json:"refusal,omitempty"`
}

// Ask runs an unscoped guarded query and synthesizes an answer over the
// evidence. A refusal is a normal outcome carrying the measured confidence;
// synthesis failure degrades to the evidence-only rendering.
func (s *Screener) Ask(ctx context.Context, question string) (*Answer, error) {
	ret, err := s.retriever.Query(ctx, question, vector.Filter{})
	if err != nil {
		return nil, err
	}
	if ret.Refused() {
		return &Answer{
			Text:    fmt.Sprintf("I don't have enough evidence in the indexed resumes to answer that.\n\nReason: %s", ret.Refusal.Reason),
			Refusal: ret.Refusal,
		}, nil
	}

	text, err := s.synth.Synthesize(ctx, question, ret.Evidence)
	if err != nil {
		s.logger.Warn("synthesis unavailable, returning evidence only", zap.Error(err))
		text = renderEvidence(ret.Evidence)
	}
	return &Answer{Text: text, Evidence: ret.Evidence}, nil
}

// Screen evaluates each candidate document against the job description
// using document-scoped retrieval only. One CandidateResult per doc ID, in
// input order.
func (s *Screener) Screen(ctx context.Context, jobDesc string, docIDs []string) (*ScreeningReport, error) {
	report := &ScreeningReport{JobQuery: jobDesc}

	for _, docID := range docIDs {
		result, err := s.screenOne(ctx, jobDesc, docID)
		if err != nil {
			return nil, err
		}
		report.Candidates = append(report.Candidates, *result)
	}
	return report, nil
}

func (s *Screener) screenOne(ctx context.Context, jobDesc, docID string) (*CandidateResult, error) {
	docName := docID
	if doc, err := s.store.Doc(ctx, docID); err == nil {
		docName = doc.DocName
	}

	ret, err := s.retriever.Query(ctx, jobDesc, vector.Filter{DocID: docID})
	if err != nil {
		return nil, fmt.Errorf("screening %s: %w", docID, err)
	}

	if ret.Refused() {
		return &CandidateResult{
			DocID:      docID,
			DocName:    docName,
			Fit:        FitUnclear,
			Confidence: ret.Refusal.BestScore,
			Summary:    fmt.Sprintf("Insufficient evidence: %s", ret.Refusal.Reason),
			Refusal:    ret.Refusal,
		}, nil
	}

	if s.completer == nil {
		return s.screenHeuristic(docID, docName, ret.Evidence), nil
	}

	result, err := s.screenWithModel(ctx, jobDesc, docID, docName, ret.Evidence)
	if err != nil {
		s.logger.Warn("model screening unavailable, using evidence heuristic",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
		return s.screenHeuristic(docID, docName, ret.Evidence), nil
	}
	return result, nil
}

// screenHeuristic grades a candidate from retrieval scores alone: the mean
// of the top scores approximates confidence, and the top excerpts become the
// citations.
func (s *Screener) screenHeuristic(docID, docName string, evidence []retriever.Citation) *CandidateResult {
	top := evidence
	if len(top) > 5 {
		top = top[:5]
	}
	var sum float32
	for _, c := range top {
		sum += c.Score
	}
	confidence := sum / float32(len(top))

	fit := FitUnclear
	switch {
	case confidence >= strongConfidence:
		fit = FitStrong
	case confidence >= moderateConfidence:
		fit = FitModerate
	}

	citations := make([]Citation, 0, 3)
	for _, c := range top {
		if len(citations) == 3 {
			break
		}
		citations = append(citations, Citation{
			Source:  docName,
			ChunkID: c.ChunkID,
			Quote:   truncate(c.Text, quoteLimit),
		})
	}

	return &CandidateResult{
		DocID:      docID,
		DocName:    docName,
		Fit:        fit,
		Confidence: confidence,
		Summary:    "Evidence-first screening from retrieval scores; see cited excerpts.",
		Strengths:  []string{"See cited excerpts for evidence."},
		Gaps:       []string{"Not assessed beyond retrieved evidence."},
		Citations:  citations,
	}
}

// modelScreening mirrors the JSON schema the screening prompt demands.
type modelScreening struct {
	OverallFit string   `json:"overall_fit"`
	Confidence float32  `json:"confidence"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	Citations  []struct {
		ChunkID string `json:"chunk_id"`
		Quote   string `json:"quote"`
	} `json:"citations"`
}

func (s *Screener) screenWithModel(ctx context.Context, jobDesc, docID, docName string, evidence []retriever.Citation) (*CandidateResult, error) {
	user := fmt.Sprintf("JOB DESCRIPTION:\n%s\n\nCONTEXT (single resume: %s):\n%s",
		jobDesc, docName, contextBlock(evidence))

	out, err := s.completer.Complete(ctx, screenSystem, user)
	if err != nil {
		return nil, err
	}

	var parsed modelScreening
	if err := json.Unmarshal([]byte(stripFences(out)), &parsed); err != nil {
		return nil, fmt.Errorf("parsing screening response: %w", err)
	}

	fit := FitUnclear
	switch Fit(parsed.OverallFit) {
	case FitStrong, FitModerate, FitWeak:
		fit = Fit(parsed.OverallFit)
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	var citations []Citation
	for _, c := range parsed.Citations {
		if c.ChunkID == "" || c.Quote == "" {
			continue
		}
		citations = append(citations, Citation{Source: docName, ChunkID: c.ChunkID, Quote: c.Quote})
	}
	// Models sometimes omit citations; backfill from the top evidence so
	// every result stays quotable.
	if len(citations) == 0 {
		for _, c := range evidence {
			if len(citations) == 3 {
				break
			}
			citations = append(citations, Citation{
				Source:  docName,
				ChunkID: c.ChunkID,
				Quote:   truncate(c.Text, quoteLimit),
			})
		}
	}
	if len(citations) > 6 {
		citations = citations[:6]
	}

	return &CandidateResult{
		DocID:      docID,
		DocName:    docName,
		Fit:        fit,
		Confidence: confidence,
		Summary:    parsed.Summary,
		Strengths:  capStrings(parsed.Strengths, 8),
		Gaps:       capStrings(parsed.Gaps, 8),
		Citations:  citations,
	}, nil
}

// Compare runs the same query independently per candidate document and
// assembles a report keyed by document. The per-candidate payload is the
// enforcement point against cross-candidate evidence leakage: each entry
// holds only chunks retrieved under that candidate's own doc filter.
func (s *Screener) Compare(ctx context.Context, query string, docIDs []string) (*ComparisonReport, error) {
	if len(docIDs) < 2 {
		return nil, ErrTooFewCandidates
	}

	report := &ComparisonReport{Query: query}
	for _, docID := range docIDs {
		docName := docID
		if doc, err := s.store.Doc(ctx, docID); err == nil {
			docName = doc.DocName
		}

		ret, err := s.retriever.Query(ctx, query, vector.Filter{DocID: docID})
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", docID, err)
		}

		entry := CandidateEvidence{DocID: docID, DocName: docName}
		if ret.Refused() {
			entry.Refusal = ret.Refusal
		} else {
			entry.Evidence = ret.Evidence
		}
		report.Candidates = append(report.Candidates, entry)
	}

	if s.completer != nil {
		summary, err := s.compareSummary(ctx, query, report)
		if err != nil {
			s.logger.Warn("comparison synthesis unavailable, returning evidence only", zap.Error(err))
		} else {
			report.Summary = summary
		}
	}
	return report, nil
}

// compareSummary asks the completion service for a markdown comparison over
// the per-candidate context blocks.
func (s *Screener) compareSummary(ctx context.Context, query string, report *ComparisonReport) (string, error) {
	var blocks []string
	for i := range report.Candidates {
		c := &report.Candidates[i]
		if c.InsufficientEvidence() {
			blocks = append(blocks, fmt.Sprintf("## %s\nNo strong evidence retrieved. Reason: %s", c.DocName, c.Refusal.Reason))
			continue
		}
		blocks = append(blocks, fmt.Sprintf("## %s\n%s", c.DocName, contextBlock(c.Evidence)))
	}

	user := fmt.Sprintf(
		"JOB DESCRIPTION:\n%s\n\nCONTEXT (grouped by resume):\n%s\n\n"+
			"Return a markdown report with:\n"+
			"- a comparison table\n"+
			"- a ranked recommendation\n"+
			"- bullet evidence per candidate with chunk_id citations.\n",
		query, strings.Join(blocks, "\n\n"))

	out, err := s.completer.Complete(ctx, compareSystem, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// stripFences removes a surrounding markdown code fence if the model added
// one despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func capStrings(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
