package screening

import (
	"context"
	"fmt"
	"strings"

	"github.com/AISHITA-10/ai-resume-screener/pkg/llm"
	"github.com/AISHITA-10/ai-resume-screener/pkg/retriever"
)

// quoteLimit bounds how much of a chunk is quoted in rendered summaries.
const quoteLimit = 240

// Synthesizer turns gated evidence into prose. Two variants exist: a
// pass-through that renders evidence-only summaries, and a model-backed one
// that delegates to an external completion service. Retrieval and guardrail
// logic upstream is identical for both.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, evidence []retriever.Citation) (string, error)
}

// EvidenceSynthesizer renders the top evidence excerpts verbatim with their
// citations. It never calls out and never fails.
type EvidenceSynthesizer struct{}

// Synthesize renders up to three excerpts as cited bullets.
func (EvidenceSynthesizer) Synthesize(_ context.Context, _ string, evidence []retriever.Citation) (string, error) {
	return renderEvidence(evidence), nil
}

// renderEvidence formats the top evidence excerpts as cited bullets.
func renderEvidence(evidence []retriever.Citation) string {
	top := evidence
	if len(top) > 3 {
		top = top[:3]
	}
	var b strings.Builder
	b.WriteString("Most relevant excerpts:\n")
	for _, c := range top {
		fmt.Fprintf(&b, "- [%s | score=%.2f] %s\n", c.ChunkID, c.Score, truncate(c.Text, quoteLimit))
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}

// LLMSynthesizer delegates to an external completion service. The service is
// contractually restricted (via the system prompt) to claims attributable to
// the supplied evidence.
type LLMSynthesizer struct {
	completer llm.Completer
	system    string
}

// NewLLMSynthesizer creates a model-backed synthesizer.
func NewLLMSynthesizer(completer llm.Completer) *LLMSynthesizer {
	return &LLMSynthesizer{completer: completer, system: answerSystem}
}

// Synthesize builds a context block from the evidence and asks the
// completion service for a grounded answer.
func (s *LLMSynthesizer) Synthesize(ctx context.Context, query string, evidence []retriever.Citation) (string, error) {
	user := fmt.Sprintf("QUESTION:\n%s\n\nCONTEXT:\n%s", query, contextBlock(evidence))
	out, err := s.completer.Complete(ctx, s.system, user)
	if err != nil {
		return "", fmt.Errorf("completing answer: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// contextBlock renders evidence chunks with their IDs and scores so the
// model can cite them.
func contextBlock(evidence []retriever.Citation) string {
	blocks := make([]string, 0, len(evidence))
	for _, c := range evidence {
		blocks = append(blocks, fmt.Sprintf("[%s | score=%.2f]\n%s", c.ChunkID, c.Score, c.Text))
	}
	return strings.Join(blocks, "\n\n")
}
