package llmutils

import (
	"fmt"

	"github.com/AISHITA-10/ai-resume-screener/pkg/llm"
	"github.com/AISHITA-10/ai-resume-screener/pkg/llm/ollama"
)

type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
}

// NewCompleter builds the optional completion client. An empty provider
// returns nil: generation is disabled and callers fall back to
// evidence-only summaries.
func NewCompleter(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case "":
		return nil, nil
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}
