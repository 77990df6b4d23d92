// Package querycmder provides the query command for asking questions over the
// indexed resumes.
package querycmder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AISHITA-10/ai-resume-screener/cmd/screener/stack"
	"github.com/AISHITA-10/ai-resume-screener/pkg/retriever"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	refusalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type queryCommander struct {
	query     string
	doc       string
	asJSON    bool
	configDir string
	debug     bool
}

const queryLongDesc string = `Ask a question over the indexed resumes.

The answer is synthesized from retrieved resume chunks and cites each one.
When no chunk clears the relevance threshold the screener refuses and reports
the measured confidence instead of guessing.

Example:
  screener query "who has AWS and Kubernetes experience?"
  screener query "Go experience" --doc alice.txt
  screener query "Go experience" --json`

const queryShortDesc string = "Ask a question over the indexed resumes"

func NewQueryCmd() *cobra.Command {
	cmder := &queryCommander{}

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.doc, "doc", "", "Restrict the question to one document (ID or name)")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Output the raw answer as JSON")

	return cmd
}

func (c *queryCommander) run() error {
	s, err := stack.Build(c.configDir, c.debug)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	answer, err := c.answer(ctx, s)
	if err != nil {
		return err
	}

	if c.asJSON {
		out, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling answer: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if answer.Refusal != nil {
		fmt.Printf("\n%s %s\n", refusalStyle.Render("Refused:"), answer.Refusal.Reason)
		fmt.Printf("%s\n", dimStyle.Render(fmt.Sprintf("best score %.2f, threshold %.2f",
			answer.Refusal.BestScore, answer.Refusal.Threshold)))
		return nil
	}

	fmt.Printf("\n%s\n\n%s\n", headerStyle.Render("Answer"), answer.Text)

	if len(answer.Evidence) > 0 {
		fmt.Printf("\n%s\n\n", headerStyle.Render("Evidence"))
		for i, cit := range answer.Evidence {
			printCitation(i+1, cit)
		}
	}
	return nil
}

func (c *queryCommander) answer(ctx context.Context, s *stack.Stack) (*answerOutput, error) {
	if c.doc == "" {
		ans, err := s.Screener.Ask(ctx, c.query)
		if err != nil {
			return nil, err
		}
		return &answerOutput{Text: ans.Text, Evidence: ans.Evidence, Refusal: ans.Refusal}, nil
	}

	ids, err := s.ResolveDocs(ctx, []string{c.doc})
	if err != nil {
		return nil, err
	}
	ret, err := s.Retriever.Query(ctx, c.query, vector.Filter{DocID: ids[0]})
	if err != nil {
		return nil, err
	}
	if ret.Refused() {
		return &answerOutput{Refusal: ret.Refusal}, nil
	}
	return &answerOutput{
		Text:     renderScopedEvidence(ret.Evidence),
		Evidence: ret.Evidence,
	}, nil
}

// answerOutput is the command's JSON shape for both scoped and unscoped
// questions.
type answerOutput struct {
	Text     string               `json:"text,omitempty"`
	Evidence []retriever.Citation `json:"evidence,omitempty"`
	Refusal  *retriever.Refusal   `json:"refusal,omitempty"`
}

func renderScopedEvidence(evidence []retriever.Citation) string {
	var b strings.Builder
	b.WriteString("Relevant excerpts:\n")
	for _, c := range evidence {
		fmt.Fprintf(&b, "- [%s | score=%.2f] %s\n", c.ChunkID, c.Score, firstLine(c.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func printCitation(rank int, c retriever.Citation) {
	fmt.Printf("  %s  %s  %s %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", c.Score)),
		sourceStyle.Render(c.DocName),
		dimStyle.Render(c.ChunkID),
	)
	text := firstLine(c.Text)
	if len(text) > 100 {
		text = text[:97] + "..."
	}
	fmt.Printf("     %s\n", textStyle.Render(text))
}

func firstLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
