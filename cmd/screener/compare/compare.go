// Package comparecmder provides the compare command for side-by-side
// candidate comparisons.
package comparecmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AISHITA-10/ai-resume-screener/cmd/screener/stack"
	"github.com/AISHITA-10/ai-resume-screener/pkg/screening"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	refusalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type compareCommander struct {
	docs      []string
	job       string
	jobFile   string
	asJSON    bool
	configDir string
	debug     bool
}

const compareLongDesc string = `Compare two or more candidates against the same job description.

Evidence is retrieved independently per resume under a per-document filter,
so a candidate is never graded on another candidate's text. A candidate whose
resume yields no relevant evidence appears in the report with an explicit
insufficient-evidence entry.

Example:
  screener compare alice.txt bob.txt --job-file job.txt
  screener compare alice.txt bob.txt carol.txt "Senior Go engineer with AWS"`

const compareShortDesc string = "Compare candidates side by side"

func NewCompareCmd() *cobra.Command {
	cmder := &compareCommander{}

	cmd := &cobra.Command{
		Use:   "compare <doc> <doc>... [job description]",
		Short: compareShortDesc,
		Long:  compareLongDesc,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.docs = args

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

	cmd.Flags().StringVar(&cmder.jobFile, "job-file", "", "Read the job description from a file")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Output the raw report as JSON")

	return cmd
}

func (c *compareCommander) run() error {
	job, err := c.resolveJob()
	if err != nil {
		return err
	}

	s, err := stack.Build(c.configDir, c.debug)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	docIDs, err := s.ResolveDocs(ctx, c.docs)
	if err != nil {
		return err
	}

	report, err := s.Screener.Compare(ctx, job, docIDs)
	if err != nil {
		return err
	}

	if c.asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printReport(report)
	return nil
}

// resolveJob pulls the job description from --job-file or the trailing
// argument. With a trailing argument, the preceding args are the documents.
func (c *compareCommander) resolveJob() (string, error) {
	if c.jobFile != "" {
		data, err := os.ReadFile(c.jobFile)
		if err != nil {
			return "", fmt.Errorf("reading job file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(c.docs) < 3 {
		return "", errors.New("a job description is required (trailing argument or --job-file)")
	}
	job := c.docs[len(c.docs)-1]
	c.docs = c.docs[:len(c.docs)-1]
	return job, nil
}

func printReport(report *screening.ComparisonReport) {
	fmt.Printf("\n%s %s\n",
		headerStyle.Render("Comparison for:"),
		textStyle.Render(fmt.Sprintf("%q", report.Query)),
	)

	for i := range report.Candidates {
		printCandidate(&report.Candidates[i])
	}

	if report.Summary != "" {
		fmt.Printf("\n%s\n\n%s\n", headerStyle.Render("Summary"), report.Summary)
	}
}

func printCandidate(c *screening.CandidateEvidence) {
	fmt.Printf("\n%s\n", nameStyle.Render(c.DocName))

	if c.InsufficientEvidence() {
		fmt.Printf("  %s %s\n", refusalStyle.Render("Insufficient evidence:"), c.Refusal.Reason)
		return
	}

	for _, cit := range c.Evidence {
		text := strings.ReplaceAll(cit.Text, "\n", " ")
		if len(text) > 100 {
			text = text[:97] + "..."
		}
		fmt.Printf("  %s %s\n     %s\n",
			scoreStyle.Render(fmt.Sprintf("score: %.4f", cit.Score)),
			dimStyle.Render(cit.ChunkID),
			textStyle.Render(text),
		)
	}
}
