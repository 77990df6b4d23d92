// Package screencmder provides the screen command for grading candidates
// against a job description.
package screencmder

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
	strongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	midStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	weakStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	unclearStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type screenCommander struct {
	job       string
	jobFile   string
	docs      []string
	asJSON    bool
	configDir string
	debug     bool
}

const screenLongDesc string = `Screen indexed resumes against a job description.

Each candidate is graded independently from their own resume chunks only,
yielding a fit grade (Strong, Moderate, Weak, Unclear), a confidence score,
and cited evidence. A candidate whose resume yields no relevant evidence is
graded Unclear, never guessed at.

The job description comes from the first argument or --job-file. Without
--doc flags, every indexed document is screened.

Example:
  screener screen "Senior Go engineer with AWS"
  screener screen --job-file job.txt
  screener screen --job-file job.txt --doc alice.txt --doc bob.txt`

const screenShortDesc string = "Screen candidates against a job description"

func NewScreenCmd() *cobra.Command {
	cmder := &screenCommander{}

	cmd := &cobra.Command{
		Use:   "screen [job description]",
		Short: screenShortDesc,
		Long:  screenLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cmder.job = args[0]
			}

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
	cmd.Flags().StringArrayVar(&cmder.docs, "doc", nil, "Document to screen (ID or name); repeatable, all documents when omitted")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Output the raw report as JSON")

	return cmd
}

func (c *screenCommander) run() error {
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

	docIDs, err := c.resolveDocIDs(ctx, s)
	if err != nil {
		return err
	}

	report, err := s.Screener.Screen(ctx, job, docIDs)
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

func (c *screenCommander) resolveJob() (string, error) {
	if c.jobFile != "" {
		data, err := os.ReadFile(c.jobFile)
		if err != nil {
			return "", fmt.Errorf("reading job file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if strings.TrimSpace(c.job) == "" {
		return "", errors.New("a job description is required (argument or --job-file)")
	}
	return c.job, nil
}

func (c *screenCommander) resolveDocIDs(ctx context.Context, s *stack.Stack) ([]string, error) {
	if len(c.docs) > 0 {
		return s.ResolveDocs(ctx, c.docs)
	}
	ids, err := s.AllDocIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.New("no documents indexed; run `screener index` first")
	}
	return ids, nil
}

func printReport(report *screening.ScreeningReport) {
	fmt.Printf("\n%s\n", headerStyle.Render(fmt.Sprintf("Screening %d candidate(s)", len(report.Candidates))))

	for i := range report.Candidates {
		printCandidate(&report.Candidates[i])
	}
}

func printCandidate(c *screening.CandidateResult) {
	fmt.Printf("\n%s  %s %s\n",
		nameStyle.Render(c.DocName),
		fitStyle(c.Fit).Render(string(c.Fit)),
		dimStyle.Render(fmt.Sprintf("confidence %.2f", c.Confidence)),
	)
	if c.Summary != "" {
		fmt.Printf("  %s\n", textStyle.Render(c.Summary))
	}
	for _, s := range c.Strengths {
		fmt.Printf("  %s %s\n", strongStyle.Render("+"), textStyle.Render(s))
	}
	for _, g := range c.Gaps {
		fmt.Printf("  %s %s\n", weakStyle.Render("-"), textStyle.Render(g))
	}
	for _, cit := range c.Citations {
		quote := strings.ReplaceAll(cit.Quote, "\n", " ")
		if len(quote) > 100 {
			quote = quote[:97] + "..."
		}
		fmt.Printf("  %s %s\n", dimStyle.Render(cit.ChunkID), dimStyle.Render(quote))
	}
}

func fitStyle(fit screening.Fit) lipgloss.Style {
	switch fit {
	case screening.FitStrong:
		return strongStyle
	case screening.FitModerate:
		return midStyle
	case screening.FitWeak:
		return weakStyle
	}
	return unclearStyle
}
