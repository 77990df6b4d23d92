// Package docscmder provides the docs command for listing indexed documents.
package docscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AISHITA-10/ai-resume-screener/cmd/screener/stack"
)

var (
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type docsCommander struct {
	asJSON    bool
	configDir string
	debug     bool
}

const docsLongDesc string = `List the indexed documents with their IDs, versions, and chunk counts.`

const docsShortDesc string = "List indexed documents"

func NewDocsCmd() *cobra.Command {
	cmder := &docsCommander{}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: docsShortDesc,
		Long:  docsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Output the document list as JSON")

	return cmd
}

func (c *docsCommander) run() error {
	s, err := stack.Build(c.configDir, c.debug)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.Store.Docs(context.Background())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if c.asJSON {
		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling documents: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println("No documents indexed.")
		return nil
	}

	for _, d := range docs {
		fmt.Printf("  %s %s\n",
			nameStyle.Render(d.DocName),
			dimStyle.Render(fmt.Sprintf("v%d, %d chunks, indexed %s, id %s",
				d.Version, d.Chunks, d.IndexedAt.Format(time.RFC3339), d.DocID)),
		)
	}
	return nil
}
