// Package screenercmder
package screenercmder

import (
	comparecmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/compare"
	docscmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/docs"
	indexcmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/index"
	querycmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/query"
	resetcmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/reset"
	screencmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/screen"
	servecmder "github.com/AISHITA-10/ai-resume-screener/cmd/screener/serve"
	"github.com/AISHITA-10/ai-resume-screener/pkg/utils"
	"github.com/spf13/cobra"
)

const screenerLongDesc string = `Screener is an evidence-first resume screening assistant.

Index resume files, then ask questions, screen candidates against a job
description, or compare candidates side by side. Every answer cites the exact
resume chunks it rests on; when retrieval confidence is too low the screener
refuses instead of guessing.

Typical flow:
  screener index resumes/        Index a directory of resumes
  screener query "AWS and Go"    Ask a question over the indexed resumes
  screener screen --job job.txt  Screen every candidate against a job
  screener compare a.txt b.txt --job job.txt
  screener serve                 Expose the tools over MCP`

const screenerShortDesc string = "Screener - Evidence-first resume screening"

func NewScreenerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "screener",
		Short:   screenerShortDesc,
		Long:    screenerLongDesc,
		Version: utils.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(querycmder.NewQueryCmd())
	cmd.AddCommand(screencmder.NewScreenCmd())
	cmd.AddCommand(comparecmder.NewCompareCmd())
	cmd.AddCommand(docscmder.NewDocsCmd())
	cmd.AddCommand(resetcmder.NewResetCmd())
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
