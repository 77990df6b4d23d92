// Package indexcmder provides the index command for ingesting resume files.
package indexcmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AISHITA-10/ai-resume-screener/cmd/screener/stack"
	"github.com/AISHITA-10/ai-resume-screener/pkg/ingest"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type indexCommander struct {
	paths     []string
	watch     bool
	configDir string
	debug     bool
}

const indexLongDesc string = `Index resume files into the local vector store.

Accepts files and directories; directories are scanned for .txt and .md files.
Re-indexing a file with the same name replaces its previous chunks atomically
and bumps the document version.

With --watch, the given directory is kept in sync: files are re-indexed on
change and dropped from the index on delete. Watch mode runs until
interrupted.

Example:
  screener index resumes/
  screener index alice.txt bob.md
  screener index resumes/ --watch`

const indexShortDesc string = "Index resume files"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index <path>...",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.paths = args

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

	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Watch a directory and keep the index in sync")

	return cmd
}

func (c *indexCommander) run() error {
	s, err := stack.Build(c.configDir, c.debug)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	if c.watch {
		return c.runWatch(ctx, s)
	}

	files, err := collectFiles(c.paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no .txt or .md files found in the given paths")
	}

	report, err := s.Ingestor.IngestBatch(ctx, files)
	printReport(report)
	if err != nil {
		return err
	}
	if len(report.Indexed) == 0 {
		return errors.New("no documents were indexed")
	}
	return nil
}

func (c *indexCommander) runWatch(ctx context.Context, s *stack.Stack) error {
	if len(c.paths) != 1 {
		return errors.New("--watch takes exactly one directory")
	}
	info, err := os.Stat(c.paths[0])
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.paths[0], err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a directory, got %s", c.paths[0])
	}

	// Index the current contents first so the watch starts from a full index.
	files, err := collectFiles(c.paths)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		report, err := s.Ingestor.IngestBatch(ctx, files)
		printReport(report)
		if err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher := ingest.NewWatcher(s.Ingestor, c.paths[0], s.Logger)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// collectFiles expands the given paths into a sorted list of supported files.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".txt", ".md":
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func printReport(report *ingest.BatchReport) {
	if report == nil {
		return
	}
	for _, doc := range report.Indexed {
		fmt.Printf("  %s %s %s\n",
			okStyle.Render("✓"),
			nameStyle.Render(doc.DocName),
			dimStyle.Render(fmt.Sprintf("(v%d, %d chunks)", doc.Version, doc.Chunks)),
		)
	}
	for _, failure := range report.Failures {
		fmt.Printf("  %s %s %s\n",
			failStyle.Render("✗"),
			nameStyle.Render(failure.Path),
			dimStyle.Render(failure.Err.Error()),
		)
	}
	fmt.Printf("\n%d indexed, %d failed\n", len(report.Indexed), len(report.Failures))
}
