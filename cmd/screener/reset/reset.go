// Package resetcmder provides the reset command for wiping the index.
package resetcmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AISHITA-10/ai-resume-screener/cmd/screener/stack"
)

type resetCommander struct {
	force     bool
	configDir string
	debug     bool
}

const resetLongDesc string = `Remove every document and chunk from the index.

Destructive and irreversible; requires --force.`

const resetShortDesc string = "Wipe the index"

func NewResetCmd() *cobra.Command {
	cmder := &resetCommander{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: resetShortDesc,
		Long:  resetLongDesc,
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

	cmd.Flags().BoolVar(&cmder.force, "force", false, "Confirm wiping the index")

	return cmd
}

func (c *resetCommander) run() error {
	if !c.force {
		return errors.New("reset is destructive; re-run with --force to confirm")
	}

	s, err := stack.Build(c.configDir, c.debug)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Store.Reset(context.Background()); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}

	fmt.Println("Index wiped.")
	return nil
}
