// Package servecmder provides the serve command for exposing the screener
// tools over MCP.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/api/mcp"
	"github.com/AISHITA-10/ai-resume-screener/cmd/screener/stack"
)

type serveCommander struct {
	listen    string
	configDir string
	debug     bool
}

const serveLongDesc string = `Run the screener MCP server.

Exposes the search, screen, compare, and list_documents tools over the MCP
streamable HTTP transport so agent clients can use the indexed resumes.

Example:
  screener serve
  screener serve --listen :9090`

const serveShortDesc string = "Run the screener MCP server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":8082", "Address for the MCP server to listen on")

	return cmd
}

func (c *serveCommander) run() error {
	s, err := stack.Build(c.configDir, c.debug)
	if err != nil {
		return err
	}
	defer s.Close()

	server, err := mcp.NewServer(mcp.Config{
		Retriever: s.Retriever,
		Screener:  s.Screener,
		Store:     s.Store,
		Logger:    s.Logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.Logger.Info("starting MCP server",
		zap.String("listen", c.listen),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.Logger.Info("received signal, shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
