// Package mcp provides an MCP (Model Context Protocol) server exposing the
// screener's retrieval, screening, and comparison operations as tools.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/retriever"
	"github.com/AISHITA-10/ai-resume-screener/pkg/screening"
	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

// Version is the implementation version advertised to MCP clients.
const Version = "0.1.0"

type Config struct {
	// Retriever runs guarded queries for the search tool
	Retriever *retriever.Retriever

	// Screener runs the screen and compare tools
	Screener *screening.Screener

	// Store lists indexed documents for the list_documents tool
	Store vector.Store

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the screener tools.
func NewServer(c Config) (*Server, error) {
	if c.Retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if c.Screener == nil {
		return nil, errors.New("screener is required")
	}
	if c.Store == nil {
		return nil, errors.New("vector store is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{config: c}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "resume-screener",
			Version: Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        screenToolName,
		Description: screenDescription,
	}, s.handleScreen)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        compareToolName,
		Description: compareDescription,
	}, s.handleCompare)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listDocsToolName,
		Description: listDocsDescription,
	}, s.handleListDocs)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
