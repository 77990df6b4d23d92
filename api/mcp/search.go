package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/vector"
)

var (
	searchToolName    = "search"
	searchDescription = "Search the indexed resumes for evidence relevant to a query. Returns cited chunk excerpts with relevance scores, or a refusal when retrieval confidence is too low."

	listDocsToolName    = "list_documents"
	listDocsDescription = "List the indexed resume documents with their IDs, names, versions, and chunk counts."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or requirement to find evidence for"`
	DocID string `json:"doc_id,omitempty" jsonschema:"restrict the search to a single document ID"`
}

// SearchResult represents a single cited evidence chunk.
type SearchResult struct {
	ChunkID string  `json:"chunk_id"`
	DocID   string  `json:"doc_id"`
	DocName string  `json:"doc_name"`
	Section string  `json:"section"`
	Score   float32 `json:"score"`
	Text    string  `json:"text"`
}

// SearchOutput represents the output of the search tool. Exactly one of
// Results or Refusal is populated.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results,omitempty"`
	Count   int            `json:"count"`
	Refusal string         `json:"refusal,omitempty"`
}

// handleSearch processes a search request through the guarded retriever.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP search request",
		zap.String("query", input.Query),
		zap.String("doc_id", input.DocID),
	)

	ret, err := s.config.Retriever.Query(ctx, input.Query, vector.Filter{DocID: input.DocID})
	if err != nil {
		logger.Error("failed to run query", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to run query: %v", err)), SearchOutput{}, nil
	}

	output := SearchOutput{Query: input.Query}
	if ret.Refused() {
		output.Refusal = ret.Refusal.Reason
	} else {
		output.Results = make([]SearchResult, 0, len(ret.Evidence))
		for _, c := range ret.Evidence {
			output.Results = append(output.Results, SearchResult{
				ChunkID: c.ChunkID,
				DocID:   c.DocID,
				DocName: c.DocName,
				Section: c.Section,
				Score:   c.Score,
				Text:    c.Text,
			})
		}
		output.Count = len(output.Results)
	}

	return jsonResult(logger, output), output, nil
}

// ListDocsInput represents the (empty) input for the list_documents tool.
type ListDocsInput struct{}

// DocumentInfo represents one indexed document.
type DocumentInfo struct {
	DocID      string `json:"doc_id"`
	DocName    string `json:"doc_name"`
	SourceType string `json:"source_type"`
	Version    int    `json:"version"`
	Chunks     int    `json:"chunks"`
	IndexedAt  string `json:"indexed_at"`
}

// ListDocsOutput represents the output of the list_documents tool.
type ListDocsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// handleListDocs lists the indexed documents.
func (s *Server) handleListDocs(ctx context.Context, req *mcp.CallToolRequest, input ListDocsInput) (*mcp.CallToolResult, ListDocsOutput, error) {
	logger := s.config.Logger

	docs, err := s.config.Store.Docs(ctx)
	if err != nil {
		logger.Error("failed to list documents", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to list documents: %v", err)), ListDocsOutput{}, nil
	}

	output := ListDocsOutput{Documents: make([]DocumentInfo, 0, len(docs))}
	for _, d := range docs {
		output.Documents = append(output.Documents, DocumentInfo{
			DocID:      d.DocID,
			DocName:    d.DocName,
			SourceType: d.SourceType,
			Version:    d.Version,
			Chunks:     d.Chunks,
			IndexedAt:  d.IndexedAt.Format(time.RFC3339),
		})
	}
	output.Count = len(output.Documents)

	return jsonResult(logger, output), output, nil
}

// toolError wraps a message in an error tool result.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

// jsonResult serializes the structured output as JSON for the text field.
// Per MCP spec: tools returning structured content should also return
// serialized JSON in a TextContent block for backwards compatibility.
func jsonResult(logger *zap.Logger, output any) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal tool output", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to serialize results: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}
}
