package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/screening"
)

var (
	screenToolName    = "screen"
	screenDescription = "Screen one or more indexed resumes against a job description. Returns a per-candidate fit grade, confidence, and cited evidence. Candidates without sufficient evidence are reported as Unclear, never guessed."

	compareToolName    = "compare"
	compareDescription = "Compare two or more indexed resumes against the same job description. Evidence is retrieved independently per resume so candidates are never graded on each other's text."
)

// ScreenInput represents the input arguments for the screen tool.
type ScreenInput struct {
	JobDescription string   `json:"job_description" jsonschema:"the job description or requirements to screen against"`
	DocIDs         []string `json:"doc_ids,omitempty" jsonschema:"document IDs to screen; all indexed documents when omitted"`
}

// ScreenOutput represents the output of the screen tool.
type ScreenOutput struct {
	JobQuery   string                      `json:"job_query"`
	Candidates []screening.CandidateResult `json:"candidates"`
}

// handleScreen screens each candidate document against the job description.
func (s *Server) handleScreen(ctx context.Context, req *mcp.CallToolRequest, input ScreenInput) (*mcp.CallToolResult, ScreenOutput, error) {
	logger := s.config.Logger

	docIDs := input.DocIDs
	if len(docIDs) == 0 {
		docs, err := s.config.Store.Docs(ctx)
		if err != nil {
			logger.Error("failed to list documents", zap.Error(err))
			return toolError(fmt.Sprintf("Failed to list documents: %v", err)), ScreenOutput{}, nil
		}
		for _, d := range docs {
			docIDs = append(docIDs, d.DocID)
		}
	}
	if len(docIDs) == 0 {
		return toolError("No documents indexed. Index resumes before screening."), ScreenOutput{}, nil
	}

	logger.Debug("MCP screen request",
		zap.Int("candidates", len(docIDs)),
	)

	report, err := s.config.Screener.Screen(ctx, input.JobDescription, docIDs)
	if err != nil {
		logger.Error("failed to screen candidates", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to screen candidates: %v", err)), ScreenOutput{}, nil
	}

	output := ScreenOutput{
		JobQuery:   report.JobQuery,
		Candidates: report.Candidates,
	}
	return jsonResult(logger, output), output, nil
}

// CompareInput represents the input arguments for the compare tool.
type CompareInput struct {
	Query  string   `json:"query" jsonschema:"the job description or requirements to compare against"`
	DocIDs []string `json:"doc_ids" jsonschema:"document IDs of the candidates to compare (at least two)"`
}

// CompareOutput represents the output of the compare tool.
type CompareOutput struct {
	Query      string                        `json:"query"`
	Candidates []screening.CandidateEvidence `json:"candidates"`
	Summary    string                        `json:"summary,omitempty"`
}

// handleCompare runs a per-document comparison.
func (s *Server) handleCompare(ctx context.Context, req *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, CompareOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP compare request",
		zap.String("query", input.Query),
		zap.Int("candidates", len(input.DocIDs)),
	)

	report, err := s.config.Screener.Compare(ctx, input.Query, input.DocIDs)
	if err != nil {
		logger.Error("failed to compare candidates", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to compare candidates: %v", err)), CompareOutput{}, nil
	}

	output := CompareOutput{
		Query:      report.Query,
		Candidates: report.Candidates,
		Summary:    report.Summary,
	}
	return jsonResult(logger, output), output, nil
}
