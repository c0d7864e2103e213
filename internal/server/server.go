// Package server exposes the SchaleDB query engine as a set of MCP tools
// over a pluggable transport (stdio in production).
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/schale-tools/schale-mcp/internal/observe"
	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

// Server wires the SchaleDB client to an MCP server instance.
type Server struct {
	mcp     *mcp.Server
	client  *schaledb.Client
	metrics *observe.Metrics
}

// New creates a Server with all tools registered. metrics may be nil.
func New(client *schaledb.Client, metrics *observe.Metrics, version string) *Server {
	s := &Server{
		client:  client,
		metrics: metrics,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "schale-mcp",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP requests on the transport until ctx is cancelled or the
// transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// tool registers one instrumented tool handler: every call gets a span, a
// duration metric, and uniform error rendering. Handler errors become
// IsError tool results rather than protocol failures, so clients see the
// message instead of a dropped call.
func tool[In any](s *Server, name, description string, h func(ctx context.Context, in In) (any, error)) {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		ctx, span := observe.StartSpan(ctx, "tool/"+name)
		defer span.End()

		start := time.Now()
		payload, err := h(ctx, in)
		s.metrics.RecordToolCall(ctx, name, time.Since(start).Seconds(), err != nil)

		if err != nil {
			observe.Logger(ctx).Error("tool call failed", "tool", name, "error", err)
			span.RecordError(err)
			return toolError(err), nil, nil
		}
		return toolJSON(payload)
	})
}

// toolJSON renders payload as an indented JSON text block.
func toolJSON(payload any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// toolError renders a domain failure as an error-flagged tool result.
func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
