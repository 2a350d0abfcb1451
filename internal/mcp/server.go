// ABOUTME: MCP server setup for the fitlog workout and nutrition store.
// ABOUTME: Wraps the MCP server around the shared storage services and analyzer.
package mcp

import (
	"context"

	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	svc       *storage.Services
	analyzer  *analysis.Analyzer
}

// NewServer creates a new MCP server over svc. analyzer may be nil, in which
// case the analyze_meal tool reports that analysis is unavailable.
func NewServer(svc *storage.Services, analyzer *analysis.Analyzer, version string) (*Server, error) {
	if version == "" {
		version = "dev"
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitlog",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		analyzer:  analyzer,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
