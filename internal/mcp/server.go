// ABOUTME: MCP server exposing the document store to AI agents.
// ABOUTME: Provides tools, resources, and prompts for documents and folders.

package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	server *mcp.Server
	db     *docdb.DB
	logger *log.Logger
}

func NewServer(db *docdb.DB, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{db: db, logger: logger.WithPrefix("mcp")}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "mdesk",
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
