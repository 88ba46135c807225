package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"player-auction/internal/runtime"
)

// Server exposes auction reads and team actions as MCP tools so that agent
// clients can follow and take part in an auction.
type Server struct {
	coord *runtime.Coordinator

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(coord *runtime.Coordinator) *Server {
	mcpSrv := server.NewMCPServer(
		"player-auction",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		coord:      coord,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerPublicTools()
	s.registerTeamTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"auction://{auction_id}/state",
			"auction_state",
			mcp.WithTemplateDescription("Current state of an auction by id"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := string(request.Params.URI)
			if !strings.HasPrefix(raw, "auction://") || !strings.HasSuffix(raw, "/state") {
				return nil, nil
			}
			id := strings.TrimSuffix(strings.TrimPrefix(raw, "auction://"), "/state")
			if id == "" {
				return nil, nil
			}
			state, err := s.coord.State(id)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(state)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      raw,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}
