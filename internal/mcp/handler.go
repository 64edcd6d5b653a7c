package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/ledger"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a new MCP handler exposing the ledger as tools.
func NewHandler(l *ledger.Ledger, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"kabureco",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := registerTools(mcpSrv, l)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
