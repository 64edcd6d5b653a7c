package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/holdings/add", s.app.HoldingsHandler.Add)
	mux.HandleFunc("/holdings/update", s.app.HoldingsHandler.Update)
	mux.HandleFunc("/holdings/delete", s.app.HoldingsHandler.Delete)
	mux.HandleFunc("/sell", s.handleSell)
	mux.HandleFunc("/sell/edit", s.app.SellHandler.Edit)
	mux.HandleFunc("/sell/delete", s.app.SellHandler.Delete)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/holdings", s.app.APIHandler.Holdings)
	mux.HandleFunc("/api/sells", s.app.APIHandler.Sells)
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleRoot serves the holdings page, but only at exactly "/".
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.app.HoldingsHandler.Page(w, r)
}

// handleSell dispatches /sell by method: GET renders the page, POST records a
// sale.
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.app.SellHandler.Record(w, r)
		return
	}
	s.app.SellHandler.Page(w, r)
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
