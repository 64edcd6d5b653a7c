package handlers

import (
	"net/http"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/ledger"
)

// APIHandler exposes the ledger as read-only JSON.
type APIHandler struct {
	logger *common.Logger
	ledger *ledger.Ledger
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(logger *common.Logger, l *ledger.Ledger) *APIHandler {
	return &APIHandler{logger: logger, ledger: l}
}

// Holdings handles GET /api/holdings.
func (h *APIHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	holdings, total, err := h.ledger.Holdings(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to load holdings")
		WriteError(w, http.StatusInternalServerError, "failed to load holdings")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"total":    total,
	})
}

// Sells handles GET /api/sells.
func (h *APIHandler) Sells(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	records, err := h.ledger.SellHistory(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to load sell history")
		WriteError(w, http.StatusInternalServerError, "failed to load sell history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"weeks":   ledger.GroupByWeek(records),
	})
}
