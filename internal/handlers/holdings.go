package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/config"
	"github.com/kabureco/kabureco/internal/ledger"
)

// HoldingsHandler serves the holdings page and its form actions.
type HoldingsHandler struct {
	logger    *common.Logger
	ledger    *ledger.Ledger
	templates *template.Template
}

// NewHoldingsHandler creates a new holdings handler.
func NewHoldingsHandler(logger *common.Logger, l *ledger.Ledger, templates *template.Template) *HoldingsHandler {
	return &HoldingsHandler{
		logger:    logger,
		ledger:    l,
		templates: templates,
	}
}

// Page renders the holdings page: the buy form, the open positions and the
// invested total.
func (h *HoldingsHandler) Page(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	holdings, total, err := h.ledger.Holdings(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to load holdings")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Page":     "holdings",
		"Holdings": holdings,
		"Total":    total,
		"Error":    r.URL.Query().Get("error"),
		"Message":  r.URL.Query().Get("msg"),
		"Version":  config.GetVersion(),
	}

	if err := h.templates.ExecuteTemplate(w, "holdings.html", data); err != nil {
		h.logger.Error().Str("template", "holdings.html").Str("error", err.Error()).Msg("failed to render holdings page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Add handles POST /holdings/add.
func (h *HoldingsHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	in, err := parseBuyForm(r)
	if err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	if _, err := h.ledger.AddOrMerge(r.Context(), in); err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Update handles POST /holdings/update.
func (h *HoldingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	index, err := parseIndexField(r)
	if err != nil {
		redirectWithError(w, r, "/", err)
		return
	}
	in, err := parseBuyForm(r)
	if err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	if err := h.ledger.UpdateHolding(r.Context(), index, in); err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles POST /holdings/delete.
func (h *HoldingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	index, err := parseIndexField(r)
	if err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	if err := h.ledger.RemoveHolding(r.Context(), index); err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseBuyForm reads the shared buy-entry fields. Blank numeric fields parse
// as zero and fail ledger validation with a field-specific message.
func parseBuyForm(r *http.Request) (ledger.BuyInput, error) {
	in := ledger.BuyInput{
		Code:  r.FormValue("code"),
		Stock: r.FormValue("stock"),
	}
	in.Quantity, _ = strconv.ParseInt(r.FormValue("quantity"), 10, 64)
	in.Price, _ = strconv.ParseInt(r.FormValue("price"), 10, 64)

	if raw := r.FormValue("targetPrice"); raw != "" {
		target, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, err
		}
		in.TargetPrice = &target
	}
	return in, nil
}

// parseIndexField reads the row index posted by edit/delete forms.
func parseIndexField(r *http.Request) (int, error) {
	return strconv.Atoi(r.FormValue("index"))
}

// redirectWithError sends the browser back to the page with the failure in the
// query string, following POST-redirect-GET.
func redirectWithError(w http.ResponseWriter, r *http.Request, path string, err error) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}
