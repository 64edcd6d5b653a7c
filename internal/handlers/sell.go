package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/ledger"
)

// SellHandler serves the sell page: the handoff context from the holdings
// page, the sale form and the week-grouped history.
type SellHandler struct {
	logger    *common.Logger
	ledger    *ledger.Ledger
	templates *template.Template
}

// NewSellHandler creates a new sell handler.
func NewSellHandler(logger *common.Logger, l *ledger.Ledger, templates *template.Template) *SellHandler {
	return &SellHandler{
		logger:    logger,
		ledger:    l,
		templates: templates,
	}
}

// Page renders the sell page. The position being sold arrives in the query
// string (code, stock, price, quantity); without a complete handoff the page
// still shows the history, just no sale form.
func (h *SellHandler) Page(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	sellCtx := sellContextFromQuery(r.URL.Query())
	ctxErr := sellCtx.Validate()

	weeks, err := h.ledger.SellWeeks(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to load sell history")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var totalProfit int64
	for _, wk := range weeks {
		totalProfit += wk.Profit
	}

	data := map[string]interface{}{
		"Page":        "sell",
		"Ctx":         sellCtx,
		"HasCtx":      ctxErr == nil,
		"Weeks":       weeks,
		"TotalProfit": totalProfit,
		"Error":       r.URL.Query().Get("error"),
		"Message":     r.URL.Query().Get("msg"),
	}

	if err := h.templates.ExecuteTemplate(w, "sell.html", data); err != nil {
		h.logger.Error().Str("template", "sell.html").Str("error", err.Error()).Msg("failed to render sell page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Record handles POST /sell. The handoff context rides along as hidden form
// fields; the confirmation checkbox set by the page's confirm dialog is
// enforced here, not just in the browser.
func (h *SellHandler) Record(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	sellCtx := sellContextFromForm(r)
	in := ledger.SaleInput{Memo: r.FormValue("memo")}
	in.SellPrice, _ = strconv.ParseInt(r.FormValue("sellPrice"), 10, 64)
	in.SellQuantity, _ = strconv.ParseInt(r.FormValue("sellQuantity"), 10, 64)

	recorder := h.ledger.NewSellRecorder(sellCtx, formConfirm(r))
	record, err := recorder.RecordSale(r.Context(), in)
	if err != nil {
		if errors.Is(err, ledger.ErrDeclined) {
			http.Redirect(w, r, sellPageURL(sellCtx, "", ""), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, sellPageURL(sellCtx, "", err.Error()), http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("sold %d shares of %s, profit %s",
		record.Quantity, record.Stock, common.FormatSignedYen(record.Profit))

	remaining := sellCtx
	remaining.HoldQuantity -= record.Quantity
	if remaining.HoldQuantity <= 0 {
		// Position fully closed, nothing left to hand off.
		http.Redirect(w, r, sellPageURL(ledger.SellContext{}, msg, ""), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, sellPageURL(remaining, msg, ""), http.StatusSeeOther)
}

// Edit handles POST /sell/edit.
func (h *SellHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	sellCtx := sellContextFromForm(r)
	index, err := parseIndexField(r)
	if err != nil {
		http.Redirect(w, r, sellPageURL(sellCtx, "", err.Error()), http.StatusSeeOther)
		return
	}

	edit := ledger.SellEdit{
		Date: r.FormValue("date"),
		Memo: r.FormValue("memo"),
	}
	edit.BuyPrice, _ = strconv.ParseInt(r.FormValue("buyPrice"), 10, 64)
	edit.SellPrice, _ = strconv.ParseInt(r.FormValue("sellPrice"), 10, 64)
	edit.Quantity, _ = strconv.ParseInt(r.FormValue("quantity"), 10, 64)

	if _, err := h.ledger.EditSellRecord(r.Context(), index, edit); err != nil {
		http.Redirect(w, r, sellPageURL(sellCtx, "", err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, sellPageURL(sellCtx, "record updated", ""), http.StatusSeeOther)
}

// Delete handles POST /sell/delete.
func (h *SellHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	sellCtx := sellContextFromForm(r)
	index, err := parseIndexField(r)
	if err != nil {
		http.Redirect(w, r, sellPageURL(sellCtx, "", err.Error()), http.StatusSeeOther)
		return
	}

	if err := h.ledger.DeleteSellRecord(r.Context(), index, formConfirm(r)); err != nil {
		if errors.Is(err, ledger.ErrDeclined) {
			http.Redirect(w, r, sellPageURL(sellCtx, "", ""), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, sellPageURL(sellCtx, "", err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, sellPageURL(sellCtx, "record deleted", ""), http.StatusSeeOther)
}

// sellContextFromQuery reads the holdings-page handoff from the query string.
func sellContextFromQuery(q url.Values) ledger.SellContext {
	sellCtx := ledger.SellContext{
		Code:  q.Get("code"),
		Stock: q.Get("stock"),
	}
	sellCtx.BuyPrice, _ = strconv.ParseInt(q.Get("price"), 10, 64)
	sellCtx.HoldQuantity, _ = strconv.ParseInt(q.Get("quantity"), 10, 64)
	return sellCtx
}

// sellContextFromForm reads the same handoff from hidden form fields so POST
// actions can send the browser back to the page it came from.
func sellContextFromForm(r *http.Request) ledger.SellContext {
	sellCtx := ledger.SellContext{
		Code:  r.FormValue("ctxCode"),
		Stock: r.FormValue("ctxStock"),
	}
	sellCtx.BuyPrice, _ = strconv.ParseInt(r.FormValue("ctxPrice"), 10, 64)
	sellCtx.HoldQuantity, _ = strconv.ParseInt(r.FormValue("ctxQuantity"), 10, 64)
	return sellCtx
}

// formConfirm turns the posted confirmation flag into a ConfirmFunc. An unset
// flag declines, so skipping the dialog client-side does not commit anything.
func formConfirm(r *http.Request) ledger.ConfirmFunc {
	if r.FormValue("confirmed") != "true" {
		return nil
	}
	return func(string) bool { return true }
}

// sellPageURL rebuilds the sell page URL for a handoff context plus optional
// result or error message.
func sellPageURL(sellCtx ledger.SellContext, msg, errMsg string) string {
	q := url.Values{}
	if sellCtx.Code != "" {
		q.Set("code", sellCtx.Code)
		q.Set("stock", sellCtx.Stock)
		q.Set("price", strconv.FormatInt(sellCtx.BuyPrice, 10))
		q.Set("quantity", strconv.FormatInt(sellCtx.HoldQuantity, 10))
	}
	if msg != "" {
		q.Set("msg", msg)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if len(q) == 0 {
		return "/sell"
	}
	return "/sell?" + q.Encode()
}
