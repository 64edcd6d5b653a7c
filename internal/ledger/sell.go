package ledger

import (
	"context"
	"fmt"

	"github.com/kabureco/kabureco/internal/models"
	"github.com/shopspring/decimal"
)

// SellContext is the immutable handoff from the holdings page: the position
// being sold, as it was when the user clicked through. It is not re-read from
// the ledger mid-flow.
type SellContext struct {
	Code         string
	Stock        string
	BuyPrice     int64
	HoldQuantity int64
}

// Validate reports a ContextMissingError when the handoff is incomplete.
func (c SellContext) Validate() error {
	switch {
	case c.Code == "":
		return &ContextMissingError{Reason: "code is missing"}
	case c.Stock == "":
		return &ContextMissingError{Reason: "stock name is missing"}
	case c.BuyPrice <= 0:
		return &ContextMissingError{Reason: "buy price must be positive"}
	case c.HoldQuantity <= 0:
		return &ContextMissingError{Reason: "held quantity must be positive"}
	}
	return nil
}

// ConfirmFunc answers a yes/no confirmation prompt. Returning false aborts
// the operation before any write.
type ConfirmFunc func(summary string) bool

// SaleInput carries the fields of the sale form.
type SaleInput struct {
	SellPrice    int64
	SellQuantity int64
	Memo         string
}

// SellRecorder records disposals against one held position.
type SellRecorder struct {
	ledger  *Ledger
	ctx     SellContext
	confirm ConfirmFunc
}

// NewSellRecorder creates a recorder for the given handoff context. A nil
// confirm function declines every sale.
func (l *Ledger) NewSellRecorder(sellCtx SellContext, confirm ConfirmFunc) *SellRecorder {
	return &SellRecorder{ledger: l, ctx: sellCtx, confirm: confirm}
}

// Context returns the handoff context the recorder was built with.
func (r *SellRecorder) Context() SellContext {
	return r.ctx
}

// profitRate computes profit / (buyPrice x quantity) x 100 as a percentage.
func profitRate(profit, buyPrice, quantity int64) float64 {
	denom := buyPrice * quantity
	if denom == 0 {
		return 0
	}
	rate, _ := decimal.NewFromInt(profit).
		Div(decimal.NewFromInt(denom)).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return rate
}

// RecordSale validates the sale, asks for confirmation, appends a sell record
// dated today (history kept date-descending), reduces the matching holding —
// removing it entirely when nothing is left — and returns the new record.
// Either everything is persisted or nothing is.
func (r *SellRecorder) RecordSale(ctx context.Context, in SaleInput) (models.SellRecord, error) {
	if in.SellPrice <= 0 {
		return models.SellRecord{}, validationErr("sellPrice", "must be positive")
	}
	if in.SellQuantity <= 0 {
		return models.SellRecord{}, validationErr("sellQuantity", "must be positive")
	}
	if err := r.ctx.Validate(); err != nil {
		return models.SellRecord{}, err
	}
	if in.SellQuantity > r.ctx.HoldQuantity {
		return models.SellRecord{}, validationErr("sellQuantity", "exceeds held quantity")
	}

	summary := fmt.Sprintf("sell %d shares of %s/%s at %d",
		in.SellQuantity, r.ctx.Code, r.ctx.Stock, in.SellPrice)
	if r.confirm == nil || !r.confirm(summary) {
		return models.SellRecord{}, ErrDeclined
	}

	profit := (in.SellPrice - r.ctx.BuyPrice) * in.SellQuantity
	rate := profitRate(profit, r.ctx.BuyPrice, in.SellQuantity)

	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	sells, err := l.loadSells(ctx)
	if err != nil {
		return models.SellRecord{}, err
	}

	record := models.SellRecord{
		Date:       l.today(),
		Code:       r.ctx.Code,
		Stock:      r.ctx.Stock,
		BuyPrice:   r.ctx.BuyPrice,
		SellPrice:  in.SellPrice,
		Quantity:   in.SellQuantity,
		Profit:     profit,
		ProfitRate: &rate,
		Memo:       in.Memo,
	}

	sortByDateDesc(sells)
	sells = append([]models.SellRecord{record}, sells...)
	if err := l.saveSells(ctx, sells); err != nil {
		return models.SellRecord{}, err
	}

	// Reduce the held position; drop it once nothing is left.
	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return models.SellRecord{}, err
	}
	remaining := holdings[:0]
	for _, h := range holdings {
		if h.Code == r.ctx.Code {
			h.Quantity -= in.SellQuantity
		}
		if h.Quantity > 0 {
			remaining = append(remaining, h)
		}
	}
	if err := l.saveHoldings(ctx, remaining); err != nil {
		return models.SellRecord{}, err
	}

	l.logger.Info().
		Str("code", r.ctx.Code).
		Int64("quantity", in.SellQuantity).
		Int64("profit", profit).
		Msg("sale recorded")

	return record, nil
}

// SellEdit carries the fields of a sell record edit, in the order the user is
// prompted for them.
type SellEdit struct {
	Date      string
	BuyPrice  int64
	SellPrice int64
	Quantity  int64
	Memo      string
}

// EditSellRecord replaces the record at index with the edited values. Fields
// are checked in prompt order and the first failure aborts the whole edit —
// values accepted before the failure are discarded, never partially saved.
//
// Profit is recomputed from the new prices and quantity. The profit-rate
// denominator keeps the record's pre-edit buy price: the original edit flow
// never re-reads it, and stored history follows that behavior.
func (l *Ledger) EditSellRecord(ctx context.Context, index int, edit SellEdit) (models.SellRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sells, err := l.loadSells(ctx)
	if err != nil {
		return models.SellRecord{}, err
	}
	if index < 0 || index >= len(sells) {
		return models.SellRecord{}, validationErr("index", "out of range")
	}

	if edit.Date == "" {
		return models.SellRecord{}, validationErr("date", "must not be empty")
	}
	if len(edit.Date) > 10 {
		edit.Date = edit.Date[:10]
	}
	if edit.BuyPrice <= 0 {
		return models.SellRecord{}, validationErr("buyPrice", "must be positive")
	}
	if edit.SellPrice <= 0 {
		return models.SellRecord{}, validationErr("sellPrice", "must be positive")
	}
	if edit.Quantity <= 0 {
		return models.SellRecord{}, validationErr("quantity", "must be positive")
	}

	original := sells[index]
	profit := (edit.SellPrice - edit.BuyPrice) * edit.Quantity
	rate := profitRate(profit, original.BuyPrice, edit.Quantity)

	updated := original
	updated.Date = edit.Date
	updated.BuyPrice = edit.BuyPrice
	updated.SellPrice = edit.SellPrice
	updated.Quantity = edit.Quantity
	updated.Profit = profit
	updated.ProfitRate = &rate
	updated.Memo = edit.Memo
	sells[index] = updated

	sortByDateDesc(sells)
	if err := l.saveSells(ctx, sells); err != nil {
		return models.SellRecord{}, err
	}
	return updated, nil
}

// DeleteSellRecord removes the record at index after confirmation.
func (l *Ledger) DeleteSellRecord(ctx context.Context, index int, confirm ConfirmFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sells, err := l.loadSells(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(sells) {
		return validationErr("index", "out of range")
	}

	summary := fmt.Sprintf("delete sell record %s %s/%s", sells[index].Date, sells[index].Code, sells[index].Stock)
	if confirm == nil || !confirm(summary) {
		return ErrDeclined
	}

	sells = append(sells[:index], sells[index+1:]...)
	sortByDateDesc(sells)

	return l.saveSells(ctx, sells)
}

// SellHistory returns the sell records in stored order (date-descending after
// any mutation).
func (l *Ledger) SellHistory(ctx context.Context) ([]models.SellRecord, error) {
	return l.loadSells(ctx)
}
