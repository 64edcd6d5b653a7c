package ledger

import (
	"context"

	"github.com/kabureco/kabureco/internal/models"
	"github.com/shopspring/decimal"
)

// BuyInput carries the fields of a buy entry form.
type BuyInput struct {
	Code        string
	Stock       string
	Quantity    int64
	Price       int64
	TargetPrice *int64
}

func (in BuyInput) validate() error {
	if in.Code == "" {
		return validationErr("code", "must not be empty")
	}
	if in.Stock == "" {
		return validationErr("stock", "must not be empty")
	}
	if in.Quantity <= 0 {
		return validationErr("quantity", "must be positive")
	}
	if in.Price <= 0 {
		return validationErr("price", "must be positive")
	}
	return nil
}

// averagePrice merges two cost bases into a volume-weighted average price,
// rounded to the nearest integer with ties away from zero.
func averagePrice(oldQty, oldPrice, addQty, addPrice int64) int64 {
	oldCost := decimal.NewFromInt(oldQty).Mul(decimal.NewFromInt(oldPrice))
	addCost := decimal.NewFromInt(addQty).Mul(decimal.NewFromInt(addPrice))
	totalQty := decimal.NewFromInt(oldQty + addQty)
	return oldCost.Add(addCost).Div(totalQty).Round(0).IntPart()
}

// AddOrMerge records a buy. A holding with the same code absorbs the purchase
// (quantities summed, average price recomputed, target price replaced only
// when supplied); otherwise a new holding is inserted at the front, dated
// today. The whole list is re-persisted.
func (l *Ledger) AddOrMerge(ctx context.Context, in BuyInput) (models.Holding, error) {
	if err := in.validate(); err != nil {
		return models.Holding{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return models.Holding{}, err
	}

	merged := -1
	for i, h := range holdings {
		if h.Code == in.Code {
			merged = i
			break
		}
	}

	var result models.Holding
	if merged >= 0 {
		existing := holdings[merged]
		existing.Price = averagePrice(existing.Quantity, existing.Price, in.Quantity, in.Price)
		existing.Quantity += in.Quantity
		if in.TargetPrice != nil {
			existing.TargetPrice = in.TargetPrice
		}
		holdings[merged] = existing
		result = existing
	} else {
		result = models.Holding{
			Date:        l.today(),
			Code:        in.Code,
			Stock:       in.Stock,
			Quantity:    in.Quantity,
			Price:       in.Price,
			TargetPrice: in.TargetPrice,
		}
		holdings = append([]models.Holding{result}, holdings...)
	}

	if err := l.saveHoldings(ctx, holdings); err != nil {
		return models.Holding{}, err
	}

	l.logger.Info().
		Str("code", in.Code).
		Int64("quantity", in.Quantity).
		Int64("price", in.Price).
		Msg("buy recorded")

	return result, nil
}

// Holdings returns the open positions in stored order (most recent add first)
// together with the invested total.
func (l *Ledger) Holdings(ctx context.Context) ([]models.Holding, int64, error) {
	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return nil, 0, err
	}
	return holdings, models.TotalInvested(holdings), nil
}

// UpdateHolding overwrites the holding at index with the given fields. No
// partial merge: code, stock, quantity, price and target price are all
// replaced; the first-add date is retained.
func (l *Ledger) UpdateHolding(ctx context.Context, index int, in BuyInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(holdings) {
		return validationErr("index", "out of range")
	}

	holdings[index] = models.Holding{
		Date:        holdings[index].Date,
		Code:        in.Code,
		Stock:       in.Stock,
		Quantity:    in.Quantity,
		Price:       in.Price,
		TargetPrice: in.TargetPrice,
	}

	return l.saveHoldings(ctx, holdings)
}

// RemoveHolding deletes the holding at index.
func (l *Ledger) RemoveHolding(ctx context.Context, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	holdings, err := l.loadHoldings(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(holdings) {
		return validationErr("index", "out of range")
	}

	holdings = append(holdings[:index], holdings[index+1:]...)

	return l.saveHoldings(ctx, holdings)
}
