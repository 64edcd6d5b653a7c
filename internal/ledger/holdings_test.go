package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestAddOrMerge_NewHoldingInsertedAtFront(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if _, err := l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000}); err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}
	if _, err := l.AddOrMerge(ctx, BuyInput{Code: "9984", Stock: "SoftBank", Quantity: 5, Price: 8000}); err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}

	holdings, total, err := l.Holdings(ctx)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}
	if holdings[0].Code != "9984" {
		t.Errorf("expected most recent add first, got %s", holdings[0].Code)
	}
	if holdings[0].Date != "2025-07-14" {
		t.Errorf("expected today's date on new holding, got %s", holdings[0].Date)
	}
	if total != 60000 {
		t.Errorf("expected invested total 60000, got %d", total)
	}
}

func TestAddOrMerge_MergesByCode(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if _, err := l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000}); err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}
	h, err := l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 3000})
	if err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}

	if h.Quantity != 20 {
		t.Errorf("expected merged quantity 20, got %d", h.Quantity)
	}
	if h.Price != 2500 {
		t.Errorf("expected average price 2500, got %d", h.Price)
	}

	holdings, _, err := l.Holdings(ctx)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected a single holding per code, got %d", len(holdings))
	}
}

func TestAddOrMerge_QuantityAccumulatesAcrossCalls(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	buys := []BuyInput{
		{Code: "6758", Stock: "Sony", Quantity: 10, Price: 2000},
		{Code: "6758", Stock: "Sony", Quantity: 10, Price: 3000},
		{Code: "6758", Stock: "Sony", Quantity: 20, Price: 2600},
	}
	var totalQty, totalCost int64
	for _, b := range buys {
		if _, err := l.AddOrMerge(ctx, b); err != nil {
			t.Fatalf("AddOrMerge failed: %v", err)
		}
		totalQty += b.Quantity
		totalCost += b.Quantity * b.Price
	}

	holdings, _, err := l.Holdings(ctx)
	if err != nil {
		t.Fatalf("Holdings failed: %v", err)
	}
	if holdings[0].Quantity != totalQty {
		t.Errorf("expected quantity %d, got %d", totalQty, holdings[0].Quantity)
	}
	// 102000 / 40 = 2550 exactly
	if want := totalCost / totalQty; holdings[0].Price != want {
		t.Errorf("expected average price %d, got %d", want, holdings[0].Price)
	}
}

func TestAddOrMerge_RoundsTiesAwayFromZero(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if _, err := l.AddOrMerge(ctx, BuyInput{Code: "4063", Stock: "Shin-Etsu", Quantity: 1, Price: 100}); err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}
	h, err := l.AddOrMerge(ctx, BuyInput{Code: "4063", Stock: "Shin-Etsu", Quantity: 1, Price: 101})
	if err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}

	// (100 + 101) / 2 = 100.5 rounds up
	if h.Price != 101 {
		t.Errorf("expected 100.5 to round to 101, got %d", h.Price)
	}
}

func TestAddOrMerge_TargetPriceHandling(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if _, err := l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000, TargetPrice: int64ptr(2800)}); err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}

	// Merge without a target price keeps the existing one
	h, err := l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000})
	if err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}
	if h.TargetPrice == nil || *h.TargetPrice != 2800 {
		t.Errorf("expected target price 2800 retained, got %v", h.TargetPrice)
	}

	// Merge with a target price replaces it
	h, err = l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000, TargetPrice: int64ptr(3000)})
	if err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}
	if h.TargetPrice == nil || *h.TargetPrice != 3000 {
		t.Errorf("expected target price replaced with 3000, got %v", h.TargetPrice)
	}
}

func TestAddOrMerge_ValidationRejectsWithoutMutation(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()

	tests := []struct {
		name  string
		input BuyInput
	}{
		{"empty code", BuyInput{Stock: "Toyota", Quantity: 10, Price: 2000}},
		{"empty stock", BuyInput{Code: "7203", Quantity: 10, Price: 2000}},
		{"zero quantity", BuyInput{Code: "7203", Stock: "Toyota", Quantity: 0, Price: 2000}},
		{"negative quantity", BuyInput{Code: "7203", Stock: "Toyota", Quantity: -5, Price: 2000}},
		{"zero price", BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddOrMerge(ctx, tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(store.m) != 0 {
				t.Error("rejected input must not persist anything")
			}
		})
	}
}

func TestUpdateHolding_WholesaleOverwriteKeepsDate(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	if _, err := l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000, TargetPrice: int64ptr(2500)}); err != nil {
		t.Fatalf("AddOrMerge failed: %v", err)
	}

	err := l.UpdateHolding(ctx, 0, BuyInput{Code: "7203", Stock: "Toyota Motor", Quantity: 15, Price: 2100})
	if err != nil {
		t.Fatalf("UpdateHolding failed: %v", err)
	}

	holdings, _, _ := l.Holdings(ctx)
	h := holdings[0]
	if h.Stock != "Toyota Motor" || h.Quantity != 15 || h.Price != 2100 {
		t.Errorf("unexpected holding after update: %+v", h)
	}
	if h.TargetPrice != nil {
		t.Errorf("expected target price overwritten to nil, got %v", *h.TargetPrice)
	}
	if h.Date != "2025-07-14" {
		t.Errorf("expected first-add date retained, got %s", h.Date)
	}
}

func TestUpdateHolding_IndexOutOfRange(t *testing.T) {
	l, _ := newTestLedger()

	err := l.UpdateHolding(context.Background(), 3, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 1, Price: 1})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for bad index, got %v", err)
	}
}

func TestRemoveHolding(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	l.AddOrMerge(ctx, BuyInput{Code: "7203", Stock: "Toyota", Quantity: 10, Price: 2000})
	l.AddOrMerge(ctx, BuyInput{Code: "9984", Stock: "SoftBank", Quantity: 5, Price: 8000})

	if err := l.RemoveHolding(ctx, 0); err != nil {
		t.Fatalf("RemoveHolding failed: %v", err)
	}

	holdings, _, _ := l.Holdings(ctx)
	if len(holdings) != 1 || holdings[0].Code != "7203" {
		t.Errorf("unexpected holdings after remove: %+v", holdings)
	}
}

func TestHoldings_MalformedDocumentLoadsEmpty(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()

	store.Set(ctx, "trades", "{definitely not json")

	holdings, total, err := l.Holdings(ctx)
	if err != nil {
		t.Fatalf("Holdings should tolerate malformed documents: %v", err)
	}
	if len(holdings) != 0 || total != 0 {
		t.Errorf("expected empty ledger, got %d holdings", len(holdings))
	}
}
