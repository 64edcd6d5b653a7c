package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/interfaces"
	"github.com/kabureco/kabureco/internal/ledger"
)

type memStore struct {
	m map[string]string
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.m, key)
	return nil
}

func (s *memStore) GetAll(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func newTestLedger() *ledger.Ledger {
	l := ledger.New(newMemStore(), common.NewSilentLogger())
	l.SetClock(func() time.Time {
		return time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	})
	return l
}

func callWith(args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	return result.Content[0].(mcpgo.TextContent).Text
}

func TestListHoldings_Empty(t *testing.T) {
	handler := handleListHoldings(newTestLedger())

	result, err := handler(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if textOf(t, result) != "No holdings." {
		t.Errorf("unexpected text: %s", textOf(t, result))
	}
}

func TestRecordBuyThenListHoldings(t *testing.T) {
	l := newTestLedger()

	result, err := handleRecordBuy(l)(t.Context(), callWith(map[string]any{
		"code":     "7203",
		"stock":    "Toyota",
		"quantity": 10,
		"price":    2000,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	result, err = handleListHoldings(l)(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := textOf(t, result)
	if !strings.Contains(text, "7203") || !strings.Contains(text, "10 shares") {
		t.Errorf("unexpected holdings text: %s", text)
	}
}

func TestRecordBuy_InvalidInputIsToolError(t *testing.T) {
	result, err := handleRecordBuy(newTestLedger())(t.Context(), callWith(map[string]any{
		"code":     "7203",
		"stock":    "Toyota",
		"quantity": 0,
		"price":    2000,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for invalid quantity")
	}
}

func TestRecordSale_RequiresConfirm(t *testing.T) {
	l := newTestLedger()
	if _, err := l.AddOrMerge(t.Context(), ledger.BuyInput{Code: "7203", Stock: "Toyota", Quantity: 20, Price: 2500}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	result, err := handleRecordSale(l)(t.Context(), callWith(map[string]any{
		"code":          "7203",
		"sell_price":    3000,
		"sell_quantity": 5,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error without confirm")
	}

	sells, _ := l.SellHistory(t.Context())
	if len(sells) != 0 {
		t.Errorf("unconfirmed sale must not persist, got %+v", sells)
	}
}

func TestRecordSale_Confirmed(t *testing.T) {
	l := newTestLedger()
	if _, err := l.AddOrMerge(t.Context(), ledger.BuyInput{Code: "7203", Stock: "Toyota", Quantity: 20, Price: 2500}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	result, err := handleRecordSale(l)(t.Context(), callWith(map[string]any{
		"code":          "7203",
		"sell_price":    3000,
		"sell_quantity": 5,
		"confirm":       true,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if !strings.Contains(textOf(t, result), "profit") {
		t.Errorf("expected profit in result, got %s", textOf(t, result))
	}

	holdings, _, _ := l.Holdings(t.Context())
	if len(holdings) != 1 || holdings[0].Quantity != 15 {
		t.Errorf("expected position reduced to 15, got %+v", holdings)
	}
}

func TestRecordSale_UnknownCode(t *testing.T) {
	result, err := handleRecordSale(newTestLedger())(t.Context(), callWith(map[string]any{
		"code":          "0000",
		"sell_price":    3000,
		"sell_quantity": 5,
		"confirm":       true,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown code")
	}
}

func TestWeeklyProfit(t *testing.T) {
	l := newTestLedger()
	if _, err := l.AddOrMerge(t.Context(), ledger.BuyInput{Code: "7203", Stock: "Toyota", Quantity: 20, Price: 2500}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := handleRecordSale(l)(t.Context(), callWith(map[string]any{
		"code": "7203", "sell_price": 3000, "sell_quantity": 5, "confirm": true,
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := handleWeeklyProfit(l)(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := textOf(t, result)
	if !strings.Contains(text, "2025-W29") {
		t.Errorf("expected ISO week key in result, got %s", text)
	}
}
