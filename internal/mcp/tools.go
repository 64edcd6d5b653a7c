package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/config"
	"github.com/kabureco/kabureco/internal/ledger"
)

// registerTools registers all MCP tools on the server, wiring each to the
// ledger. Returns the number of registered tools.
func registerTools(s *server.MCPServer, l *ledger.Ledger) int {
	tools := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{createGetVersionTool(), handleGetVersion()},
		{createListHoldingsTool(), handleListHoldings(l)},
		{createRecordBuyTool(), handleRecordBuy(l)},
		{createListSalesTool(), handleListSales(l)},
		{createWeeklyProfitTool(), handleWeeklyProfit(l)},
		{createRecordSaleTool(), handleRecordSale(l)},
	}
	for _, t := range tools {
		s.AddTool(t.tool, t.handler)
	}
	return len(tools)
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// --- Tool definitions ---

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the kabureco server version. Use this to verify connectivity."),
	)
}

func createListHoldingsTool() mcp.Tool {
	return mcp.NewTool("list_holdings",
		mcp.WithDescription("List the open stock positions with quantity, average buy price, optional target price and the invested total."),
	)
}

func createRecordBuyTool() mcp.Tool {
	return mcp.NewTool("record_buy",
		mcp.WithDescription("Record a stock purchase. An existing position with the same code absorbs the buy: quantities are summed and the average price is recomputed."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Security code (e.g. '7203')")),
		mcp.WithString("stock", mcp.Required(), mcp.Description("Stock name")),
		mcp.WithNumber("quantity", mcp.Required(), mcp.Description("Number of shares bought")),
		mcp.WithNumber("price", mcp.Required(), mcp.Description("Buy price per share in yen")),
		mcp.WithNumber("target_price", mcp.Description("Optional target price in yen")),
	)
}

func createListSalesTool() mcp.Tool {
	return mcp.NewTool("list_sales",
		mcp.WithDescription("List the sell history, most recent first, with profit and profit rate per record."),
	)
}

func createWeeklyProfitTool() mcp.Tool {
	return mcp.NewTool("weekly_profit",
		mcp.WithDescription("Show realized profit grouped by ISO week, newest week first, with a subtotal per week."),
	)
}

func createRecordSaleTool() mcp.Tool {
	return mcp.NewTool("record_sale",
		mcp.WithDescription("Record a sale against a held position. Reduces the position (removing it when fully sold) and appends to the sell history. Requires confirm=true; without it nothing is written."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Security code of the held position")),
		mcp.WithNumber("sell_price", mcp.Required(), mcp.Description("Sell price per share in yen")),
		mcp.WithNumber("sell_quantity", mcp.Required(), mcp.Description("Number of shares to sell")),
		mcp.WithString("memo", mcp.Description("Optional memo stored on the record")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to commit the sale")),
	)
}

// --- Handlers ---

func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(fmt.Sprintf("kabureco\nVersion: %s\nBuild: %s\nStatus: OK",
			config.GetVersion(), config.GetBuild())), nil
	}
}

func handleListHoldings(l *ledger.Ledger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		holdings, total, err := l.Holdings(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if len(holdings) == 0 {
			return textResult("No holdings."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Holdings (%d):\n", len(holdings))
		for _, h := range holdings {
			fmt.Fprintf(&b, "- %s %s: %d shares @ %s", h.Code, h.Stock, h.Quantity, common.FormatYen(h.Price))
			if h.TargetPrice != nil {
				fmt.Fprintf(&b, " (target %s)", common.FormatYen(*h.TargetPrice))
			}
			fmt.Fprintf(&b, ", bought %s\n", h.Date)
		}
		fmt.Fprintf(&b, "Invested total: %s", common.FormatYen(total))
		return textResult(b.String()), nil
	}
}

func handleRecordBuy(l *ledger.Ledger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		stock, err := request.RequireString("stock")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		in := ledger.BuyInput{
			Code:     code,
			Stock:    stock,
			Quantity: int64(request.GetInt("quantity", 0)),
			Price:    int64(request.GetInt("price", 0)),
		}
		if target := request.GetInt("target_price", 0); target > 0 {
			t := int64(target)
			in.TargetPrice = &t
		}

		h, err := l.AddOrMerge(ctx, in)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Recorded buy: %s %s now %d shares @ %s average.",
			h.Code, h.Stock, h.Quantity, common.FormatYen(h.Price))), nil
	}
}

func handleListSales(l *ledger.Ledger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, err := l.SellHistory(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if len(records) == 0 {
			return textResult("No sales recorded."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Sales (%d):\n", len(records))
		for _, r := range records {
			fmt.Fprintf(&b, "- %s %s %s: %d shares, buy %s, sell %s, profit %s (%s)",
				r.Date, r.Code, r.Stock, r.Quantity,
				common.FormatYen(r.BuyPrice), common.FormatYen(r.SellPrice),
				common.FormatSignedYen(r.Profit), common.FormatSignedPct(r.EffectiveProfitRate()))
			if r.Memo != "" {
				fmt.Fprintf(&b, " [%s]", r.Memo)
			}
			b.WriteString("\n")
		}
		return textResult(strings.TrimRight(b.String(), "\n")), nil
	}
}

func handleWeeklyProfit(l *ledger.Ledger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		weeks, err := l.SellWeeks(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if len(weeks) == 0 {
			return textResult("No sales recorded."), nil
		}

		var b strings.Builder
		var total int64
		for _, w := range weeks {
			fmt.Fprintf(&b, "%s: %s (%d sales)\n", w.Key, common.FormatSignedYen(w.Profit), len(w.Records))
			total += w.Profit
		}
		fmt.Fprintf(&b, "Total: %s", common.FormatSignedYen(total))
		return textResult(b.String()), nil
	}
}

func handleRecordSale(l *ledger.Ledger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		// The held position supplies the handoff context.
		holdings, _, err := l.Holdings(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		var sellCtx ledger.SellContext
		for _, h := range holdings {
			if h.Code == code {
				sellCtx = ledger.SellContext{
					Code:         h.Code,
					Stock:        h.Stock,
					BuyPrice:     h.Price,
					HoldQuantity: h.Quantity,
				}
				break
			}
		}
		if sellCtx.Code == "" {
			return errorResult(fmt.Sprintf("Error: no holding with code %s", code)), nil
		}

		confirmed := request.GetBool("confirm", false)
		recorder := l.NewSellRecorder(sellCtx, func(string) bool { return confirmed })

		record, err := recorder.RecordSale(ctx, ledger.SaleInput{
			SellPrice:    int64(request.GetInt("sell_price", 0)),
			SellQuantity: int64(request.GetInt("sell_quantity", 0)),
			Memo:         request.GetString("memo", ""),
		})
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Sold %d shares of %s %s at %s, profit %s (%s).",
			record.Quantity, record.Code, record.Stock,
			common.FormatYen(record.SellPrice),
			common.FormatSignedYen(record.Profit),
			common.FormatSignedPct(record.EffectiveProfitRate()))), nil
	}
}
