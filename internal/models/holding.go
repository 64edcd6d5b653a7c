// Package models defines the persisted data structures for kabureco
package models

// DateFormat is the storage format for ledger dates (ISO-8601 day).
const DateFormat = "2006-01-02"

// Holding represents one open position. At most one Holding exists per code,
// and Quantity is always positive — a holding reduced to zero is removed, never
// stored.
type Holding struct {
	Date        string `json:"date"`
	Code        string `json:"code"`
	Stock       string `json:"stock"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"` // volume-weighted average acquisition cost per share, yen
	TargetPrice *int64 `json:"targetPrice"`
}

// Cost returns the invested amount for this position (price x quantity).
func (h Holding) Cost() int64 {
	return h.Price * h.Quantity
}

// QuoteURL returns the external quote page for the holding's code.
func (h Holding) QuoteURL() string {
	return "https://minkabu.jp/stock/" + h.Code
}

// TotalInvested sums price x quantity across all holdings.
func TotalInvested(holdings []Holding) int64 {
	var total int64
	for _, h := range holdings {
		total += h.Cost()
	}
	return total
}
