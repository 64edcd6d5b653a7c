package models

import (
	"fmt"
	"time"
)

// SellRecord is one entry of the sell history. Profit and ProfitRate are
// derived at sale time and stored; they change only through an explicit edit.
type SellRecord struct {
	Date       string   `json:"date"`
	Code       string   `json:"code"`
	Stock      string   `json:"stock"`
	BuyPrice   int64    `json:"buyPrice"` // cost basis at time of sale
	SellPrice  int64    `json:"sellPrice"`
	Quantity   int64    `json:"quantity"`
	Profit     int64    `json:"profit"`
	ProfitRate *float64 `json:"profitRate"`
	Memo       string   `json:"memo,omitempty"`
}

// EffectiveProfitRate returns the stored profit rate, or recomputes it from
// profit, buy price and quantity when absent (records saved before the rate
// was persisted).
func (s SellRecord) EffectiveProfitRate() float64 {
	if s.ProfitRate != nil {
		return *s.ProfitRate
	}
	denom := s.BuyPrice * s.Quantity
	if denom == 0 {
		return 0
	}
	return float64(s.Profit) / float64(denom) * 100
}

// WeekKey returns the ISO-8601 week bucket for the record's date, formatted
// "YYYY-Www". Unparseable dates fall into a sentinel bucket that sorts last.
func (s SellRecord) WeekKey() string {
	t, err := time.Parse(DateFormat, s.Date)
	if err != nil {
		return "0000-W00"
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Time parses the record date. Unparseable dates return the zero time, which
// sorts after any valid date in descending order.
func (s SellRecord) Time() time.Time {
	t, err := time.Parse(DateFormat, s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
