package ledger

import (
	"context"
	"sort"

	"github.com/kabureco/kabureco/internal/models"
)

// WeekRecord is a sell record annotated with its index in the stored history,
// so week-grouped views can still address records for edit and delete.
type WeekRecord struct {
	models.SellRecord
	Index int `json:"index"`
}

// WeekGroup is one ISO-week bucket of the sell history with its profit
// subtotal. Records keep their original list order.
type WeekGroup struct {
	Key     string       `json:"key"`
	Records []WeekRecord `json:"records"`
	Profit  int64        `json:"profit"`
}

// GroupByWeek partitions records into ISO-week buckets in a single pass.
// Groups are returned newest week first; every record lands in exactly one
// group.
func GroupByWeek(records []models.SellRecord) []WeekGroup {
	byKey := make(map[string]*WeekGroup)
	var order []string

	for i, rec := range records {
		key := rec.WeekKey()
		group, ok := byKey[key]
		if !ok {
			group = &WeekGroup{Key: key}
			byKey[key] = group
			order = append(order, key)
		}
		group.Records = append(group.Records, WeekRecord{SellRecord: rec, Index: i})
		group.Profit += rec.Profit
	}

	// "YYYY-Www" keys compare correctly as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	groups := make([]WeekGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups
}

// SellWeeks loads the sell history and returns it grouped by ISO week.
func (l *Ledger) SellWeeks(ctx context.Context) ([]WeekGroup, error) {
	sells, err := l.loadSells(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByWeek(sells), nil
}
