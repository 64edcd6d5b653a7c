// Package ledger implements the buy/sell trade ledger: open positions with
// average cost basis, and the sell history with realized profit.
//
// Each collection is persisted as one whole JSON document in the key-value
// store and re-read at the start of every operation, so the store is the only
// source of truth between actions.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/interfaces"
	"github.com/kabureco/kabureco/internal/models"
)

// Storage keys. These match the original persisted document names so an
// exported ledger loads unchanged.
const (
	holdingsKey = "trades"
	sellsKey    = "sells"
)

// Ledger owns access to the two persisted collections. A single mutex
// serializes mutations; the storage itself has no transactions and every
// mutation rewrites a whole document.
type Ledger struct {
	store  interfaces.KeyValueStorage
	logger *common.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// New creates a ledger over the given storage.
func New(store interfaces.KeyValueStorage, logger *common.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

func (l *Ledger) today() string {
	return l.now().Format(models.DateFormat)
}

// loadHoldings reads the holdings document. A missing or malformed document
// loads as an empty list.
func (l *Ledger) loadHoldings(ctx context.Context) ([]models.Holding, error) {
	raw, err := l.store.Get(ctx, holdingsKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var holdings []models.Holding
	if err := json.Unmarshal([]byte(raw), &holdings); err != nil {
		l.logger.Warn().Str("key", holdingsKey).Str("error", err.Error()).Msg("malformed holdings document, starting empty")
		return nil, nil
	}
	return holdings, nil
}

func (l *Ledger) saveHoldings(ctx context.Context, holdings []models.Holding) error {
	if holdings == nil {
		holdings = []models.Holding{}
	}
	data, err := json.Marshal(holdings)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, holdingsKey, string(data))
}

// loadSells reads the sell history document. A missing or malformed document
// loads as an empty list.
func (l *Ledger) loadSells(ctx context.Context) ([]models.SellRecord, error) {
	raw, err := l.store.Get(ctx, sellsKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var sells []models.SellRecord
	if err := json.Unmarshal([]byte(raw), &sells); err != nil {
		l.logger.Warn().Str("key", sellsKey).Str("error", err.Error()).Msg("malformed sell history document, starting empty")
		return nil, nil
	}
	return sells, nil
}

func (l *Ledger) saveSells(ctx context.Context, sells []models.SellRecord) error {
	if sells == nil {
		sells = []models.SellRecord{}
	}
	data, err := json.Marshal(sells)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, sellsKey, string(data))
}

// sortByDateDesc orders records newest-first. Order among equal dates is
// whatever the stable sort preserves.
func sortByDateDesc(sells []models.SellRecord) {
	sort.SliceStable(sells, func(i, j int) bool {
		return sells[i].Time().After(sells[j].Time())
	})
}
