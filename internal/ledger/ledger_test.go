package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/interfaces"
)

// memStore is an in-memory KeyValueStorage for tests.
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

// newTestLedger returns a ledger over a fresh memStore with a fixed clock.
func newTestLedger() (*Ledger, *memStore) {
	store := newMemStore()
	l := New(store, common.NewSilentLogger())
	l.SetClock(func() time.Time {
		return time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC) // Monday, 2025-W29
	})
	return l, store
}

func acceptAll(string) bool { return true }

func declineAll(string) bool { return false }

func int64ptr(v int64) *int64 { return &v }
