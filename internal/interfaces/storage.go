package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KeyValueStorage.Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// StorageManager provides access to the storage backend.
// Implementations can be swapped (BadgerDB or SQLite, selected by config).
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	Close() error
}

// KeyValueStorage provides whole-document key-value operations. Each ledger
// collection is stored as a single serialized document under one key.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
