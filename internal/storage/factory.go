package storage

import (
	"fmt"
	"strings"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/config"
	"github.com/kabureco/kabureco/internal/interfaces"
	"github.com/kabureco/kabureco/internal/storage/badger"
	"github.com/kabureco/kabureco/internal/storage/sqlite"
)

// NewStorageManager creates a storage manager for the configured driver.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "badger":
		return badger.NewManager(logger, &cfg.Storage.Badger)
	case "sqlite":
		return sqlite.NewManager(logger, &cfg.Storage.SQLite)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
