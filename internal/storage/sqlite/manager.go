package sqlite

import (
	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/config"
	"github.com/kabureco/kabureco/internal/interfaces"
	"gorm.io/gorm"
)

// Manager implements the StorageManager interface for SQLite.
type Manager struct {
	db     *gorm.DB
	kv     interfaces.KeyValueStorage
	logger *common.Logger
}

// NewManager creates a new SQLite storage manager.
func NewManager(logger *common.Logger, cfg *config.SQLiteConfig) (interfaces.StorageManager, error) {
	db, err := NewDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}

	logger.Debug().Msg("SQLite storage manager initialized")

	return manager, nil
}

// KeyValueStorage returns the KeyValue storage interface.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
