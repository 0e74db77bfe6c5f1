package cache

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"ecfr_analytics/internal/db"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
	BackendNone   = "none"
)

const (
	SQLiteFile = "cache.db"
	BadgerDir  = "badger"
)

// Open builds a Store for backend rooted at location. The file backend
// uses location itself; sqlite and badger keep their files inside it.
func Open(backend, location string, logger *zap.Logger) (*Store, error) {
	var (
		kv  KV
		err error
	)
	switch backend {
	case BackendFile, "":
		backend = BackendFile
		kv, err = NewFileKV(location)
	case BackendSQLite:
		kv, err = db.OpenStore(filepath.Join(location, SQLiteFile))
	case BackendBadger:
		kv, err = OpenBadger(BadgerConfig{Path: filepath.Join(location, BadgerDir), SyncWrites: true, Logger: logger})
	case BackendMemory:
		kv = NewMemoryKV()
	case BackendNone:
		kv = NopKV{}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", backend, err)
	}
	return New(kv, backend), nil
}
