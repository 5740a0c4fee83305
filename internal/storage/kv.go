// Package storage persists the ledger snapshot in a small key-value
// namespace. Every backend uses the same keys and value encodings.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Keys of the durable namespace.
const (
	KeyExpenses      = "expenses"
	KeyTotalIncome   = "totalIncome"
	KeyTotalExpenses = "totalExpenses"
)

// KV is a synchronous string key-value store.
type KV interface {
	// Get returns ok=false when the key was never written.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	}
	return false
}

// DefaultDataDir is ~/.expense-tracker.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".expense-tracker"), nil
}

// Open creates the backend named by b, keeping its files under dataDir.
func Open(b Backend, dataDir string) (KV, error) {
	switch b {
	case BackendFile:
		return NewFileKV(dataDir)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dataDir, "expenses.db"))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", b)
	}
}
