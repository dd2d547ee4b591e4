package state

import (
	"fmt"
	"strings"

	"poswatch/internal/config"
)

// Store persists snapshots between runs. Load never fails on malformed
// state: an unreadable snapshot degrades to a cold start, which only
// costs one over-reporting run. Save errors are real errors.
type Store interface {
	Load() Snapshot
	Save(Snapshot) error
	Close() error
}

func Open(cfg config.StateConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
