// Package agenda wires the domain service to its filesystem adapters and
// exposes the operator-facing configuration and diagnostics.
package agenda

import (
	"context"
	"fmt"

	adapterfs "github.com/cicraftwork/agenda-fen/pkg/adapters/fs"
	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// Open builds a ready Service from the configuration: filesystem store with
// rotating backups, bounded history log, and the mutation service on top.
func Open(cfg Config, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storeConfig := adapterfs.Config{
		DataFile:     cfg.DataFile,
		BackupDir:    cfg.BackupDir,
		HistoryFile:  cfg.HistoryFile,
		BackupLimit:  pick(o.backupLimit, cfg.BackupLimit),
		HistoryLimit: pick(o.historyLimit, cfg.HistoryLimit),
		Logger:       o.logger,
		Now:          o.now,
	}

	store := o.store
	if store == nil {
		fsStore := adapterfs.NewStore(storeConfig)
		if err := fsStore.Initialize(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		store = fsStore
	}

	history := o.history
	if history == nil {
		history = adapterfs.NewHistory(storeConfig)
	}

	return core.NewService(core.ServiceConfig{
		Store:   store,
		History: history,
		Logger:  o.logger,
		Now:     o.now,
	}), nil
}

// StoreConfig exposes the adapter configuration derived from cfg, for
// callers that need the raw store (watcher, diagnostics).
func StoreConfig(cfg Config, opts ...Option) adapterfs.Config {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return adapterfs.Config{
		DataFile:     cfg.DataFile,
		BackupDir:    cfg.BackupDir,
		HistoryFile:  cfg.HistoryFile,
		BackupLimit:  pick(o.backupLimit, cfg.BackupLimit),
		HistoryLimit: pick(o.historyLimit, cfg.HistoryLimit),
		Logger:       o.logger,
		Now:          o.now,
	}
}

func pick(override, configured int) int {
	if override > 0 {
		return override
	}
	return configured
}
