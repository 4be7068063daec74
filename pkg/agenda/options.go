package agenda

import (
	"log/slog"
	"time"

	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// options holds the internal configuration assembled by Open.
type options struct {
	logger       *slog.Logger
	backupLimit  int
	historyLimit int
	store        core.DocumentStore
	history      core.HistoryLog
	now          func() time.Time
}

// Option defines a functional option for configuring the service.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger used by the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackupLimit overrides the backup snapshot retention cap.
func WithBackupLimit(limit int) Option {
	return func(o *options) {
		o.backupLimit = limit
	}
}

// WithHistoryLimit overrides the history record retention cap.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		o.historyLimit = limit
	}
}

// WithStore injects a custom document store, skipping the filesystem
// adapter (useful for mocks or alternative backends).
func WithStore(store core.DocumentStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHistory injects a custom history log.
func WithHistory(history core.HistoryLog) Option {
	return func(o *options) {
		o.history = history
	}
}

// WithClock sets the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
