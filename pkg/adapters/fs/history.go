package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// History implements core.HistoryLog as a single JSON array file. The file
// is rewritten in full on every append; storage order is insertion order.
type History struct {
	path   string
	limit  int
	logger *slog.Logger
}

// NewHistory creates a file-backed history log. The limit defaults to
// core.HistoryLimit when unset.
func NewHistory(config Config) *History {
	limit := config.HistoryLimit
	if limit <= 0 {
		limit = core.HistoryLimit
	}
	return &History{
		path:   config.HistoryFile,
		limit:  limit,
		logger: config.Logger,
	}
}

// Append loads the existing log, adds the record, truncates to the newest
// records within the limit and persists the whole file atomically. An
// absent or corrupt log starts over empty.
func (h *History) Append(ctx context.Context, rec core.HistoryRecord) error {
	records := h.read()
	records = append(records, rec)

	if len(records) > h.limit {
		records = records[len(records)-h.limit:]
	}

	data, err := marshalPretty(records)
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := writeFileAtomic(h.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}
	return nil
}

// List returns all records sorted descending by timestamp. Records sharing
// a timestamp keep newest-insertion-first order.
func (h *History) List(ctx context.Context) ([]core.HistoryRecord, error) {
	records := h.read()

	// Reverse insertion order first so the stable sort leaves
	// same-timestamp records newest first.
	out := make([]core.HistoryRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// read tolerates an absent or corrupt file as an empty log. Corruption is
// logged, not propagated: the history is an auxiliary record, never worth
// failing a mutation over.
func (h *History) read() []core.HistoryRecord {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if !os.IsNotExist(err) && h.logger != nil {
			h.logger.Warn("failed to read history file", "path", h.path, "error", err)
		}
		return []core.HistoryRecord{}
	}

	var records []core.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		if h.logger != nil {
			h.logger.Warn("history file is corrupt, starting over", "path", h.path, "error", err)
		}
		return []core.HistoryRecord{}
	}
	return records
}
