// Package fs implements the agenda's persistence contracts on the local
// filesystem: a JSON document store with rotating backups, a bounded JSON
// history log, and a change watcher for edits made outside the process.
package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cicraftwork/agenda-fen/pkg/core"
)

const (
	// DefaultBackupLimit caps retained backup snapshots.
	DefaultBackupLimit = 10

	// backupPattern matches snapshot filenames inside the backup dir.
	backupPattern = "agenda_backup_*.json"

	// backupTimeLayout names snapshots at second resolution.
	backupTimeLayout = "2006-01-02_15-04-05"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	DataFile     string // path of the agenda JSON document
	BackupDir    string // directory for rotating snapshots
	HistoryFile  string // path of the history log (used by NewHistory)
	BackupLimit  int    // retained snapshots, DefaultBackupLimit when 0
	HistoryLimit int    // retained history records, core.HistoryLimit when 0
	Logger       *slog.Logger
	Now          func() time.Time // defaults to time.Now
}

// Store implements core.DocumentStore on a single JSON file.
type Store struct {
	config Config
	now    func() time.Time
}

// NewStore creates a filesystem-backed document store.
func NewStore(config Config) *Store {
	if config.BackupLimit <= 0 {
		config.BackupLimit = DefaultBackupLimit
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Store{config: config, now: now}
}

// Initialize ensures the data and backup directories exist.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.config.DataFile), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(s.config.BackupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return nil
}

// Load reads and parses the agenda document. It never modifies the file.
func (s *Store) Load(ctx context.Context) (core.Document, core.Revision, error) {
	data, err := os.ReadFile(s.config.DataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Document{}, "", fmt.Errorf("agenda file %s: %w", s.config.DataFile, core.ErrNotFound)
		}
		return core.Document{}, "", fmt.Errorf("failed to read agenda file: %w", err)
	}

	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.Document{}, "", fmt.Errorf("%w: %s: %v", core.ErrMalformed, s.config.DataFile, err)
	}

	// The document always has a semanas sequence, even when the file
	// predates it.
	if doc.Weeks == nil {
		doc.Weeks = []core.Week{}
	}

	return doc, revisionOf(data), nil
}

// Save persists the document atomically. The previous on-disk content is
// snapshotted first (best effort) and the modification timestamp is stamped
// on the way out. A non-empty expected revision that does not match the
// current file fails with core.ErrConflict before anything is written.
func (s *Store) Save(ctx context.Context, doc core.Document, expected core.Revision) (core.Revision, error) {
	current, err := os.ReadFile(s.config.DataFile)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read current agenda: %w", err)
	}

	if expected != "" {
		currentRev := core.Revision("")
		if exists {
			currentRev = revisionOf(current)
		}
		if currentRev != expected {
			return "", &core.ConflictError{Expected: expected, Current: currentRev}
		}
	}

	if exists {
		if _, err := s.snapshot(current); err != nil && s.config.Logger != nil {
			s.config.Logger.Warn("backup before save failed", "error", err)
		}
	}

	doc.Modified = s.now().Format(core.TimeLayout)
	if doc.Weeks == nil {
		doc.Weeks = []core.Week{}
	}

	data, err := marshalPretty(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize agenda: %w", err)
	}

	if err := writeFileAtomic(s.config.DataFile, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrWriteFailure, err)
	}

	return revisionOf(data), nil
}

// Backup snapshots the current on-disk document on demand.
func (s *Store) Backup(ctx context.Context) (string, error) {
	current, err := os.ReadFile(s.config.DataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no agenda to back up: %w", core.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read agenda for backup: %w", err)
	}
	return s.snapshot(current)
}

// snapshot writes one timestamped copy into the backup directory and
// rotates old snapshots down to the retention limit.
func (s *Store) snapshot(data []byte) (string, error) {
	if err := os.MkdirAll(s.config.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := "agenda_backup_" + s.now().Format(backupTimeLayout) + ".json"
	path := filepath.Join(s.config.BackupDir, name)

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if err := s.rotate(); err != nil && s.config.Logger != nil {
		s.config.Logger.Warn("backup rotation failed", "error", err)
	}

	return name, nil
}

// rotate deletes the oldest snapshots by modification time until only the
// retention limit remains.
func (s *Store) rotate() error {
	entries, err := os.ReadDir(s.config.BackupDir)
	if err != nil {
		return err
	}

	type snapshotInfo struct {
		name  string
		mtime time.Time
	}
	var snapshots []snapshotInfo

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(backupPattern, entry.Name())
		if err != nil || !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snapshotInfo{name: entry.Name(), mtime: info.ModTime()})
	}

	if len(snapshots) <= s.config.BackupLimit {
		return nil
	}

	// Oldest first; name as tie-breaker keeps same-second snapshots
	// deterministic.
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].mtime.Equal(snapshots[j].mtime) {
			return snapshots[i].name < snapshots[j].name
		}
		return snapshots[i].mtime.Before(snapshots[j].mtime)
	})

	for _, old := range snapshots[:len(snapshots)-s.config.BackupLimit] {
		if err := os.Remove(filepath.Join(s.config.BackupDir, old.name)); err != nil {
			return err
		}
	}
	return nil
}

// ListBackups returns the snapshot filenames currently retained, newest
// last by name.
func (s *Store) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.config.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(backupPattern, entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// marshalPretty serializes with two-space indentation and HTML escaping off
// so accented text stays readable in the file.
func marshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// revisionOf derives the opaque revision token from raw file content.
func revisionOf(data []byte) core.Revision {
	sum := sha256.Sum256(data)
	return core.Revision(hex.EncodeToString(sum[:8]))
}
