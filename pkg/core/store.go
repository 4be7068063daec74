package core

import "context"

// Revision is an opaque token identifying one persisted state of the
// document. Reads return it; writes may pass it back to detect the
// load-mutate-save race instead of silently losing the earlier write.
type Revision string

// DocumentStore is the persistence contract for the agenda document.
// Adhering to this interface keeps the core independent of the backing
// storage; the filesystem adapter is the canonical implementation.
type DocumentStore interface {
	// Load reads the current document. It fails with ErrNotFound when no
	// document exists and ErrMalformed when the content cannot be parsed.
	// Load has no side effects.
	Load(ctx context.Context) (Document, Revision, error)

	// Save persists the document, taking a best-effort backup of the
	// previous on-disk state first and stamping the modification
	// timestamp. When expected is non-empty and does not match the
	// current on-disk revision, Save fails with ErrConflict and writes
	// nothing. The write itself is atomic: either the new content lands
	// entirely or the prior content is left intact.
	Save(ctx context.Context, doc Document, expected Revision) (Revision, error)

	// Backup snapshots the current on-disk document and rotates old
	// snapshots. It fails with ErrNotFound when there is nothing to back
	// up. Returns the snapshot filename.
	Backup(ctx context.Context) (string, error)
}

// HistoryLog records bounded change history around mutations.
type HistoryLog interface {
	// Append stores one record, evicting the oldest beyond the retention
	// cap. Persistence failures are returned so callers can report them;
	// they must not abort the mutation that triggered the append.
	Append(ctx context.Context, rec HistoryRecord) error

	// List returns all records sorted descending by timestamp.
	List(ctx context.Context) ([]HistoryRecord, error)
}
