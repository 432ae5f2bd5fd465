package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the minimal execution surface PGStorage needs. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so an inline write can share the business
// mutation's transaction by constructing a storage around the Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PGStorage persists audit entries in PostgreSQL.
type PGStorage struct {
	db DB
}

// NewPGStorage creates the storage. The connection (pool or transaction)
// is owned by the caller.
func NewPGStorage(db DB) *PGStorage {
	return &PGStorage{db: db}
}

const insertEntryQuery = `
INSERT INTO audit_entries (
	id, created_at, actor_subject_id, actor_email,
	action, resource, resource_id, tenant_id,
	before, after, request_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Store persists a single entry.
func (s *PGStorage) Store(ctx context.Context, entry Entry) error {
	_, err := s.db.Exec(ctx, insertEntryQuery,
		entry.ID, entry.CreatedAt, entry.ActorSubjectID, entry.ActorEmail,
		string(entry.Action), entry.Resource, entry.ResourceID, entry.TenantID,
		entry.Before, entry.After, entry.RequestID,
	)
	if err != nil {
		return fmt.Errorf("audit: insert entry: %w", err)
	}
	return nil
}

// StoreBatch persists all entries through a single pgx batch. The batch
// runs in an implicit transaction, so a failure writes nothing.
func (s *PGStorage) StoreBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(insertEntryQuery,
			entry.ID, entry.CreatedAt, entry.ActorSubjectID, entry.ActorEmail,
			string(entry.Action), entry.Resource, entry.ResourceID, entry.TenantID,
			entry.Before, entry.After, entry.RequestID,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("audit: batch insert: %w", err)
		}
	}
	return nil
}

const deleteOlderThanQuery = `DELETE FROM audit_entries WHERE created_at < $1`

// DeleteOlderThan removes entries older than the cutoff. Intended for the
// external archival job enforcing the retention window; the recorder never
// calls it.
func (s *PGStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteOlderThanQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("audit: delete entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
