package activity

import (
	"context"
	"fmt"

	dbcontracts "projecthub/contracts/db"
	mqcontracts "projecthub/contracts/mq"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBTX is the subset of *pgxpool.Pool the audit repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications_log (
	id          BIGSERIAL PRIMARY KEY,
	instance_id TEXT        NOT NULL,
	seq         INTEGER     NOT NULL,
	message     TEXT        NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (instance_id, seq)
)`

// AuditRepository writes activity entries to notifications_log. The table is
// an audit trail; the in-memory log stays the source of truth.
type AuditRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewAuditRepository(db DBTX, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create notifications_log: %w", err)
	}
	return nil
}

// Insert stores an entry. Re-inserting the same (instance_id, seq) is a no-op.
func (r *AuditRepository) Insert(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO notifications_log (instance_id, seq, message, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (instance_id, seq) DO NOTHING`,
		p.InstanceID, p.Seq, p.Message, p.CreatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug("Audit entry already stored",
			zap.String("instance_id", p.InstanceID),
			zap.Int("seq", p.Seq),
		)
	}
	return nil
}

// Recent returns the newest limit entries, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]dbcontracts.NotificationLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, instance_id, seq, message, created_at
		FROM notifications_log
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[dbcontracts.NotificationLog])
}

// PGSink writes entries straight to the audit table from the API process.
type PGSink struct {
	repo *AuditRepository
}

func NewPGSink(repo *AuditRepository) *PGSink {
	return &PGSink{repo: repo}
}

func (s *PGSink) Name() string { return "postgres" }

func (s *PGSink) Deliver(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error {
	return s.repo.Insert(ctx, p)
}
