package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
)

// MySQLOutboxEventRepository handles outbox event persistence for MySQL
type MySQLOutboxEventRepository struct {
	db    *sql.DB
	table string
}

// NewMySQLOutboxEventRepository creates a new MySQLOutboxEventRepository
func NewMySQLOutboxEventRepository(db *sql.DB, table string) *MySQLOutboxEventRepository {
	return &MySQLOutboxEventRepository{
		db:    db,
		table: table,
	}
}

// Create inserts the event unless its idempotency key already exists. It reports whether
// a row was written.
func (r *MySQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf(`INSERT INTO %s (%s)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE idempotency_key = idempotency_key`, r.table, outboxColumns)

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return false, err
	}

	result, err := querier.ExecContext(ctx, query, idBytes, event.IdempotencyKey, event.EventName,
		string(event.Payload), event.Status, event.Retries, event.LastError, event.ProcessedAt,
		event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetPendingEvents locks and returns up to limit pending events, oldest first. Rows locked
// by another relay are skipped.
func (r *MySQLOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s
			  FROM %s
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`, outboxColumns, r.table)

	rows, err := querier.QueryContext(ctx, query, domain.OutboxEventStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.OutboxEvent
	for rows.Next() {
		var event domain.OutboxEvent
		var idBytes []byte

		err := rows.Scan(&idBytes, &event.IdempotencyKey, &event.EventName, &event.Payload,
			&event.Status, &event.Retries, &event.LastError, &event.ProcessedAt,
			&event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, err
		}

		// Convert bytes back to UUID
		if err := event.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, err
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Update stores the relay state of an outbox event.
func (r *MySQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf(`UPDATE %s
			  SET status = ?, retries = ?, last_error = ?, processed_at = ?, updated_at = ?
			  WHERE id = ?`, r.table)

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, event.Status, event.Retries, event.LastError,
		event.ProcessedAt, event.UpdatedAt, idBytes)

	return err
}
