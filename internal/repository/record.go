package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aiowing/aiowing/internal/model"
)

// ErrRecordNameExists is returned when a write collides with the unique name index.
var ErrRecordNameExists = errors.New("record name already exists")

// id is cast so it scans into a plain string.
const recordColumns = `id::text, active, name, description, updated_at`

// CountRecords returns the total number of records.
func (r *Repository) CountRecords(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// ListRecords returns one page of records, active ones first and most
// recently touched first within each group.
func (r *Repository) ListRecords(ctx context.Context, limit, offset int) ([]*model.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		ORDER BY active DESC, updated_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]*model.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// CreateRecord inserts a new record inside a transaction.
// ID and UpdatedAt are assigned when empty.
func (r *Repository) CreateRecord(ctx context.Context, rec *model.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO records (id, active, name, description, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			rec.ID,
			rec.Active,
			rec.Name,
			rec.Description,
			rec.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return ErrRecordNameExists
		}
		return fmt.Errorf("failed to create record: %w", err)
	}

	return nil
}

// UpdateRecord overwrites a record's mutable fields inside a transaction
// and returns the number of rows affected. A missing ID is not an error.
func (r *Repository) UpdateRecord(ctx context.Context, rec *model.Record) (int64, error) {
	rec.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE records
		SET active = $2, name = $3, description = $4, updated_at = $5
		WHERE id = $1
	`

	var affected int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			rec.ID,
			rec.Active,
			rec.Name,
			rec.Description,
			rec.UpdatedAt,
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrRecordNameExists
		}
		return 0, fmt.Errorf("failed to update record: %w", err)
	}

	return affected, nil
}

// DeleteRecord removes a record inside a transaction and returns the
// number of rows affected. A missing ID is not an error.
func (r *Repository) DeleteRecord(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to delete record: %w", err)
	}

	return affected, nil
}

func scanRecord(row pgx.Row) (*model.Record, error) {
	var rec model.Record
	if err := row.Scan(
		&rec.ID,
		&rec.Active,
		&rec.Name,
		&rec.Description,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
