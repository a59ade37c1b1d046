package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
	"lottolab/ports"
)

// drawRepository implements ports.DrawRepository on postgres.
type drawRepository struct {
	db *sqlx.DB
}

// NewDrawRepository creates a postgres-backed draw repository.
func NewDrawRepository(db *sqlx.DB) ports.DrawRepository {
	return &drawRepository{db: db}
}

// ListDraws returns the full stored history, ascending by draw_no.
func (r *drawRepository) ListDraws(ctx context.Context) (draw.History, error) {
	query := `SELECT draw_no, draw_date, numbers, bonus
		FROM lotto_draws ORDER BY draw_no ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list draws", err)
	}
	defer rows.Close()

	var history draw.History
	for rows.Next() {
		var rec draw.Record
		var numbers pq.Int64Array
		if err := rows.Scan(&rec.DrawNo, &rec.DrawDate, &numbers, &rec.Bonus); err != nil {
			return nil, apperrors.DatabaseError("failed to scan draw row", err)
		}
		rec.Numbers = make([]int, len(numbers))
		for i, n := range numbers {
			rec.Numbers[i] = int(n)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("failed to iterate draw rows", err)
	}
	return history, nil
}

// LatestDrawNo returns the highest stored draw number, 0 when empty.
func (r *drawRepository) LatestDrawNo(ctx context.Context) (int, error) {
	var latest sql.NullInt64
	query := `SELECT MAX(draw_no) FROM lotto_draws`
	if err := r.db.QueryRowContext(ctx, query).Scan(&latest); err != nil {
		return 0, apperrors.DatabaseError("failed to query latest draw number", err)
	}
	if !latest.Valid {
		return 0, nil
	}
	return int(latest.Int64), nil
}

// LatestDraw returns the record with the highest draw number.
func (r *drawRepository) LatestDraw(ctx context.Context) (draw.Record, error) {
	query := `SELECT draw_no, draw_date, numbers, bonus
		FROM lotto_draws ORDER BY draw_no DESC LIMIT 1`

	var rec draw.Record
	var numbers pq.Int64Array
	err := r.db.QueryRowContext(ctx, query).Scan(&rec.DrawNo, &rec.DrawDate, &numbers, &rec.Bonus)
	if err == sql.ErrNoRows {
		return draw.Record{}, apperrors.NotFound("latest draw")
	}
	if err != nil {
		return draw.Record{}, apperrors.DatabaseError("failed to query latest draw", err)
	}
	rec.Numbers = make([]int, len(numbers))
	for i, n := range numbers {
		rec.Numbers[i] = int(n)
	}
	return rec, nil
}

// SaveDraws inserts records, skipping draw numbers already stored.
func (r *drawRepository) SaveDraws(ctx context.Context, records []draw.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO lotto_draws (draw_no, draw_date, numbers, bonus)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (draw_no) DO NOTHING`

	inserted := 0
	for _, rec := range records {
		numbers := make(pq.Int64Array, len(rec.Numbers))
		for i, n := range rec.Numbers {
			numbers[i] = int64(n)
		}
		result, err := tx.ExecContext(ctx, query, rec.DrawNo, rec.DrawDate, numbers, rec.Bonus)
		if err != nil {
			return 0, apperrors.DatabaseError("failed to insert draw", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, apperrors.DatabaseError("failed to read rows affected", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.DatabaseError("failed to commit draws", err)
	}
	return inserted, nil
}
