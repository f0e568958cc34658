package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// TableRepository is the secondary adapter for table persistence.
type TableRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TableRepository = (*TableRepository)(nil)

func NewTableRepository(pool *pgxpool.Pool) ports.TableRepository {
	return &TableRepository{pool: pool}
}

const tableColumns = `id, venue_id, number, status, capacity, created_at, updated_at`

func scanTable(row pgx.Row) (*domain.Table, error) {
	var (
		id        pgtype.UUID
		venueID   pgtype.UUID
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		table     domain.Table
	)
	err := row.Scan(&id, &venueID, &table.Number, &table.Status, &table.Capacity, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	table.ID = id.Bytes
	table.VenueID = venueID.Bytes
	table.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		table.UpdatedAt = &updatedAt.Time
	}
	return &table, nil
}

func (r *TableRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Table, error) {
	const query = `SELECT ` + tableColumns + ` FROM tables WHERE id = $1`

	table, err := scanTable(r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTableNotFound
		}
		return nil, err
	}
	return table, nil
}

func (r *TableRepository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Table, error) {
	const query = `SELECT ` + tableColumns + ` FROM tables WHERE venue_id = $1 ORDER BY number`

	rows, err := r.pool.Query(ctx, query, pgtype.UUID{Bytes: venueID, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*domain.Table
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *TableRepository) UpdateStatus(ctx context.Context, table *domain.Table) error {
	const query = `
UPDATE tables
SET status = $2, updated_at = now()
WHERE id = $1
`

	tag, err := r.pool.Exec(ctx, query,
		pgtype.UUID{Bytes: table.ID, Valid: true},
		string(table.Status),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTableNotFound
	}
	return nil
}
