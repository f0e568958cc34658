package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/menulink/emenu-backend/internal/core/domain"
	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// OrderRepository is the secondary adapter for order persistence. Items are
// stored as a JSONB document; the notification core only ever reads them
// back whole.
type OrderRepository struct {
	pool *pgxpool.Pool
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(pool *pgxpool.Pool) ports.OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, venue_id, table_id, order_number, status, payment_status,
total_amount, items, customer_name, actual_ready_time, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		id         pgtype.UUID
		venueID    pgtype.UUID
		tableID    pgtype.UUID
		itemsJSON  []byte
		readyTime  pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
		order      domain.Order
	)
	err := row.Scan(&id, &venueID, &tableID, &order.OrderNumber, &order.Status, &order.PaymentStatus,
		&order.TotalAmount, &itemsJSON, &order.CustomerName, &readyTime, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	order.ID = id.Bytes
	order.VenueID = venueID.Bytes
	if tableID.Valid {
		tid := uuid.UUID(tableID.Bytes)
		order.TableID = &tid
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, err
	}
	if readyTime.Valid {
		order.ActualReadyTime = &readyTime.Time
	}
	order.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		order.UpdatedAt = &updatedAt.Time
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	const query = `
INSERT INTO orders (id, venue_id, table_id, order_number, status, payment_status,
                    total_amount, items, customer_name, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}

	var tableID pgtype.UUID
	if order.TableID != nil {
		tableID = pgtype.UUID{Bytes: *order.TableID, Valid: true}
	}

	return scanOrder(r.pool.QueryRow(ctx, query,
		pgtype.UUID{Bytes: order.ID, Valid: true},
		pgtype.UUID{Bytes: order.VenueID, Valid: true},
		tableID,
		order.OrderNumber,
		string(order.Status),
		string(order.PaymentStatus),
		order.TotalAmount,
		itemsJSON,
		order.CustomerName,
		order.CreatedAt,
	))
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE venue_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, pgtype.UUID{Bytes: venueID, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	const query = `
UPDATE orders
SET status = $2, actual_ready_time = $3, updated_at = now()
WHERE id = $1
`

	var readyTime pgtype.Timestamptz
	if order.ActualReadyTime != nil {
		readyTime = pgtype.Timestamptz{Time: *order.ActualReadyTime, Valid: true}
	}

	tag, err := r.pool.Exec(ctx, query,
		pgtype.UUID{Bytes: order.ID, Valid: true},
		string(order.Status),
		readyTime,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}
