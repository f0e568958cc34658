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

// VenueRepository is the secondary adapter for venue lookups.
type VenueRepository struct {
	pool *pgxpool.Pool
}

var _ ports.VenueRepository = (*VenueRepository)(nil)

func NewVenueRepository(pool *pgxpool.Pool) ports.VenueRepository {
	return &VenueRepository{pool: pool}
}

func (r *VenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	const query = `
SELECT id, name, is_active, created_at
FROM venues
WHERE id = $1
`

	var (
		venueID   pgtype.UUID
		createdAt pgtype.Timestamptz
		venue     domain.Venue
	)
	err := r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}).
		Scan(&venueID, &venue.Name, &venue.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, err
	}

	venue.ID = venueID.Bytes
	venue.CreatedAt = createdAt.Time
	return &venue, nil
}
