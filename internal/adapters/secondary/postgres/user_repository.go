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

// UserRepository is the secondary adapter backing identity resolution.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) ports.UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
SELECT id, email, full_name, role, venue_ids, is_active, created_at
FROM users
WHERE id = $1
`

	var (
		userID    pgtype.UUID
		role      string
		venueIDs  []pgtype.UUID
		createdAt pgtype.Timestamptz
		user      domain.User
	)
	err := r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}).
		Scan(&userID, &user.Email, &user.FullName, &role, &venueIDs, &user.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	user.ID = userID.Bytes
	user.Role = domain.Role(role)
	user.CreatedAt = createdAt.Time
	user.VenueIDs = make([]uuid.UUID, 0, len(venueIDs))
	for _, v := range venueIDs {
		if v.Valid {
			user.VenueIDs = append(user.VenueIDs, uuid.UUID(v.Bytes))
		}
	}
	return &user, nil
}
