package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/menulink/emenu-backend/internal/core/domain"
)

// VenueRepository defines the venue lookups the core needs. The registry uses
// it for the existence-and-active check at admission time.
type VenueRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Venue, error)
}

// TableRepository defines table lookups for event context and the venue
// status snapshot.
type TableRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Table, error)
	ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Table, error)
	UpdateStatus(ctx context.Context, table *domain.Table) error
}

// OrderRepository defines order persistence at the mutation boundary.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
}

// UserRepository defines the user lookup that turns a token subject into a
// session identity.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
