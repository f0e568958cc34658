package domain

import (
	"time"

	"github.com/google/uuid"
)

// Venue is a single restaurant/outlet, the unit of isolation for real-time
// events.
type Venue struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
