package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/menulink/emenu-backend/internal/core/errors"
)

// TableStatus represents the occupancy state of a table.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
	TableCleaning  TableStatus = "cleaning"
)

// IsValid reports whether the status is a known table status.
func (s TableStatus) IsValid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableCleaning:
		return true
	}
	return false
}

// Table is a physical table within a venue.
type Table struct {
	ID        uuid.UUID
	VenueID   uuid.UUID
	Number    string
	Status    TableStatus
	Capacity  int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// UpdateStatus changes the table's status. Any valid status may follow any
// other; tables have no transition graph.
func (t *Table) UpdateStatus(newStatus TableStatus) error {
	if !newStatus.IsValid() {
		return apperrors.ErrInvalidTableStatus
	}
	t.Status = newStatus
	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}
