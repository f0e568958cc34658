package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/menulink/emenu-backend/internal/core/domain"
)

// Seed helpers insert fixture rows directly; the repositories under test
// only cover the read/write paths the notification core needs.

func seedVenue(t *testing.T, name string, active bool) uuid.UUID {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	id := uuid.New()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO venues (id, name, is_active) VALUES ($1, $2, $3)`,
		id, name, active)
	require.NoError(t, err)
	return id
}

func seedUser(t *testing.T, role domain.Role, active bool, venueIDs ...uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO users (id, email, full_name, role, venue_ids, is_active) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, fmt.Sprintf("%s@example.com", id), "Test User", string(role), venueIDs, active)
	require.NoError(t, err)
	return id
}

func seedTable(t *testing.T, venueID uuid.UUID, number string, status domain.TableStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO tables (id, venue_id, number, status, capacity) VALUES ($1, $2, $3, $4, 4)`,
		id, venueID, number, string(status))
	require.NoError(t, err)
	return id
}
