package hold

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
)

var classifyNow = time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

func TestClassifyTaken(t *testing.T) {
	activeExpiry := classifyNow.Add(3 * time.Minute)
	pastExpiry := classifyNow.Add(-time.Second)

	holds := []*domain.Hold{
		{
			Key:     domain.SlotKey{CenterID: 1, CourtID: 11, HourIndex: 9},
			State:   domain.HoldBooked,
			OwnerID: 99,
		},
		{
			Key:       domain.SlotKey{CenterID: 1, CourtID: 11, HourIndex: 10},
			State:     domain.HoldPending,
			OwnerID:   99,
			ExpiresAt: &activeExpiry,
		},
		{
			// Истёкший pending логически свободен и захват не блокирует
			Key:       domain.SlotKey{CenterID: 1, CourtID: 12, HourIndex: 9},
			State:     domain.HoldPending,
			OwnerID:   99,
			ExpiresAt: &pastExpiry,
		},
	}

	taken := classifyTaken(holds, classifyNow)
	require.Len(t, taken, 2)

	assert.Equal(t, int64(11), taken[0].Key.CourtID)
	assert.Equal(t, domain.HoldBooked, taken[0].State)
	assert.Equal(t, int64(11), taken[1].Key.CourtID)
	assert.Equal(t, domain.HoldPending, taken[1].State)
}

func TestClassifyTaken_AllFree(t *testing.T) {
	pastExpiry := classifyNow.Add(-time.Minute)
	holds := []*domain.Hold{
		{
			Key:       domain.SlotKey{CenterID: 1, CourtID: 11, HourIndex: 9},
			State:     domain.HoldPending,
			OwnerID:   99,
			ExpiresAt: &pastExpiry,
		},
	}

	assert.Empty(t, classifyTaken(holds, classifyNow))
	assert.Empty(t, classifyTaken(nil, classifyNow))
}

func TestConflictError_IsAndAs(t *testing.T) {
	err := error(&ConflictError{
		Taken: []TakenSlot{
			{Key: domain.SlotKey{CenterID: 1, CourtID: 11, HourIndex: 9}, State: domain.HoldPending, OwnerID: 99},
		},
	})

	assert.ErrorIs(t, err, ErrSlotsTaken)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Taken, 1)
}
