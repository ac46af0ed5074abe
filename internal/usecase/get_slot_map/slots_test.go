package get_slot_map

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	"github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
)

var (
	gridDate = time.Date(2026, time.September, 16, 0, 0, 0, 0, time.UTC)
	gridNow  = time.Date(2026, time.September, 15, 14, 30, 0, 0, time.UTC)
)

func activeCourts() []centerservice.Court {
	return []centerservice.Court{
		{ID: 11, Name: "Court 1", IsActive: true},
		{ID: 12, Name: "Court 2", IsActive: true},
	}
}

func pendingHold(courtID int64, hourIndex int, ownerID int64) *domain.Hold {
	expires := gridNow.Add(3 * time.Minute)
	return &domain.Hold{
		Key:       domain.SlotKey{CenterID: 1, CourtID: courtID, Date: gridDate, HourIndex: hourIndex},
		State:     domain.HoldPending,
		OwnerID:   ownerID,
		ExpiresAt: &expires,
	}
}

func bookedHold(courtID int64, hourIndex int, ownerID int64) *domain.Hold {
	return &domain.Hold{
		Key:     domain.SlotKey{CenterID: 1, CourtID: courtID, Date: gridDate, HourIndex: hourIndex},
		State:   domain.HoldBooked,
		OwnerID: ownerID,
	}
}

func TestProjectGrid_BaseStates(t *testing.T) {
	holds := []*domain.Hold{
		bookedHold(11, 2, 99),
		pendingHold(11, 5, 99),
		pendingHold(12, 5, 7),
	}

	grids := projectGrid(activeCourts(), holds, 7, nil, gridDate, gridNow)
	require.Len(t, grids, 2)
	require.Len(t, grids[0].States, domain.GridSize)

	// Court 11: booked, чужой pending, остальное free
	assert.Equal(t, domain.DisplayBooked, grids[0].States[2])
	assert.Equal(t, domain.DisplayHeldByOther, grids[0].States[5])
	assert.Equal(t, domain.DisplayFree, grids[0].States[0])

	// Court 12: свой pending виден как held_by_me
	assert.Equal(t, domain.DisplayHeldByMe, grids[1].States[5])
}

func TestProjectGrid_AnonymousViewer_SeesAllHoldsAsOther(t *testing.T) {
	holds := []*domain.Hold{pendingHold(11, 5, 7)}

	grids := projectGrid(activeCourts(), holds, 0, nil, gridDate, gridNow)

	// Анонимный зритель не владеет ничем
	assert.Equal(t, domain.DisplayHeldByOther, grids[0].States[5])
}

func TestProjectGrid_SelectionOverlay_OnlyOnFreeCells(t *testing.T) {
	holds := []*domain.Hold{
		bookedHold(11, 2, 99),
		pendingHold(11, 5, 99),
	}
	selected := []SlotRef{
		{CourtID: 11, HourIndex: 2},  // booked — выбор не перекрывает
		{CourtID: 11, HourIndex: 5},  // чужой pending — выбор не перекрывает
		{CourtID: 11, HourIndex: 8},  // free — выбор виден как held_by_me
	}

	grids := projectGrid(activeCourts(), holds, 7, selected, gridDate, gridNow)

	assert.Equal(t, domain.DisplayBooked, grids[0].States[2])
	assert.Equal(t, domain.DisplayHeldByOther, grids[0].States[5])
	assert.Equal(t, domain.DisplayHeldByMe, grids[0].States[8])
}

func TestProjectGrid_SelectionIgnoredForAnonymousViewer(t *testing.T) {
	selected := []SlotRef{{CourtID: 11, HourIndex: 8}}

	grids := projectGrid(activeCourts(), nil, 0, selected, gridDate, gridNow)

	assert.Equal(t, domain.DisplayFree, grids[0].States[8])
}

func TestProjectGrid_PastLockedOverridesEverything(t *testing.T) {
	// Сетка на сегодня, сейчас 14:30: часы 05:00..14:00 (index 0..9) прошли
	today := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	holds := []*domain.Hold{
		bookedHold(11, 3, 99),
		pendingHold(11, 7, 7),
	}
	selected := []SlotRef{{CourtID: 11, HourIndex: 9}}

	grids := projectGrid(activeCourts(), holds, 7, selected, today, gridNow)

	// Даже booked и свой pending показываются как past_locked
	assert.Equal(t, domain.DisplayPastLocked, grids[0].States[3])
	assert.Equal(t, domain.DisplayPastLocked, grids[0].States[7])
	assert.Equal(t, domain.DisplayPastLocked, grids[0].States[9])

	// Будущие часы проецируются как обычно
	assert.Equal(t, domain.DisplayFree, grids[0].States[10])
}

func TestProjectGrid_InactiveCourtsSkipped(t *testing.T) {
	courts := []centerservice.Court{
		{ID: 11, Name: "Court 1", IsActive: true},
		{ID: 12, Name: "Court 2", IsActive: false},
	}

	grids := projectGrid(courts, nil, 7, nil, gridDate, gridNow)
	require.Len(t, grids, 1)
	assert.Equal(t, int64(11), grids[0].CourtID)
}
