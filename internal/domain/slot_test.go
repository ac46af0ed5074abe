package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSlotKey_StartHour(t *testing.T) {
	assert.Equal(t, 5, SlotKey{HourIndex: 0}.StartHour())
	assert.Equal(t, 14, SlotKey{HourIndex: 9}.StartHour())
	assert.Equal(t, 23, SlotKey{HourIndex: 18}.StartHour())
}

func TestIsValidHourIndex(t *testing.T) {
	assert.False(t, IsValidHourIndex(-1))
	assert.True(t, IsValidHourIndex(0))
	assert.True(t, IsValidHourIndex(18))
	assert.False(t, IsValidHourIndex(19))
}

func TestIsPastSlot(t *testing.T) {
	// 14:30 сегодняшнего дня
	now := time.Date(2026, time.September, 15, 14, 30, 0, 0, time.UTC)
	today := date(2026, time.September, 15)

	// Слот 13:00 (index 8) уже начался
	assert.True(t, IsPastSlot(today, 8, now))

	// Слот 14:00 (index 9) начался в текущем часе — тоже прошёл
	assert.True(t, IsPastSlot(today, 9, now))

	// Слот 15:00 (index 10) ещё впереди
	assert.False(t, IsPastSlot(today, 10, now))

	// Вчерашняя дата — любой час в прошлом
	assert.True(t, IsPastSlot(date(2026, time.September, 14), 18, now))

	// Завтрашняя дата — любой час в будущем
	assert.False(t, IsPastSlot(date(2026, time.September, 16), 0, now))
}

func TestSortSlotKeys(t *testing.T) {
	keys := []SlotKey{
		{CourtID: 3, HourIndex: 2},
		{CourtID: 1, HourIndex: 7},
		{CourtID: 3, HourIndex: 0},
		{CourtID: 1, HourIndex: 1},
	}

	SortSlotKeys(keys)

	assert.Equal(t, []SlotKey{
		{CourtID: 1, HourIndex: 1},
		{CourtID: 1, HourIndex: 7},
		{CourtID: 3, HourIndex: 0},
		{CourtID: 3, HourIndex: 2},
	}, keys)
}

func TestHold_BlocksAcquire(t *testing.T) {
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

	booked := &Hold{State: HoldBooked}
	assert.True(t, booked.BlocksAcquire(now))

	future := now.Add(3 * time.Minute)
	activePending := &Hold{State: HoldPending, ExpiresAt: &future}
	assert.True(t, activePending.BlocksAcquire(now))

	// Истёкший pending логически свободен ещё до прохода sweeper-а
	past := now.Add(-time.Second)
	expiredPending := &Hold{State: HoldPending, ExpiresAt: &past}
	assert.False(t, expiredPending.BlocksAcquire(now))

	// Дедлайн ровно сейчас — тоже истёк
	exact := now
	borderPending := &Hold{State: HoldPending, ExpiresAt: &exact}
	assert.False(t, borderPending.BlocksAcquire(now))
}

func TestBooking_CanBeConfirmed(t *testing.T) {
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

	pending := &Booking{Status: StatusPending, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, pending.CanBeConfirmed(now))

	// Платёжное окно истекло
	expiredWindow := &Booking{Status: StatusPending, ExpiresAt: now.Add(-time.Second)}
	assert.False(t, expiredWindow.CanBeConfirmed(now))

	confirmed := &Booking{Status: StatusConfirmed, ExpiresAt: now.Add(time.Minute)}
	assert.False(t, confirmed.CanBeConfirmed(now))

	cancelled := &Booking{Status: StatusCancelled, ExpiresAt: now.Add(time.Minute)}
	assert.False(t, cancelled.CanBeConfirmed(now))
}

func TestBooking_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusExpired}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
}
