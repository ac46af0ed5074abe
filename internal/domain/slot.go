package domain

import (
	"fmt"
	"sort"
	"time"
)

// SlotKey identifies one bookable court-hour. It is the primary key for
// all hold records and is never reused for a different physical slot.
type SlotKey struct {
	CenterID  int64
	CourtID   int64
	Date      time.Time // date only, time part is ignored
	HourIndex int       // 0..18, see GridStartHour
}

// StartHour returns the wall-clock hour the slot begins at (5..23).
func (k SlotKey) StartHour() int {
	return GridStartHour + k.HourIndex
}

// String returns a stable human-readable representation, e.g. for logs.
func (k SlotKey) String() string {
	return fmt.Sprintf("center=%d court=%d date=%s hour=%02d:00",
		k.CenterID, k.CourtID, k.Date.Format(DateFormat), k.StartHour())
}

// IsValidHourIndex reports whether the hour index falls inside the grid.
func IsValidHourIndex(hourIndex int) bool {
	return hourIndex >= MinHourIndex && hourIndex <= MaxHourIndex
}

// IsPastSlot reports whether the slot's start hour has already elapsed.
// Only meaningful for date == today: future dates are never past, past
// dates are always past. The server-side check is authoritative —
// client-side "locked" UI state is never trusted.
func IsPastSlot(date time.Time, hourIndex int, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowDate) {
		return true
	}
	if dateOnly.After(nowDate) {
		return false
	}

	return now.Hour() >= GridStartHour+hourIndex
}

// SortSlotKeys sorts keys in place into the canonical lock order
// (court, then hour). Every multi-slot acquisition locks rows in this
// order so that two overlapping requests cannot deadlock.
func SortSlotKeys(keys []SlotKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CourtID != keys[j].CourtID {
			return keys[i].CourtID < keys[j].CourtID
		}
		return keys[i].HourIndex < keys[j].HourIndex
	})
}

// DisplayState is the per-cell state shown to a particular viewer.
type DisplayState string

const (
	DisplayFree        DisplayState = "free"
	DisplayHeldByOther DisplayState = "held_by_other"
	DisplayHeldByMe    DisplayState = "held_by_me"
	DisplayBooked      DisplayState = "booked"
	DisplayPastLocked  DisplayState = "past_locked"
)
