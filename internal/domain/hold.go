package domain

import "time"

// HoldState represents the occupancy state of one slot.
type HoldState string

const (
	HoldFree    HoldState = "free"    // never stored, the absence of a row
	HoldPending HoldState = "pending" // exclusively held, waiting for payment
	HoldBooked  HoldState = "booked"  // payment approved, permanent
)

// Hold is the exclusivity record for one SlotKey. At most one non-free
// hold exists per key at any instant. A pending hold past its expiry is
// logically free even before the sweeper physically clears it.
type Hold struct {
	Key       SlotKey
	State     HoldState
	OwnerID   int64
	BookingID string
	ExpiresAt *time.Time // set only while pending

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether a pending hold has outlived its TTL.
// Booked holds never expire.
func (h *Hold) IsExpired(now time.Time) bool {
	if h.State != HoldPending || h.ExpiresAt == nil {
		return false
	}
	return !h.ExpiresAt.After(now)
}

// BlocksAcquire reports whether the hold makes its slot unavailable at
// the given instant. This is the lazy-expiry rule: an expired pending
// hold does not block.
func (h *Hold) BlocksAcquire(now time.Time) bool {
	switch h.State {
	case HoldBooked:
		return true
	case HoldPending:
		return !h.IsExpired(now)
	default:
		return false
	}
}
