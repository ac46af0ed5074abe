package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"   // slots held, payment window open
	StatusConfirmed BookingStatus = "confirmed" // payment approved
	StatusExpired   BookingStatus = "expired"   // payment window elapsed, slots released
	StatusCancelled BookingStatus = "cancelled" // cancelled by owner before confirmation
)

// BookingSlot is one court-hour inside a booking, with the price that
// was computed server-side at reservation time.
type BookingSlot struct {
	CourtID   int64
	HourIndex int
	Price     int64 // đồng
}

// Booking is the aggregate created by a single reservation request.
// All its holds share the same owner and expiry; the booking record is
// authoritative for status and expires_at, hold records are derived.
type Booking struct {
	ID          string // uuid
	OwnerID     int64
	CenterID    int64
	Date        time.Time
	Slots       []BookingSlot
	TotalAmount int64 // đồng, after discounts
	Status      BookingStatus

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// IsTerminal returns true if the booking no longer holds its slots
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusExpired || b.Status == StatusCancelled
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed(now time.Time) bool {
	return b.Status == StatusPending && b.ExpiresAt.After(now)
}

// CanBeCancelled returns true if the booking can be cancelled by its owner
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending
}

// SlotKeys returns the slot keys of the booking in canonical order.
func (b *Booking) SlotKeys() []SlotKey {
	keys := make([]SlotKey, len(b.Slots))
	for i, s := range b.Slots {
		keys[i] = SlotKey{
			CenterID:  b.CenterID,
			CourtID:   s.CourtID,
			Date:      b.Date,
			HourIndex: s.HourIndex,
		}
	}
	SortSlotKeys(keys)
	return keys
}
