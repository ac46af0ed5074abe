package domain

import "time"

// Grid layout: the bookable day runs from 05:00 to 24:00 in fixed
// one-hour slots, so hour indexes are 0..18.
const (
	GridStartHour = 5
	GridEndHour   = 24
	GridSize      = GridEndHour - GridStartHour // 19 hourly slots

	MinHourIndex = 0
	MaxHourIndex = GridSize - 1
)

// Default payment window for a pending booking.
const DefaultHoldTTL = 5 * time.Minute

// Discount policy constants (percent, applied additively to the base amount)
const (
	MultiSlotDiscountPercent = 5 // applies when booking MultiSlotMinCount slots or more
	MultiSlotMinCount        = 2
	LoyaltyDiscountPercent   = 10 // applies on top for eligible loyalty tiers
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses statuses in which a booking no longer holds its slots
var TerminalStatuses = []BookingStatus{
	StatusExpired,
	StatusCancelled,
}
