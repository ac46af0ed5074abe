package reserve_slots

import (
	"fmt"
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	"github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if req.CenterID <= 0 {
		return fmt.Errorf("%w: centerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.Slots) == 0 {
		return ErrEmptySelection
	}

	seen := make(map[SlotRef]struct{}, len(req.Slots))
	for _, slot := range req.Slots {
		if slot.CourtID <= 0 {
			return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
		}
		if !domain.IsValidHourIndex(slot.HourIndex) {
			return fmt.Errorf("%w: hourIndex=%d", ErrSlotOutsideGrid, slot.HourIndex)
		}
		if _, ok := seen[slot]; ok {
			return fmt.Errorf("%w: court=%d hour=%d", ErrDuplicateSlot, slot.CourtID, slot.HourIndex)
		}
		seen[slot] = struct{}{}
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(date, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}
	return nil
}

// validateCourtsExist проверяет, что все корты запроса существуют в центре
func validateCourtsExist(center *centerservice.Center, slots []SlotRef) error {
	for _, slot := range slots {
		if !center.HasCourt(slot.CourtID) {
			return fmt.Errorf("%w: courtID=%d", ErrCourtNotFound, slot.CourtID)
		}
	}
	return nil
}

// validateNotPast проверяет, что ни один слот не начинается в прошлом.
// Для сегодняшней даты час, который уже начался, бронировать нельзя —
// независимо от того, что позволил выбрать локальный UI клиента.
func validateNotPast(date time.Time, slots []SlotRef, now time.Time) error {
	for _, slot := range slots {
		if domain.IsPastSlot(date, slot.HourIndex, now) {
			return fmt.Errorf("%w: court=%d hour=%02d:00", ErrPastSlot, slot.CourtID, domain.GridStartHour+slot.HourIndex)
		}
	}
	return nil
}
