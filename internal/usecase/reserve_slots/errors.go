package reserve_slots

import (
	"errors"
	"fmt"
)

var (
	// ErrCenterNotFound возвращается, когда центр не найден
	ErrCenterNotFound = errors.New("reserve_slots: center not found")

	// ErrCourtNotFound возвращается, когда корт не найден в центре
	ErrCourtNotFound = errors.New("reserve_slots: court not found in center")

	// ErrEmptySelection возвращается при пустом наборе слотов
	ErrEmptySelection = errors.New("reserve_slots: empty slot selection")

	// ErrDuplicateSlot возвращается, когда один слот указан дважды
	ErrDuplicateSlot = errors.New("reserve_slots: duplicate slot in selection")

	// ErrSlotOutsideGrid возвращается, когда hourIndex вне сетки 0..18
	ErrSlotOutsideGrid = errors.New("reserve_slots: hour index outside grid")

	// ErrPastSlot возвращается при попытке забронировать уже прошедший час.
	// Проверка выполняется на сервере: "заблокированному" состоянию UI
	// клиента доверять нельзя.
	ErrPastSlot = errors.New("reserve_slots: slot is in the past")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("reserve_slots: invalid booking date")

	// ErrSlotsTaken возвращается, когда часть запрошенных слотов занята
	ErrSlotsTaken = errors.New("reserve_slots: slots taken")

	// ErrPriceUnavailable возвращается, когда прайсинговый сервис не может
	// определить цену слота — бронирование без серверной цены невозможно
	ErrPriceUnavailable = errors.New("reserve_slots: slot price unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slots: internal error")
)

// ConflictedSlot описывает один проигранный слот из отчёта о конфликте
type ConflictedSlot struct {
	CourtID   int64
	HourIndex int
	// State различает "held_by_other" (можно попробовать позже)
	// и "booked" (слот ушёл навсегда)
	State string
}

// ConflictError возвращается, когда захват слотов проигран. Содержит
// РОВНО те слоты, которые были заняты — вызывающая сторона сужает свой
// выбор и повторяет запрос, остальные слоты при этом не тронуты.
type ConflictError struct {
	Conflicted []ConflictedSlot
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	return fmt.Sprintf("reserve_slots: %d slot(s) lost the race", len(e.Conflicted))
}

// Is позволяет проверять ConflictError через errors.Is(err, ErrSlotsTaken)
func (e *ConflictError) Is(target error) bool {
	return target == ErrSlotsTaken
}
