package hold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
)

var (
	// ErrSlotsTaken возвращается, когда хотя бы один из запрошенных слотов занят
	ErrSlotsTaken = errors.New("hold.repository: slots taken")

	// ErrNoSlots возвращается при попытке захвата пустого набора слотов
	ErrNoSlots = errors.New("hold.repository: empty slot set")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hold.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hold.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hold.repository: failed to scan row")
)

// TakenSlot описывает один занятый слот из неудавшегося захвата.
// State различает "попробуйте позже" (pending чужого пользователя)
// и "слот ушёл навсегда" (booked).
type TakenSlot struct {
	Key     domain.SlotKey
	State   domain.HoldState
	OwnerID int64
}

// ConflictError возвращается из TryAcquire, когда часть запрошенных
// слотов занята. Содержит ПОЛНЫЙ список занятых слотов — вызывающая
// сторона использует его, чтобы сузить выбор, не отбрасывая остальное.
type ConflictError struct {
	Taken []TakenSlot
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Taken))
	for i, t := range e.Taken {
		parts[i] = fmt.Sprintf("court=%d hour=%d (%s)", t.Key.CourtID, t.Key.HourIndex, t.State)
	}
	return fmt.Sprintf("hold.repository: %d slot(s) taken: %s", len(e.Taken), strings.Join(parts, ", "))
}

// Is позволяет проверять ConflictError через errors.Is(err, ErrSlotsTaken)
func (e *ConflictError) Is(target error) bool {
	return target == ErrSlotsTaken
}
