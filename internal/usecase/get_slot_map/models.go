package get_slot_map

import (
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
)

// SlotRef ссылка на один корто-час
type SlotRef struct {
	CourtID   int64
	HourIndex int
}

// Request модель запроса сетки слотов.
// ViewerID равен нулю для анонимного зрителя. Selected — локально
// выбранные, но ещё не отправленные слоты зрителя: они накладываются
// на серверный снимок как held_by_me (оптимистичный локальный вид).
type Request struct {
	CenterID int64
	Date     time.Time
	ViewerID int64
	Selected []SlotRef
}

// Response модель ответа с сеткой слотов центра на дату
type Response struct {
	CenterID int64
	Date     time.Time
	Courts   []CourtGrid
}

// CourtGrid сетка одного корта: состояние каждой из 19 часовых ячеек
type CourtGrid struct {
	CourtID   int64
	CourtName string
	States    []domain.DisplayState // длина domain.GridSize, индекс = hourIndex
}
