package reserve_slots

import (
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	reserveSlots "github.com/nvkhoa/CourtHub-SlotService/internal/usecase/reserve_slots"
)

// SlotRefItem один слот в запросе: корт и часовой индекс сетки
type SlotRefItem struct {
	CourtID   int64 `json:"courtId"`
	HourIndex int   `json:"hourIndex"`
}

// ReserveSlotsRequest HTTP request model.
// Цен в запросе нет: сервер вычисляет их сам и игнорирует любые
// суммы, которые клиент мог бы прислать.
type ReserveSlotsRequest struct {
	CenterID int64         `json:"centerId"`
	Date     string        `json:"date"` // "2026-09-15"
	Slots    []SlotRefItem `json:"slots"`
}

// SlotPriceItem слот с серверной ценой в ответе
type SlotPriceItem struct {
	CourtID   int64 `json:"courtId"`
	HourIndex int   `json:"hourIndex"`
	Price     int64 `json:"price"`
}

// ReserveSlotsResponse HTTP response model
type ReserveSlotsResponse struct {
	ID          string          `json:"id"`
	OwnerID     int64           `json:"ownerId"`
	CenterID    int64           `json:"centerId"`
	Date        string          `json:"date"`
	Slots       []SlotPriceItem `json:"slots"`
	BaseAmount  int64           `json:"baseAmount"`
	DiscountPct int             `json:"discountPct"`
	TotalAmount int64           `json:"totalAmount"`
	Status      string          `json:"status"`
	ExpiresAt   string          `json:"expiresAt"`
	CreatedAt   string          `json:"createdAt"`
}

// ConflictedSlotItem проигранный слот из отчёта о конфликте
type ConflictedSlotItem struct {
	CourtID   int64  `json:"courtId"`
	HourIndex int    `json:"hourIndex"`
	State     string `json:"state"` // "held_by_other" или "booked"
}

// ConflictResponse тело ответа 409: ровно те слоты, которые заняты.
// Клиент убирает их из выбора и повторяет запрос.
type ConflictResponse struct {
	Error           string               `json:"error"`
	ConflictedSlots []ConflictedSlotItem `json:"conflictedSlots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotsRequest) ToUseCaseRequest(ownerID int64) (*reserveSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	slots := make([]reserveSlots.SlotRef, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = reserveSlots.SlotRef{
			CourtID:   s.CourtID,
			HourIndex: s.HourIndex,
		}
	}

	return &reserveSlots.Request{
		OwnerID:  ownerID,
		CenterID: r.CenterID,
		Date:     date,
		Slots:    slots,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlots.Response) *ReserveSlotsResponse {
	slots := make([]SlotPriceItem, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotPriceItem{
			CourtID:   s.CourtID,
			HourIndex: s.HourIndex,
			Price:     s.Price,
		}
	}

	return &ReserveSlotsResponse{
		ID:          resp.ID,
		OwnerID:     resp.OwnerID,
		CenterID:    resp.CenterID,
		Date:        resp.Date.Format(domain.DateFormat),
		Slots:       slots,
		BaseAmount:  resp.BaseAmount,
		DiscountPct: resp.DiscountPct,
		TotalAmount: resp.TotalAmount,
		Status:      resp.Status,
		ExpiresAt:   resp.ExpiresAt.Format(time.RFC3339),
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}

// FromConflictError конвертирует отчёт о конфликте в тело 409
func FromConflictError(conflictErr *reserveSlots.ConflictError, message string) *ConflictResponse {
	items := make([]ConflictedSlotItem, len(conflictErr.Conflicted))
	for i, c := range conflictErr.Conflicted {
		items[i] = ConflictedSlotItem{
			CourtID:   c.CourtID,
			HourIndex: c.HourIndex,
			State:     c.State,
		}
	}

	return &ConflictResponse{
		Error:           message,
		ConflictedSlots: items,
	}
}
