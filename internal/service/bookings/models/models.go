package models

import (
	"errors"
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	OwnerID int64   `json:"ownerId"`
	Status  *string `json:"status,omitempty"`
}

// Response модели

// BookingSlot слот бронирования с зафиксированной ценой
type BookingSlot struct {
	CourtID   int64 `json:"courtId"`
	HourIndex int   `json:"hourIndex"`
	Price     int64 `json:"price"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          string        `json:"id"`
	OwnerID     int64         `json:"ownerId"`
	CenterID    int64         `json:"centerId"`
	Date        string        `json:"date"` // "2026-09-15"
	Slots       []BookingSlot `json:"slots"`
	TotalAmount int64         `json:"totalAmount"`
	Status      string        `json:"status"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	ExpiresAt time.Time `json:"expiresAt"` // конец платёжного окна
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	slots := make([]BookingSlot, len(b.Slots))
	for i, s := range b.Slots {
		slots[i] = BookingSlot{
			CourtID:   s.CourtID,
			HourIndex: s.HourIndex,
			Price:     s.Price,
		}
	}

	resp := &BookingResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		CenterID:    b.CenterID,
		Date:        b.Date.Format(domain.DateFormat),
		Slots:       slots,
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
		ExpiresAt:   b.ExpiresAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список доменных бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = *FromDomainBooking(b)
	}
	return &BookingListResponse{Bookings: result}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusExpired, domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
