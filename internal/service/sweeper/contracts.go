package sweeper

import (
	"context"
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiredPending(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error)
	UpdateStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) error
}

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	ReleaseByBooking(ctx context.Context, bookingID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
