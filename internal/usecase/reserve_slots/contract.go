package reserve_slots

import (
	"context"
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	"github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
	"github.com/nvkhoa/CourtHub-SlotService/internal/integrations/loyaltyservice"
)

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	TryAcquire(ctx context.Context, keys []domain.SlotKey, ownerID int64, bookingID string, expiresAt time.Time, now time.Time) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// CenterServiceClient интерфейс клиента для CenterService
type CenterServiceClient interface {
	GetCenter(ctx context.Context, centerID int64) (*centerservice.Center, error)
	GetSlotPrice(ctx context.Context, centerID, courtID int64, date string, hourIndex int) (int64, error)
}

// LoyaltyServiceClient интерфейс клиента для LoyaltyService
type LoyaltyServiceClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, userID int64) (*loyaltyservice.LoyaltyProfile, error)
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
