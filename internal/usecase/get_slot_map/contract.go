package get_slot_map

import (
	"context"
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	"github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
)

// HoldRepository интерфейс хранилища холдов
type HoldRepository interface {
	// Snapshot возвращает действующие холды центра на дату; истёкшие
	// pending-холды уже отфильтрованы
	Snapshot(ctx context.Context, centerID int64, date time.Time, now time.Time) ([]*domain.Hold, error)
}

// CenterServiceClient интерфейс клиента для CenterService
type CenterServiceClient interface {
	GetCenter(ctx context.Context, centerID int64) (*centerservice.Center, error)
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
