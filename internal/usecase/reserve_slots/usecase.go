package reserve_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	holdRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/hold"
	centerClient "github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
	loyaltyClient "github.com/nvkhoa/CourtHub-SlotService/internal/integrations/loyaltyservice"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/metrics"
)

// Исходы бронирования для метрики slot_reservations_total
const (
	outcomeCreated         = "created"
	outcomeConflict        = "conflict"
	outcomeValidationError = "validation_error"
	outcomeError           = "error"
)

// UseCase use case бронирования набора слотов: проверка запроса,
// серверное ценообразование и all-or-nothing захват холдов
type UseCase struct {
	holdRepo      HoldRepository
	bookingRepo   BookingRepository
	centerClient  CenterServiceClient
	loyaltyClient LoyaltyServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	holdTTL       time.Duration
	metrics       *metrics.Metrics // nil, если метрики выключены
	logger        Logger
}

// NewUseCase создает новый экземпляр use case.
// holdTTL — платёжное окно pending-бронирования; при нуле используется
// значение по умолчанию (5 минут).
func NewUseCase(
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	centerClient CenterServiceClient,
	loyaltyClient LoyaltyServiceClient,
	txManager TransactionManager,
	holdTTL time.Duration,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	if holdTTL <= 0 {
		holdTTL = domain.DefaultHoldTTL
	}
	return &UseCase{
		holdRepo:      holdRepo,
		bookingRepo:   bookingRepo,
		centerClient:  centerClient,
		loyaltyClient: loyaltyClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		holdTTL:       holdTTL,
		metrics:       m,
		logger:        logger,
	}
}

// observeOutcome инкрементирует счётчик исходов бронирования
func (uc *UseCase) observeOutcome(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ReservationsTotal.WithLabelValues(outcome).Inc()
	}
}

// Execute выполняет use case бронирования.
// Все внешние вызовы (каталог, цены, лояльность) происходят ДО открытия
// транзакции; под блокировками выполняются только захват холдов и
// создание бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlots: owner=%d, center=%d, date=%s, slots=%d",
		req.OwnerID, req.CenterID, req.Date.Format(domain.DateFormat), len(req.Slots))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlots: validation failed: %v", err)
		uc.observeOutcome(outcomeValidationError)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты и прошедших часов (серверная проверка,
	// состоянию клиентского UI не доверяем)
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("ReserveSlots: date validation failed: %v", err)
		uc.observeOutcome(outcomeValidationError)
		return nil, err
	}
	if err := validateNotPast(req.Date, req.Slots, now); err != nil {
		uc.logger.Warn("ReserveSlots: past-slot validation failed: %v", err)
		uc.observeOutcome(outcomeValidationError)
		return nil, err
	}

	// 4. Получаем центр и проверяем существование кортов
	center, err := uc.centerClient.GetCenter(ctx, req.CenterID)
	if err != nil {
		if errors.Is(err, centerClient.ErrCenterNotFound) {
			uc.logger.Warn("ReserveSlots: center id=%d not found", req.CenterID)
			uc.observeOutcome(outcomeValidationError)
			return nil, ErrCenterNotFound
		}
		uc.logger.Error("ReserveSlots: failed to get center id=%d: %v", req.CenterID, err)
		uc.observeOutcome(outcomeError)
		return nil, fmt.Errorf("%w: failed to get center: %v", ErrInternal, err)
	}

	if err := validateCourtsExist(center, req.Slots); err != nil {
		uc.logger.Warn("ReserveSlots: court validation failed: %v", err)
		uc.observeOutcome(outcomeValidationError)
		return nil, err
	}

	// 5. Серверное ценообразование: цена каждого слота берётся у
	// прайсингового оракула, клиентские цены игнорируются
	slotPrices, baseAmount, err := uc.priceSlots(ctx, req)
	if err != nil {
		uc.observeOutcome(outcomeError)
		return nil, err
	}

	// 6. Скидка лояльности. При недоступности сервиса лояльности
	// бронирование продолжается без дополнительной скидки
	loyaltyEligible := uc.resolveLoyalty(ctx, req.OwnerID)

	discountPct := computeDiscountPercent(len(req.Slots), loyaltyEligible)
	totalAmount := applyDiscount(baseAmount, discountPct)

	// 7. Готовим бронирование
	bookingID := uuid.NewString()
	expiresAt := now.Add(uc.holdTTL)

	keys := make([]domain.SlotKey, len(req.Slots))
	bookingSlots := make([]domain.BookingSlot, len(req.Slots))
	for i, slot := range req.Slots {
		keys[i] = domain.SlotKey{
			CenterID:  req.CenterID,
			CourtID:   slot.CourtID,
			Date:      req.Date,
			HourIndex: slot.HourIndex,
		}
		bookingSlots[i] = domain.BookingSlot{
			CourtID:   slot.CourtID,
			HourIndex: slot.HourIndex,
			Price:     slotPrices[i],
		}
	}

	booking := &domain.Booking{
		ID:          bookingID,
		OwnerID:     req.OwnerID,
		CenterID:    req.CenterID,
		Date:        req.Date,
		Slots:       bookingSlots,
		TotalAmount: totalAmount,
		Status:      domain.StatusPending,
		ExpiresAt:   expiresAt,
	}

	// 8. Захват холдов и создание бронирования в одной сериализуемой
	// транзакции: либо ВСЕ слоты переходят в pending под новым
	// бронированием, либо ни один
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.holdRepo.TryAcquire(txCtx, keys, req.OwnerID, bookingID, expiresAt, now); err != nil {
			return err
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		// Конфликт — ожидаемый, частый исход; перекладываем точный список
		// проигранных слотов в ответ
		var conflict *holdRepo.ConflictError
		if errors.As(err, &conflict) {
			uc.logger.Warn("ReserveSlots: conflict for owner=%d: %d slot(s) taken", req.OwnerID, len(conflict.Taken))
			uc.observeOutcome(outcomeConflict)
			return nil, toConflictError(conflict)
		}
		uc.logger.Error("ReserveSlots: transaction failed for owner=%d: %v", req.OwnerID, err)
		uc.observeOutcome(outcomeError)
		return nil, err
	}

	uc.logger.Info("ReserveSlots: created booking id=%s, owner=%d, slots=%d, total=%d (base=%d, discount=%d%%)",
		result.ID, result.OwnerID, len(result.Slots), result.TotalAmount, baseAmount, discountPct)
	uc.observeOutcome(outcomeCreated)

	return toResponse(result, baseAmount, discountPct), nil
}

// priceSlots запрашивает цену каждого слота у прайсингового оракула
func (uc *UseCase) priceSlots(ctx context.Context, req *Request) ([]int64, int64, error) {
	dateStr := req.Date.Format(domain.DateFormat)

	prices := make([]int64, len(req.Slots))
	var baseAmount int64

	for i, slot := range req.Slots {
		price, err := uc.centerClient.GetSlotPrice(ctx, req.CenterID, slot.CourtID, dateStr, slot.HourIndex)
		if err != nil {
			if errors.Is(err, centerClient.ErrPriceNotFound) {
				uc.logger.Warn("ReserveSlots: no price for center=%d court=%d hour=%d",
					req.CenterID, slot.CourtID, slot.HourIndex)
				return nil, 0, ErrPriceUnavailable
			}
			uc.logger.Error("ReserveSlots: pricing failed for center=%d court=%d hour=%d: %v",
				req.CenterID, slot.CourtID, slot.HourIndex, err)
			return nil, 0, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
		}
		prices[i] = price
		baseAmount += price
	}

	return prices, baseAmount, nil
}

// resolveLoyalty определяет право на дополнительную скидку лояльности
func (uc *UseCase) resolveLoyalty(ctx context.Context, ownerID int64) bool {
	profile, err := uc.loyaltyClient.GetProfileWithGracefulDegradation(ctx, ownerID)
	if err != nil {
		if errors.Is(err, loyaltyClient.ErrServiceDegraded) {
			uc.logger.Warn("ReserveSlots: loyalty degraded for owner=%d, booking without loyalty discount", ownerID)
		}
		return false
	}
	return profile.GrantsExtraDiscount()
}

// toConflictError конвертирует отчёт хранилища о конфликте в модель usecase
func toConflictError(conflict *holdRepo.ConflictError) *ConflictError {
	conflicted := make([]ConflictedSlot, len(conflict.Taken))
	for i, taken := range conflict.Taken {
		state := "held_by_other"
		if taken.State == domain.HoldBooked {
			state = "booked"
		}
		conflicted[i] = ConflictedSlot{
			CourtID:   taken.Key.CourtID,
			HourIndex: taken.Key.HourIndex,
			State:     state,
		}
	}
	return &ConflictError{Conflicted: conflicted}
}

// toResponse конвертирует доменное бронирование в ответ usecase
func toResponse(b *domain.Booking, baseAmount int64, discountPct int) *Response {
	slots := make([]SlotPriceItem, len(b.Slots))
	for i, s := range b.Slots {
		slots[i] = SlotPriceItem{
			CourtID:   s.CourtID,
			HourIndex: s.HourIndex,
			Price:     s.Price,
		}
	}

	return &Response{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		CenterID:    b.CenterID,
		Date:        b.Date,
		Slots:       slots,
		BaseAmount:  baseAmount,
		DiscountPct: discountPct,
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
		ExpiresAt:   b.ExpiresAt,
		CreatedAt:   b.CreatedAt,
	}
}
