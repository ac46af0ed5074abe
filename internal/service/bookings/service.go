package bookings

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	bookingRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/booking"
	"github.com/nvkhoa/CourtHub-SlotService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: подтверждение оплаты,
// отмена, чтение
type Service struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	// confirmFlight склеивает одновременные подтверждения одного
	// bookingId в один проход: конкурирующие вызовы разделяют результат
	confirmFlight singleflight.Group
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь может видеть только своё бронирование.
func (s *Service) GetByID(ctx context.Context, id string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for owner=%d, status=%v", req.OwnerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for owner=%d", *req.Status, req.OwnerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByOwnerID(ctx, req.OwnerID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for owner=%d", len(bookings), req.OwnerID)
	return models.FromDomainBookingList(bookings), nil
}

// ConfirmPayment подтверждает оплату бронирования: статус переходит
// pending → confirmed, холды переходят в booked.
//
// Идемпотентен: подтверждение уже подтверждённого бронирования — no-op
// с успешным результатом. Одновременные вызовы по одному bookingId
// склеиваются в один проход. Гонка с sweeper-ом разрешается условным
// переходом статуса: побеждает ровно одна сторона.
func (s *Service) ConfirmPayment(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmPayment: confirming booking id=%s", bookingID)

	result, err, shared := s.confirmFlight.Do(bookingID, func() (interface{}, error) {
		return s.confirmPayment(ctx, bookingID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Info("ConfirmPayment: coalesced concurrent confirm for booking id=%s", bookingID)
	}

	return result.(*models.BookingResponse), nil
}

func (s *Service) confirmPayment(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	now := s.timeProvider.Now()

	var confirmed *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID, "ConfirmPayment")
		if err != nil {
			return err
		}

		// Уже подтверждено — идемпотентный успех
		if booking.Status == domain.StatusConfirmed {
			s.logger.Info("ConfirmPayment: booking id=%s already confirmed", bookingID)
			confirmed = booking
			return nil
		}

		// Платёжное окно истекло либо бронирование в терминальном
		// статусе: подтверждать нечего, слоты уже (или вот-вот будут)
		// отпущены sweeper-ом
		if !booking.CanBeConfirmed(now) {
			s.logger.Warn("ConfirmPayment: booking id=%s cannot be confirmed, status=%s, expires_at=%s",
				bookingID, booking.Status, booking.ExpiresAt.Format("15:04:05"))
			return ErrCannotConfirm
		}

		if err := s.bookingRepo.UpdateStatusIf(txCtx, bookingID, domain.StatusPending, domain.StatusConfirmed); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusNotMatched) {
				// Гонку выиграла другая сторона (sweeper или параллельный
				// confirm вне процесса) — перечитываем и решаем по факту
				s.logger.Warn("ConfirmPayment: lost status race for booking id=%s", bookingID)
				return ErrCannotConfirm
			}
			s.logger.Error("ConfirmPayment: repository error for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
		}

		if err := s.holdRepo.ConfirmByBooking(txCtx, bookingID); err != nil {
			s.logger.Error("ConfirmPayment: failed to confirm holds for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: ConfirmPayment - failed to confirm holds: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusConfirmed
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ConfirmPayment: successfully confirmed booking id=%s", bookingID)
	return models.FromDomainBooking(confirmed), nil
}

// Cancel отменяет pending-бронирование по инициативе владельца:
// холды возвращаются в free, статус переходит в cancelled.
// Идемпотентен: отмена уже отменённого бронирования — no-op.
// Подтверждённое бронирование отменить нельзя.
func (s *Service) Cancel(ctx context.Context, bookingID string, userID int64) error {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%d", bookingID, userID)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID, "Cancel")
		if err != nil {
			return err
		}

		if booking.OwnerID != userID {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%s", userID, bookingID)
			return ErrAccessDenied
		}

		// Уже отменено — идемпотентный успех
		if booking.Status == domain.StatusCancelled {
			s.logger.Info("Cancel: booking id=%s already cancelled", bookingID)
			return nil
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.UpdateStatusIf(txCtx, bookingID, domain.StatusPending, domain.StatusCancelled); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusNotMatched) {
				s.logger.Warn("Cancel: lost status race for booking id=%s", bookingID)
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Отпускаем слоты; booked-холдов у pending-бронирования нет
		if err := s.holdRepo.ReleaseByBooking(txCtx, bookingID); err != nil {
			s.logger.Error("Cancel: failed to release holds for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - failed to release holds: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return nil
}

// getBooking общая выборка бронирования с маппингом ошибки not found
func (s *Service) getBooking(ctx context.Context, id string, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
