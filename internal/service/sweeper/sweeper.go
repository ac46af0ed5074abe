package sweeper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	bookingRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/booking"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/metrics"
)

// batchSize максимум бронирований, обрабатываемых за один проход
const batchSize = 100

// Sweeper фоновый процесс, возвращающий в пул слоты брошенных
// pending-бронирований с истёкшим платёжным окном.
//
// Для корректности конкурентного бронирования sweeper не обязателен:
// TryAcquire и Snapshot уже считают истёкший pending свободным (lazy
// expiry). Периодический проход нужен, чтобы хранилище со временем
// вычищалось, а бронирования получали терминальный статус expired.
type Sweeper struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	interval     time.Duration
	metrics      *metrics.Metrics // nil, если метрики выключены
	logger       Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New создает новый экземпляр sweeper-а
func New(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	txManager TransactionManager,
	interval time.Duration,
	m *metrics.Metrics,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		interval:     interval,
		metrics:      m,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start запускает фоновый цикл sweeper-а
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Sweeper: started with interval=%s", s.interval)

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-s.stopCh:
				s.logger.Info("Sweeper: stopped")
				return
			case <-ctx.Done():
				s.logger.Info("Sweeper: context cancelled")
				return
			}
		}
	}()
}

// Stop останавливает фоновый цикл и дожидается его завершения
func (s *Sweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Sweep выполняет один проход: переводит каждое истёкшее
// pending-бронирование в expired и отпускает его холды
func (s *Sweeper) Sweep(ctx context.Context) {
	start := time.Now()
	now := s.timeProvider.Now()

	expired, err := s.bookingRepo.ListExpiredPending(ctx, now, batchSize)
	if err != nil {
		s.logger.Error("Sweeper: failed to list expired bookings: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	s.logger.Info("Sweeper: found %d expired pending booking(s)", len(expired))

	reclaimed := 0
	for _, b := range expired {
		if err := s.expireBooking(ctx, b.ID); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusNotMatched) {
				// Гонку выиграл confirm — бронирование больше не pending,
				// его слоты трогать нельзя
				s.logger.Info("Sweeper: booking id=%s was confirmed concurrently, skipping", b.ID)
				continue
			}
			s.logger.Error("Sweeper: failed to expire booking id=%s: %v", b.ID, err)
			continue
		}
		reclaimed++
	}

	if s.metrics != nil {
		s.metrics.SweeperExpiredTotal.Add(float64(reclaimed))
		s.metrics.SweeperSweepDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.Info("Sweeper: reclaimed %d booking(s) in %s", reclaimed, time.Since(start))
}

// expireBooking атомарно переводит бронирование в expired и отпускает
// его холды. Условный переход статуса гарантирует, что с одновременным
// confirm-ом выигрывает ровно одна сторона.
func (s *Sweeper) expireBooking(ctx context.Context, bookingID string) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatusIf(txCtx, bookingID, domain.StatusPending, domain.StatusExpired); err != nil {
			return err
		}
		return s.holdRepo.ReleaseByBooking(txCtx, bookingID)
	})
}
