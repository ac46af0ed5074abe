package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	bookingRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/booking"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	bookings map[string]*domain.Booking
	// listOverride подменяет результат выборки, имитируя статус,
	// изменившийся между выборкой и переходом
	listOverride []*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*domain.Booking)}
	for _, b := range bookings {
		copied := *b
		repo.bookings[b.ID] = &copied
	}
	return repo
}

func (f *fakeBookingRepo) ListExpiredPending(_ context.Context, now time.Time, limit uint64) ([]*domain.Booking, error) {
	if f.listOverride != nil {
		return f.listOverride, nil
	}

	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusPending && !b.ExpiresAt.After(now) {
			copied := *b
			result = append(result, &copied)
		}
		if uint64(len(result)) >= limit {
			break
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStatusNotMatched
	}
	b.Status = to
	return nil
}

type fakeHoldRepo struct {
	released []string
}

func (f *fakeHoldRepo) ReleaseByBooking(_ context.Context, bookingID string) error {
	f.released = append(f.released, bookingID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Хелперы

var sweepNow = time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

func booking(id string, status domain.BookingStatus, expiresAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		OwnerID:   7,
		CenterID:  1,
		Status:    status,
		ExpiresAt: expiresAt,
	}
}

func newTestSweeper(bookings *fakeBookingRepo, holds *fakeHoldRepo) *Sweeper {
	s := New(bookings, holds, fakeTxManager{}, 30*time.Second, nil, nopLogger{})
	s.timeProvider = &fixedTimeProvider{now: sweepNow}
	return s
}

// Тесты

func TestSweep_ExpiresPendingAndReleasesHolds(t *testing.T) {
	repo := newFakeBookingRepo(
		booking("expired-1", domain.StatusPending, sweepNow.Add(-time.Minute)),
		booking("expired-2", domain.StatusPending, sweepNow.Add(-time.Second)),
		booking("active", domain.StatusPending, sweepNow.Add(time.Minute)),
		booking("confirmed", domain.StatusConfirmed, sweepNow.Add(-time.Minute)),
	)
	holds := &fakeHoldRepo{}
	s := newTestSweeper(repo, holds)

	s.Sweep(context.Background())

	assert.Equal(t, domain.StatusExpired, repo.bookings["expired-1"].Status)
	assert.Equal(t, domain.StatusExpired, repo.bookings["expired-2"].Status)
	assert.ElementsMatch(t, []string{"expired-1", "expired-2"}, holds.released)

	// Живой pending и подтверждённое бронирование не тронуты
	assert.Equal(t, domain.StatusPending, repo.bookings["active"].Status)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings["confirmed"].Status)
}

func TestSweep_ConcurrentConfirmWins(t *testing.T) {
	repo := newFakeBookingRepo(
		booking("b1", domain.StatusPending, sweepNow.Add(-time.Minute)),
	)
	holds := &fakeHoldRepo{}
	s := newTestSweeper(repo, holds)

	// Подтверждение успевает между выборкой и переходом статуса:
	// выборка всё ещё отдаёт b1 как истёкший pending
	repo.listOverride = []*domain.Booking{booking("b1", domain.StatusPending, sweepNow.Add(-time.Minute))}
	repo.bookings["b1"].Status = domain.StatusConfirmed

	s.Sweep(context.Background())

	// Условный переход проиграл гонку — слоты подтверждённого
	// бронирования не отпускаются
	assert.Equal(t, domain.StatusConfirmed, repo.bookings["b1"].Status)
	assert.Empty(t, holds.released)
}

func TestSweep_NothingExpired(t *testing.T) {
	repo := newFakeBookingRepo(
		booking("active", domain.StatusPending, sweepNow.Add(time.Minute)),
	)
	holds := &fakeHoldRepo{}
	s := newTestSweeper(repo, holds)

	s.Sweep(context.Background())

	require.Empty(t, holds.released)
	assert.Equal(t, domain.StatusPending, repo.bookings["active"].Status)
}

func TestStartStop(t *testing.T) {
	repo := newFakeBookingRepo()
	s := New(repo, &fakeHoldRepo{}, fakeTxManager{}, 10*time.Millisecond, nil, nopLogger{})

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
