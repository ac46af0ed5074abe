package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	bookingRepo "github.com/nvkhoa/CourtHub-SlotService/internal/infra/storage/booking"
	"github.com/nvkhoa/CourtHub-SlotService/internal/service/bookings/models"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/simpletxmanager"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/txmanager"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*domain.Booking)}
	for _, b := range bookings {
		copied := *b
		repo.bookings[b.ID] = &copied
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByOwnerID(_ context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

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
	mu        sync.Mutex
	confirmed []string
	released  []string
}

func (f *fakeHoldRepo) ConfirmByBooking(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, bookingID)
	return nil
}

func (f *fakeHoldRepo) ReleaseByBooking(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, bookingID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Оба production-менеджера транзакций должны удовлетворять контракту сервиса
var (
	_ TransactionManager = (*txmanager.TransactionManager)(nil)
	_ TransactionManager = (*simpletxmanager.TransactionManager)(nil)
)

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

var svcNow = time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

func pendingBooking(id string, ownerID int64) *domain.Booking {
	return &domain.Booking{
		ID:       id,
		OwnerID:  ownerID,
		CenterID: 1,
		Date:     time.Date(2026, time.September, 16, 0, 0, 0, 0, time.UTC),
		Slots: []domain.BookingSlot{
			{CourtID: 11, HourIndex: 9, Price: 100000},
		},
		TotalAmount: 100000,
		Status:      domain.StatusPending,
		ExpiresAt:   svcNow.Add(3 * time.Minute),
	}
}

func newTestService(bookings *fakeBookingRepo, holds *fakeHoldRepo) *Service {
	svc := NewService(bookings, holds, fakeTxManager{}, nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: svcNow}
	return svc
}

// Тесты

func TestGetByID_OwnerOnly(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1", 7))
	svc := newTestService(repo, &fakeHoldRepo{})

	resp, err := svc.GetByID(context.Background(), "b1", 7)
	require.NoError(t, err)
	assert.Equal(t, "b1", resp.ID)

	_, err = svc.GetByID(context.Background(), "b1", 8)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), "missing", 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmPayment_Success(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1", 7))
	holds := &fakeHoldRepo{}
	svc := newTestService(repo, holds)

	resp, err := svc.ConfirmPayment(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	stored, _ := repo.GetByID(context.Background(), "b1")
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, []string{"b1"}, holds.confirmed)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1", 7))
	holds := &fakeHoldRepo{}
	svc := newTestService(repo, holds)

	_, err := svc.ConfirmPayment(context.Background(), "b1")
	require.NoError(t, err)

	// Повторное подтверждение — успех без второго перехода статуса
	resp, err := svc.ConfirmPayment(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Len(t, holds.confirmed, 1)
}

func TestConfirmPayment_ExpiredWindow_Rejected(t *testing.T) {
	booking := pendingBooking("b1", 7)
	booking.ExpiresAt = svcNow.Add(-time.Second)
	repo := newFakeBookingRepo(booking)
	holds := &fakeHoldRepo{}
	svc := newTestService(repo, holds)

	_, err := svc.ConfirmPayment(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrCannotConfirm)
	assert.Empty(t, holds.confirmed)

	// Статус не тронут: истёкшее бронирование добьёт sweeper
	stored, _ := repo.GetByID(context.Background(), "b1")
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestConfirmPayment_TerminalStatus_Rejected(t *testing.T) {
	booking := pendingBooking("b1", 7)
	booking.Status = domain.StatusExpired
	repo := newFakeBookingRepo(booking)
	svc := newTestService(repo, &fakeHoldRepo{})

	_, err := svc.ConfirmPayment(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrCannotConfirm)
}

func TestCancel_Success(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1", 7))
	holds := &fakeHoldRepo{}
	svc := newTestService(repo, holds)

	err := svc.Cancel(context.Background(), "b1", 7)
	require.NoError(t, err)

	stored, _ := repo.GetByID(context.Background(), "b1")
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, []string{"b1"}, holds.released)
}

func TestCancel_Idempotent(t *testing.T) {
	booking := pendingBooking("b1", 7)
	booking.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(booking)
	holds := &fakeHoldRepo{}
	svc := newTestService(repo, holds)

	err := svc.Cancel(context.Background(), "b1", 7)
	require.NoError(t, err)
	assert.Empty(t, holds.released)
}

func TestCancel_ConfirmedBooking_Rejected(t *testing.T) {
	booking := pendingBooking("b1", 7)
	booking.Status = domain.StatusConfirmed
	repo := newFakeBookingRepo(booking)
	holds := &fakeHoldRepo{}
	svc := newTestService(repo, holds)

	err := svc.Cancel(context.Background(), "b1", 7)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, holds.released)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("b1", 7))
	svc := newTestService(repo, &fakeHoldRepo{})

	err := svc.Cancel(context.Background(), "b1", 8)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings_StatusFilter(t *testing.T) {
	confirmed := pendingBooking("b2", 7)
	confirmed.Status = domain.StatusConfirmed
	repo := newFakeBookingRepo(pendingBooking("b1", 7), confirmed, pendingBooking("b3", 8))
	svc := newTestService(repo, &fakeHoldRepo{})

	all, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{OwnerID: 7})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	status := "confirmed"
	filtered, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{OwnerID: 7, Status: &status})
	require.NoError(t, err)
	require.Len(t, filtered.Bookings, 1)
	assert.Equal(t, "b2", filtered.Bookings[0].ID)

	bad := "paid"
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{OwnerID: 7, Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
