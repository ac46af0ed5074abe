package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/dbmetrics"
	"github.com/nvkhoa/CourtHub-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями.
// Запись bookings авторитетна для status и expires_at; слоты бронирования
// хранятся в booking_slots и переживают release холдов (история).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе с его слотами.
// Должен вызываться внутри транзакции вместе с hold.TryAcquire —
// бронирование и его холды появляются атомарно.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"owner_id",
			"center_id",
			"slot_date",
			"total_amount",
			"status",
			"expires_at",
		).
		Values(
			b.ID,
			b.OwnerID,
			b.CenterID,
			b.Date,
			b.TotalAmount,
			b.Status,
			b.ExpiresAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	// Слоты бронирования с зафиксированной серверной ценой
	slotsBuilder := psqlbuilder.Insert("booking_slots").
		Columns("booking_id", "court_id", "hour_index", "price")
	for _, s := range b.Slots {
		slotsBuilder = slotsBuilder.Values(b.ID, s.CourtID, s.HourIndex, s.Price)
	}

	query, args, err = slotsBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build slots insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute slots insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

// GetByID получает бронирование по ID вместе со слотами
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := bookingSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadSlots(ctx, executor, []*domain.Booking{b}); err != nil {
		return nil, err
	}

	return b, nil
}

// GetByOwnerID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByOwnerID(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := bookingSelect().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("slot_date DESC, created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadSlots(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// ListExpiredPending получает pending-бронирования с истёкшим платёжным
// окном — рабочий список sweeper-а. Слоты не загружаются.
func (r *Repository) ListExpiredPending(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := bookingSelect().
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatusIf выполняет условный переход статуса: статус изменится
// только если текущий статус равен from. Так гонка confirm/expire
// разрешается в пользу ровно одной стороны.
func (r *Repository) UpdateStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	if to == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем "нет такого бронирования" и "статус уже другой"
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusNotMatched
	}

	return nil
}

// loadSlots загружает слоты для набора бронирований одним запросом
func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, len(bookings))
	byID := make(map[string]*domain.Booking, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		byID[b.ID] = b
	}

	query, args, err := psqlbuilder.Select("booking_id", "court_id", "hour_index", "price").
		From("booking_slots").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("court_id ASC, hour_index ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID string
		var slot domain.BookingSlot
		if err := rows.Scan(&bookingID, &slot.CourtID, &slot.HourIndex, &slot.Price); err != nil {
			return fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.Slots = append(b.Slots, slot)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func bookingSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"owner_id",
		"center_id",
		"slot_date",
		"total_amount",
		"status",
		"cancelled_at",
		"expires_at",
		"created_at",
		"updated_at",
	).From("bookings")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBookingRow сканирует одну строку bookings
func scanBookingRow(row rowScanner, b *domain.Booking) error {
	var cancelledAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.CenterID,
		&b.Date,
		&b.TotalAmount,
		&b.Status,
		&cancelledAt,
		&b.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return err
	}

	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return nil
}

func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := scanBookingRow(row, &b)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanBooking - scan row: %v", ErrScanRow, err)
	}
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		if err := scanBookingRow(rows, &b); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
