package hold

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

// Repository репозиторий слотовых холдов — единственный источник правды
// о занятости слотов. Строка в таблице holds существует только для
// занятого слота (pending или booked); свободный слот — отсутствие строки.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// TryAcquire атомарно захватывает ВСЕ запрошенные слоты под бронирование
// bookingID, либо не захватывает ни одного (all-or-nothing).
//
// Должен вызываться внутри сериализуемой транзакции (TransactionManager.
// DoSerializable): выборка с FOR UPDATE блокирует существующие строки,
// а конфликт одновременных вставок по одному ключу разрешается на
// commit-е serialization failure-ом и повтором транзакции.
//
// Pending-холд с истёкшим expires_at считается свободным (lazy expiry) —
// захват не требует, чтобы sweeper успел его вычистить.
//
// При конфликте возвращает *ConflictError с полным списком занятых
// слотов; мутаций при этом не происходит.
func (r *Repository) TryAcquire(
	ctx context.Context,
	keys []domain.SlotKey,
	ownerID int64,
	bookingID string,
	expiresAt time.Time,
	now time.Time,
) error {
	if len(keys) == 0 {
		return ErrNoSlots
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Сортируем ключи в канонический порядок блокировки, чтобы два
	// пересекающихся запроса не могли взять блокировки в противоположном
	// порядке
	sorted := make([]domain.SlotKey, len(keys))
	copy(sorted, keys)
	domain.SortSlotKeys(sorted)

	// 1. Читаем существующие холды по запрошенным ключам с блокировкой
	existing, err := r.lockHolds(ctx, executor, sorted)
	if err != nil {
		return err
	}

	// 2. Классифицируем: какие из них реально блокируют захват
	taken := classifyTaken(existing, now)
	if len(taken) > 0 {
		return &ConflictError{Taken: taken}
	}

	// 3. Все ключи свободны — записываем pending-холды одним upsert-ом.
	// ON CONFLICT перезаписывает только истёкшие pending-строки: живые
	// мы бы увидели на шаге 2.
	insertBuilder := psqlbuilder.Insert("holds").
		Columns("center_id", "court_id", "slot_date", "hour_index", "state", "owner_id", "booking_id", "expires_at")

	for _, key := range sorted {
		insertBuilder = insertBuilder.Values(
			key.CenterID,
			key.CourtID,
			key.Date,
			key.HourIndex,
			domain.HoldPending,
			ownerID,
			bookingID,
			expiresAt,
		)
	}

	query, args, err := insertBuilder.
		Suffix(`ON CONFLICT (center_id, court_id, slot_date, hour_index) DO UPDATE SET
			state = EXCLUDED.state,
			owner_id = EXCLUDED.owner_id,
			booking_id = EXCLUDED.booking_id,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TryAcquire - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: TryAcquire - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ConfirmByBooking переводит все pending-холды бронирования в booked.
// Идемпотентен: повторный вызов (или вызов для уже booked холдов)
// не затрагивает строк и не является ошибкой.
func (r *Repository) ConfirmByBooking(ctx context.Context, bookingID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("state", domain.HoldBooked).
		Set("expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "state": domain.HoldPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ConfirmByBooking - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ConfirmByBooking - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ReleaseByBooking возвращает все pending-холды бронирования в free
// (физически удаляет строки). Booked-холды не затрагиваются — release
// после confirm является no-op. Идемпотентен.
func (r *Repository) ReleaseByBooking(ctx context.Context, bookingID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holds").
		Where(squirrel.Eq{"booking_id": bookingID, "state": domain.HoldPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseByBooking - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// Snapshot возвращает все действующие холды центра на дату.
// Истёкшие pending-холды отфильтровываются прямо в запросе — для
// читателя такой слот уже свободен, даже если sweeper ещё не прошёл.
func (r *Repository) Snapshot(ctx context.Context, centerID int64, date time.Time, now time.Time) ([]*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"center_id",
		"court_id",
		"slot_date",
		"hour_index",
		"state",
		"owner_id",
		"booking_id",
		"expires_at",
		"created_at",
		"updated_at",
	).
		From("holds").
		Where(squirrel.Eq{"center_id": centerID, "slot_date": date}).
		Where(squirrel.Or{
			squirrel.Eq{"state": domain.HoldBooked},
			squirrel.And{
				squirrel.Eq{"state": domain.HoldPending},
				squirrel.Gt{"expires_at": now},
			},
		}).
		OrderBy("court_id ASC, hour_index ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Snapshot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Snapshot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// lockHolds читает холды по ключам с блокировкой FOR UPDATE.
// Ключи должны быть отсортированы вызывающей стороной.
func (r *Repository) lockHolds(ctx context.Context, executor DBExecutor, keys []domain.SlotKey) ([]*domain.Hold, error) {
	keyConds := make(squirrel.Or, len(keys))
	for i, key := range keys {
		keyConds[i] = squirrel.Eq{"court_id": key.CourtID, "hour_index": key.HourIndex}
	}

	query, args, err := psqlbuilder.Select(
		"center_id",
		"court_id",
		"slot_date",
		"hour_index",
		"state",
		"owner_id",
		"booking_id",
		"expires_at",
		"created_at",
		"updated_at",
	).
		From("holds").
		Where(squirrel.Eq{"center_id": keys[0].CenterID, "slot_date": keys[0].Date}).
		Where(keyConds).
		OrderBy("court_id ASC, hour_index ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: lockHolds - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: lockHolds - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// classifyTaken возвращает подмножество холдов, которые блокируют захват
// в момент now (booked, либо pending с живым expires_at)
func classifyTaken(holds []*domain.Hold, now time.Time) []TakenSlot {
	taken := make([]TakenSlot, 0)
	for _, h := range holds {
		if h.BlocksAcquire(now) {
			taken = append(taken, TakenSlot{
				Key:     h.Key,
				State:   h.State,
				OwnerID: h.OwnerID,
			})
		}
	}
	return taken
}

// scanHolds сканирует результаты запроса в слайс холдов
func scanHolds(rows *sql.Rows) ([]*domain.Hold, error) {
	holds := make([]*domain.Hold, 0)

	for rows.Next() {
		var h domain.Hold
		var expiresAt sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&h.Key.CenterID,
			&h.Key.CourtID,
			&h.Key.Date,
			&h.Key.HourIndex,
			&h.State,
			&h.OwnerID,
			&h.BookingID,
			&expiresAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %v", ErrScanRow, err)
		}

		if expiresAt.Valid {
			h.ExpiresAt = &expiresAt.Time
		}
		h.CreatedAt = createdAt.Time
		h.UpdatedAt = updatedAt.Time

		holds = append(holds, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}
