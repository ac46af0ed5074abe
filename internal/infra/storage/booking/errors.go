package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusNotMatched возвращается, когда условный переход статуса не
	// сработал: бронирование существует, но его текущий статус не совпал
	// с ожидаемым (гонка confirm/expire уже разрешилась в чью-то пользу)
	ErrStatusNotMatched = errors.New("booking.repository: status predicate not matched")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
