package centerservice

import "errors"

var (
	// ErrCenterNotFound возвращается, когда центр не найден
	ErrCenterNotFound = errors.New("center not found")

	// ErrPriceNotFound возвращается, когда для слота не определена цена
	ErrPriceNotFound = errors.New("slot price not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("centerservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("centerservice client: invalid response")
)
