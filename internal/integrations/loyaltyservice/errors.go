package loyaltyservice

import "errors"

var (
	// ErrProfileNotFound возвращается, когда у пользователя нет профиля лояльности
	ErrProfileNotFound = errors.New("user has no loyalty profile")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("loyaltyservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("loyaltyservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что LoyaltyService недоступен и скидку лояльности
	// применять не следует
	ErrServiceDegraded = errors.New("loyaltyservice unavailable: graceful degradation applied")
)
