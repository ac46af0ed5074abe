package reserve_slots

import "time"

// SlotRef ссылка на один корто-час внутри центра/даты запроса
type SlotRef struct {
	CourtID   int64
	HourIndex int
}

// Request модель запроса на бронирование набора слотов.
// OwnerID берётся из аутентифицированной сессии, никогда из тела запроса.
// Цен в запросе нет: сервер вычисляет их сам.
type Request struct {
	OwnerID  int64
	CenterID int64
	Date     time.Time // Дата бронирования (без времени)
	Slots    []SlotRef
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          string
	OwnerID     int64
	CenterID    int64
	Date        time.Time
	Slots       []SlotPriceItem
	BaseAmount  int64 // сумма до скидок, đồng
	DiscountPct int   // суммарный процент скидки
	TotalAmount int64 // итог к оплате, đồng
	Status      string
	ExpiresAt   time.Time // конец платёжного окна
	CreatedAt   time.Time
}

// SlotPriceItem слот бронирования с серверной ценой
type SlotPriceItem struct {
	CourtID   int64
	HourIndex int
	Price     int64
}
