package centerservice

// Center модель спортивного центра из CenterService
type Center struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Courts []Court `json:"courts"`
}

// Court модель корта центра
type Court struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// SlotPrice цена одного корто-часа, вычисленная прайсинговым сервисом.
// Это единственный источник цены: цены, присланные клиентом, сервис
// игнорирует.
type SlotPrice struct {
	CenterID  int64  `json:"center_id"`
	CourtID   int64  `json:"court_id"`
	Date      string `json:"date"`
	HourIndex int    `json:"hour_index"`
	Amount    int64  `json:"amount"` // đồng
}

// ErrorResponse модель ошибки от CenterService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HasCourt returns true if the center has an active court with the given id
func (c *Center) HasCourt(courtID int64) bool {
	for _, court := range c.Courts {
		if court.ID == courtID && court.IsActive {
			return true
		}
	}
	return false
}
