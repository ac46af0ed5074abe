package loyaltyservice

// LoyaltyProfile модель профиля лояльности пользователя
type LoyaltyProfile struct {
	UserID int64  `json:"user_id"`
	Tier   string `json:"tier"` // bronze, silver, gold, platinum
	Points int64  `json:"points"`
}

// Тиры лояльности
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// GrantsExtraDiscount returns true if the tier is eligible for the
// additional loyalty discount
func (p *LoyaltyProfile) GrantsExtraDiscount() bool {
	return p.Tier == TierGold || p.Tier == TierPlatinum
}

// ErrorResponse модель ошибки от LoyaltyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
