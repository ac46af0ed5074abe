package reserve_slots

import "github.com/nvkhoa/CourtHub-SlotService/internal/domain"

// computeDiscountPercent вычисляет суммарный процент скидки.
// Скидки аддитивны (складываются), а не мультипликативны:
// 2+ слота дают 5%, подходящий тир лояльности — ещё 10%.
func computeDiscountPercent(slotCount int, loyaltyEligible bool) int {
	percent := 0
	if slotCount >= domain.MultiSlotMinCount {
		percent += domain.MultiSlotDiscountPercent
	}
	if loyaltyEligible {
		percent += domain.LoyaltyDiscountPercent
	}
	return percent
}

// applyDiscount применяет процент скидки к базовой сумме.
// Целочисленная арифметика в đồng: 300000 при 15% даёт ровно 255000.
func applyDiscount(baseAmount int64, discountPercent int) int64 {
	return baseAmount - baseAmount*int64(discountPercent)/100
}
