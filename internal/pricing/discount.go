package pricing

// Duration discount tiers, evaluated highest-first and mutually exclusive.
const (
	monthlyDiscountPct  = 15
	biweeklyDiscountPct = 10
	weeklyDiscountPct   = 5
)

// Discount returns the duration discount in cents for a base price.
// Rentals of 28+ days earn 15%, 14+ days 10%, 7+ days 5%.
func Discount(basePriceCents int64, days int) int64 {
	switch {
	case days >= 28:
		return basePriceCents * monthlyDiscountPct / 100
	case days >= 14:
		return basePriceCents * biweeklyDiscountPct / 100
	case days >= 7:
		return basePriceCents * weeklyDiscountPct / 100
	default:
		return 0
	}
}
