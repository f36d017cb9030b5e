// Package pricing holds the pure rate policies of the reservation engine:
// tariff selection, duration discounts and late fees. Nothing here touches
// storage; every function is deterministic in its inputs.
package pricing

import (
	"fmt"
	"time"
)

type TariffType string

const (
	TariffInvalid TariffType = "invalid"
	TariffDaily   TariffType = "daily"
	TariffWeekly  TariffType = "weekly"
	TariffMonthly TariffType = "monthly"
	TariffMixed   TariffType = "mixed"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// Quote is the result of pricing one product for a rental duration.
// BasePriceCents is always reproducible from the rates and day count; the
// stored reservation total is only a cached copy of this computation.
type Quote struct {
	Days           int        `json:"days"`
	TariffType     TariffType `json:"tariff_type"`
	Months         int        `json:"months"`
	Weeks          int        `json:"weeks"`
	BilledDays     int        `json:"billed_days"`
	BasePriceCents int64      `json:"base_price_cents"`
	Breakdown      string     `json:"breakdown"`
}

// RentalDays converts a half-open window [start, end) into a billable day
// count: the elapsed time rounded up to whole days, minimum 1.
func RentalDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// Price selects a tariff for the given day count and computes the base price.
// Weekly and monthly rates are optional; zero disables the tier.
//
// The monthly tier rounds the month count up (ceil(days/30)) while the
// remainder is days % 30, so a 35-day rental bills 2 months plus 5 remainder
// days. Downstream billing depends on these exact figures; changing either
// formula is a product decision, not an engineering one.
func Price(dailyRateCents, weeklyRateCents, monthlyRateCents int64, days int) Quote {
	if days <= 0 {
		return Quote{Days: days, TariffType: TariffInvalid, Breakdown: "invalid duration"}
	}

	if days >= 4*daysPerWeek && monthlyRateCents > 0 {
		months := days / daysPerMonth
		if days%daysPerMonth > 0 {
			months++
		}
		remainder := days % daysPerMonth
		if remainder > 0 {
			base := int64(months)*monthlyRateCents + int64(remainder)*dailyRateCents
			return Quote{
				Days:           days,
				TariffType:     TariffMixed,
				Months:         months,
				BilledDays:     remainder,
				BasePriceCents: base,
				Breakdown: fmt.Sprintf("%d month(s) x %d + %d day(s) x %d = %d",
					months, monthlyRateCents, remainder, dailyRateCents, base),
			}
		}
		base := int64(months) * monthlyRateCents
		return Quote{
			Days:           days,
			TariffType:     TariffMonthly,
			Months:         months,
			BasePriceCents: base,
			Breakdown:      fmt.Sprintf("%d month(s) x %d = %d", months, monthlyRateCents, base),
		}
	}

	if days >= daysPerWeek && weeklyRateCents > 0 {
		weeks := days / daysPerWeek
		remainder := days % daysPerWeek
		if remainder > 0 {
			base := int64(weeks)*weeklyRateCents + int64(remainder)*dailyRateCents
			return Quote{
				Days:           days,
				TariffType:     TariffMixed,
				Weeks:          weeks,
				BilledDays:     remainder,
				BasePriceCents: base,
				Breakdown: fmt.Sprintf("%d week(s) x %d + %d day(s) x %d = %d",
					weeks, weeklyRateCents, remainder, dailyRateCents, base),
			}
		}
		base := int64(weeks) * weeklyRateCents
		return Quote{
			Days:           days,
			TariffType:     TariffWeekly,
			Weeks:          weeks,
			BasePriceCents: base,
			Breakdown:      fmt.Sprintf("%d week(s) x %d = %d", weeks, weeklyRateCents, base),
		}
	}

	base := int64(days) * dailyRateCents
	return Quote{
		Days:           days,
		TariffType:     TariffDaily,
		BilledDays:     days,
		BasePriceCents: base,
		Breakdown:      fmt.Sprintf("%d day(s) x %d = %d", days, dailyRateCents, base),
	}
}
