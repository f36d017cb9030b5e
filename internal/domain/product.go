package domain

import "time"

// Product is a rentable inventory unit owned by a tenant. QuantityTotal is
// the count of physical units owned; QuantityAvailable is a derived cache
// maintained only by the booking/return/cancel transactions.
type Product struct {
	ID                int64  `json:"id"`
	OrgID             int64  `json:"org_id"`
	Name              string `json:"name"`
	QuantityTotal     int32  `json:"quantity_total"`
	QuantityAvailable int32  `json:"quantity_available"`
	// Rate snapshot fields in cents. Weekly and monthly rates are optional;
	// zero means the tariff is not offered for this product.
	DailyRateCents   int64     `json:"daily_rate_cents"`
	WeeklyRateCents  int64     `json:"weekly_rate_cents"`
	MonthlyRateCents int64     `json:"monthly_rate_cents"`
	Active           bool      `json:"active"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}
