package domain

import "time"

type ChargeType string

const (
	ChargeTypeLateFee   ChargeType = "LATE_FEE"
	ChargeTypeDamageFee ChargeType = "DAMAGE_FEE"
)

type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "PENDING"
	ChargeStatusSettled ChargeStatus = "SETTLED"
	ChargeStatusWaived  ChargeStatus = "WAIVED"
)

// Charge is an additional fee assessed against a reservation after booking,
// recorded separately so the original reservation total is never mutated.
type Charge struct {
	ID            int64        `json:"id"`
	OrgID         int64        `json:"org_id"`
	ReservationID int64        `json:"reservation_id"`
	Type          ChargeType   `json:"type"`
	AmountCents   int64        `json:"amount_cents"`
	Description   string       `json:"description"`
	Status        ChargeStatus `json:"status"`
	CreatedOn     time.Time    `json:"created_on"`
}
