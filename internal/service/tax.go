package service

import "context"

// zeroTaxProvider is the default collaborator: no tax until a fiscal
// integration supplies real numbers.
type zeroTaxProvider struct{}

func NewZeroTaxProvider() TaxProvider {
	return zeroTaxProvider{}
}

func (zeroTaxProvider) TaxCents(ctx context.Context, orgID int64, taxableCents int64) (int64, error) {
	return 0, nil
}
