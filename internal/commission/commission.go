// Package commission holds the payout rules applied to consignment sales.
package commission

import "github.com/shopspring/decimal"

var (
	// HighTierThreshold is the inclusive lower bound of the high tier.
	HighTierThreshold = decimal.NewFromInt(5000)
	// PremiumThreshold is the exclusive lower bound for premium cases.
	PremiumThreshold = decimal.NewFromInt(8000)

	BaseRate = decimal.RequireFromString("0.30")
	HighRate = decimal.RequireFromString("0.40")
)

// Quote is a computed commission for a sales total.
type Quote struct {
	Total  decimal.Decimal `json:"total"`
	Rate   decimal.Decimal `json:"rate"`
	Payout decimal.Decimal `json:"payout"`
}

// Rate returns 40% for totals of 5000 or more, 30% otherwise.
func Rate(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(HighTierThreshold) {
		return HighRate
	}
	return BaseRate
}

func Payout(total decimal.Decimal) decimal.Decimal {
	return total.Mul(Rate(total))
}

func Calculate(total decimal.Decimal) Quote {
	rate := Rate(total)
	return Quote{Total: total, Rate: rate, Payout: total.Mul(rate)}
}

// IsPremium reports whether a case total is strictly above the premium threshold.
func IsPremium(total decimal.Decimal) bool {
	return total.GreaterThan(PremiumThreshold)
}
