package utils

import (
	"github.com/shopspring/decimal"
)

// FormatMinorUnits renders an integer amount of minor units with the given exponent.
// Example: 26050 with exponent 2 returns "260.50"
// Example: 260 with exponent 0 returns "260"
func FormatMinorUnits(amount int64, exponent int32) string {
	if exponent <= 0 {
		return decimal.NewFromInt(amount).String()
	}
	return decimal.New(amount, -exponent).StringFixed(exponent)
}
