package money

import "github.com/shopspring/decimal"

// Amounts are held as int64 minor units everywhere; rate math runs through
// decimal and rounds half-up back to the minor unit.

var hundred = decimal.NewFromInt(100)

// PercentOf returns rate% of amount, rounded half-up to the minor unit.
func PercentOf(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).
		Mul(rate).
		Div(hundred).
		Round(0).
		IntPart()
}

// MulRate returns amount × rate (rate as a plain multiplier, e.g. 1.5 for
// overtime), rounded half-up to the minor unit.
func MulRate(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).
		Mul(rate).
		Round(0).
		IntPart()
}

// Min returns the smaller of two amounts.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Clamp caps amount at cap when cap is positive; a zero cap means uncapped.
func Clamp(amount, cap int64) int64 {
	if cap > 0 && amount > cap {
		return cap
	}
	return amount
}
