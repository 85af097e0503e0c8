package domain

import "github.com/shopspring/decimal"

// All amounts in the ledger are int64 minor units (cents).
// Example: 1000 TZS is stored as 1000. $10.50 is stored as 1050.
// No floats anywhere in balance math.

// OneDay is the cashback settlement delay, in milliseconds of ledger time.
const OneDay int64 = 86_400_000

// Cashback returns the reward for a card payment: 2% of the amount,
// truncated to whole minor units. Integer math on purpose - 2% of 50
// is 1, never 1.0000000002.
func Cashback(amount int64) int64 {
	return amount * 2 / 100
}

// FormatMinor renders minor units as a human-readable decimal amount
// for API responses: 1050 -> "10.50". Display only, the ledger itself
// never round-trips through decimals.
func FormatMinor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
