package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	MYR Currency = "MYR"
	USD Currency = "USD"
)

// Money holds an amount in minor units (cents).
// RM 2,500.00 is stored as 250000.
type Money struct {
	Amount   int64
	Currency Currency
}

func NewMoney(amount int64, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// Add adds two Money instances; currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Subtract subtracts Money; fails on currency mismatch or a negative result.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot subtract %s from %s", other.Currency, m.Currency)
	}
	if m.Amount < other.Amount {
		return Money{}, ErrInsufficientFunds
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

var centsPerUnit = decimal.NewFromInt(100)

// ParseAmount converts decimal user input like "12.50" into minor units,
// rounding to the nearest cent. Non-numeric, negative, or zero input is
// rejected with ErrInvalidAmount before it ever reaches the engine.
func ParseAmount(input string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(centsPerUnit).Round(0)
	if cents.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// FormatAmount renders minor units as a decimal string, e.g. 250000 -> "2500.00".
func FormatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(centsPerUnit).StringFixed(2)
}
