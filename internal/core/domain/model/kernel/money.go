package kernel

import (
	"encoding/json"
	"fmt"
	"sort"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyPlaces is the precision every Money value is kept at.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Money is a monetary amount in the order's currency, always rounded half
// away from zero to cents.
type Money struct {
	amount decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney rounds d to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d.Round(moneyPlaces)}
}

// MoneyFromCents builds an amount from its minor units.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -moneyPlaces)}
}

// MustMoney parses s and panics on malformed input. Intended for tests and constants.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromString parses a decimal amount such as "12.5".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d), nil
}

func (m Money) Decimal() decimal.Decimal { return m.amount }
func (m Money) IsZero() bool             { return m.amount.IsZero() }
func (m Money) IsNegative() bool         { return m.amount.IsNegative() }
func (m Money) IsPositive() bool         { return m.amount.IsPositive() }
func (m Money) Cents() int64             { return m.amount.Mul(hundred).IntPart() }
func (m Money) String() string           { return m.amount.StringFixed(moneyPlaces) }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul multiplies by an arbitrary factor and rounds the product to cents.
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor))
}

func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// ProRate returns round(m × numerator / denominator). A zero denominator yields zero.
func (m Money) ProRate(numerator, denominator int) Money {
	if denominator == 0 {
		return Zero()
	}
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(numerator))).Div(decimal.NewFromInt(int64(denominator))))
}

func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Allocate splits m across weights in proportion to each weight using the
// largest-remainder method: every share is rounded down to the cent and the
// leftover cents go to the largest fractional parts, lowest index first on
// ties. The shares always sum to m. When all weights are zero every share is zero.
func (m Money) Allocate(weights []Money) []Money {
	shares := make([]Money, len(weights))
	for i := range shares {
		shares[i] = Zero()
	}

	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w.amount)
	}
	if total.IsZero() || m.IsZero() {
		return shares
	}

	totalCents := m.amount.Mul(hundred)
	type remainder struct {
		index int
		frac  decimal.Decimal
	}
	remainders := make([]remainder, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		raw := totalCents.Mul(w.amount).Div(total)
		floor := raw.Floor()
		shares[i] = Money{amount: floor.Div(hundred)}
		allocated = allocated.Add(floor)
		remainders[i] = remainder{index: i, frac: raw.Sub(floor)}
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].frac.GreaterThan(remainders[b].frac)
	})

	left := totalCents.Sub(allocated).IntPart()
	for i := int64(0); i < left && int(i) < len(remainders); i++ {
		idx := remainders[i].index
		shares[idx] = shares[idx].Add(MoneyFromCents(1))
	}

	return shares
}

// Sum adds amounts.
func Sum(amounts ...Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	*m = NewMoney(d)
	return nil
}
