package fifotax

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is a monetary value tagged with its currency code.
//
// Multiplication and division round to 2 decimal places immediately, so
// every derived figure is already in a bookable form. Addition and
// subtraction require matching codes.
type Amount struct {
	value decimal.Decimal
	code  Code
}

// A is a convenient factory for Amount.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, code Code) Amount {
	return Amount{value: newDecimal(value), code: code}
}

// ParseAmount parses the "<decimal> <CODE>" text form of an amount.
func ParseAmount(s string) (Amount, error) {
	num, cur, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Amount{}, fmt.Errorf("invalid amount %q: want \"<decimal> <CODE>\"", s)
	}
	value, err := decimal.NewFromString(num)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	code, err := ParseCode(cur)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: value, code: code}, nil
}

// currency returns the go-money currency metadata for the amount's code.
func (a Amount) currency() money.Currency {
	// the Money constructor is the only way to get a never-nil currency.
	return *money.New(0, string(a.code)).Currency()
}

func (a Amount) Code() Code          { return a.code }
func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) && a.code == b.code }
func (a Amount) IsZero() bool        { return a.value.IsZero() }
func (a Amount) IsPositive() bool    { return a.value.IsPositive() }
func (a Amount) IsNegative() bool    { return a.value.IsNegative() }
func (a Amount) Neg() Amount         { return Amount{value: a.value.Neg(), code: a.code} }
func (a Amount) Abs() Amount         { return Amount{value: a.value.Abs(), code: a.code} }

// binary operators, valid on same-currency operands only.
func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value), code: code(a, b)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value), code: code(a, b)} }

// Mul multiplies by a quantity, rounded to 2 decimal places.
func (a Amount) Mul(n Quantity) Amount {
	return Amount{value: a.value.Mul(n.value).Round(2), code: a.code}
}

// Div divides by a quantity, rounded to 2 decimal places.
func (a Amount) Div(n Quantity) Amount {
	return Amount{value: a.value.Div(n.value).Round(2), code: a.code}
}

// code makes the "" currency totally weak, so zero-value accumulators
// can absorb any currency. A real mismatch is a programming error.
func code(a, b Amount) Code {
	if a.code == "" {
		return b.code
	}
	if b.code == "" {
		return a.code
	}
	if a.code != b.code {
		panic("currency mismatch " + string(a.code) + "!=" + string(b.code))
	}
	return a.code
}

// String formats the amount with its currency symbol,
// e.g. "$1,234.50" or "1 234,50 zł".
func (a Amount) String() string {
	cur := a.currency()
	dec := a.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is like String with an explicit sign; zero is "-".
func (a Amount) SignedString() string {
	if a.value.IsZero() {
		return "-"
	}
	if a.value.IsPositive() {
		return "+" + a.String()
	}
	return a.String()
}

// MarshalText implements the "<decimal> <CODE>" wire form.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.value.String() + " " + string(a.code)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
