package fifotax

import "fmt"

// Code identifies one of the currencies a broker export can quote in.
// The set is closed: adding a currency means adding a constant here.
type Code string

const (
	PLN Code = "PLN"
	USD Code = "USD"
	GBP Code = "GBP"
	EUR Code = "EUR"
)

// Domestic is the single currency all tax figures are reported in.
const Domestic = PLN

func (c Code) String() string { return string(c) }

// ParseCode parses a currency code from its string form.
func ParseCode(s string) (Code, error) {
	switch Code(s) {
	case PLN, USD, GBP, EUR:
		return Code(s), nil
	default:
		return "", fmt.Errorf("unknown currency code %q", s)
	}
}
