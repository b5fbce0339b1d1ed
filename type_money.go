package fifotax

import (
	"encoding/json"
	"fmt"

	"github.com/mzawisa/fifotax/date"
	"github.com/shopspring/decimal"
)

// Money binds an original-currency amount to its domestic equivalent and
// the quotation, if any, used to produce it.
//
// Invariant: a domestic original has Domestic == Original and no rate;
// a foreign original has a rate and Domestic == round2(Original * rate).
type Money struct {
	Original Amount
	Domestic Amount
	Rate     *RateRecord
}

// NewMoney converts an amount into Money as of a trade date. Domestic
// amounts pass through untouched; foreign ones go through the resolver.
func NewMoney(a Amount, on date.Date, r *Resolver) (Money, error) {
	if a.code == Domestic {
		return Money{Original: a, Domestic: a}, nil
	}
	rec, err := r.Resolve(a.code, on)
	if err != nil {
		return Money{}, err
	}
	return Money{Original: a, Domestic: rec.Apply(a), Rate: &rec}, nil
}

// resolved reports whether the domestic amount can be trusted. Foreign
// money read from an old document may still lack its quotation.
func (m Money) resolved() bool { return m.Original.code == Domestic || m.Rate != nil }

// MarshalJSON writes the wire form
// {"original":"20 USD","domestic":75.95,"rate":{...}|null}.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("original", m.Original)
	w.Append("domestic", m.Domestic.value)
	if m.Rate != nil {
		w.Append("rate", m.Rate)
	} else {
		w.Append("rate", nil)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	var temp struct {
		Original Amount          `json:"original"`
		Domestic decimal.Decimal `json:"domestic"`
		Rate     *RateRecord     `json:"rate"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("malformed money value: %w", err)
	}
	if temp.Original.code == "" {
		return fmt.Errorf("malformed money value %q: missing original amount", string(data))
	}
	m.Original = temp.Original
	m.Domestic = Amount{value: temp.Domestic, code: Domestic}
	m.Rate = temp.Rate
	if m.Original.code == Domestic {
		// domestic money never carries a quotation
		m.Domestic = m.Original
		m.Rate = nil
	}
	return nil
}

func (m Money) String() string {
	if m.Original.code == Domestic {
		return m.Domestic.String()
	}
	return fmt.Sprintf("%s (%s)", m.Domestic, m.Original)
}
