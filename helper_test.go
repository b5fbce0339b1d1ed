package fifotax

import (
	"time"

	"github.com/mzawisa/fifotax/date"
)

// helpers for tests to build amounts and already-resolved money.

func pln(v float64) Amount { return A(v, PLN) }
func usd(v float64) Amount { return A(v, USD) }

// plnMoney wraps an already-domestic amount; it never needs a resolver.
func plnMoney(v float64) Money {
	m, err := NewMoney(A(v, PLN), date.Date{}, nil)
	if err != nil {
		panic(err)
	}
	return m
}

// at parses a wire-format activity timestamp.
func at(ts string) time.Time {
	t, err := time.Parse(timestampFormat, ts)
	if err != nil {
		panic(err)
	}
	return t
}

func buy(symbol, ts string, quantity float64, price, commission Money) Activity {
	return Activity{Symbol: symbol, Timestamp: at(ts),
		Operation: Buy{Quantity: Q(quantity), Price: price, Commission: commission}}
}

func sell(symbol, ts string, quantity float64, price, commission Money) Activity {
	return Activity{Symbol: symbol, Timestamp: at(ts),
		Operation: Sell{Quantity: Q(quantity), Price: price, Commission: commission}}
}

func dividend(symbol, ts string, value, withholdingTax Money) Activity {
	return Activity{Symbol: symbol, Timestamp: at(ts),
		Operation: Dividend{Value: value, WithholdingTax: withholdingTax}}
}

// record builds a RateRecord for tests.
func record(value float64, effective, id string) RateRecord {
	return RateRecord{Value: newDecimal(value), Date: date.MustParse(effective), ID: id}
}

// fakeSource serves quotations from a fixed table, keyed by
// "<CODE> <date>", and counts the queries it receives.
type fakeSource struct {
	rates   map[string]RateRecord
	err     error // when set, every call fails with it
	queries int
}

func (s *fakeSource) Daily(code Code, on date.Date) (RateRecord, error) {
	s.queries++
	if s.err != nil {
		return RateRecord{}, s.err
	}
	rec, ok := s.rates[string(code)+" "+on.String()]
	if !ok {
		return RateRecord{}, ErrNoQuotation
	}
	return rec, nil
}
