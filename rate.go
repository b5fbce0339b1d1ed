package fifotax

import (
	"errors"
	"fmt"

	"github.com/mzawisa/fifotax/date"
	"github.com/shopspring/decimal"
)

// RateRecord is one externally published daily exchange-rate quotation.
type RateRecord struct {
	Value decimal.Decimal `json:"value"`
	Date  date.Date       `json:"date"` // effective date, always a business day
	ID    string          `json:"id"`   // publication number, e.g. "251/A/NBP/2019"
}

// Apply converts an amount into the domestic currency at this rate,
// rounded to 2 decimal places.
func (r RateRecord) Apply(a Amount) Amount {
	return Amount{value: a.value.Mul(r.Value).Round(2), code: Domestic}
}

// ErrNoQuotation is returned by a RateSource when no rate was published
// on the requested day (weekend or holiday).
var ErrNoQuotation = errors.New("no quotation published on that day")

// RateSource provides one daily quotation per currency and business day.
type RateSource interface {
	Daily(code Code, on date.Date) (RateRecord, error)
}

// maxLookback bounds the walk back from a trade date. Ten calendar days
// cover any weekend adjoining a holiday run.
const maxLookback = 10

// Rates caches resolved quotations. The inner key is the date the rate
// was requested for (the trade date), not the quotation's own effective
// date. It is part of the persisted document, so reprocessing the same
// activities never re-queries the source.
type Rates map[Code]map[date.Date]RateRecord

// Lookup returns the cached quotation for a trade date, if any.
func (r Rates) Lookup(code Code, on date.Date) (RateRecord, bool) {
	rec, ok := r[code][on]
	return rec, ok
}

// Store caches the quotation resolved for a trade date.
func (r Rates) Store(code Code, on date.Date, rec RateRecord) {
	byDate, ok := r[code]
	if !ok {
		byDate = make(map[date.Date]RateRecord)
		r[code] = byDate
	}
	byDate[on] = rec
}

// Merge copies all entries of other into r, keeping existing entries on
// conflict.
func (r Rates) Merge(other Rates) {
	for code, byDate := range other {
		for on, rec := range byDate {
			if _, ok := r.Lookup(code, on); !ok {
				r.Store(code, on, rec)
			}
		}
	}
}

// Len returns the total number of cached quotations.
func (r Rates) Len() int {
	n := 0
	for _, byDate := range r {
		n += len(byDate)
	}
	return n
}

// RateUnavailableError reports that no quotation was published within
// the lookback window before a trade date.
type RateUnavailableError struct {
	Code Code
	On   date.Date
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no %s quotation published within %d days before %s", e.Code, maxLookback, e.On)
}

// RateSourceError reports a transport or protocol failure contacting the
// rate source. It is fatal and never retried.
type RateSourceError struct {
	Code Code
	On   date.Date
	Err  error
}

func (e *RateSourceError) Error() string {
	return fmt.Sprintf("rate source failed for %s on %s: %v", e.Code, e.On, e.Err)
}

func (e *RateSourceError) Unwrap() error { return e.Err }

// Resolver finds the rate effective for a trade date: the last quotation
// published strictly before it.
type Resolver struct {
	source RateSource
	cache  Rates
}

// NewResolver returns a resolver backed by the given source. The cache
// may be pre-populated from a persisted document; nil starts empty.
func NewResolver(source RateSource, cache Rates) *Resolver {
	if cache == nil {
		cache = make(Rates)
	}
	return &Resolver{source: source, cache: cache}
}

// Cache exposes the resolver's rate cache for persistence.
func (rs *Resolver) Cache() Rates { return rs.cache }

// Resolve returns the quotation effective for a trade on the given date.
// Banks publish rates on business days only, so it walks back one
// calendar day at a time, never using a same-day or future quotation.
// A cache hit never reaches the source.
func (rs *Resolver) Resolve(code Code, on date.Date) (RateRecord, error) {
	if rec, ok := rs.cache.Lookup(code, on); ok {
		return rec, nil
	}
	for offset := 1; offset <= maxLookback; offset++ {
		candidate := on.Add(-offset)
		rec, err := rs.source.Daily(code, candidate)
		switch {
		case err == nil:
			rs.cache.Store(code, on, rec)
			return rec, nil
		case errors.Is(err, ErrNoQuotation):
			continue
		default:
			return RateRecord{}, &RateSourceError{Code: code, On: candidate, Err: err}
		}
	}
	return RateRecord{}, &RateUnavailableError{Code: code, On: on}
}
