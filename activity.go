package fifotax

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/mzawisa/fifotax/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// timestampFormat is the wire format of activity timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// OpType is a typed string identifying the operation of an activity.
type OpType string

const (
	OpBuy      OpType = "buy"
	OpSell     OpType = "sell"
	OpDividend OpType = "dividend"
)

// Operation is the variant part of an activity.
type Operation interface {
	What() OpType
}

// Buy is a purchase of shares. Price is per share.
type Buy struct {
	Quantity   Quantity `json:"quantity"`
	Price      Money    `json:"price"`
	Commission Money    `json:"commission"`
}

func (Buy) What() OpType { return OpBuy }

// Sell is a sale of shares. Price is per share.
type Sell struct {
	Quantity   Quantity `json:"quantity"`
	Price      Money    `json:"price"`
	Commission Money    `json:"commission"`
}

func (Sell) What() OpType { return OpSell }

// Dividend is a dividend payment, with the tax already withheld at
// source by the paying country.
type Dividend struct {
	Value          Money `json:"value"`
	WithholdingTax Money `json:"withholding_tax"`
}

func (Dividend) What() OpType { return OpDividend }

// Activity is one dated operation on a symbol, produced by a broker
// adapter and consumed read-only by the tax computation.
type Activity struct {
	Symbol    string
	Timestamp time.Time
	Operation Operation
}

// Date returns the calendar day of the activity, which drives rate
// resolution and yearly partitioning.
func (a Activity) Date() date.Date { return date.Of(a.Timestamp) }

// MarshalJSON implements the json.Marshaler interface for Activity.
func (a Activity) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("operation", a.Operation.What())
	w.Append("symbol", a.Symbol)
	w.Append("timestamp", a.Timestamp.Format(timestampFormat))
	w.EmbedFrom(a.Operation)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes the operation discriminator first, then
// dispatches to the matching variant.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var identifier struct {
		Operation OpType `json:"operation"`
		Symbol    string `json:"symbol"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return fmt.Errorf("could not identify activity in %q: %w", string(data), err)
	}
	ts, err := time.Parse(timestampFormat, identifier.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid activity timestamp %q: want format %q: %w", identifier.Timestamp, timestampFormat, err)
	}

	switch identifier.Operation {
	case OpBuy:
		var op Buy
		if err := json.Unmarshal(data, &op); err != nil {
			return err
		}
		a.Operation = op
	case OpSell:
		var op Sell
		if err := json.Unmarshal(data, &op); err != nil {
			return err
		}
		a.Operation = op
	case OpDividend:
		var op Dividend
		if err := json.Unmarshal(data, &op); err != nil {
			return err
		}
		a.Operation = op
	default:
		return fmt.Errorf("unknown activity operation: %q", identifier.Operation)
	}

	a.Symbol = identifier.Symbol
	a.Timestamp = ts
	return nil
}

// SortActivities orders activities chronologically. The sort is stable,
// so same-instant activities keep their input order.
func SortActivities(activities []Activity) {
	slices.SortStableFunc(activities, func(a, b Activity) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// Normalize returns a copy of the activity with every monetary value
// converted to the domestic currency. Money already carrying its
// quotation (or already domestic) is left untouched.
func (a Activity) Normalize(r *Resolver) (Activity, error) {
	on := a.Date()
	switch op := a.Operation.(type) {
	case Buy:
		price, err := normalizeMoney(op.Price, on, r)
		if err != nil {
			return a, err
		}
		commission, err := normalizeMoney(op.Commission, on, r)
		if err != nil {
			return a, err
		}
		a.Operation = Buy{Quantity: op.Quantity, Price: price, Commission: commission}
	case Sell:
		price, err := normalizeMoney(op.Price, on, r)
		if err != nil {
			return a, err
		}
		commission, err := normalizeMoney(op.Commission, on, r)
		if err != nil {
			return a, err
		}
		a.Operation = Sell{Quantity: op.Quantity, Price: price, Commission: commission}
	case Dividend:
		value, err := normalizeMoney(op.Value, on, r)
		if err != nil {
			return a, err
		}
		tax, err := normalizeMoney(op.WithholdingTax, on, r)
		if err != nil {
			return a, err
		}
		a.Operation = Dividend{Value: value, WithholdingTax: tax}
	default:
		return a, fmt.Errorf("unknown activity operation: %T", a.Operation)
	}
	return a, nil
}

func normalizeMoney(m Money, on date.Date, r *Resolver) (Money, error) {
	if m.resolved() {
		return m, nil
	}
	return NewMoney(m.Original, on, r)
}
