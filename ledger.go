package fifotax

import (
	"fmt"
	"time"
)

// UnderflowError reports a sell of more quantity than the held lots for
// a symbol. It signals inconsistent input data and aborts the run.
type UnderflowError struct {
	Symbol  string
	Missing Quantity
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("sell of %q exceeds held lots by %s shares", e.Symbol, e.Missing)
}

// Ledger tracks open purchase lots per symbol, first-in first-out.
// It is stateful and order-sensitive: activities must be replayed in
// strict chronological order.
type Ledger struct {
	lots map[string]*lots
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{lots: make(map[string]*lots)}
}

func (l *Ledger) queue(symbol string) *lots {
	q, ok := l.lots[symbol]
	if !ok {
		q = &lots{}
		l.lots[symbol] = q
	}
	return q
}

// Open returns a copy of the open lots for a symbol, oldest first.
func (l *Ledger) Open(symbol string) []Lot {
	q, ok := l.lots[symbol]
	if !ok {
		return nil
	}
	out := make([]Lot, len(*q))
	copy(out, *q)
	return out
}

// Buy appends a new lot to the back of the symbol's queue.
func (l *Ledger) Buy(symbol string, at time.Time, quantity Quantity, price, commission Amount) {
	l.queue(symbol).push(Lot{Time: at, Quantity: quantity, Price: price, Commission: commission})
}

// Sell consumes lots front to back until the sold quantity is covered
// and returns the revenue and the total cost of the sale. The caller
// derives the gain as revenue minus cost.
//
// A lot's buy commission enters the cost only at the sale that finally
// depletes the lot, and then in full. A partially consumed lot goes back
// to the front of the queue with its commission still pending.
func (l *Ledger) Sell(symbol string, quantity Quantity, price, commission Amount) (revenue, cost Amount, err error) {
	q := l.queue(symbol)
	revenue = price.Mul(quantity)
	remaining := quantity
	var buyCommission Amount

	for remaining.IsPositive() {
		lot, ok := q.popFront()
		if !ok {
			return Amount{}, Amount{}, &UnderflowError{Symbol: symbol, Missing: remaining}
		}

		take := lot.Quantity.Min(remaining)
		lot.Quantity = lot.Quantity.Sub(take)
		remaining = remaining.Sub(take)
		cost = cost.Add(lot.Price.Mul(take))

		if lot.Quantity.IsZero() {
			buyCommission = buyCommission.Add(lot.Commission)
		} else {
			q.pushFront(lot)
		}
	}

	cost = cost.Add(buyCommission).Add(commission)
	return revenue, cost, nil
}
