package fifotax

import "time"

// Lot is a quantity of a security acquired in one buy, tracked until
// fully sold. Price and Commission are domestic per the ledger contract.
type Lot struct {
	Time       time.Time
	Quantity   Quantity
	Price      Amount // per-share purchase price
	Commission Amount // full commission of the original buy
}

// lots is the FIFO queue of open purchase lots for one symbol.
// The front lot is always the oldest.
type lots []Lot

func (l *lots) push(t Lot) { *l = append(*l, t) }

func (l *lots) popFront() (Lot, bool) {
	if len(*l) == 0 {
		return Lot{}, false
	}
	front := (*l)[0]
	*l = (*l)[1:]
	return front, true
}

// pushFront returns a partially consumed lot to the head of the queue,
// keeping it the oldest.
func (l *lots) pushFront(t Lot) { *l = append(lots{t}, *l...) }
