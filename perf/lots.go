package perf

import "github.com/shopspring/decimal"

// Lot is a single open buy held at its cost-basis price.
type Lot struct {
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// lotQueue holds open lots in FIFO order: buys push at the tail, sells
// retire from the head. Head-indexed over a slice so retirement stays
// O(1) amortized per lot.
type lotQueue struct {
	lots []Lot
	head int
}

func (q *lotQueue) push(l Lot) {
	q.lots = append(q.lots, l)
}

func (q *lotQueue) len() int {
	return len(q.lots) - q.head
}

// front returns the oldest lot for in-place reduction. Only valid while
// len() > 0.
func (q *lotQueue) front() *Lot {
	return &q.lots[q.head]
}

// pop removes and returns the oldest lot.
func (q *lotQueue) pop() Lot {
	l := q.lots[q.head]
	q.lots[q.head] = Lot{}
	q.head++
	if q.head == len(q.lots) {
		q.lots = q.lots[:0]
		q.head = 0
	}
	return l
}

func (q *lotQueue) each(fn func(Lot)) {
	for _, l := range q.lots[q.head:] {
		fn(l)
	}
}
