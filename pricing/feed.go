package pricing

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBucketSize is the bucket width used when Options leaves it unset.
const DefaultBucketSize = 10 * time.Second

// Listener receives settled (or forced) price updates from a Feed.
type Listener interface {
	OnPriceUpdate(price decimal.Decimal)
}

// Options configure a Feed.
type Options struct {
	// BucketSize is the width of the averaging window. Zero means
	// DefaultBucketSize.
	BucketSize time.Duration

	// InitialPrice seeds the feed so Price reports a value before the
	// first tick arrives. Nil means no market data yet.
	InitialPrice *decimal.Decimal

	// Clock drives the deferred bucket flush. Nil means SystemClock.
	Clock Clock
}

// Feed converts an irregular tick stream into at most one settled price
// per time bucket. Ticks that land in the open bucket are accumulated and
// averaged when the bucket closes; the latest raw tick is always readable
// through Price without waiting for the flush. Ticks for buckets that
// have already closed are dropped, so settled prices are never rewritten.
type Feed struct {
	mu         sync.Mutex
	clock      Clock
	bucketSize time.Duration

	price     decimal.Decimal
	hasPrice  bool
	bucket    int64
	hasBucket bool
	points    []decimal.Decimal
	flush     Timer
	closed    bool

	listeners []Listener
}

func NewFeed(opts Options) *Feed {
	f := &Feed{
		bucketSize: opts.BucketSize,
		clock:      opts.Clock,
	}
	if f.bucketSize <= 0 {
		f.bucketSize = DefaultBucketSize
	}
	if f.clock == nil {
		f.clock = SystemClock
	}
	if opts.InitialPrice != nil {
		f.price = *opts.InitialPrice
		f.hasPrice = true
	}
	return f
}

// Attach subscribes l to settled price updates.
func (f *Feed) Attach(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
}

// Detach removes every subscription held by l.
func (f *Feed) Detach(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.listeners[:0]
	for _, x := range f.listeners {
		if x != l {
			kept = append(kept, x)
		}
	}
	f.listeners = kept
}

// Price returns the most recent price, raw or settled. The second return
// is false while no market data has been seen.
func (f *Feed) Price() (decimal.Decimal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.price, f.hasPrice
}

// Update ingests one tick. mts is the tick timestamp in Unix
// milliseconds. A tick that starts a new bucket cancels the pending
// flush, becomes the current price immediately, and schedules a flush for
// the bucket's closing boundary. A tick inside the open bucket only joins
// the average. A tick for an already-closed bucket is dropped. When force
// is set the tick starts a fresh bucket and is emitted right away,
// unaveraged.
func (f *Feed) Update(price decimal.Decimal, mts int64, force bool) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	size := f.bucketSize.Milliseconds()
	bucket := mts / size

	if !f.hasBucket || bucket > f.bucket || force {
		if f.flush != nil {
			f.flush.Stop()
		}

		f.price = price
		f.hasPrice = true
		f.points = append(f.points[:0], price)
		f.bucket = bucket
		f.hasBucket = true

		var notify []Listener
		if force {
			notify = append(notify, f.listeners...)
		}

		delay := time.Duration(bucket*size+size-mts) * time.Millisecond
		f.flush = f.clock.AfterFunc(delay, func() { f.settle(bucket) })

		f.mu.Unlock()
		for _, l := range notify {
			l.OnPriceUpdate(price)
		}
		return
	}

	if bucket == f.bucket {
		f.points = append(f.points, price)
	}
	// bucket < f.bucket: stale tick, drop it
	f.mu.Unlock()
}

// settle closes a bucket: the accumulated ticks are averaged, the mean
// becomes the current price and is emitted. A flush that lost the race
// with a bucket rollover or with Close finds its bucket gone and does
// nothing.
func (f *Feed) settle(bucket int64) {
	f.mu.Lock()
	if f.closed || !f.hasBucket || f.bucket != bucket || len(f.points) == 0 {
		f.mu.Unlock()
		return
	}

	sum := decimal.Zero
	for _, p := range f.points {
		sum = sum.Add(p)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(f.points))))

	f.price = mean
	f.hasPrice = true
	notify := append([]Listener(nil), f.listeners...)

	f.mu.Unlock()
	for _, l := range notify {
		l.OnPriceUpdate(mean)
	}
}

// Close cancels any pending flush and detaches all listeners. Safe to
// call more than once.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.flush != nil {
		f.flush.Stop()
		f.flush = nil
	}
	f.listeners = nil
}
