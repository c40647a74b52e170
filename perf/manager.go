package perf

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratwatch/pricing"
)

// UpdateListener observes ledger updates. The signal carries no payload;
// listeners re-query the manager so they always read fully committed
// state (ledger, peak and trough are final before anyone is notified).
type UpdateListener interface {
	OnUpdate()
}

// Config constrains a Manager at construction.
type Config struct {
	// Allocation is the capital committed to the strategy. Mandatory and
	// positive; the manager never allocates beyond it.
	Allocation decimal.Decimal

	// MaxPositionSize caps the open position. Zero means uncapped.
	MaxPositionSize decimal.Decimal
}

// Manager is the authoritative ledger and admission gate for one
// strategy. It owns the available funds and the FIFO queue of open lots,
// marks the position against the feed's current price, and derives the
// equity curve, return and drawdown. Every mutation and every settled
// price recomputes the peak/trough watermarks and emits the update
// signal.
type Manager struct {
	mu sync.Mutex

	feed       *pricing.Feed
	allocation decimal.Decimal
	maxSize    decimal.Decimal
	hasMaxSize bool

	availableFunds decimal.Decimal
	peak           decimal.Decimal
	trough         decimal.Decimal
	lots           lotQueue

	listeners []UpdateListener
}

// NewManager builds a manager over feed and subscribes it to the feed's
// settled prices. A non-positive allocation is a configuration error.
func NewManager(feed *pricing.Feed, cfg Config) (*Manager, error) {
	if !cfg.Allocation.IsPositive() {
		return nil, fmt.Errorf("capital allocation is mandatory and must be positive, got %s", cfg.Allocation)
	}

	m := &Manager{
		feed:           feed,
		allocation:     cfg.Allocation,
		availableFunds: cfg.Allocation,
		peak:           cfg.Allocation,
		trough:         cfg.Allocation,
	}
	if !cfg.MaxPositionSize.IsZero() {
		m.maxSize = cfg.MaxPositionSize
		m.hasMaxSize = true
	}

	feed.Attach(m)
	return m, nil
}

// OnPriceUpdate implements pricing.Listener. The payload is ignored; the
// manager re-reads the feed when marking the position.
func (m *Manager) OnPriceUpdate(decimal.Decimal) {
	m.mu.Lock()
	m.updateWatermarksLocked()
	notify := append([]UpdateListener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range notify {
		l.OnUpdate()
	}
}

// Attach subscribes l to the update signal.
func (m *Manager) Attach(l UpdateListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Detach removes every subscription held by l.
func (m *Manager) Detach(l UpdateListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.listeners[:0]
	for _, x := range m.listeners {
		if x != l {
			kept = append(kept, x)
		}
	}
	m.listeners = kept
}

// Close detaches the manager from its feed and drops all listeners.
func (m *Manager) Close() {
	m.feed.Detach(m)
	m.mu.Lock()
	m.listeners = nil
	m.mu.Unlock()
}

// CanOpenOrder validates an order against the capital and position
// constraints without mutating anything. Checks run in a fixed order and
// the first failure wins. leverage reduces the capital consumed by the
// same notional; zero or negative means unleveraged.
func (m *Manager) CanOpenOrder(amount, price, leverage decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount.IsZero() {
		return ErrZeroAmount
	}

	size := m.positionSizeLocked()
	newSize := size.Add(amount)
	if m.hasMaxSize && newSize.GreaterThan(m.maxSize) {
		return fmt.Errorf("%w (order amount: %s, current size: %s, max size: %s)",
			ErrMaxPositionSize, amount, size, m.maxSize)
	}
	if newSize.IsNegative() {
		return ErrShortNotAllowed
	}

	cost := orderCost(amount, price, leverage)
	current := m.currentAllocationLocked(leverage)
	if current.Add(cost).GreaterThan(m.allocation) {
		return fmt.Errorf("%w (order size: %s, allocated: %s, limit: %s)",
			ErrAllocationLimit, amount, current, m.allocation)
	}
	if cost.GreaterThan(m.availableFunds) {
		return fmt.Errorf("%w (order cost: %s, available funds: %s)",
			ErrInsufficientFunds, cost, m.availableFunds)
	}

	return nil
}

// AddOrder commits an order to the ledger. It does not re-run the
// admission checks; callers validate with CanOpenOrder first. A buy
// debits available funds and appends a lot at the tail. A sell credits
// the proceeds and retires lots oldest-first; selling more than the open
// position is a contract violation and fails before any mutation.
func (m *Manager) AddOrder(amount, price, leverage decimal.Decimal) error {
	m.mu.Lock()

	cost := orderCost(amount, price, leverage)

	if amount.IsPositive() {
		m.availableFunds = m.availableFunds.Sub(cost)
		m.lots.push(Lot{Amount: amount, Price: price})
	} else {
		remaining := amount.Abs()
		size := m.positionSizeLocked()
		if size.LessThan(remaining) {
			m.mu.Unlock()
			return fmt.Errorf("%w (sell amount: %s, position size: %s)",
				ErrOversell, remaining, size)
		}

		m.availableFunds = m.availableFunds.Add(cost.Abs())

		for remaining.IsPositive() && m.lots.len() > 0 {
			oldest := m.lots.front()
			if oldest.Amount.LessThanOrEqual(remaining) {
				remaining = remaining.Sub(oldest.Amount)
				m.lots.pop()
			} else {
				oldest.Amount = oldest.Amount.Sub(remaining)
				break
			}
		}
	}

	m.updateWatermarksLocked()
	notify := append([]UpdateListener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range notify {
		l.OnUpdate()
	}
	return nil
}

// Allocation returns the capital committed at construction.
func (m *Manager) Allocation() decimal.Decimal {
	return m.allocation
}

// AvailableFunds returns the cash not committed to open lots.
func (m *Manager) AvailableFunds() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableFunds
}

// PositionSize returns the net quantity currently held.
func (m *Manager) PositionSize() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionSizeLocked()
}

// CurrentAllocation returns the capital consumed by the open lots at
// their cost basis. The leverage divisor is the one passed here, not the
// one in effect when each lot was opened; callers that vary leverage will
// see a figure inconsistent with history.
func (m *Manager) CurrentAllocation(leverage decimal.Decimal) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentAllocationLocked(leverage)
}

// EquityCurve returns the mark-to-market value of the strategy: the
// position at the feed's current price plus available funds. While no
// market data exists the position is valued at zero and only the funds
// count.
func (m *Manager) EquityCurve() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.equityCurveLocked()
}

// Return is the absolute profit or loss against the initial allocation.
func (m *Manager) Return() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.equityCurveLocked().Sub(m.allocation)
}

// ReturnPerc is Return as a fraction of the initial allocation.
func (m *Manager) ReturnPerc() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.equityCurveLocked().Sub(m.allocation).Div(m.allocation)
}

// Drawdown is the relative decline of the equity curve from its running
// peak, in [0, 1).
func (m *Manager) Drawdown() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	equity := m.equityCurveLocked()
	if equity.GreaterThanOrEqual(m.peak) || m.peak.IsZero() {
		return decimal.Zero
	}
	return m.peak.Sub(equity).Div(m.peak)
}

// Peak returns the high-water mark of the equity curve since inception.
func (m *Manager) Peak() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// Trough returns the low-water mark of the equity curve since inception.
func (m *Manager) Trough() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trough
}

func (m *Manager) positionSizeLocked() decimal.Decimal {
	size := decimal.Zero
	m.lots.each(func(l Lot) {
		size = size.Add(l.Amount)
	})
	return size
}

func (m *Manager) currentAllocationLocked(leverage decimal.Decimal) decimal.Decimal {
	alloc := decimal.Zero
	m.lots.each(func(l Lot) {
		alloc = alloc.Add(orderCost(l.Amount, l.Price, leverage))
	})
	return alloc
}

func (m *Manager) equityCurveLocked() decimal.Decimal {
	price, ok := m.feed.Price()
	if !ok {
		return m.availableFunds
	}
	return price.Mul(m.positionSizeLocked()).Add(m.availableFunds)
}

// updateWatermarksLocked ratchets peak and trough against the current
// equity. The peak only rises and the trough only falls; neither is ever
// reset.
func (m *Manager) updateWatermarksLocked() {
	equity := m.equityCurveLocked()
	if equity.GreaterThan(m.peak) {
		m.peak = equity
	}
	if equity.LessThan(m.trough) || m.trough.IsZero() {
		m.trough = equity
	}
}

var one = decimal.NewFromInt(1)

// orderCost is amount*price, reduced by the leverage divisor when one is
// supplied. Leverage at or below zero (or exactly 1) leaves the notional
// untouched so that no division rounding creeps in.
func orderCost(amount, price, leverage decimal.Decimal) decimal.Decimal {
	cost := amount.Mul(price)
	if leverage.IsPositive() && !leverage.Equal(one) {
		cost = cost.Div(leverage)
	}
	return cost
}
