package perf

import "errors"

// Admission rejections returned by CanOpenOrder. These are expected
// outcomes the caller can react to by resizing or skipping the order.
var (
	ErrMaxPositionSize   = errors.New("order size exceeds maximum position size")
	ErrShortNotAllowed   = errors.New("short positions are not allowed")
	ErrAllocationLimit   = errors.New("order exceeds the allocation limit")
	ErrInsufficientFunds = errors.New("order exceeds available funds")
)

// Contract violations. Getting one of these back means the caller is
// broken, not the market: the call aborts before any state change.
var (
	ErrZeroAmount = errors.New("order amount cannot be zero")
	ErrOversell   = errors.New("sell amount exceeds open position")
)
