package pricing

import "time"

// Timer is a cancelable handle for a deferred callback. Stop reports
// whether the callback was prevented from running.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks. Abstracted so tests can fire a
// bucket flush deterministically instead of sleeping through real time.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock schedules on the runtime timers.
var SystemClock Clock = systemClock{}
