package risk

import (
	"sync"

	"github.com/rustyeddy/stratwatch/perf"
)

// Predicate is one threshold rule evaluated against a manager's derived
// metrics. Implementations are stateless; all state lives in the manager.
type Predicate interface {
	Name() string
	Breached(m *perf.Manager) bool
}

// Watcher subscribes a Predicate to a manager's update signal and fires
// its abort callbacks every time the predicate reports a breach. The
// abort is not latched: a metric that recovers below the threshold and
// crosses again fires again on each crossing.
type Watcher struct {
	mu      sync.Mutex
	subject *perf.Manager
	pred    Predicate
	aborts  []func()
}

// NewWatcher wires pred to subject. The watcher is inert until Start.
func NewWatcher(subject *perf.Manager, pred Predicate) *Watcher {
	return &Watcher{subject: subject, pred: pred}
}

// Name reports the predicate's name, useful for journaling aborts.
func (w *Watcher) Name() string { return w.pred.Name() }

// OnAbort registers fn to run each time the predicate is breached.
func (w *Watcher) OnAbort(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.aborts = append(w.aborts, fn)
}

// Start subscribes the watcher to its subject. Starting twice subscribes
// twice and evaluates twice per update; avoiding that is the caller's
// responsibility.
func (w *Watcher) Start() {
	w.subject.Attach(w)
}

// Close unsubscribes from the subject and drops all abort callbacks.
// The watcher is terminal afterwards.
func (w *Watcher) Close() {
	w.subject.Detach(w)
	w.mu.Lock()
	w.aborts = nil
	w.mu.Unlock()
}

// OnUpdate implements perf.UpdateListener.
func (w *Watcher) OnUpdate() {
	if !w.pred.Breached(w.subject) {
		return
	}

	w.mu.Lock()
	notify := append([]func(){}, w.aborts...)
	w.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}
