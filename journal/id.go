package journal

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Abort records are keyed by ULIDs. Being time-ordered, the aborts
// table reads back in the order the events fired even when rows come
// from several runs.
var abortIDs = struct {
	sync.Mutex
	entropy *ulid.MonotonicEntropy
}{entropy: ulid.Monotonic(rand.Reader, 0)}

func newAbortID() string {
	abortIDs.Lock()
	defer abortIDs.Unlock()
	return ulid.MustNew(ulid.Now(), abortIDs.entropy).String()
}
