// File: pool/waitq.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FIFO wait list for readers blocked on free bpages.

package pool

import (
	"sync"

	"github.com/eapache/queue"
)

// waitQueue parks subscribers until the pool frees pages. Each
// subscription is a channel closed exactly once on the next wake; the
// subscriber re-checks pool state and re-subscribes if still starved.
type waitQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func newWaitQueue() *waitQueue {
	return &waitQueue{q: queue.New()}
}

// subscribe enqueues and returns a wake channel.
func (w *waitQueue) subscribe() <-chan struct{} {
	ch := make(chan struct{})
	w.mu.Lock()
	w.q.Add(ch)
	w.mu.Unlock()
	return ch
}

// wake closes all parked channels in subscription order.
func (w *waitQueue) wake() {
	w.mu.Lock()
	for w.q.Length() > 0 {
		close(w.q.Remove().(chan struct{}))
	}
	w.mu.Unlock()
}

// pending returns the number of parked subscribers.
func (w *waitQueue) pending() int {
	w.mu.Lock()
	n := w.q.Length()
	w.mu.Unlock()
	return n
}
