package uidispatch

import "sync"

// Queue is a Dispatcher backed by an in-memory FIFO. It is used headless
// (no toolkit event loop) and in tests, where the consumer decides when
// and on which goroutine queued closures run.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	stopped bool
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

func (q *Queue) Do(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// PumpOne runs the oldest queued closure, if any, on the calling
// goroutine. It reports whether a closure was run.
func (q *Queue) PumpOne() bool {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return false
	}
	fn := q.pending[0]
	q.pending = q.pending[1:]
	q.mu.Unlock()

	fn()
	return true
}

// Pump drains every closure queued so far and returns the number run.
func (q *Queue) Pump() int {
	n := 0
	for q.PumpOne() {
		n++
	}
	return n
}

// Run pumps closures as they arrive until Stop is called. It blocks and
// is intended to be the main loop of a headless consumer.
func (q *Queue) Run() {
	for {
		q.mu.Lock()
		stopped := q.stopped
		q.mu.Unlock()
		if stopped {
			return
		}

		if q.Pump() == 0 {
			<-q.wake
		}
	}
}

// Stop makes Run return after the current closure finishes.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len reports the number of closures waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
