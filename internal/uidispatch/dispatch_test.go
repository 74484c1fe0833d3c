package uidispatch

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCallSuccess(t *testing.T) {
	q := NewQueue()

	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		err = Call(q, time.Second, func() error { return nil })
	}()

	waitQueued(t, q, 1)
	q.PumpOne()
	<-done

	if err != nil {
		t.Errorf("Call returned %v, want nil", err)
	}
}

func TestCallPropagatesError(t *testing.T) {
	q := NewQueue()
	want := errors.New("register failed")

	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		err = Call(q, time.Second, func() error { return want })
	}()

	waitQueued(t, q, 1)
	q.PumpOne()
	<-done

	if !errors.Is(err, want) {
		t.Errorf("Call returned %v, want %v", err, want)
	}
}

func TestCallTimeout(t *testing.T) {
	q := NewQueue() // never pumped

	err := Call(q, 5*time.Millisecond, func() error { return nil })
	if !errors.Is(err, ErrRendezvousTimeout) {
		t.Errorf("Call returned %v, want ErrRendezvousTimeout", err)
	}
}

func TestCallRecoversPanic(t *testing.T) {
	q := NewQueue()

	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		err = Call(q, time.Second, func() error { panic("widget gone") })
	}()

	waitQueued(t, q, 1)
	q.PumpOne()
	<-done

	if err == nil {
		t.Fatal("Call swallowed a panic")
	}
	if !strings.Contains(err.Error(), "widget gone") {
		t.Errorf("Call returned %v, want the panic value in the message", err)
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		q.Do(func() { order = append(order, i) })
	}

	if got := q.Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}
	if got := q.Pump(); got != 5 {
		t.Errorf("Pump ran %d closures, want 5", got)
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("order = %v, want submission order", order)
		}
	}
	if q.PumpOne() {
		t.Error("PumpOne on an empty queue = true")
	}
}

func TestQueueRunStop(t *testing.T) {
	q := NewQueue()

	var mu sync.Mutex
	var ran int
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		q.Run()
	}()

	for i := 0; i < 3; i++ {
		q.Do(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := ran
		mu.Unlock()
		if n == 3 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	mu.Lock()
	if ran != 3 {
		mu.Unlock()
		t.Fatalf("Run executed %d closures, want 3", ran)
	}
	mu.Unlock()

	q.Stop()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func waitQueued(t *testing.T, q *Queue, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if q.Len() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d queued closures", n)
}
