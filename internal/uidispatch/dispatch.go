// Package uidispatch marshals work onto the single toolkit thread.
//
// Fyne widgets and the DBus objects that wrap them may only be touched
// from the UI event loop. Background goroutines submit closures through a
// Dispatcher and, when they need the result, rendezvous with the UI
// thread via Call.
package uidispatch

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
)

// ErrRendezvousTimeout is returned by Call when the UI thread did not run
// the submitted closure within the deadline. A stalled event loop is
// reported as a failed call, not a hang.
var ErrRendezvousTimeout = errors.New("uidispatch: ui thread did not respond in time")

// Dispatcher schedules a closure for execution on the UI thread.
// Submissions from the same goroutine are executed in submission order.
type Dispatcher interface {
	Do(fn func())
}

// Fyne dispatches through fyne.Do onto the running application's event
// loop. The zero value is ready to use.
type Fyne struct{}

func (Fyne) Do(fn func()) {
	fyne.Do(fn)
}

// Call submits fn to the UI thread and waits for it to finish, at most
// timeout. A panic inside fn is recovered and returned as an error so a
// misbehaving callback cannot take down the event loop. On timeout the
// closure may still run later; its result is discarded.
func Call(d Dispatcher, timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	d.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("uidispatch: panic in ui callback: %v", r)
			}
		}()
		done <- fn()
	})

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return ErrRendezvousTimeout
	}
}
