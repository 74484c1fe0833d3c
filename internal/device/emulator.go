package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Emulator is an in-memory Device. The GUI falls back to it when no
// hardware is attached, and tests use it to observe which image ended up
// on each key.
type Emulator struct {
	mu         sync.Mutex
	open       bool
	cols, rows uint8
	serial     string
	brightness uint8
	images     map[KeyID]KeyImage
	events     chan KeyEvent
}

// NewEmulator returns an emulated deck with the given key layout.
func NewEmulator(cols, rows uint8) *Emulator {
	return &Emulator{
		cols:       cols,
		rows:       rows,
		serial:     "EMU-" + uuid.NewString()[:8],
		brightness: 100,
		images:     make(map[KeyID]KeyImage),
		events:     make(chan KeyEvent, 16),
	}
}

func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open {
		return fmt.Errorf("emulator: already open")
	}
	e.open = true
	return nil
}

func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return nil
	}
	e.open = false
	for key, img := range e.images {
		img.Close()
		delete(e.images, key)
	}
	return nil
}

func (e *Emulator) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *Emulator) ModelName() string { return "Deckhand Emulator" }

func (e *Emulator) Serial() string { return e.serial }

func (e *Emulator) KeyLayout() (uint8, uint8) { return e.cols, e.rows }

func (e *Emulator) KeyCount() int { return int(e.cols) * int(e.rows) }

func (e *Emulator) SetBrightness(pct uint8) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return fmt.Errorf("emulator: not open")
	}
	if pct > 100 {
		pct = 100
	}
	e.brightness = pct
	return nil
}

func (e *Emulator) Brightness() uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brightness
}

// SetKeyImage takes ownership of img. The image it replaces is closed.
func (e *Emulator) SetKeyImage(key KeyID, img KeyImage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return fmt.Errorf("emulator: not open")
	}
	if prev, ok := e.images[key]; ok {
		prev.Close()
	}
	e.images[key] = img
	return nil
}

// KeyImageFor returns the image currently shown on key, or nil.
func (e *Emulator) KeyImageFor(key KeyID) KeyImage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.images[key]
}

func (e *Emulator) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return fmt.Errorf("emulator: not open")
	}
	for key, img := range e.images {
		img.Close()
		delete(e.images, key)
	}
	return nil
}

// Press injects a press/release pair for key, as the hardware would
// deliver it.
func (e *Emulator) Press(key KeyID) {
	e.events <- KeyEvent{Key: key, Pressed: true}
	e.events <- KeyEvent{Key: key, Pressed: false}
}

func (e *Emulator) Listen(ctx context.Context, events chan<- KeyEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-e.events:
			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
