// Package deck coordinates rendering for one attached control surface.
//
// A background worker renders key images at its own pace while the UI
// event loop applies them. While the deck is not visible (window hidden,
// screensaver) finished renders are parked in a PendingImages map and
// applied in one batch when visibility returns.
package deck

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/deckhandapp/deckhand/internal/device"
)

// PendingImages holds, per key, the newest rendered image that has not
// been displayed yet. Writers are render workers, the single reader is
// the UI thread; one mutex guards the map. Last writer wins: recording a
// key that already has a pending image closes the superseded buffer
// immediately rather than leaving it to the finalizer.
type PendingImages struct {
	mu     sync.Mutex
	images map[device.KeyID]device.KeyImage
	closed bool
	log    *slog.Logger
}

func NewPendingImages(log *slog.Logger) *PendingImages {
	if log == nil {
		log = slog.Default()
	}
	return &PendingImages{
		images: make(map[device.KeyID]device.KeyImage),
		log:    log,
	}
}

// Record stores img as the pending image for key, taking ownership of
// it. Safe to call from any goroutine. After Close, late arrivals from
// still-queued dispatch closures are released immediately instead of
// being parked where no drain will ever reach them.
func (p *PendingImages) Record(key device.KeyID, img device.KeyImage) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		if err := img.Close(); err != nil {
			p.log.Warn("closing key image recorded after shutdown", "key", key.String(), "error", err)
		}
		return
	}
	prev, ok := p.images[key]
	if ok {
		if err := prev.Close(); err != nil {
			p.log.Warn("closing superseded key image", "key", key.String(), "error", err)
		}
	}
	p.images[key] = img
	p.mu.Unlock()
}

// Drain removes every pending entry and applies each one exactly once
// through apply, outside the lock so slow UI work never blocks the
// render workers. A failure or panic applying one key is logged and does
// not stop the rest of the batch. Ownership of each image passes to
// apply. Only the UI thread may call Drain.
//
// It returns the number of entries drained.
func (p *PendingImages) Drain(apply func(device.KeyID, device.KeyImage) error) int {
	p.mu.Lock()
	batch := p.images
	p.images = make(map[device.KeyID]device.KeyImage)
	p.mu.Unlock()

	for key, img := range batch {
		p.applyOne(key, img, apply)
	}
	return len(batch)
}

func (p *PendingImages) applyOne(key device.KeyID, img device.KeyImage, apply func(device.KeyID, device.KeyImage) error) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = apply(key, img)
	}()
	if err != nil {
		p.log.Warn("applying pending key image", "key", key.String(), "error", err)
	}
}

// Len reports the number of keys with a pending image.
func (p *PendingImages) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.images)
}

// Close releases every still-pending image and marks the map closed.
// Used at controller teardown when the images will never be displayed.
func (p *PendingImages) Close() {
	p.mu.Lock()
	p.closed = true
	for key, img := range p.images {
		if err := img.Close(); err != nil {
			p.log.Warn("closing pending key image", "key", key.String(), "error", err)
		}
		delete(p.images, key)
	}
	p.mu.Unlock()
}
