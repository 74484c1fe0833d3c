package deck

import (
	"context"
	"image/color"
	"log/slog"
	"sync"

	"github.com/deckhandapp/deckhand/internal/device"
	"github.com/deckhandapp/deckhand/internal/uidispatch"
)

// KeyState describes what a key should show. It is the renderer's input.
type KeyState struct {
	Label   string
	Fill    color.NRGBA
	Pressed bool
}

// Renderer produces a displayable image for one key. Implementations may
// be slow; the controller only ever calls them from its render worker.
type Renderer interface {
	RenderKey(key device.KeyID, state KeyState) (device.KeyImage, error)
}

type renderRequest struct {
	key   device.KeyID
	state KeyState
}

// Controller owns one device: its visibility state, its pending-image
// map, and a single background render worker. All toolkit-facing work is
// funneled through the injected dispatcher.
type Controller struct {
	dev      device.Device
	renderer Renderer
	disp     uidispatch.Dispatcher
	log      *slog.Logger
	pending  *PendingImages

	mu      sync.Mutex
	visible bool
	states  map[device.KeyID]KeyState

	requests chan renderRequest
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewController(dev device.Device, renderer Renderer, disp uidispatch.Dispatcher, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		dev:      dev,
		renderer: renderer,
		disp:     disp,
		log:      log,
		pending:  NewPendingImages(log),
		visible:  true,
		states:   make(map[device.KeyID]KeyState),
		requests: make(chan renderRequest, 64),
	}
}

// Pending exposes the pending-image map, mainly so the GUI can report
// how many updates are parked while hidden.
func (c *Controller) Pending() *PendingImages {
	return c.pending
}

// Start launches the render worker. A second Start without an
// intervening Stop is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.renderLoop(ctx, c.done)
}

// Stop cancels the render worker, waits for it to exit, and releases any
// images still parked in the pending map.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.pending.Close()
}

// Update requests a fresh render for key. Callable from any goroutine;
// when the queue is full the request is dropped and a warning logged
// rather than blocking the caller.
func (c *Controller) Update(key device.KeyID, state KeyState) {
	c.mu.Lock()
	c.states[key] = state
	c.mu.Unlock()

	select {
	case c.requests <- renderRequest{key: key, state: state}:
	default:
		c.log.Warn("render queue full, dropping update", "key", key.String())
	}
}

// UpdateAll re-renders every key the controller has a state for.
func (c *Controller) UpdateAll() {
	c.mu.Lock()
	states := make(map[device.KeyID]KeyState, len(c.states))
	for key, state := range c.states {
		states[key] = state
	}
	c.mu.Unlock()

	for key, state := range states {
		c.Update(key, state)
	}
}

// Visible reports whether the deck display is currently shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// SetVisible flips visibility. Turning visible drains every parked image
// onto the device in one pass. Only the UI thread may call SetVisible.
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	was := c.visible
	c.visible = visible
	c.mu.Unlock()

	if visible && !was {
		n := c.pending.Drain(c.applyImage)
		if n > 0 {
			c.log.Debug("applied images deferred while hidden", "count", n)
		}
	}
}

// applyImage pushes one image to the device, taking ownership of it.
func (c *Controller) applyImage(key device.KeyID, img device.KeyImage) error {
	if err := c.dev.SetKeyImage(key, img); err != nil {
		img.Close()
		return err
	}
	return nil
}

func (c *Controller) renderLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-c.requests:
			c.renderOne(ctx, req)
		}
	}
}

func (c *Controller) renderOne(ctx context.Context, req renderRequest) {
	img, err := c.renderer.RenderKey(req.key, req.state)
	if err != nil {
		c.log.Warn("rendering key image", "key", req.key.String(), "error", err)
		return
	}

	if !c.Visible() {
		c.pending.Record(req.key, img)
		return
	}

	// The device object has toolkit affinity in the GUI, so the actual
	// apply happens on the UI thread.
	select {
	case <-ctx.Done():
		c.pending.Record(req.key, img)
		return
	default:
	}
	c.disp.Do(func() {
		// Visibility may have flipped between the check and the
		// dispatch; parked images are picked up by the next drain.
		if !c.Visible() {
			c.pending.Record(req.key, img)
			return
		}
		if err := c.applyImage(req.key, img); err != nil {
			c.log.Warn("applying key image", "key", req.key.String(), "error", err)
		}
	})
}
