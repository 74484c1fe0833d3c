package tray

import (
	"log/slog"
	"sync"
	"time"

	"github.com/deckhandapp/deckhand/internal/uidispatch"
)

// Registration policy. The watcher service is often not up yet when the
// application starts with the desktop session, so registration is
// retried a few times with a fixed delay before giving up.
const (
	DefaultMaxRetries        = 5
	DefaultRetryDelay        = 2 * time.Second
	DefaultRendezvousTimeout = 10 * time.Second
)

// Registrar performs the actual service-bus registration. Both methods
// are UI-thread affine; the manager marshals every call through its
// dispatcher.
type Registrar interface {
	Register() error
	Unregister() error
}

// State of the registration cycle.
type State int

const (
	StateIdle State = iota
	StateAttempting
	StateRegistered
	StateGaveUp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttempting:
		return "attempting"
	case StateRegistered:
		return "registered"
	case StateGaveUp:
		return "gave up"
	default:
		return "unknown"
	}
}

// Config carries the manager's injected capabilities. Registrar and
// Dispatcher are required; everything else has a default.
type Config struct {
	Registrar  Registrar
	Dispatcher uidispatch.Dispatcher

	// ShowTray is the tray-visibility preference. When it reports
	// false, Start does nothing.
	ShowTray func() bool

	Log *slog.Logger

	MaxRetries        int
	RetryDelay        time.Duration
	RendezvousTimeout time.Duration

	// Sleep replaces the inter-attempt backoff wait. It receives the
	// delay and a channel closed when Stop is called, and reports false
	// when the wait was interrupted. Tests substitute a fake clock
	// here; the default is an interruptible real-time wait.
	Sleep func(d time.Duration, stop <-chan struct{}) bool
}

// Manager drives tray registration from a dedicated goroutine while the
// registration call itself runs on the UI thread. Attempts are strictly
// sequential: at most one registration cycle, and within it at most one
// attempt, is ever in flight.
type Manager struct {
	cfg Config

	mu            sync.Mutex
	state         State
	registered    bool
	stopRequested bool
	attempts      int
	inFlight      bool
	stopCh        chan struct{}
}

func NewManager(cfg Config) *Manager {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.RendezvousTimeout <= 0 {
		cfg.RendezvousTimeout = DefaultRendezvousTimeout
	}
	if cfg.Sleep == nil {
		cfg.Sleep = func(d time.Duration, stop <-chan struct{}) bool {
			select {
			case <-time.After(d):
				return true
			case <-stop:
				return false
			}
		}
	}
	return &Manager{cfg: cfg}
}

// Start begins a registration cycle on a background goroutine. It is a
// no-op when the tray preference is disabled, when already registered,
// or when a cycle is already in flight.
func (m *Manager) Start() {
	if m.cfg.ShowTray != nil && !m.cfg.ShowTray() {
		m.cfg.Log.Debug("tray icon disabled by preference")
		return
	}

	m.mu.Lock()
	if m.registered || m.inFlight {
		m.mu.Unlock()
		return
	}
	m.stopRequested = false
	m.stopCh = make(chan struct{})
	m.inFlight = true
	m.state = StateAttempting
	m.attempts = 0
	stop := m.stopCh
	m.mu.Unlock()

	go m.retryLoop(stop)
}

// Stop cancels an in-flight registration cycle at its next check point
// and, when registered, unregisters from the service bus. Errors during
// unregistration are logged and swallowed so shutdown always completes.
// Stop is idempotent. Only the UI thread may call it.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopRequested = true
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	wasRegistered := m.registered
	m.registered = false
	m.state = StateIdle
	m.mu.Unlock()

	if !wasRegistered {
		return
	}
	if err := m.cfg.Registrar.Unregister(); err != nil {
		m.cfg.Log.Warn("unregistering tray icon", "error", err)
	}
}

// Registered reports whether a UI-thread-confirmed registration is in
// effect.
func (m *Manager) Registered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered
}

// State returns the current registration state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the number of attempts made in the current or most
// recent cycle.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *Manager) stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopRequested
}

func (m *Manager) retryLoop(stop <-chan struct{}) {
	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	for attempt := 1; attempt <= m.cfg.MaxRetries; attempt++ {
		if m.stopped() {
			m.cfg.Log.Debug("tray icon registration cancelled")
			return
		}

		m.mu.Lock()
		m.attempts = attempt
		m.mu.Unlock()

		// The registration primitive has toolkit affinity, so the call
		// runs on the UI thread while this goroutine waits on the
		// rendezvous. A stalled event loop surfaces as a timeout and
		// counts like any other failed attempt.
		err := uidispatch.Call(m.cfg.Dispatcher, m.cfg.RendezvousTimeout, m.cfg.Registrar.Register)
		if err == nil {
			m.mu.Lock()
			m.registered = true
			m.state = StateRegistered
			m.mu.Unlock()
			m.cfg.Log.Info("tray icon registered", "attempt", attempt)
			return
		}

		m.cfg.Log.Warn("tray icon registration failed",
			"attempt", attempt, "max_retries", m.cfg.MaxRetries, "error", err)

		if attempt < m.cfg.MaxRetries {
			if !m.cfg.Sleep(m.cfg.RetryDelay, stop) {
				m.cfg.Log.Debug("tray icon registration cancelled during backoff")
				return
			}
		}
	}

	m.mu.Lock()
	m.state = StateGaveUp
	m.mu.Unlock()
	m.cfg.Log.Error("tray icon unavailable: registration failed after all retries")
}
