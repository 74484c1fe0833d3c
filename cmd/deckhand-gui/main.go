package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/deckhandapp/deckhand/internal/auth"
	"github.com/deckhandapp/deckhand/internal/cleanup"
	"github.com/deckhandapp/deckhand/internal/deck"
	"github.com/deckhandapp/deckhand/internal/device"
	"github.com/deckhandapp/deckhand/internal/logger"
	"github.com/deckhandapp/deckhand/internal/profile"
	"github.com/deckhandapp/deckhand/internal/render"
	"github.com/deckhandapp/deckhand/internal/settings"
	"github.com/deckhandapp/deckhand/internal/tray"
	"github.com/deckhandapp/deckhand/internal/uidispatch"
	"github.com/deckhandapp/deckhand/internal/version"
)

const (
	deckCols = 5
	deckRows = 3
	keySize  = 72

	storeURL = "https://store.deckhand.app"
)

type deckApp struct {
	app    fyne.App
	window fyne.Window

	st            *settings.Settings
	profiles      *profile.Store
	activeProfile *profile.Profile

	dev        *previewDevice
	controller *deck.Controller
	preview    *keyPreview

	trayMgr *tray.Manager

	cancelListen context.CancelFunc
}

func newDeckApp(application fyne.App, w fyne.Window) *deckApp {
	a := &deckApp{
		app:    application,
		window: w,
		st:     settings.New(application.Preferences()),
	}

	dir, err := profile.DefaultDir()
	if err == nil {
		a.profiles, err = profile.NewStore(dir)
	}
	if err != nil {
		logger.Warn("profile store unavailable", "error", err)
	}

	return a
}

// setupDeck opens the emulated device, starts the render worker, and
// wires key events back into the controller.
func (a *deckApp) setupDeck() error {
	a.dev = newPreviewDevice(deckCols, deckRows)
	if err := a.dev.Open(); err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.dev.SetBrightness(uint8(a.st.Brightness()))

	renderer, err := render.NewSoftware(keySize)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	a.controller = deck.NewController(a.dev, renderer, uidispatch.Fyne{}, slog.Default())
	a.controller.Start(context.Background())
	cleanup.Register(func() error {
		a.controller.Stop()
		return a.dev.Close()
	})

	a.preview = newKeyPreview(a.dev, func(key device.KeyID) {
		safeGo("deck.press", func() { a.dev.Press(key) })
	})
	a.dev.onChange = a.preview.refreshKey

	a.applyProfile(a.loadActiveProfile())
	a.startListenLoop()
	return nil
}

func (a *deckApp) startListenLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelListen = cancel
	cleanup.Register(func() error {
		cancel()
		return nil
	})

	events := make(chan device.KeyEvent, 16)
	safeGo("deck.listen", func() {
		if err := a.dev.Listen(ctx, events); err != nil && ctx.Err() == nil {
			logger.Warn("device listen ended", "error", err)
		}
	})
	safeGo("deck.events", func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				a.handleKeyEvent(ev)
			}
		}
	})
}

func (a *deckApp) handleKeyEvent(ev device.KeyEvent) {
	state, action := a.keyState(ev.Key)
	state.Pressed = ev.Pressed
	a.controller.Update(ev.Key, state)

	if ev.Pressed {
		return
	}
	switch action {
	case "show-window":
		safeDo("action.show", a.showWindow)
	case "quit":
		safeDo("action.quit", a.quit)
	case "":
	default:
		logger.Debug("unbound key action", "action", action, "key", ev.Key.String())
	}
}

// loadActiveProfile returns the last used profile, or a default layout
// when none is saved yet.
func (a *deckApp) loadActiveProfile() *profile.Profile {
	if a.profiles != nil {
		if name := a.st.LastProfile(); name != "" {
			p, err := a.profiles.Load(name)
			if err == nil {
				return p
			}
			logger.Warn("loading last profile", "profile", name, "error", err)
		}
	}
	return defaultProfile(deckCols, deckRows)
}

func (a *deckApp) applyProfile(p *profile.Profile) {
	a.activeProfile = p
	for _, key := range device.Keys(deckCols, deckRows) {
		state, _ := a.keyState(key)
		a.controller.Update(key, state)
	}
}

func (a *deckApp) keyState(key device.KeyID) (deck.KeyState, string) {
	p := a.activeProfile
	if p == nil {
		return deck.KeyState{}, ""
	}
	for _, kc := range p.Keys {
		if kc.Col == key.Col && kc.Row == key.Row {
			return deck.KeyState{
				Label: kc.Label,
				Fill:  parseColor(kc.Color),
			}, kc.Action
		}
	}
	return deck.KeyState{}, ""
}

// setupTray connects the session bus and starts tray registration. A
// missing bus or watcher only costs the tray icon, never the app.
func (a *deckApp) setupTray() {
	conn, err := tray.ConnectSessionBus(context.Background(), slog.Default())
	if err != nil {
		logger.Warn("tray icon unavailable: session bus connection failed", "error", err)
		return
	}

	menu := tray.AppMenu(tray.Actions{
		ShowWindow:   func() { safeDo("tray.show", a.showWindow) },
		OpenSettings: func() { safeDo("tray.settings", a.openSettings) },
		OpenStore:    func() { safeDo("tray.store", a.openStore) },
		ShowAbout:    func() { safeDo("tray.about", a.showAbout) },
		Quit:         func() { safeDo("tray.quit", a.quit) },
	})

	sni := tray.NewSNI(conn, menu, uidispatch.Fyne{}, slog.Default(), tray.Options{
		Title: "Deckhand",
	})
	a.trayMgr = tray.NewManager(tray.Config{
		Registrar:  sni,
		Dispatcher: uidispatch.Fyne{},
		ShowTray:   a.st.TrayIconEnabled,
		Log:        slog.Default(),
	})
	a.trayMgr.Start()

	cleanup.Register(func() error {
		a.trayMgr.Stop()
		return conn.Close()
	})
}

func (a *deckApp) showWindow() {
	a.window.Show()
	a.controller.SetVisible(true)
}

func (a *deckApp) hideWindow() {
	a.controller.SetVisible(false)
	a.window.Hide()
}

func (a *deckApp) openStore() {
	if !auth.HasStoreToken() {
		logger.Info("store opened without account token")
	}
	u, err := url.Parse(storeURL)
	if err != nil {
		return
	}
	if err := a.app.OpenURL(u); err != nil {
		logger.Warn("opening store url", "error", err)
	}
}

func (a *deckApp) showAbout() {
	a.window.Show()
	dialog.ShowInformation("About Deckhand", version.Info(), a.window)
}

func (a *deckApp) quit() {
	a.app.Quit()
}

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	application := app.NewWithID("app.deckhand.Deckhand")
	application.SetIcon(appIcon())

	w := application.NewWindow("Deckhand")
	w.SetIcon(appIcon())
	w.SetMaster()
	w.CenterOnScreen()

	a := newDeckApp(application, w)
	if err := a.setupDeck(); err != nil {
		logger.Fatal("deck setup failed", "error", err)
	}
	a.setupUI()
	a.setupTray()

	// Closing the window parks the app in the tray when one is
	// registered; otherwise it quits.
	w.SetCloseIntercept(func() {
		if a.trayMgr != nil && a.trayMgr.Registered() {
			a.hideWindow()
			return
		}
		w.SetCloseIntercept(nil)
		w.Close()
	})

	w.ShowAndRun()

	if err := cleanup.RunAll(); err != nil {
		logger.Warn("cleanup", "error", err)
	}
}
