package tray

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"github.com/deckhandapp/deckhand/internal/uidispatch"
)

const (
	watcherInterface = "org.kde.StatusNotifierWatcher"
	watcherPath      = dbus.ObjectPath("/StatusNotifierWatcher")
	itemInterface    = "org.kde.StatusNotifierItem"
	menuInterface    = "com.canonical.dbusmenu"
)

// ConnectSessionBus opens the session bus, retrying a few times since
// the bus may not accept connections yet during session startup.
func ConnectSessionBus(ctx context.Context, log *slog.Logger) (*dbus.Conn, error) {
	if log == nil {
		log = slog.Default()
	}
	return retry.DoWithData(func() (*dbus.Conn, error) {
		return dbus.ConnectSessionBus()
	},
		retry.Attempts(3),
		retry.Delay(1*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("session bus connection failed, retrying", "retry_number", n, "error", err)
		}),
	)
}

// Options configures the StatusNotifierItem presence on the bus.
type Options struct {
	// AppID is the well-known bus name requested for the item.
	AppID string
	Title string

	IconName      string
	IconThemePath string

	ItemPath dbus.ObjectPath
	MenuPath dbus.ObjectPath
}

func (o *Options) applyDefaults() {
	if o.AppID == "" {
		o.AppID = "app.deckhand.Deckhand.TrayIcon"
	}
	if o.Title == "" {
		o.Title = "Deckhand"
	}
	if o.IconName == "" {
		o.IconName = "app.deckhand.Deckhand"
	}
	if o.ItemPath == "" {
		o.ItemPath = "/StatusNotifierItem"
	}
	if o.MenuPath == "" {
		o.MenuPath = "/app/deckhand/Deckhand/Menu"
	}
}

// SNI exports a StatusNotifierItem plus its com.canonical.dbusmenu menu
// on the session bus and registers it with the StatusNotifierWatcher.
// It implements Registrar; Register and Unregister must run on the UI
// thread, which is also why no lock guards the registered flag. Menu
// callbacks arriving from the bus are marshaled onto the UI thread
// through the dispatcher.
type SNI struct {
	conn *dbus.Conn
	menu *Menu
	disp uidispatch.Dispatcher
	log  *slog.Logger
	opts Options

	registered bool
}

func NewSNI(conn *dbus.Conn, menu *Menu, disp uidispatch.Dispatcher, log *slog.Logger, opts Options) *SNI {
	if log == nil {
		log = slog.Default()
	}
	opts.applyDefaults()
	return &SNI{conn: conn, menu: menu, disp: disp, log: log, opts: opts}
}

// Register exports the item and menu objects, requests the well-known
// name, and announces the item to the watcher. Partial registration is
// rolled back before returning an error, so a failed attempt leaves the
// bus clean for the next retry.
func (s *SNI) Register() error {
	if s.registered {
		return nil
	}

	reply, err := s.conn.RequestName(s.opts.AppID, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", s.opts.AppID, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s already taken", s.opts.AppID)
	}

	if err := s.export(); err != nil {
		s.unexport()
		s.conn.ReleaseName(s.opts.AppID)
		return fmt.Errorf("export tray objects: %w", err)
	}

	call := s.conn.Object(watcherInterface, watcherPath).
		Call(watcherInterface+".RegisterStatusNotifierItem", 0, s.opts.AppID)
	if call.Err != nil {
		s.unexport()
		s.conn.ReleaseName(s.opts.AppID)
		return fmt.Errorf("register status notifier item: %w", call.Err)
	}

	s.registered = true
	return nil
}

// Unregister removes the item from the bus. Idempotent.
func (s *SNI) Unregister() error {
	if !s.registered {
		return nil
	}
	s.registered = false

	s.unexport()
	if _, err := s.conn.ReleaseName(s.opts.AppID); err != nil {
		return fmt.Errorf("release name %s: %w", s.opts.AppID, err)
	}
	return nil
}

func (s *SNI) export() error {
	if err := s.conn.Export(itemHandler{s}, s.opts.ItemPath, itemInterface); err != nil {
		return err
	}
	if err := s.conn.Export(menuHandler{s}, s.opts.MenuPath, menuInterface); err != nil {
		return err
	}

	itemProps := map[string]map[string]*prop.Prop{
		itemInterface: {
			"Category":      constProp("ApplicationStatus"),
			"Id":            constProp(s.opts.AppID),
			"Title":         constProp(s.opts.Title),
			"Status":        constProp("Active"),
			"IconName":      constProp(s.opts.IconName),
			"IconThemePath": constProp(s.opts.IconThemePath),
			"Menu":          constProp(s.opts.MenuPath),
			"ItemIsMenu":    constProp(false),
		},
	}
	if _, err := prop.Export(s.conn, s.opts.ItemPath, itemProps); err != nil {
		return err
	}

	menuProps := map[string]map[string]*prop.Prop{
		menuInterface: {
			"Version":       constProp(uint32(3)),
			"Status":        constProp("normal"),
			"TextDirection": constProp("ltr"),
			"IconThemePath": constProp([]string{}),
		},
	}
	if _, err := prop.Export(s.conn, s.opts.MenuPath, menuProps); err != nil {
		return err
	}

	return nil
}

func (s *SNI) unexport() {
	s.conn.Export(nil, s.opts.ItemPath, itemInterface)
	s.conn.Export(nil, s.opts.ItemPath, "org.freedesktop.DBus.Properties")
	s.conn.Export(nil, s.opts.MenuPath, menuInterface)
	s.conn.Export(nil, s.opts.MenuPath, "org.freedesktop.DBus.Properties")
}

func constProp(value any) *prop.Prop {
	return &prop.Prop{Value: value, Writable: false, Emit: prop.EmitFalse}
}

// itemHandler exports the org.kde.StatusNotifierItem methods.
type itemHandler struct {
	s *SNI
}

// Activate is the host's "primary action" (usually a left click). It
// behaves like the Show Window menu entry.
func (h itemHandler) Activate(x, y int32) *dbus.Error {
	h.s.disp.Do(func() {
		h.s.menu.Activate(1)
	})
	return nil
}

func (h itemHandler) SecondaryActivate(x, y int32) *dbus.Error {
	return nil
}

func (h itemHandler) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

func (h itemHandler) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}

// layoutNode marshals as (ia{sv}av), the com.canonical.dbusmenu layout
// node structure.
type layoutNode struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// idProperties marshals as (ia{sv}).
type idProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// menuEvent marshals as (isvu), one entry of an EventGroup call.
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// menuHandler exports the com.canonical.dbusmenu methods for the static
// application menu.
type menuHandler struct {
	s *SNI
}

func (h menuHandler) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, layoutNode, *dbus.Error) {
	const revision = uint32(1)

	if parentID != 0 {
		item, ok := h.s.menu.Item(parentID)
		if !ok {
			return revision, layoutNode{}, dbus.MakeFailedError(fmt.Errorf("unknown menu id %d", parentID))
		}
		return revision, h.node(item), nil
	}

	items := h.s.menu.Items()
	root := layoutNode{
		ID: 0,
		Properties: map[string]dbus.Variant{
			"children-display": dbus.MakeVariant("submenu"),
		},
		Children: make([]dbus.Variant, 0, len(items)),
	}
	if recursionDepth != 0 {
		for _, item := range items {
			root.Children = append(root.Children, dbus.MakeVariant(h.node(item)))
		}
	}
	return revision, root, nil
}

func (h menuHandler) node(item Item) layoutNode {
	return layoutNode{
		ID:         item.ID,
		Properties: itemProperties(item),
	}
}

func itemProperties(item Item) map[string]dbus.Variant {
	if item.Separator {
		return map[string]dbus.Variant{
			"type": dbus.MakeVariant("separator"),
		}
	}
	return map[string]dbus.Variant{
		"type":    dbus.MakeVariant("standard"),
		"label":   dbus.MakeVariant(item.Label),
		"enabled": dbus.MakeVariant(item.activate != nil),
		"visible": dbus.MakeVariant(true),
	}
}

func (h menuHandler) GetGroupProperties(ids []int32, propertyNames []string) ([]idProperties, *dbus.Error) {
	items := h.s.menu.Items()
	result := make([]idProperties, 0, len(items))
	for _, item := range items {
		if len(ids) > 0 && !containsID(ids, item.ID) {
			continue
		}
		result = append(result, idProperties{ID: item.ID, Properties: itemProperties(item)})
	}
	return result, nil
}

func (h menuHandler) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	item, ok := h.s.menu.Item(id)
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown menu id %d", id))
	}
	value, ok := itemProperties(item)[name]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown property %s", name))
	}
	return value, nil
}

// Event handles host-side menu events. Clicks arrive on a bus goroutine
// and are marshaled onto the UI thread before touching any callback.
func (h menuHandler) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	if eventID != "clicked" {
		return nil
	}
	h.s.disp.Do(func() {
		if !h.s.menu.Activate(id) {
			h.s.log.Debug("tray menu click on inert entry", "id", id)
		}
	})
	return nil
}

func (h menuHandler) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	var unknown []int32
	for _, ev := range events {
		if _, ok := h.s.menu.Item(ev.ID); !ok {
			unknown = append(unknown, ev.ID)
			continue
		}
		h.Event(ev.ID, ev.EventID, ev.Data, ev.Timestamp)
	}
	return unknown, nil
}

func (h menuHandler) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

func (h menuHandler) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return nil, nil, nil
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
