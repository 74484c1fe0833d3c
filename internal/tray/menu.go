// Package tray provides the system-tray presence: an immutable menu
// model, a retrying registration manager, and the StatusNotifierItem
// DBus transport binding the two to the session bus.
package tray

// Item is one entry of the tray menu: either a labeled, activatable
// entry or a separator. Items are value types; callbacks are dispatched
// through Menu.Activate.
type Item struct {
	ID        int32
	Label     string
	Separator bool

	activate func()
}

// Menu is an ordered sequence of items, built once at construction and
// immutable afterwards. It is exposed read-only to the DBus menu
// binding; there is no removal operation.
type Menu struct {
	items []Item
}

func NewMenu() *Menu {
	return &Menu{}
}

// AddItem appends a labeled entry with a stable id and an optional
// activation callback.
func (m *Menu) AddItem(id int32, label string, activate func()) {
	m.items = append(m.items, Item{ID: id, Label: label, activate: activate})
}

// AddSeparator appends a separator entry.
func (m *Menu) AddSeparator(id int32) {
	m.items = append(m.items, Item{ID: id, Separator: true})
}

// Items returns a copy of the entries in insertion order.
func (m *Menu) Items() []Item {
	items := make([]Item, len(m.items))
	copy(items, m.items)
	return items
}

// Item returns the entry with the given id.
func (m *Menu) Item(id int32) (Item, bool) {
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Activate runs the callback bound to id, reporting whether an
// activatable entry with that id exists.
func (m *Menu) Activate(id int32) bool {
	for _, item := range m.items {
		if item.ID == id && !item.Separator && item.activate != nil {
			item.activate()
			return true
		}
	}
	return false
}

// Actions binds the standard tray menu entries to application behavior.
// Nil fields leave the corresponding entry inert.
type Actions struct {
	ShowWindow   func()
	OpenSettings func()
	OpenStore    func()
	ShowAbout    func()
	Quit         func()
}

// AppMenu builds the application's tray menu: show / settings / store /
// about / quit with separators after the first and before the last
// entry.
func AppMenu(a Actions) *Menu {
	m := NewMenu()
	m.AddItem(1, "Show Window", a.ShowWindow)
	m.AddSeparator(2)
	m.AddItem(3, "Settings", a.OpenSettings)
	m.AddItem(4, "Store", a.OpenStore)
	m.AddItem(5, "About", a.ShowAbout)
	m.AddSeparator(6)
	m.AddItem(7, "Quit", a.Quit)
	return m
}
