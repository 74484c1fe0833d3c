package tray

import (
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/deckhandapp/deckhand/internal/uidispatch"
)

func testMenuHandler(actions Actions) (menuHandler, *Menu, *uidispatch.Queue) {
	q := uidispatch.NewQueue()
	menu := AppMenu(actions)
	s := NewSNI(nil, menu, q, nil, Options{})
	return menuHandler{s}, menu, q
}

func TestGetLayoutRoot(t *testing.T) {
	h, menu, _ := testMenuHandler(Actions{})

	rev, root, derr := h.GetLayout(0, -1, nil)
	if derr != nil {
		t.Fatalf("GetLayout failed: %v", derr)
	}
	if rev == 0 {
		t.Error("layout revision is 0")
	}
	if root.ID != 0 {
		t.Errorf("root node id = %d, want 0", root.ID)
	}
	if got := root.Properties["children-display"]; got != dbus.MakeVariant("submenu") {
		t.Errorf("children-display = %v, want submenu", got)
	}
	if len(root.Children) != len(menu.Items()) {
		t.Fatalf("root has %d children, want %d", len(root.Children), len(menu.Items()))
	}

	first, ok := root.Children[0].Value().(layoutNode)
	if !ok {
		t.Fatalf("child 0 is %T, want layoutNode", root.Children[0].Value())
	}
	if first.ID != 1 {
		t.Errorf("first child id = %d, want 1", first.ID)
	}
	if got := first.Properties["label"]; got != dbus.MakeVariant("Show Window") {
		t.Errorf("first child label = %v, want Show Window", got)
	}

	sep, _ := root.Children[1].Value().(layoutNode)
	if got := sep.Properties["type"]; got != dbus.MakeVariant("separator") {
		t.Errorf("second child type = %v, want separator", got)
	}
	if _, ok := sep.Properties["label"]; ok {
		t.Error("separator carries a label property")
	}
}

func TestGetLayoutDepthZero(t *testing.T) {
	h, _, _ := testMenuHandler(Actions{})

	_, root, derr := h.GetLayout(0, 0, nil)
	if derr != nil {
		t.Fatalf("GetLayout failed: %v", derr)
	}
	if len(root.Children) != 0 {
		t.Errorf("depth 0 returned %d children, want 0", len(root.Children))
	}
}

func TestGetLayoutSingleItem(t *testing.T) {
	h, _, _ := testMenuHandler(Actions{})

	_, node, derr := h.GetLayout(7, -1, nil)
	if derr != nil {
		t.Fatalf("GetLayout(7) failed: %v", derr)
	}
	if node.ID != 7 {
		t.Errorf("node id = %d, want 7", node.ID)
	}
	if got := node.Properties["label"]; got != dbus.MakeVariant("Quit") {
		t.Errorf("label = %v, want Quit", got)
	}

	if _, _, derr := h.GetLayout(42, -1, nil); derr == nil {
		t.Error("GetLayout(42) succeeded for an unknown id")
	}
}

func TestGetGroupProperties(t *testing.T) {
	h, menu, _ := testMenuHandler(Actions{ShowWindow: func() {}})

	all, derr := h.GetGroupProperties(nil, nil)
	if derr != nil {
		t.Fatalf("GetGroupProperties failed: %v", derr)
	}
	if len(all) != len(menu.Items()) {
		t.Fatalf("returned %d entries, want %d", len(all), len(menu.Items()))
	}
	if got := all[0].Properties["enabled"]; got != dbus.MakeVariant(true) {
		t.Errorf("Show Window enabled = %v, want true (callback bound)", got)
	}
	if got := all[2].Properties["enabled"]; got != dbus.MakeVariant(false) {
		t.Errorf("Settings enabled = %v, want false (no callback)", got)
	}

	some, derr := h.GetGroupProperties([]int32{1, 7}, nil)
	if derr != nil {
		t.Fatalf("GetGroupProperties failed: %v", derr)
	}
	if len(some) != 2 || some[0].ID != 1 || some[1].ID != 7 {
		t.Errorf("filtered result = %+v, want ids 1 and 7", some)
	}
}

func TestGetProperty(t *testing.T) {
	h, _, _ := testMenuHandler(Actions{})

	v, derr := h.GetProperty(4, "label")
	if derr != nil {
		t.Fatalf("GetProperty failed: %v", derr)
	}
	if v != dbus.MakeVariant("Store") {
		t.Errorf("label = %v, want Store", v)
	}

	if _, derr := h.GetProperty(4, "nonsense"); derr == nil {
		t.Error("GetProperty succeeded for an unknown property")
	}
	if _, derr := h.GetProperty(42, "label"); derr == nil {
		t.Error("GetProperty succeeded for an unknown id")
	}
}

func TestEventClickDispatched(t *testing.T) {
	var clicked bool
	h, _, q := testMenuHandler(Actions{Quit: func() { clicked = true }})

	if derr := h.Event(7, "clicked", dbus.Variant{}, 0); derr != nil {
		t.Fatalf("Event failed: %v", derr)
	}
	if clicked {
		t.Fatal("callback ran on the bus goroutine instead of the dispatcher")
	}
	q.Pump()
	if !clicked {
		t.Error("callback did not run after pumping the dispatcher")
	}
}

func TestEventIgnoresNonClicks(t *testing.T) {
	h, _, q := testMenuHandler(Actions{Quit: func() { t.Fatal("hover must not activate") }})

	if derr := h.Event(7, "hovered", dbus.Variant{}, 0); derr != nil {
		t.Fatalf("Event failed: %v", derr)
	}
	q.Pump()
}

func TestEventGroup(t *testing.T) {
	var clicks int
	h, _, q := testMenuHandler(Actions{ShowWindow: func() { clicks++ }})

	unknown, derr := h.EventGroup([]menuEvent{
		{ID: 1, EventID: "clicked"},
		{ID: 99, EventID: "clicked"},
	})
	if derr != nil {
		t.Fatalf("EventGroup failed: %v", derr)
	}
	if len(unknown) != 1 || unknown[0] != 99 {
		t.Errorf("unknown ids = %v, want [99]", unknown)
	}
	q.Pump()
	if clicks != 1 {
		t.Errorf("callback ran %d times, want 1", clicks)
	}
}

func TestItemActivateShowsWindow(t *testing.T) {
	var shown bool
	q := uidispatch.NewQueue()
	menu := AppMenu(Actions{ShowWindow: func() { shown = true }})
	s := NewSNI(nil, menu, q, nil, Options{})
	h := itemHandler{s}

	if derr := h.Activate(0, 0); derr != nil {
		t.Fatalf("Activate failed: %v", derr)
	}
	q.Pump()
	if !shown {
		t.Error("item activation did not trigger Show Window")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.applyDefaults()

	if o.AppID == "" || o.Title == "" || o.IconName == "" {
		t.Errorf("defaults left identity fields empty: %+v", o)
	}
	if o.ItemPath != "/StatusNotifierItem" {
		t.Errorf("ItemPath = %q, want /StatusNotifierItem", o.ItemPath)
	}
	if o.MenuPath == "" {
		t.Error("MenuPath left empty")
	}

	custom := Options{AppID: "org.example.Tray", ItemPath: "/Example"}
	custom.applyDefaults()
	if custom.AppID != "org.example.Tray" || custom.ItemPath != "/Example" {
		t.Errorf("defaults overwrote explicit values: %+v", custom)
	}
}
