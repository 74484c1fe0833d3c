package tray

import "testing"

func TestAppMenuLayout(t *testing.T) {
	m := AppMenu(Actions{})
	items := m.Items()

	want := []struct {
		id        int32
		label     string
		separator bool
	}{
		{1, "Show Window", false},
		{2, "", true},
		{3, "Settings", false},
		{4, "Store", false},
		{5, "About", false},
		{6, "", true},
		{7, "Quit", false},
	}

	if len(items) != len(want) {
		t.Fatalf("menu has %d entries, want %d", len(items), len(want))
	}
	for i, w := range want {
		got := items[i]
		if got.ID != w.id || got.Label != w.label || got.Separator != w.separator {
			t.Errorf("entry %d = {id:%d label:%q sep:%v}, want {id:%d label:%q sep:%v}",
				i, got.ID, got.Label, got.Separator, w.id, w.label, w.separator)
		}
	}
}

func TestAppMenuActions(t *testing.T) {
	var fired []string
	mark := func(name string) func() {
		return func() { fired = append(fired, name) }
	}
	m := AppMenu(Actions{
		ShowWindow:   mark("show"),
		OpenSettings: mark("settings"),
		OpenStore:    mark("store"),
		ShowAbout:    mark("about"),
		Quit:         mark("quit"),
	})

	for _, id := range []int32{1, 3, 4, 5, 7} {
		if !m.Activate(id) {
			t.Errorf("Activate(%d) = false, want true", id)
		}
	}
	want := []string{"show", "settings", "store", "about", "quit"}
	if len(fired) != len(want) {
		t.Fatalf("fired %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired[%d] = %q, want %q", i, fired[i], want[i])
		}
	}
}

func TestActivateSeparatorAndUnknown(t *testing.T) {
	m := AppMenu(Actions{ShowWindow: func() {}})

	if m.Activate(2) {
		t.Error("Activate(2) on a separator = true, want false")
	}
	if m.Activate(42) {
		t.Error("Activate(42) for an unknown id = true, want false")
	}
	// Entries with no callback bound are inert but present.
	if m.Activate(7) {
		t.Error("Activate(7) with nil callback = true, want false")
	}
}

func TestItemLookup(t *testing.T) {
	m := AppMenu(Actions{})

	item, ok := m.Item(4)
	if !ok || item.Label != "Store" {
		t.Errorf("Item(4) = %+v ok=%v, want the Store entry", item, ok)
	}
	if _, ok := m.Item(99); ok {
		t.Error("Item(99) reported an entry that does not exist")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	m := AppMenu(Actions{})
	items := m.Items()
	items[0].Label = "mutated"

	if got, _ := m.Item(1); got.Label != "Show Window" {
		t.Errorf("mutating the Items slice changed the menu: %q", got.Label)
	}
}
