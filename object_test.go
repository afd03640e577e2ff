package vitrine

import "testing"

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"https://cdn.example.com/models/case_v2.obj", KindCase},
		{"models/CASE.OBJ", KindCase},
		{"models/stand.glb", KindStand},
		{"models/display_stand_chrome.obj", KindStand},
		{"models/base_long.obj", KindBase},
		{"models/multibase.gltf", KindBase},
		{"models/rack10.obj", KindBase},
		{"models/assembled_red.obj", KindAssembled},
		{"models/unit.obj", KindAssembled},
		// Assembled match wins over base when both substrings appear.
		{"models/assembled_on_base.obj", KindAssembled},
		// Only the file name is inspected, not the directory path.
		{"stands/case.obj", KindCase},
		{"unknown.obj", KindCase},
	}
	for _, tt := range tests {
		if got := classifyKind(tt.path); got != tt.want {
			t.Errorf("classifyKind(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindCase, "case"},
		{KindStand, "stand"},
		{KindBase, "base"},
		{KindAssembled, "assembled"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestSnapCapacity(t *testing.T) {
	stand := newTestObject("s", "stand.obj", 0.4, 0.1, 0.4)
	if got := stand.SnapCapacity(); got != 1 {
		t.Errorf("stand capacity = %d, want 1", got)
	}

	unit := newTestObject("u", "unit.obj", 0.6, 1, 0.4)
	if got := unit.SnapCapacity(); got != 0 {
		t.Errorf("assembled capacity = %d, want 0", got)
	}

	base := newTestObject("b", "base.obj", 0.9, 0.2, 4.2)
	if got := base.SnapCapacity(); got != 0 {
		t.Errorf("base capacity before slot layout = %d, want 0", got)
	}
	base.Slots = make([]Slot, slotCount)
	base.slotsReady = true
	if got := base.SnapCapacity(); got != slotCount {
		t.Errorf("base capacity = %d, want %d", got, slotCount)
	}
}

func TestFreeSlotAndOccupiedSlots(t *testing.T) {
	base := newTestObject("b", "base.obj", 0.9, 0.2, 4.2)
	if base.FreeSlot() != nil {
		t.Error("FreeSlot before layout should be nil")
	}

	base.Slots = make([]Slot, 3)
	for i := range base.Slots {
		base.Slots[i].Index = i
	}
	base.slotsReady = true

	if s := base.FreeSlot(); s == nil || s.Index != 0 {
		t.Fatalf("FreeSlot = %v, want slot 0", s)
	}

	occ := newTestObject("u", "unit.obj", 0.6, 1, 0.4)
	base.Slots[0].Occupant = occ
	base.Slots[1].Occupant = occ
	if base.OccupiedSlots() != 2 {
		t.Errorf("OccupiedSlots = %d, want 2", base.OccupiedSlots())
	}
	if s := base.FreeSlot(); s == nil || s.Index != 2 {
		t.Fatalf("FreeSlot = %v, want slot 2", s)
	}

	base.Slots[2].Occupant = occ
	if base.FreeSlot() != nil {
		t.Error("full base should have no free slot")
	}
}

func TestObjectWorldBox(t *testing.T) {
	obj := newTestObject("c", "case.obj", 2, 4, 1)
	obj.SetPosition(3, 2, 0)
	box := obj.WorldBox()
	if !approx32(box.Center().X(), 3, epsilon) || !approx32(box.Center().Y(), 2, epsilon) {
		t.Errorf("WorldBox center = %v", box.Center())
	}
	if !approx32(box.Size().Y(), 4, epsilon) {
		t.Errorf("WorldBox size Y = %f, want 4", box.Size().Y())
	}
}
