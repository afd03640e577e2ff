package vitrine

import (
	"errors"
	"testing"
)

func TestRegistryAddGet(t *testing.T) {
	r := NewRegistry()
	obj := newTestObject("a", "case.obj", 1, 1, 1)
	if err := r.Add(obj); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Get("a") != obj {
		t.Error("Get should return the added object")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(newTestObject("a", "case.obj", 1, 1, 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := r.Add(newTestObject("a", "stand.obj", 1, 1, 1))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate Add error = %v, want ErrDuplicateID", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d after rejected add, want 1", r.Len())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestObject("a", "case.obj", 1, 1, 1))

	if !r.Remove("a") {
		t.Error("Remove existing = false, want true")
	}
	if r.Get("a") != nil {
		t.Error("Get after remove should be nil")
	}
	if r.Remove("a") {
		t.Error("Remove missing = true, want false")
	}
	if r.Remove("never-existed") {
		t.Error("Remove of unknown id = true, want false")
	}
}

func TestRegistryObjectsOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"x", "y", "z"} {
		r.Add(newTestObject(id, "case.obj", 1, 1, 1))
	}
	objs := r.Objects()
	if len(objs) != 3 {
		t.Fatalf("Objects = %d, want 3", len(objs))
	}
	for i, want := range []string{"x", "y", "z"} {
		if objs[i].ID != want {
			t.Errorf("Objects[%d].ID = %q, want %q", i, objs[i].ID, want)
		}
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Add(newTestObject("a", "case.obj", 1, 1, 1))
	r.Add(newTestObject("b", "case.obj", 1, 1, 1))
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", r.Len())
	}
	if r.Get("a") != nil {
		t.Error("Get after Clear should be nil")
	}
}
