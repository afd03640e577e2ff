package vitrine

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned by Registry.Add when the id is already present.
var ErrDuplicateID = errors.New("vitrine: duplicate object id")

// Registry owns the list of placed objects. All mutation happens on the main
// loop; the renderer reads it each frame and must tolerate shape changes
// between frames.
type Registry struct {
	objects []*SceneObject
	byID    map[string]*SceneObject
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*SceneObject)}
}

// Add appends obj to the registry. Fails when an object with the same ID is
// already present.
func (r *Registry) Add(obj *SceneObject) error {
	if obj == nil || obj.ID == "" {
		return errors.New("vitrine: object must have a non-empty id")
	}
	if _, ok := r.byID[obj.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, obj.ID)
	}
	r.byID[obj.ID] = obj
	r.objects = append(r.objects, obj)
	return nil
}

// Remove deletes the object with the given id. Returns false (not an error,
// not a panic) when the id is not present.
func (r *Registry) Remove(id string) bool {
	obj, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	for i, o := range r.objects {
		if o == obj {
			copy(r.objects[i:], r.objects[i+1:])
			r.objects[len(r.objects)-1] = nil
			r.objects = r.objects[:len(r.objects)-1]
			break
		}
	}
	return true
}

// Get returns the object with the given id, or nil.
func (r *Registry) Get(id string) *SceneObject {
	return r.byID[id]
}

// Objects returns the registry's object list in insertion order. The
// returned slice MUST NOT be mutated.
func (r *Registry) Objects() []*SceneObject {
	return r.objects
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Clear removes every object. The caller is responsible for detaching
// groups and cascading unsnaps first.
func (r *Registry) Clear() {
	r.objects = r.objects[:0]
	for k := range r.byID {
		delete(r.byID, k)
	}
}
