package vitrine

// ObjectEvent carries identity data for object lifecycle and selection
// notifications.
type ObjectEvent struct {
	ID   string
	Kind Kind
}

// InspectEvent is raised by a double-click/tap on an object. It carries the
// object's current snap status and, for a multi-slot base, how many of its
// slots are occupied.
type InspectEvent struct {
	ID   string
	Kind Kind

	// Docked reports whether the object currently has a snap relation.
	// BaseID and SlotIndex describe it; SlotIndex is -1 for a stand
	// attachment.
	Docked    bool
	BaseID    string
	SlotIndex int

	// OccupiedSlots is the number of occupied slots when the object is a
	// multi-slot base, else 0.
	OccupiedSlots int
}

// LoadFailedEvent is raised when an async model load rejects.
type LoadFailedEvent struct {
	ID   string
	Path string
	Err  error
}

// --- Handler registry ---

type objectHandler struct {
	id uint32
	fn func(ObjectEvent)
}

type inspectHandler struct {
	id uint32
	fn func(InspectEvent)
}

type loadFailedHandler struct {
	id uint32
	fn func(LoadFailedEvent)
}

type voidHandler struct {
	id uint32
	fn func()
}

type handlerRegistry struct {
	objectAdded   []objectHandler
	objectRemoved []objectHandler
	selected      []objectHandler
	deselected    []voidHandler
	inspected     []inspectHandler
	cleared       []voidHandler
	loadFailed    []loadFailedHandler
	nextID        uint32
}

// CallbackHandle allows removing a registered viewer-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventObjectAdded:
		h.reg.objectAdded = removeObjectHandler(h.reg.objectAdded, h.id)
	case EventObjectRemoved:
		h.reg.objectRemoved = removeObjectHandler(h.reg.objectRemoved, h.id)
	case EventSelect:
		h.reg.selected = removeObjectHandler(h.reg.selected, h.id)
	case EventDeselect:
		h.reg.deselected = removeVoidHandler(h.reg.deselected, h.id)
	case EventInspect:
		h.reg.inspected = removeInspectHandler(h.reg.inspected, h.id)
	case EventCleared:
		h.reg.cleared = removeVoidHandler(h.reg.cleared, h.id)
	case EventLoadFailed:
		h.reg.loadFailed = removeLoadFailedHandler(h.reg.loadFailed, h.id)
	}
}

func removeObjectHandler(s []objectHandler, id uint32) []objectHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = objectHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeInspectHandler(s []inspectHandler, id uint32) []inspectHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = inspectHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeLoadFailedHandler(s []loadFailedHandler, id uint32) []loadFailedHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = loadFailedHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeVoidHandler(s []voidHandler, id uint32) []voidHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = voidHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Viewer-level event registration ---

// OnObjectAdded registers a callback fired after a loaded object enters the
// registry.
func (v *Viewer) OnObjectAdded(fn func(ObjectEvent)) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.objectAdded = append(v.handlers.objectAdded, objectHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventObjectAdded}
}

// OnObjectRemoved registers a callback fired after an object is removed.
func (v *Viewer) OnObjectRemoved(fn func(ObjectEvent)) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.objectRemoved = append(v.handlers.objectRemoved, objectHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventObjectRemoved}
}

// OnSelect registers a callback fired when an object becomes selected.
func (v *Viewer) OnSelect(fn func(ObjectEvent)) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.selected = append(v.handlers.selected, objectHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventSelect}
}

// OnDeselect registers a callback fired when the selection is cleared.
func (v *Viewer) OnDeselect(fn func()) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.deselected = append(v.handlers.deselected, voidHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventDeselect}
}

// OnInspect registers a callback fired on double-click/tap of an object.
func (v *Viewer) OnInspect(fn func(InspectEvent)) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.inspected = append(v.handlers.inspected, inspectHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventInspect}
}

// OnCleared registers a callback fired after Clear removes every object.
func (v *Viewer) OnCleared(fn func()) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.cleared = append(v.handlers.cleared, voidHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventCleared}
}

// OnLoadFailed registers a callback fired when an async model load fails.
func (v *Viewer) OnLoadFailed(fn func(LoadFailedEvent)) CallbackHandle {
	v.handlers.nextID++
	id := v.handlers.nextID
	v.handlers.loadFailed = append(v.handlers.loadFailed, loadFailedHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &v.handlers, event: EventLoadFailed}
}

// --- Dispatch ---

func (v *Viewer) fireObjectAdded(obj *SceneObject) {
	ev := ObjectEvent{ID: obj.ID, Kind: obj.Kind}
	for _, h := range v.handlers.objectAdded {
		h.fn(ev)
	}
}

func (v *Viewer) fireObjectRemoved(obj *SceneObject) {
	ev := ObjectEvent{ID: obj.ID, Kind: obj.Kind}
	for _, h := range v.handlers.objectRemoved {
		h.fn(ev)
	}
}

func (v *Viewer) fireSelect(obj *SceneObject) {
	ev := ObjectEvent{ID: obj.ID, Kind: obj.Kind}
	for _, h := range v.handlers.selected {
		h.fn(ev)
	}
}

func (v *Viewer) fireDeselect() {
	for _, h := range v.handlers.deselected {
		h.fn()
	}
}

func (v *Viewer) fireInspect(obj *SceneObject) {
	ev := InspectEvent{
		ID:            obj.ID,
		Kind:          obj.Kind,
		SlotIndex:     -1,
		OccupiedSlots: obj.OccupiedSlots(),
	}
	if rel, ok := v.place.relationFor(obj.ID); ok {
		ev.Docked = true
		ev.BaseID = rel.baseID
		ev.SlotIndex = rel.slotIndex
	}
	for _, h := range v.handlers.inspected {
		h.fn(ev)
	}
}

func (v *Viewer) fireCleared() {
	for _, h := range v.handlers.cleared {
		h.fn()
	}
}

func (v *Viewer) fireLoadFailed(id, path string, err error) {
	ev := LoadFailedEvent{ID: id, Path: path, Err: err}
	for _, h := range v.handlers.loadFailed {
		h.fn(ev)
	}
}
