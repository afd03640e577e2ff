package vitrine

// PrefStore is an opaque key-value persistence capability. The viewer reads
// its auto-rotate preference once at startup and writes it on toggle; it
// functions normally when no value was ever persisted.
type PrefStore interface {
	// Get returns the stored value and whether one exists.
	Get(key string) (string, bool)
	// Set stores a value. Implementations decide durability.
	Set(key, value string)
}

// MemoryPrefs is an in-process PrefStore, useful for tests and for pages
// that do not persist viewer settings.
type MemoryPrefs struct {
	values map[string]string
}

// NewMemoryPrefs creates an empty in-memory store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string]string)}
}

// Get returns the stored value and whether one exists.
func (p *MemoryPrefs) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set stores a value.
func (p *MemoryPrefs) Set(key, value string) {
	p.values[key] = value
}
