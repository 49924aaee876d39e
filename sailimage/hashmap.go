package sailimage

// HashMap is a string-keyed map of owned Variant values, used for codec
// tuning knobs and source-image special properties. It wraps a native Go
// map (spec §9 "Variant / HashMap" design note: replace the custom
// open-addressed hash map with the target language's idiomatic map,
// preserving only the traversal-callback API at the façade).
type HashMap struct {
	m map[string]Variant
}

// NewHashMap returns an empty, ready-to-use HashMap.
func NewHashMap() *HashMap {
	return &HashMap{m: make(map[string]Variant)}
}

// Set inserts or overwrites key with a deep copy of value.
func (h *HashMap) Set(key string, value Variant) {
	if h.m == nil {
		h.m = make(map[string]Variant)
	}
	h.m[key] = value.Copy()
}

// Get returns the Variant stored at key and whether it was present.
func (h *HashMap) Get(key string) (Variant, bool) {
	v, ok := h.m[key]
	return v, ok
}

// HasKey reports whether key is present.
func (h *HashMap) HasKey(key string) bool {
	_, ok := h.m[key]
	return ok
}

// Erase removes key, if present.
func (h *HashMap) Erase(key string) {
	delete(h.m, key)
}

// Len returns the number of entries.
func (h *HashMap) Len() int { return len(h.m) }

// Traverse calls fn once per entry in unspecified order. If fn returns
// false, traversal stops early (spec §3.1: "callback returning false stops
// traversal").
func (h *HashMap) Traverse(fn func(key string, value Variant) bool) {
	for k, v := range h.m {
		if !fn(k, v) {
			return
		}
	}
}

// Copy returns a structurally equal but independently owned HashMap (P11).
func (h *HashMap) Copy() *HashMap {
	cp := NewHashMap()
	for k, v := range h.m {
		cp.m[k] = v.Copy()
	}
	return cp
}

// Snapshot returns a plain map of h's current contents, for structural
// comparison in tests (e.g. with go-cmp); it is not used on any load/save
// path.
func (h *HashMap) Snapshot() map[string]Variant {
	out := make(map[string]Variant, len(h.m))
	for k, v := range h.m {
		out[k] = v
	}
	return out
}
