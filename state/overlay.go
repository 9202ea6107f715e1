package state

// OverlayedChanges buffers the key/value writes produced during one
// call execution, layered above a read-only backend. It is created
// immediately before a call, owned exclusively by that call, and
// discarded afterward; this module has no commit path for it.
type OverlayedChanges struct {
	changes map[string]overlayEntry
}

type overlayEntry struct {
	value   []byte
	deleted bool
}

// NewOverlayedChanges returns an empty write buffer.
func NewOverlayedChanges() *OverlayedChanges {
	return &OverlayedChanges{changes: make(map[string]overlayEntry)}
}

// Get returns the pending value for key and whether the overlay holds
// an entry for it at all. A deleted key reports (nil, true).
func (o *OverlayedChanges) Get(key []byte) ([]byte, bool) {
	e, ok := o.changes[string(key)]
	if !ok {
		return nil, false
	}
	if e.deleted {
		return nil, true
	}
	return e.value, true
}

// Set records a pending write.
func (o *OverlayedChanges) Set(key, value []byte) {
	o.changes[string(key)] = overlayEntry{value: append([]byte(nil), value...)}
}

// Delete records a pending deletion.
func (o *OverlayedChanges) Delete(key []byte) {
	o.changes[string(key)] = overlayEntry{deleted: true}
}

// Len returns the number of pending entries.
func (o *OverlayedChanges) Len() int { return len(o.changes) }

// Externalities is the host interface a runtime reads and writes
// state through during one call. Reads consult the overlay first and
// fall through to the underlying view for untouched keys; writes only
// ever land in the overlay.
type Externalities interface {
	StorageGet(key []byte) ([]byte, error)
	StorageSet(key, value []byte)
	StorageDelete(key []byte)
}

// NewExternalities layers the given overlay above a state view.
func NewExternalities(overlay *OverlayedChanges, reader Reader) Externalities {
	return &externalities{overlay: overlay, reader: reader}
}

type externalities struct {
	overlay *OverlayedChanges
	reader  Reader
}

func (e *externalities) StorageGet(key []byte) ([]byte, error) {
	if v, ok := e.overlay.Get(key); ok {
		return v, nil
	}
	return e.reader.Storage(key)
}

func (e *externalities) StorageSet(key, value []byte) {
	e.overlay.Set(key, value)
}

func (e *externalities) StorageDelete(key []byte) {
	e.overlay.Delete(key)
}
