package resource

import (
	"sync"

	"github.com/wippyai/varnam-abi/result"
)

// UnifiedTable implements the Table interface using a LocalBackend for
// storage.
type UnifiedTable struct {
	backend   *LocalBackend
	releaser  RepReleaser
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// Option configures a table.
type Option func(*UnifiedTable)

// WithRepReleaser sets the function that frees a record's memory
// representation when it is destroyed.
func WithRepReleaser(fn RepReleaser) Option {
	return func(t *UnifiedTable) { t.releaser = fn }
}

// NewTable creates a new unified table with a LocalBackend.
func NewTable(opts ...Option) *UnifiedTable {
	t := &UnifiedTable{
		backend: NewLocalBackend(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert adds a record and returns its handle.
func (t *UnifiedTable) Insert(value result.Record) (Handle, error) {
	return t.InsertWithRep(value, 0)
}

// InsertWithRep adds a record whose memory representation lives at rep.
func (t *UnifiedTable) InsertWithRep(value result.Record, rep uint32) (Handle, error) {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0, ErrClosed
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(value, rep)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Kind:   value.Kind(),
		Rep:    rep,
		Value:  value,
	})

	return handle, nil
}

// Get retrieves a record by handle.
func (t *UnifiedTable) Get(handle Handle) (result.Record, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves a record only if it has the expected kind.
func (t *UnifiedTable) GetTyped(handle Handle, kind result.Kind) (result.Record, bool) {
	actual, ok := t.backend.Kind(handle)
	if !ok || actual != kind {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Kind returns the kind of the record behind handle.
func (t *UnifiedTable) Kind(handle Handle) (result.Kind, bool) {
	return t.backend.Kind(handle)
}

// Rep returns the memory representation recorded for handle.
func (t *UnifiedTable) Rep(handle Handle) (uint32, bool) {
	return t.backend.Rep(handle)
}

// Check reports why handle is unusable, or nil when it is live.
func (t *UnifiedTable) Check(handle Handle) error {
	return t.backend.Check(handle)
}

// Destroy removes a record, frees its memory representation and runs
// its destructor. A second Destroy on the same handle returns a released
// error and destroys nothing. An error from the rep releaser is returned
// after the handle is gone: the record is destroyed either way and only
// its memory representation may have leaked.
func (t *UnifiedTable) Destroy(handle Handle) error {
	value, rep, err := t.backend.Drop(handle)
	if err != nil {
		return err
	}
	return t.release(handle, value, rep)
}

func (t *UnifiedTable) release(handle Handle, value result.Record, rep uint32) error {
	var releaseErr error
	if rep != 0 && t.releaser != nil {
		releaseErr = t.releaser(value.Kind(), rep)
	}
	value.Destroy()

	t.notify(Event{
		Type:   EventDestroyed,
		Handle: handle,
		Kind:   value.Kind(),
		Rep:    rep,
		Value:  value,
	})

	return releaseErr
}

// Take removes a record without destroying it.
func (t *UnifiedTable) Take(handle Handle) (result.Record, error) {
	value, rep, err := t.backend.Drop(handle)
	if err != nil {
		return nil, err
	}

	t.notify(Event{
		Type:   EventTaken,
		Handle: handle,
		Kind:   value.Kind(),
		Rep:    rep,
		Value:  value,
	})

	return value, nil
}

// Borrow marks handle as in use; Destroy fails until every borrow is
// returned.
func (t *UnifiedTable) Borrow(handle Handle) error {
	if err := t.backend.Borrow(handle); err != nil {
		return err
	}
	kind, _ := t.backend.Kind(handle)
	t.notify(Event{Type: EventBorrowed, Handle: handle, Kind: kind})
	return nil
}

func (t *UnifiedTable) ReturnBorrow(handle Handle) error {
	if err := t.backend.ReturnBorrow(handle); err != nil {
		return err
	}
	kind, _ := t.backend.Kind(handle)
	t.notify(Event{Type: EventBorrowReturned, Handle: handle, Kind: kind})
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *UnifiedTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *UnifiedTable) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live records.
func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// Each iterates over live records.
func (t *UnifiedTable) Each(fn func(Handle, result.Kind, result.Record) bool) {
	t.backend.Each(fn)
}

// Clear destroys all records. Borrowed records are left in place.
func (t *UnifiedTable) Clear() {
	// Collect handles first to avoid holding lock during Destroy
	var handles []Handle
	t.backend.Each(func(h Handle, _ result.Kind, _ result.Record) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_ = t.Destroy(h)
	}
}

// Close destroys all records, borrowed ones included, releasing their
// memory representations, and stops accepting operations.
func (t *UnifiedTable) Close() error {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return nil
	}
	t.closed = true
	t.closeMu.Unlock()

	t.Clear()
	// Borrowed records survive Clear; close drops them regardless.
	for _, d := range t.backend.drain() {
		_ = t.release(d.handle, d.value, d.rep)
	}
	return t.backend.Close()
}

// Backend returns the underlying backend.
func (t *UnifiedTable) Backend() *LocalBackend {
	return t.backend
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

var _ Table = (*UnifiedTable)(nil)
var _ Backend = (*LocalBackend)(nil)
