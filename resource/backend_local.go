package resource

import (
	"sync"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/result"
)

var (
	ErrClosed = &errors.Error{
		Phase:  errors.PhaseRuntime,
		Kind:   errors.KindNotInitialized,
		Detail: "resource table closed",
	}
	ErrFull = &errors.Error{
		Phase:  errors.PhaseRuntime,
		Kind:   errors.KindAllocation,
		Detail: "resource table full",
	}
)

// LocalBackend is an in-memory record backend with borrow tracking.
type LocalBackend struct {
	entries  []entry
	freeList []int
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value       result.Record
	kind        result.Kind
	rep         uint32
	borrowCount uint32
	gen         uint8
	valid       bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]int, 0, 16),
	}
}

// Create stores a record and returns a handle.
func (b *LocalBackend) Create(value result.Record, rep uint32) (Handle, error) {
	if value == nil {
		return 0, errors.NilPointer(errors.PhaseRuntime, nil, "record")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{
		kind:  value.Kind(),
		value: value,
		rep:   rep,
		valid: true,
	}

	if len(b.freeList) > 0 {
		slot := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		e.gen = b.entries[slot].gen
		b.entries[slot] = e
		return makeHandle(slot, e.gen), nil
	}

	if len(b.entries) >= maxSlots {
		return 0, ErrFull
	}
	b.entries = append(b.entries, e)
	return makeHandle(len(b.entries)-1, 0), nil
}

// lookup returns the live entry for handle. Callers hold b.mu.
func (b *LocalBackend) lookup(handle Handle) (*entry, error) {
	if handle == 0 {
		return nil, errors.NotFound(errors.PhaseRuntime, "handle", handle)
	}
	slot := handle.slot()
	if slot < 0 || slot >= len(b.entries) {
		return nil, errors.NotFound(errors.PhaseRuntime, "handle", handle)
	}
	e := &b.entries[slot]
	if !e.valid || e.gen != handle.gen() {
		return nil, errors.Released(errors.PhaseRelease, e.kind.String(), handle)
	}
	return e, nil
}

// Get retrieves a record by handle.
func (b *LocalBackend) Get(handle Handle) (result.Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(handle)
	if err != nil {
		return nil, false
	}
	return e.value, true
}

// Check reports why handle is unusable, or nil when it is live.
func (b *LocalBackend) Check(handle Handle) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, err := b.lookup(handle)
	return err
}

// Drop removes a record and returns it with its rep.
func (b *LocalBackend) Drop(handle Handle) (result.Record, uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(handle)
	if err != nil {
		return nil, 0, err
	}
	if e.borrowCount > 0 {
		return nil, 0, errors.Borrowed(e.kind.String(), handle, e.borrowCount)
	}

	value, rep := e.value, e.rep
	e.valid = false
	e.value = nil
	e.rep = 0
	e.borrowCount = 0
	e.gen++
	b.freeList = append(b.freeList, handle.slot())

	return value, rep, nil
}

type drained struct {
	handle Handle
	value  result.Record
	rep    uint32
}

// drain invalidates every live entry, borrowed or not, and returns them.
func (b *LocalBackend) drain() []drained {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []drained
	for i := range b.entries {
		e := &b.entries[i]
		if !e.valid {
			continue
		}
		out = append(out, drained{makeHandle(i, e.gen), e.value, e.rep})
		e.valid = false
		e.value = nil
		e.borrowCount = 0
		e.gen++
		b.freeList = append(b.freeList, i)
	}
	return out
}

// Close destroys every live record without releasing representations.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			b.entries[i].value.Destroy()
			b.entries[i].valid = false
			b.entries[i].value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Rep returns the representation value for a handle.
func (b *LocalBackend) Rep(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(handle)
	if err != nil {
		return 0, false
	}
	return e.rep, true
}

// SetRep records where the record lives in linear memory.
func (b *LocalBackend) SetRep(handle Handle, rep uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(handle)
	if err != nil {
		return err
	}
	e.rep = rep
	return nil
}

// Borrow increments the borrow count for a handle.
func (b *LocalBackend) Borrow(handle Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(handle)
	if err != nil {
		return err
	}
	e.borrowCount++
	return nil
}

// ReturnBorrow decrements the borrow count for a handle.
func (b *LocalBackend) ReturnBorrow(handle Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(handle)
	if err != nil {
		return err
	}
	if e.borrowCount == 0 {
		return errors.InvalidInput(errors.PhaseRuntime, "return of a borrow that was never taken")
	}
	e.borrowCount--
	return nil
}

// Kind returns the record kind for a handle.
func (b *LocalBackend) Kind(handle Handle) (result.Kind, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(handle)
	if err != nil {
		return result.KindInvalid, false
	}
	return e.kind, true
}

// Len returns the number of live records.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all live records.
func (b *LocalBackend) Each(fn func(Handle, result.Kind, result.Record) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.kind, e.value) {
				break
			}
		}
	}
}
