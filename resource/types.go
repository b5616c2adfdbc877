package resource

import "github.com/wippyai/varnam-abi/result"

// Handle is an opaque reference to a record in a table.
// Handle 0 is reserved and always invalid.
//
// The low 24 bits select the slot and the high 8 bits carry the slot
// generation, so a handle kept past Destroy does not alias the record
// that later reuses its slot.
type Handle uint32

const (
	slotBits = 24
	slotMask = 1<<slotBits - 1
	maxSlots = slotMask
)

func makeHandle(slot int, gen uint8) Handle {
	return Handle(uint32(gen)<<slotBits | uint32(slot+1))
}

func (h Handle) slot() int { return int(uint32(h)&slotMask) - 1 }

func (h Handle) gen() uint8 { return uint8(uint32(h) >> slotBits) }

// Event types for record lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDestroyed
	EventTaken
	EventBorrowed
	EventBorrowReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDestroyed:
		return "destroyed"
	case EventTaken:
		return "taken"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow-returned"
	default:
		return "unknown"
	}
}

// Event represents a record lifecycle event.
type Event struct {
	Value  result.Record
	Handle Handle
	Kind   result.Kind
	Rep    uint32
	Type   EventType
}

// Observer receives notifications about record lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for records.
type Backend interface {
	// Create stores a record with an optional representation (typically
	// its address in linear memory) and returns a handle.
	Create(value result.Record, rep uint32) (Handle, error)

	// Get retrieves a record by handle.
	Get(handle Handle) (result.Record, bool)

	// Drop removes a record and returns it so the caller can destroy it.
	// Fails with a released, borrowed or not-found error.
	Drop(handle Handle) (result.Record, uint32, error)

	// Close releases all records held by the backend.
	Close() error
}

// Table manages records with kind information and observer support.
type Table interface {
	// Insert adds a record and returns its handle.
	Insert(value result.Record) (Handle, error)

	// InsertWithRep adds a record that also lives in linear memory at rep.
	InsertWithRep(value result.Record, rep uint32) (Handle, error)

	// Get retrieves a record by handle.
	Get(handle Handle) (result.Record, bool)

	// GetTyped retrieves a record only if it has the expected kind.
	GetTyped(handle Handle, kind result.Kind) (result.Record, bool)

	// Destroy removes a record and runs its destructor exactly once.
	Destroy(handle Handle) error

	// Take removes a record without destroying it; the caller owns it.
	Take(handle Handle) (result.Record, error)

	// Subscribe adds an observer for lifecycle events.
	Subscribe(Observer)

	// Unsubscribe removes an observer.
	Unsubscribe(Observer)

	// Len returns the number of live records.
	Len() int

	// Clear destroys all records.
	Clear()

	// Close destroys all records and stops accepting operations.
	Close() error
}

// RepReleaser frees the memory representation of a destroyed record.
type RepReleaser func(kind result.Kind, rep uint32) error
