// Package transcoder moves result records across a linear memory boundary
// using the fixed C layout.
//
// A consumer in another runtime sees each record as the C struct its
// header declares. The Encoder writes a record tree into memory, the
// Decoder copies one back out, and the Releaser runs the destructor
// protocol in place.
//
//	┌────────────────────────────────────────────────────────────────┐
//	│ result records ──Encoder──▶ linear memory ──Releaser──▶ freed │
//	│                ◀─Decoder──                                     │
//	└────────────────────────────────────────────────────────────────┘
//
// # Memory Layout
//
// Field widths follow the Target data model:
//
//	Field           wasm32      lp64
//	──────────────────────────────────
//	int / bool      4           4
//	char*           4           8
//	varray*         4           8
//	varray header   16          32
//
// Records use the natural C struct padding of their fields. The schemas
// in schema.go are the single source of field order:
//
//	suggestion              { char *word; int weight; int learned_on; }
//	transliteration-result  six varray* in category order
//	scheme-details          five char*, int is_stable
//	symbol                  three int, five char*, four int
//
// A varray header is {void **memory; size_t allocated; size_t used;
// int index}. The slot block keeps the Go array's capacity, so
// allocated is always a power of two slots (or zero) and unused slots
// hold the null pointer.
//
// # Key Types
//
//	Encoder           - Writes record trees into memory
//	Decoder           - Copies records out of memory
//	Releaser          - Frees records in memory, nulling each field
//	LayoutCalculator  - Size, alignment and field offsets per Target
//	AllocationList    - Rollback list for a failed encode
//
// # Allocation
//
// Every block comes from the caller's Allocator. Strings are allocated
// with align 1 and include the NUL terminator. Free is always called
// with the size and align used at allocation, so a tracking allocator
// can verify that a released tree returns every byte.
package transcoder
