// Package own provides owned string buffers for records that cross the
// boundary.
//
// A *String is the owning handle for one buffer. Constructors in the
// result package take the handle and never copy it; destructors call Free
// and nil the field. A nil *String is the released state and reads as "".
package own

// String is an owned, immutable text buffer.
type String struct {
	data  []byte
	freed bool
}

// NewString allocates a buffer holding a copy of s.
func NewString(s string) *String {
	return &String{data: []byte(s)}
}

// String returns the text, or "" for a nil or freed buffer.
func (s *String) String() string {
	if s == nil || s.freed {
		return ""
	}
	return string(s.data)
}

// Bytes returns the buffer contents. The slice aliases the buffer and
// must not be retained past Free.
func (s *String) Bytes() []byte {
	if s == nil || s.freed {
		return nil
	}
	return s.data
}

// Len returns the byte length, excluding any terminator.
func (s *String) Len() int {
	if s == nil || s.freed {
		return 0
	}
	return len(s.data)
}

// Freed reports whether Free has been called.
func (s *String) Freed() bool {
	return s != nil && s.freed
}

// Free wipes and releases the buffer. Calling Free on a nil or already
// freed buffer does nothing.
func (s *String) Free() {
	if s == nil || s.freed {
		return
	}
	clear(s.data)
	s.data = nil
	s.freed = true
}

// Text returns the text held by s; nil reads as "".
func Text(s *String) string {
	return s.String()
}
