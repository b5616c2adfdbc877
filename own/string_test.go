package own

import "testing"

func TestString_RoundTrip(t *testing.T) {
	s := NewString("wor1d")
	if s.String() != "wor1d" {
		t.Fatalf("String() = %q", s.String())
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d", s.Len())
	}
	if s.Freed() {
		t.Fatal("new buffer reported freed")
	}
}

func TestString_CopiesInput(t *testing.T) {
	src := []byte("abc")
	s := NewString(string(src))
	src[0] = 'x'
	if s.String() != "abc" {
		t.Fatalf("buffer aliased input: %q", s.String())
	}
}

func TestString_Free(t *testing.T) {
	s := NewString("മലയാളം")
	data := s.Bytes()

	s.Free()

	if !s.Freed() {
		t.Fatal("Freed() = false after Free")
	}
	if s.String() != "" || s.Len() != 0 || s.Bytes() != nil {
		t.Fatal("freed buffer should read as empty")
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not wiped: %x", i, b)
		}
	}

	s.Free()
}

func TestString_Nil(t *testing.T) {
	var s *String
	if s.String() != "" || Text(s) != "" {
		t.Fatal("nil buffer should read as empty")
	}
	if s.Len() != 0 || s.Bytes() != nil || s.Freed() {
		t.Fatal("nil buffer accessors")
	}
	s.Free()
}
