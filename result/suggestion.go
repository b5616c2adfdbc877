package result

import "github.com/wippyai/varnam-abi/own"

// Suggestion is a single candidate word.
type Suggestion struct {
	Word      *own.String
	Weight    int
	LearnedOn int // unix seconds, 0 when never learnt
	released  bool
}

// NewSuggestion takes ownership of word.
func NewSuggestion(word *own.String, weight, learnedOn int) *Suggestion {
	return &Suggestion{
		Word:      word,
		Weight:    weight,
		LearnedOn: learnedOn,
	}
}

func (s *Suggestion) Kind() Kind { return KindSuggestion }

// Text returns the word, or "" once released.
func (s *Suggestion) Text() string {
	if s == nil {
		return ""
	}
	return s.Word.String()
}

// Destroy frees Word.
func (s *Suggestion) Destroy() {
	if s == nil || s.released {
		return
	}
	s.Word.Free()
	s.Word = nil
	s.released = true
}

func (s *Suggestion) Released() bool {
	return s != nil && s.released
}

// SameWord reports whether two suggestions carry the same word. It is
// the usual equality predicate for varray.Array.Exists.
func SameWord(left, right *Suggestion) bool {
	if left == nil || right == nil {
		return left == right
	}
	return left.Text() == right.Text()
}
