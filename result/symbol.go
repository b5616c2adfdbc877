package result

import (
	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/varray"
)

// Symbol is one entry of a scheme's symbol table.
type Symbol struct {
	Identifier      int
	Type            int
	MatchType       int
	Pattern         *own.String
	Value1          *own.String
	Value2          *own.String
	Value3          *own.String
	Tag             *own.String
	Weight          int
	Priority        int
	AcceptCondition int
	Flags           int
	released        bool
}

// NewSymbol takes ownership of pattern, the three values and tag.
func NewSymbol(
	identifier, symbolType, matchType int,
	pattern, value1, value2, value3, tag *own.String,
	weight, priority, acceptCondition, flags int,
) *Symbol {
	return &Symbol{
		Identifier:      identifier,
		Type:            symbolType,
		MatchType:       matchType,
		Pattern:         pattern,
		Value1:          value1,
		Value2:          value2,
		Value3:          value3,
		Tag:             tag,
		Weight:          weight,
		Priority:        priority,
		AcceptCondition: acceptCondition,
		Flags:           flags,
	}
}

func (s *Symbol) Kind() Kind { return KindSymbol }

func (s *Symbol) strings() []**own.String {
	return []**own.String{&s.Pattern, &s.Value1, &s.Value2, &s.Value3, &s.Tag}
}

// Destroy frees every owned string.
func (s *Symbol) Destroy() {
	if s == nil || s.released {
		return
	}
	for _, f := range s.strings() {
		(*f).Free()
		*f = nil
	}
	s.released = true
}

func (s *Symbol) Released() bool {
	return s != nil && s.released
}

// DestroySymbols frees arr and every Symbol in it.
func DestroySymbols(arr *varray.Array[Symbol]) {
	arr.Free((*Symbol).Destroy)
}
