package result

import "github.com/wippyai/varnam-abi/varray"

// SuggestionList owns a homogeneous array of suggestions, as returned by
// greedy tokenization, reverse transliteration and recent-words queries.
type SuggestionList struct {
	Items    *varray.Array[Suggestion]
	released bool
}

func NewSuggestionList(items *varray.Array[Suggestion]) *SuggestionList {
	return &SuggestionList{Items: items}
}

func (l *SuggestionList) Kind() Kind { return KindSuggestionList }

// Destroy frees Items with the Suggestion destructor.
func (l *SuggestionList) Destroy() {
	if l == nil || l.released {
		return
	}
	DestroySuggestions(l.Items)
	l.Items = nil
	l.released = true
}

func (l *SuggestionList) Released() bool { return l != nil && l.released }

// DestroySuggestions frees arr and every Suggestion in it.
func DestroySuggestions(arr *varray.Array[Suggestion]) {
	arr.Free((*Suggestion).Destroy)
}

// SchemeDetailsList owns an array of scheme details.
type SchemeDetailsList struct {
	Items    *varray.Array[SchemeDetails]
	released bool
}

func NewSchemeDetailsList(items *varray.Array[SchemeDetails]) *SchemeDetailsList {
	return &SchemeDetailsList{Items: items}
}

func (l *SchemeDetailsList) Kind() Kind { return KindSchemeDetailsList }

func (l *SchemeDetailsList) Destroy() {
	if l == nil || l.released {
		return
	}
	DestroySchemeDetailsList(l.Items)
	l.Items = nil
	l.released = true
}

func (l *SchemeDetailsList) Released() bool { return l != nil && l.released }

// SymbolList owns an array of symbols.
type SymbolList struct {
	Items    *varray.Array[Symbol]
	released bool
}

func NewSymbolList(items *varray.Array[Symbol]) *SymbolList {
	return &SymbolList{Items: items}
}

func (l *SymbolList) Kind() Kind { return KindSymbolList }

func (l *SymbolList) Destroy() {
	if l == nil || l.released {
		return
	}
	DestroySymbols(l.Items)
	l.Items = nil
	l.released = true
}

func (l *SymbolList) Released() bool { return l != nil && l.released }
