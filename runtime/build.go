package runtime

import (
	"context"

	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/varray"
)

// BuildResult turns out into a freshly owned TransliterationResult. It
// returns nil without allocating when ctx is already done.
func BuildResult(ctx context.Context, out Output) *result.TransliterationResult {
	if ctx.Err() != nil {
		return nil
	}
	var arrays [result.NumCategories]*varray.Array[result.Suggestion]
	for i, c := range result.Categories() {
		arrays[i] = buildSuggestions(out.Words(c))
	}
	return result.NewTransliterationResult(arrays[0], arrays[1], arrays[2], arrays[3], arrays[4], arrays[5])
}

func buildSuggestions(words []Word) *varray.Array[result.Suggestion] {
	arr := varray.New[result.Suggestion]()
	for _, w := range words {
		arr.Push(buildSuggestion(w))
	}
	return arr
}

func buildSuggestion(w Word) *result.Suggestion {
	return result.NewSuggestion(own.NewString(w.Text), w.Weight, w.LearnedOn)
}

// BuildSuggestionList wraps words in an owned list.
func BuildSuggestionList(words []Word) *result.SuggestionList {
	return result.NewSuggestionList(buildSuggestions(words))
}

// BuildSchemeDetails copies s into an owned SchemeDetails.
func BuildSchemeDetails(s Scheme) *result.SchemeDetails {
	return result.NewSchemeDetails(
		own.NewString(s.Identifier),
		own.NewString(s.LangCode),
		own.NewString(s.DisplayName),
		own.NewString(s.Author),
		own.NewString(s.CompiledDate),
		s.IsStable,
	)
}

// BuildSchemeDetailsList copies schemes into an owned list.
func BuildSchemeDetailsList(schemes []Scheme) *result.SchemeDetailsList {
	arr := varray.New[result.SchemeDetails]()
	for _, s := range schemes {
		arr.Push(BuildSchemeDetails(s))
	}
	return result.NewSchemeDetailsList(arr)
}

// BuildSymbol copies s into an owned Symbol.
func BuildSymbol(s SymbolInfo) *result.Symbol {
	return result.NewSymbol(
		s.Identifier, s.Type, s.MatchType,
		own.NewString(s.Pattern),
		own.NewString(s.Value1),
		own.NewString(s.Value2),
		own.NewString(s.Value3),
		own.NewString(s.Tag),
		s.Weight, s.Priority, s.AcceptCondition, s.Flags,
	)
}

// BuildSymbolList copies symbols into an owned list.
func BuildSymbolList(symbols []SymbolInfo) *result.SymbolList {
	arr := varray.New[result.Symbol]()
	for _, s := range symbols {
		arr.Push(BuildSymbol(s))
	}
	return result.NewSymbolList(arr)
}

// SymbolFromRecord copies an owned Symbol back into plain form, for use
// as a search template.
func SymbolFromRecord(s *result.Symbol) SymbolInfo {
	if s == nil {
		return SymbolInfo{}
	}
	return SymbolInfo{
		Identifier:      s.Identifier,
		Type:            s.Type,
		MatchType:       s.MatchType,
		Pattern:         own.Text(s.Pattern),
		Value1:          own.Text(s.Value1),
		Value2:          own.Text(s.Value2),
		Value3:          own.Text(s.Value3),
		Tag:             own.Text(s.Tag),
		Weight:          s.Weight,
		Priority:        s.Priority,
		AcceptCondition: s.AcceptCondition,
		Flags:           s.Flags,
	}
}
