package result

import "github.com/wippyai/varnam-abi/varray"

// Category names one suggestion array of a TransliterationResult.
type Category uint8

const (
	CategoryExactWords Category = iota
	CategoryExactMatches
	CategoryDictionarySuggestions
	CategoryPatternDictionarySuggestions
	CategoryTokenizerSuggestions
	CategoryGreedyTokenized
)

// NumCategories is the number of arrays in a TransliterationResult.
const NumCategories = 6

var categoryNames = [NumCategories]string{
	"exact-words",
	"exact-matches",
	"dictionary-suggestions",
	"pattern-dictionary-suggestions",
	"tokenizer-suggestions",
	"greedy-tokenized",
}

func (c Category) String() string {
	if int(c) < NumCategories {
		return categoryNames[c]
	}
	return "unknown"
}

// Categories lists every category in field order.
func Categories() []Category {
	return []Category{
		CategoryExactWords,
		CategoryExactMatches,
		CategoryDictionarySuggestions,
		CategoryPatternDictionarySuggestions,
		CategoryTokenizerSuggestions,
		CategoryGreedyTokenized,
	}
}

// TransliterationResult is the aggregate returned for one request.
type TransliterationResult struct {
	// Words found exactly in the word or pattern dictionary.
	ExactWords *varray.Array[Suggestion]
	// Dictionary words starting with the input.
	ExactMatches *varray.Array[Suggestion]
	// Possible words from the dictionary.
	DictionarySuggestions *varray.Array[Suggestion]
	// Possible words from the patterns dictionary.
	PatternDictionarySuggestions *varray.Array[Suggestion]
	// Tokenizer matches, filled when there are no exact matches.
	TokenizerSuggestions *varray.Array[Suggestion]
	// Exact tokenizer matches.
	GreedyTokenized *varray.Array[Suggestion]

	released bool
}

// NewTransliterationResult takes ownership of all six arrays. Nil arrays
// are stored as nil and read as empty.
func NewTransliterationResult(
	exactWords, exactMatches, dictionarySuggestions,
	patternDictionarySuggestions, tokenizerSuggestions, greedyTokenized *varray.Array[Suggestion],
) *TransliterationResult {
	return &TransliterationResult{
		ExactWords:                   exactWords,
		ExactMatches:                 exactMatches,
		DictionarySuggestions:        dictionarySuggestions,
		PatternDictionarySuggestions: patternDictionarySuggestions,
		TokenizerSuggestions:         tokenizerSuggestions,
		GreedyTokenized:              greedyTokenized,
	}
}

func (r *TransliterationResult) Kind() Kind { return KindTransliterationResult }

// fields returns the owned array fields in Category order, shared by
// Destroy and the accessors.
func (r *TransliterationResult) fields() [NumCategories]**varray.Array[Suggestion] {
	return [NumCategories]**varray.Array[Suggestion]{
		&r.ExactWords,
		&r.ExactMatches,
		&r.DictionarySuggestions,
		&r.PatternDictionarySuggestions,
		&r.TokenizerSuggestions,
		&r.GreedyTokenized,
	}
}

// Get returns the array for c, or nil.
func (r *TransliterationResult) Get(c Category) *varray.Array[Suggestion] {
	if r == nil || int(c) >= NumCategories {
		return nil
	}
	return *r.fields()[c]
}

// Count returns the number of suggestions across all arrays.
func (r *TransliterationResult) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, f := range r.fields() {
		n += (*f).Len()
	}
	return n
}

// Destroy frees every array with the Suggestion destructor.
func (r *TransliterationResult) Destroy() {
	r.DestroyWith((*Suggestion).Destroy)
}

// DestroyWith frees every array, calling destructor once per contained
// suggestion, and nils each field.
func (r *TransliterationResult) DestroyWith(destructor func(*Suggestion)) {
	if r == nil || r.released {
		return
	}
	for _, f := range r.fields() {
		(*f).Free(destructor)
		*f = nil
	}
	r.released = true
}

func (r *TransliterationResult) Released() bool {
	return r != nil && r.released
}
