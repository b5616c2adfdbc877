// Package result defines the records that cross the boundary and their
// paired constructor/destructor functions.
//
// # Ownership
//
// Constructors take ownership of every pointer argument and never copy:
//
//	word := own.NewString("wor1d")
//	sug := result.NewSuggestion(word, 5, 1700000000) // sug now owns word
//
// Every owned field is either valid or nil. Destroy frees each owned
// field, sets it to nil and marks the record released, so a second
// Destroy is a no-op and Released reports the transition:
//
//	sug.Destroy()
//	sug.Word == nil  // true
//	sug.Released()   // true
//
// # Aggregates
//
// TransliterationResult owns six arrays of Suggestion, one per Category.
// Its destructor frees every array with the Suggestion destructor:
//
//	res := result.NewTransliterationResult(exactWords, exactMatches,
//		dictionary, patterns, tokenizer, greedy)
//	defer res.Destroy()
//
// SuggestionList, SchemeDetailsList and SymbolList wrap a homogeneous
// array so it can be handed over as a single record.
//
// # Records
//
//	Record                 Owned fields
//	─────────────────────────────────────────────────────
//	Suggestion             Word
//	TransliterationResult  six Suggestion arrays
//	SchemeDetails          five strings
//	Symbol                 Pattern, Value1..3, Tag
//	LearnStatus            none (returned by value)
//
// # Validation
//
// Constructors do not validate input. Passing a buffer the caller does
// not own, or sharing one buffer between two records, is a contract
// violation that shows up as a double free.
//
// # Thread Safety
//
// Records have a single owner and no internal locking.
package result
