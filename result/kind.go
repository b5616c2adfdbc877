package result

// Kind identifies a record type. It doubles as the type id for handle
// tables.
type Kind uint32

const (
	KindInvalid Kind = iota
	KindSuggestion
	KindTransliterationResult
	KindSchemeDetails
	KindSymbol
	KindSuggestionList
	KindSchemeDetailsList
	KindSymbolList
)

var kindNames = [...]string{
	KindInvalid:               "invalid",
	KindSuggestion:            "suggestion",
	KindTransliterationResult: "transliteration-result",
	KindSchemeDetails:         "scheme-details",
	KindSymbol:                "symbol",
	KindSuggestionList:        "suggestion-list",
	KindSchemeDetailsList:     "scheme-details-list",
	KindSymbolList:            "symbol-list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Record is implemented by every record with owned fields.
type Record interface {
	Kind() Kind
	Destroy()
	Released() bool
}

var (
	_ Record = (*Suggestion)(nil)
	_ Record = (*TransliterationResult)(nil)
	_ Record = (*SchemeDetails)(nil)
	_ Record = (*Symbol)(nil)
	_ Record = (*SuggestionList)(nil)
	_ Record = (*SchemeDetailsList)(nil)
	_ Record = (*SymbolList)(nil)
)
