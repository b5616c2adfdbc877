package transcoder

import (
	"github.com/wippyai/varnam-abi/result"
	"go.bytecodealliance.org/wit"
)

// Field names shared by the schemas and the codecs.
const (
	fieldWord      = "word"
	fieldWeight    = "weight"
	fieldLearnedOn = "learned-on"

	fieldIdentifier   = "identifier"
	fieldLangCode     = "lang-code"
	fieldDisplayName  = "display-name"
	fieldAuthor       = "author"
	fieldCompiledDate = "compiled-date"
	fieldIsStable     = "is-stable"

	fieldType            = "type"
	fieldMatchType       = "match-type"
	fieldPattern         = "pattern"
	fieldValue1          = "value1"
	fieldValue2          = "value2"
	fieldValue3          = "value3"
	fieldTag             = "tag"
	fieldPriority        = "priority"
	fieldAcceptCondition = "accept-condition"
	fieldFlags           = "flags"
)

var (
	SuggestionSchema = &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: fieldWord, Type: wit.String{}},
		{Name: fieldWeight, Type: wit.S32{}},
		{Name: fieldLearnedOn, Type: wit.S32{}},
	}}}

	SchemeDetailsSchema = &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: fieldIdentifier, Type: wit.String{}},
		{Name: fieldLangCode, Type: wit.String{}},
		{Name: fieldDisplayName, Type: wit.String{}},
		{Name: fieldAuthor, Type: wit.String{}},
		{Name: fieldCompiledDate, Type: wit.String{}},
		{Name: fieldIsStable, Type: wit.Bool{}},
	}}}

	SymbolSchema = &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: fieldIdentifier, Type: wit.S32{}},
		{Name: fieldType, Type: wit.S32{}},
		{Name: fieldMatchType, Type: wit.S32{}},
		{Name: fieldPattern, Type: wit.String{}},
		{Name: fieldValue1, Type: wit.String{}},
		{Name: fieldValue2, Type: wit.String{}},
		{Name: fieldValue3, Type: wit.String{}},
		{Name: fieldTag, Type: wit.String{}},
		{Name: fieldWeight, Type: wit.S32{}},
		{Name: fieldPriority, Type: wit.S32{}},
		{Name: fieldAcceptCondition, Type: wit.S32{}},
		{Name: fieldFlags, Type: wit.S32{}},
	}}}

	SuggestionArraySchema    = &wit.TypeDef{Kind: &wit.List{Type: SuggestionSchema}}
	SchemeDetailsArraySchema = &wit.TypeDef{Kind: &wit.List{Type: SchemeDetailsSchema}}
	SymbolArraySchema        = &wit.TypeDef{Kind: &wit.List{Type: SymbolSchema}}

	// TransliterationResultSchema has one varray* per category, in
	// category order.
	TransliterationResultSchema = &wit.TypeDef{Kind: &wit.Record{Fields: categoryFields()}}
)

func categoryFields() []wit.Field {
	cats := result.Categories()
	fields := make([]wit.Field, len(cats))
	for i, c := range cats {
		fields[i] = wit.Field{Name: c.String(), Type: SuggestionArraySchema}
	}
	return fields
}

// Schema returns the record schema for kind, or nil when the kind has no
// memory representation.
func Schema(kind result.Kind) *wit.TypeDef {
	switch kind {
	case result.KindSuggestion:
		return SuggestionSchema
	case result.KindTransliterationResult:
		return TransliterationResultSchema
	case result.KindSchemeDetails:
		return SchemeDetailsSchema
	case result.KindSymbol:
		return SymbolSchema
	case result.KindSuggestionList:
		return SuggestionArraySchema
	case result.KindSchemeDetailsList:
		return SchemeDetailsArraySchema
	case result.KindSymbolList:
		return SymbolArraySchema
	default:
		return nil
	}
}
