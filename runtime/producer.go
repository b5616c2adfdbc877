package runtime

import (
	"context"

	"github.com/wippyai/varnam-abi/result"
)

// Word is a plain, unowned suggestion produced by an engine.
type Word struct {
	Text      string
	Weight    int
	LearnedOn int
}

// Output is what a Producer returns for one request. Each slice maps to
// the TransliterationResult field of the same name.
type Output struct {
	ExactWords                   []Word
	ExactMatches                 []Word
	DictionarySuggestions        []Word
	PatternDictionarySuggestions []Word
	TokenizerSuggestions         []Word
	GreedyTokenized              []Word
}

// Words returns the slice for category c.
func (o *Output) Words(c result.Category) []Word {
	switch c {
	case result.CategoryExactWords:
		return o.ExactWords
	case result.CategoryExactMatches:
		return o.ExactMatches
	case result.CategoryDictionarySuggestions:
		return o.DictionarySuggestions
	case result.CategoryPatternDictionarySuggestions:
		return o.PatternDictionarySuggestions
	case result.CategoryTokenizerSuggestions:
		return o.TokenizerSuggestions
	case result.CategoryGreedyTokenized:
		return o.GreedyTokenized
	}
	return nil
}

// Scheme is a plain scheme description.
type Scheme struct {
	Identifier   string
	LangCode     string
	DisplayName  string
	Author       string
	CompiledDate string
	IsStable     bool
}

// SymbolInfo is a plain symbol table entry.
type SymbolInfo struct {
	Identifier      int
	Type            int
	MatchType       int
	Pattern         string
	Value1          string
	Value2          string
	Value3          string
	Tag             string
	Weight          int
	Priority        int
	AcceptCondition int
	Flags           int
}

// Producer is the transliteration engine behind a session. It may block;
// implementations should return promptly once ctx is done.
type Producer interface {
	TransliterateAdvanced(ctx context.Context, word string) (Output, error)
}

// Learner is implemented by producers that keep a user dictionary.
type Learner interface {
	Learn(word string, weight int) error
	Unlearn(word string) error
	Train(pattern, word string) error
}

// FileLearner is implemented by producers that import word lists.
type FileLearner interface {
	LearnFromFile(path string) (result.LearnStatus, error)
	TrainFromFile(path string) (result.LearnStatus, error)
}

// SymbolSearcher looks up symbol table entries matching a template.
type SymbolSearcher interface {
	SearchSymbols(ctx context.Context, query SymbolInfo) ([]SymbolInfo, error)
}

// SchemeLister lists the schemes an engine can load.
type SchemeLister interface {
	Schemes() ([]Scheme, error)
}

// RecentWords returns recently learnt words, newest first.
type RecentWords interface {
	RecentlyLearned(ctx context.Context, offset, limit int) ([]Word, error)
}

// Configurable receives engine knobs when a session is opened and when
// Configure is called.
type Configurable interface {
	Configure(cfg EngineConfig) error
}

// Reindexer rebuilds the engine's dictionary index.
type Reindexer interface {
	ReindexDictionary() error
}
