package fixture

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/runtime"
)

// File is the on-disk fixture document.
type File struct {
	Schemes []Scheme         `yaml:"schemes"`
	Symbols []Symbol         `yaml:"symbols"`
	Words   map[string]Entry `yaml:"words"`

	// Latency delays every transliteration, for exercising cancellation.
	Latency time.Duration `yaml:"latency"`
}

// Entry holds the canned result for one input.
type Entry struct {
	ExactWords                   []Word `yaml:"exact_words"`
	ExactMatches                 []Word `yaml:"exact_matches"`
	DictionarySuggestions        []Word `yaml:"dictionary_suggestions"`
	PatternDictionarySuggestions []Word `yaml:"pattern_dictionary_suggestions"`
	TokenizerSuggestions         []Word `yaml:"tokenizer_suggestions"`
	GreedyTokenized              []Word `yaml:"greedy_tokenized"`
}

// Word is a suggestion. It decodes from either a bare string or a
// mapping with word, weight and learned_on keys.
type Word struct {
	Text      string `yaml:"word"`
	Weight    int    `yaml:"weight"`
	LearnedOn int    `yaml:"learned_on"`
}

func (w *Word) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		w.Text = node.Value
		return nil
	}
	type plain Word
	return node.Decode((*plain)(w))
}

type Scheme struct {
	Identifier   string `yaml:"identifier"`
	LangCode     string `yaml:"lang_code"`
	DisplayName  string `yaml:"display_name"`
	Author       string `yaml:"author"`
	CompiledDate string `yaml:"compiled_date"`
	IsStable     bool   `yaml:"stable"`
}

type Symbol struct {
	Identifier      int    `yaml:"id"`
	Type            int    `yaml:"type"`
	MatchType       int    `yaml:"match_type"`
	Pattern         string `yaml:"pattern"`
	Value1          string `yaml:"value1"`
	Value2          string `yaml:"value2"`
	Value3          string `yaml:"value3"`
	Tag             string `yaml:"tag"`
	Weight          int    `yaml:"weight"`
	Priority        int    `yaml:"priority"`
	AcceptCondition int    `yaml:"accept_condition"`
	Flags           int    `yaml:"flags"`
}

// Producer serves canned results from a fixture. It implements every
// optional runtime capability and is safe for concurrent use.
type Producer struct {
	mu      sync.RWMutex
	file    File
	index   map[string]*Entry
	recent  []runtime.Word
	cfg     runtime.EngineConfig
	now     func() time.Time
}

// Load reads a fixture from path.
func Load(path string) (*Producer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read fixture "+path, err)
	}
	return Parse(data)
}

// Parse decodes a fixture document.
func Parse(data []byte) (*Producer, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Load("parse fixture", err)
	}
	return New(f), nil
}

// New serves f directly.
func New(f File) *Producer {
	p := &Producer{
		file: f,
		now:  time.Now,
		cfg: runtime.EngineConfig{
			DictionarySuggestionsLimit: 10,
			TokenizerSuggestionsLimit:  10,
		},
	}
	if p.file.Words == nil {
		p.file.Words = make(map[string]Entry)
	}
	p.rebuild()
	return p
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// rebuild indexes words by normalized input. When two inputs normalize
// to the same key, one of them wins.
func (p *Producer) rebuild() {
	normalized := make(map[string]Entry, len(p.file.Words))
	for key, e := range p.file.Words {
		normalized[normalize(key)] = e
	}
	p.file.Words = normalized
	p.index = make(map[string]*Entry, len(normalized))
	for key := range normalized {
		e := normalized[key]
		p.index[key] = &e
	}
}

// entry returns the entry for word, creating it when create is set.
// Callers hold p.mu.
func (p *Producer) entry(word string, create bool) *Entry {
	key := normalize(word)
	e, ok := p.index[key]
	if !ok && create {
		e = &Entry{}
		p.index[key] = e
	}
	return e
}

func (p *Producer) TransliterateAdvanced(ctx context.Context, word string) (runtime.Output, error) {
	p.mu.RLock()
	latency := p.file.Latency
	p.mu.RUnlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return runtime.Output{}, ctx.Err()
		}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	e := p.entry(word, false)
	if e == nil {
		return runtime.Output{}, nil
	}

	out := runtime.Output{
		ExactWords:                   words(e.ExactWords, 0),
		ExactMatches:                 words(e.ExactMatches, 0),
		DictionarySuggestions:        words(e.DictionarySuggestions, p.cfg.DictionarySuggestionsLimit),
		PatternDictionarySuggestions: words(e.PatternDictionarySuggestions, p.cfg.DictionarySuggestionsLimit),
		GreedyTokenized:              words(e.GreedyTokenized, 0),
	}
	if p.cfg.TokenizerSuggestionsAlways || len(out.ExactMatches) == 0 {
		out.TokenizerSuggestions = words(e.TokenizerSuggestions, p.cfg.TokenizerSuggestionsLimit)
	}
	return out, nil
}

// words copies at most limit words; limit 0 copies all.
func words(in []Word, limit int) []runtime.Word {
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	if len(in) == 0 {
		return nil
	}
	out := make([]runtime.Word, len(in))
	for i, w := range in {
		out[i] = runtime.Word{Text: w.Text, Weight: w.Weight, LearnedOn: w.LearnedOn}
	}
	return out
}

func (p *Producer) Configure(cfg runtime.EngineConfig) error {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	return nil
}

// Config returns the configuration last applied.
func (p *Producer) Config() runtime.EngineConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

func (p *Producer) Schemes() ([]runtime.Scheme, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]runtime.Scheme, len(p.file.Schemes))
	for i, s := range p.file.Schemes {
		out[i] = runtime.Scheme(s)
	}
	return out, nil
}

// SearchSymbols returns the symbols whose non-zero template fields all
// match.
func (p *Producer) SearchSymbols(ctx context.Context, query runtime.SymbolInfo) ([]runtime.SymbolInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []runtime.SymbolInfo
	for _, s := range p.file.Symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info := runtime.SymbolInfo(s)
		if matches(query, info) {
			out = append(out, info)
		}
	}
	return out, nil
}

func matches(q, s runtime.SymbolInfo) bool {
	eqInt := func(want, got int) bool { return want == 0 || want == got }
	eqStr := func(want, got string) bool { return want == "" || want == got }
	return eqInt(q.Identifier, s.Identifier) &&
		eqInt(q.Type, s.Type) &&
		eqInt(q.MatchType, s.MatchType) &&
		eqStr(q.Pattern, s.Pattern) &&
		eqStr(q.Value1, s.Value1) &&
		eqStr(q.Value2, s.Value2) &&
		eqStr(q.Value3, s.Value3) &&
		eqStr(q.Tag, s.Tag)
}

// ReindexDictionary rebuilds the input index.
func (p *Producer) ReindexDictionary() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebuild()
	return nil
}

var (
	_ runtime.Producer       = (*Producer)(nil)
	_ runtime.Learner        = (*Producer)(nil)
	_ runtime.FileLearner    = (*Producer)(nil)
	_ runtime.SymbolSearcher = (*Producer)(nil)
	_ runtime.SchemeLister   = (*Producer)(nil)
	_ runtime.RecentWords    = (*Producer)(nil)
	_ runtime.Configurable   = (*Producer)(nil)
	_ runtime.Reindexer      = (*Producer)(nil)
)
