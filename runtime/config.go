package runtime

import (
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/transcoder"
)

// EngineConfig holds the knobs forwarded to Configurable producers.
type EngineConfig struct {
	IndicDigits                bool `env:"INDIC_DIGITS"`
	DictionarySuggestionsLimit int  `env:"DICTIONARY_SUGGESTIONS_LIMIT" envDefault:"10"`
	TokenizerSuggestionsLimit  int  `env:"TOKENIZER_SUGGESTIONS_LIMIT" envDefault:"10"`
	TokenizerSuggestionsAlways bool `env:"TOKENIZER_SUGGESTIONS_ALWAYS"`
}

// Config configures a Runtime.
type Config struct {
	Engine EngineConfig

	// Layout selects the consumer data model used by ExportToMemory:
	// "wasm32" or "lp64".
	Layout string `env:"LAYOUT" envDefault:"wasm32"`

	// MemoryLimitPages caps the host linear memory; 0 means no cap.
	MemoryLimitPages uint32 `env:"MEMORY_LIMIT_PAGES"`

	// MaxSessions bounds concurrently open sessions; 0 means unbounded.
	MaxSessions int `env:"MAX_SESSIONS"`
}

// EnvPrefix prefixes every variable read by LoadConfig.
const EnvPrefix = "VARNAM_"

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			DictionarySuggestionsLimit: 10,
			TokenizerSuggestionsLimit:  10,
		},
		Layout: transcoder.Wasm32.Name,
	}
}

// LoadConfig reads the configuration from VARNAM_* environment variables.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(nil)
}

// LoadConfigFrom reads the configuration from environ, a map of variable
// names to values. A nil map reads the process environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the layout name.
func (c Config) Validate() error {
	if _, err := c.Target(); err != nil {
		return err
	}
	if c.Engine.DictionarySuggestionsLimit < 0 || c.Engine.TokenizerSuggestionsLimit < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("suggestion limits must not be negative").
			Build()
	}
	if c.MaxSessions < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("max sessions must not be negative").
			Build()
	}
	return nil
}

// Target resolves Layout to a transcoder target.
func (c Config) Target() (transcoder.Target, error) {
	return ParseTarget(c.Layout)
}

// ParseTarget maps a layout name to its target. The empty name selects
// wasm32.
func ParseTarget(name string) (transcoder.Target, error) {
	switch strings.ToLower(name) {
	case "", transcoder.Wasm32.Name:
		return transcoder.Wasm32, nil
	case transcoder.LP64.Name:
		return transcoder.LP64, nil
	}
	return transcoder.Target{}, errors.New(errors.PhaseConfig, errors.KindUnsupported).
		Value(name).
		Detail("unknown layout %q", name).
		Build()
}
