package runtime

import (
	"context"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/result"
)

// capability returns the session's producer as T, or an unsupported
// error naming op.
func capability[T any](r *Runtime, id SessionID, op string) (*session, T, error) {
	var zero T
	s, err := r.session(id)
	if err != nil {
		return nil, zero, err
	}
	c, ok := s.producer.(T)
	if !ok {
		return s, zero, s.record(errors.Unsupported(errors.PhaseRuntime, op))
	}
	return s, c, nil
}

func engineErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Engine(op, err)
}

// Learn adds word to the session's dictionary with the given weight.
func (r *Runtime) Learn(id SessionID, word string, weight int) error {
	s, l, err := capability[Learner](r, id, "learn")
	if err != nil {
		return err
	}
	if word == "" {
		return s.record(errors.InvalidInput(errors.PhaseRuntime, "empty word"))
	}
	return s.record(engineErr("learn", l.Learn(word, weight)))
}

// Unlearn removes word from the session's dictionary.
func (r *Runtime) Unlearn(id SessionID, word string) error {
	s, l, err := capability[Learner](r, id, "unlearn")
	if err != nil {
		return err
	}
	if word == "" {
		return s.record(errors.InvalidInput(errors.PhaseRuntime, "empty word"))
	}
	return s.record(engineErr("unlearn", l.Unlearn(word)))
}

// Train associates pattern with word.
func (r *Runtime) Train(id SessionID, pattern, word string) error {
	s, l, err := capability[Learner](r, id, "train")
	if err != nil {
		return err
	}
	if pattern == "" || word == "" {
		return s.record(errors.InvalidInput(errors.PhaseRuntime, "empty pattern or word"))
	}
	return s.record(engineErr("train", l.Train(pattern, word)))
}

// LearnFromFile imports a word list. The status is returned even when
// the run fails part way.
func (r *Runtime) LearnFromFile(id SessionID, path string) (result.LearnStatus, error) {
	s, l, err := capability[FileLearner](r, id, "learn from file")
	if err != nil {
		return result.LearnStatus{}, err
	}
	status, err := l.LearnFromFile(path)
	return status, s.record(engineErr("learn from file", err))
}

// TrainFromFile imports a pattern/word list.
func (r *Runtime) TrainFromFile(id SessionID, path string) (result.LearnStatus, error) {
	s, l, err := capability[FileLearner](r, id, "train from file")
	if err != nil {
		return result.LearnStatus{}, err
	}
	status, err := l.TrainFromFile(path)
	return status, s.record(engineErr("train from file", err))
}

// SearchSymbols returns an owned list of symbols matching template. A
// nil template matches everything the producer chooses to return.
func (r *Runtime) SearchSymbols(ctx context.Context, id SessionID, template *result.Symbol) (*result.SymbolList, error) {
	s, searcher, err := capability[SymbolSearcher](r, id, "search symbols")
	if err != nil {
		return nil, err
	}
	symbols, err := searcher.SearchSymbols(ctx, SymbolFromRecord(template))
	if err != nil {
		return nil, s.record(r.producerErr(ctx, 0, "search symbols", err))
	}
	return BuildSymbolList(symbols), s.record(nil)
}

// Schemes returns an owned list of the schemes the producer can load.
func (r *Runtime) Schemes(id SessionID) (*result.SchemeDetailsList, error) {
	s, lister, err := capability[SchemeLister](r, id, "list schemes")
	if err != nil {
		return nil, err
	}
	schemes, err := lister.Schemes()
	if err != nil {
		return nil, s.record(errors.Engine("list schemes", err))
	}
	return BuildSchemeDetailsList(schemes), s.record(nil)
}

// RecentlyLearned returns an owned list of recently learnt words.
func (r *Runtime) RecentlyLearned(ctx context.Context, id SessionID, offset, limit int) (*result.SuggestionList, error) {
	s, recent, err := capability[RecentWords](r, id, "recently learned words")
	if err != nil {
		return nil, err
	}
	if offset < 0 || limit < 0 {
		return nil, s.record(errors.InvalidInput(errors.PhaseRuntime, "negative offset or limit"))
	}
	words, err := recent.RecentlyLearned(ctx, offset, limit)
	if err != nil {
		return nil, s.record(r.producerErr(ctx, 0, "recently learned words", err))
	}
	return BuildSuggestionList(words), s.record(nil)
}

// Configure forwards cfg to the session's producer.
func (r *Runtime) Configure(id SessionID, cfg EngineConfig) error {
	s, c, err := capability[Configurable](r, id, "configure")
	if err != nil {
		return err
	}
	if cfg.DictionarySuggestionsLimit < 0 || cfg.TokenizerSuggestionsLimit < 0 {
		return s.record(errors.InvalidInput(errors.PhaseRuntime, "negative suggestion limit"))
	}
	return s.record(engineErr("configure", c.Configure(cfg)))
}

// ReindexDictionary asks the producer to rebuild its dictionary index.
func (r *Runtime) ReindexDictionary(id SessionID) error {
	s, c, err := capability[Reindexer](r, id, "reindex dictionary")
	if err != nil {
		return err
	}
	return s.record(engineErr("reindex dictionary", c.ReindexDictionary()))
}
