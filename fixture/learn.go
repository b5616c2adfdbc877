package fixture

import (
	"bufio"
	"context"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/runtime"
)

// Learn makes word an exact word for itself and records it as recent.
func (p *Producer) Learn(word string, weight int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.add(word, word, weight)
	return nil
}

// Train makes word an exact word for pattern.
func (p *Producer) Train(pattern, word string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.add(pattern, word, 0)
	return nil
}

// add appends word to input's exact words, or updates its weight when
// already present. Callers hold p.mu.
func (p *Producer) add(input, word string, weight int) {
	learnedOn := int(p.now().Unix())
	e := p.entry(input, true)
	i := slices.IndexFunc(e.ExactWords, func(w Word) bool { return w.Text == word })
	if i >= 0 {
		e.ExactWords[i].Weight = weight
		e.ExactWords[i].LearnedOn = learnedOn
	} else {
		e.ExactWords = append(e.ExactWords, Word{Text: word, Weight: weight, LearnedOn: learnedOn})
	}
	p.file.Words[normalize(input)] = *e

	p.recent = slices.DeleteFunc(p.recent, func(w runtime.Word) bool { return w.Text == word })
	p.recent = append(p.recent, runtime.Word{Text: word, Weight: weight, LearnedOn: learnedOn})
}

// Unlearn removes word from every input's exact words. Unlearning an
// unknown word fails.
func (p *Producer) Unlearn(word string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	found := false
	for key, e := range p.index {
		before := len(e.ExactWords)
		e.ExactWords = slices.DeleteFunc(e.ExactWords, func(w Word) bool { return w.Text == word })
		if len(e.ExactWords) != before {
			found = true
			p.file.Words[key] = *e
		}
	}
	p.recent = slices.DeleteFunc(p.recent, func(w runtime.Word) bool { return w.Text == word })
	if !found {
		return errors.NotFound(errors.PhaseRuntime, "word", word)
	}
	return nil
}

// RecentlyLearned pages through learnt words, newest first.
func (p *Producer) RecentlyLearned(ctx context.Context, offset, limit int) ([]runtime.Word, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	newest := slices.Clone(p.recent)
	slices.Reverse(newest)
	if offset >= len(newest) {
		return nil, nil
	}
	newest = newest[offset:]
	if limit > 0 && len(newest) > limit {
		newest = newest[:limit]
	}
	return newest, nil
}

// LearnFromFile learns one word per line, optionally followed by a
// weight. Blank lines are skipped; lines with a malformed weight count
// as failed.
func (p *Producer) LearnFromFile(path string) (result.LearnStatus, error) {
	return p.importFile(path, func(fields []string) bool {
		weight := 0
		switch len(fields) {
		case 1:
		case 2:
			w, err := strconv.Atoi(fields[1])
			if err != nil {
				return false
			}
			weight = w
		default:
			return false
		}
		p.add(fields[0], fields[0], weight)
		return true
	})
}

// TrainFromFile reads "pattern word" pairs, one per line.
func (p *Producer) TrainFromFile(path string) (result.LearnStatus, error) {
	return p.importFile(path, func(fields []string) bool {
		if len(fields) != 2 {
			return false
		}
		p.add(fields[0], fields[1], 0)
		return true
	})
}

func (p *Producer) importFile(path string, line func(fields []string) bool) (result.LearnStatus, error) {
	f, err := os.Open(path)
	if err != nil {
		return result.LearnStatus{}, errors.Load("open word list "+path, err)
	}
	defer f.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	var total, failed int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		total++
		if !line(fields) {
			failed++
		}
	}
	status := result.NewLearnStatus(total, failed)
	if err := scanner.Err(); err != nil {
		return status, errors.Load("read word list "+path, err)
	}
	return status, nil
}
