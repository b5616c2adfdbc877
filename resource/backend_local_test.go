package resource

import (
	"sync"
	"testing"

	"github.com/wippyai/varnam-abi/result"
)

func TestLocalBackend_CreateGetDrop(t *testing.T) {
	b := NewLocalBackend()
	rec := &countingRecord{kind: result.KindSymbol}

	h, err := b.Create(rec, 128)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := b.Get(h); !ok || got != rec {
		t.Fatal("Get failed")
	}
	if kind, ok := b.Kind(h); !ok || kind != result.KindSymbol {
		t.Fatalf("Kind = %v, %v", kind, ok)
	}
	if err := b.SetRep(h, 256); err != nil {
		t.Fatal(err)
	}

	value, rep, err := b.Drop(h)
	if err != nil || value != rec || rep != 256 {
		t.Fatalf("Drop = %v, %d, %v", value, rep, err)
	}
	if rec.destroyed != 0 {
		t.Fatal("backend Drop must not destroy")
	}
	if b.Check(h) == nil {
		t.Fatal("dropped handle should fail Check")
	}
}

func TestLocalBackend_Handles(t *testing.T) {
	h := makeHandle(5, 3)
	if h.slot() != 5 || h.gen() != 3 {
		t.Fatalf("slot/gen = %d/%d", h.slot(), h.gen())
	}
	if makeHandle(0, 0) == 0 {
		t.Fatal("first handle must be non-zero")
	}
}

func TestLocalBackend_GenerationWraps(t *testing.T) {
	b := NewLocalBackend()
	var last Handle
	for i := 0; i < 300; i++ {
		h, err := b.Create(&countingRecord{}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if h == 0 {
			t.Fatal("zero handle issued")
		}
		if h == last {
			t.Fatal("consecutive reuse issued the same handle")
		}
		last = h
		if _, _, err := b.Drop(h); err != nil {
			t.Fatal(err)
		}
	}
	if b.Len() != 0 {
		t.Fatalf("Len() = %d", b.Len())
	}
}

func TestLocalBackend_CloseDestroys(t *testing.T) {
	b := NewLocalBackend()
	recs := []*countingRecord{{}, {}, {}}
	for _, r := range recs {
		_, _ = b.Create(r, 0)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	for i, r := range recs {
		if r.destroyed != 1 {
			t.Errorf("record %d destroyed %d times", i, r.destroyed)
		}
	}
	if _, err := b.Create(&countingRecord{}, 0); err != ErrClosed {
		t.Fatalf("Create after Close = %v", err)
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()
	for i := 0; i < 4; i++ {
		_, _ = b.Create(&countingRecord{kind: result.KindSuggestion}, uint32(i))
	}
	seen := 0
	b.Each(func(h Handle, kind result.Kind, rec result.Record) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Fatalf("Each should stop early, saw %d", seen)
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				h, err := b.Create(&countingRecord{}, 0)
				if err != nil {
					t.Error(err)
					return
				}
				if err := b.Borrow(h); err != nil {
					t.Error(err)
					return
				}
				_ = b.ReturnBorrow(h)
				if _, _, err := b.Drop(h); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if b.Len() != 0 {
		t.Fatalf("Len() = %d", b.Len())
	}
}
