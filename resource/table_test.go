package resource

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/result"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

// countingRecord counts destructor calls.
type countingRecord struct {
	kind      result.Kind
	destroyed int
}

func (r *countingRecord) Kind() result.Kind { return r.kind }
func (r *countingRecord) Destroy()          { r.destroyed++ }
func (r *countingRecord) Released() bool    { return r.destroyed > 0 }

func isKind(err error, kind errors.Kind) bool {
	var e *errors.Error
	return stderrors.As(err, &e) && e.Kind == kind
}

func TestUnifiedTable_Basic(t *testing.T) {
	table := NewTable()
	sug := result.NewSuggestion(own.NewString("test"), 1, 0)

	// Insert
	h, err := table.Insert(sug)
	if err != nil || h == 0 {
		t.Fatalf("Insert = %d, %v", h, err)
	}

	// Get
	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != sug {
		t.Fatalf("Expected the inserted suggestion, got %v", val)
	}

	// GetTyped with correct kind
	if _, ok = table.GetTyped(h, result.KindSuggestion); !ok {
		t.Fatal("GetTyped with correct kind failed")
	}

	// GetTyped with wrong kind
	if _, ok = table.GetTyped(h, result.KindSymbol); ok {
		t.Fatal("GetTyped with wrong kind should fail")
	}

	// Destroy
	if err := table.Destroy(h); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if !sug.Released() || sug.Word != nil {
		t.Fatal("Destroy should run the record destructor")
	}

	// Len should be 0
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Destroy")
	}
}

func TestUnifiedTable_DestroyTwice(t *testing.T) {
	table := NewTable()
	rec := &countingRecord{kind: result.KindTransliterationResult}
	h, _ := table.Insert(rec)

	if err := table.Destroy(h); err != nil {
		t.Fatal(err)
	}
	err := table.Destroy(h)
	if !isKind(err, errors.KindReleased) {
		t.Fatalf("second Destroy = %v, want released", err)
	}
	if errors.StatusOf(err) != errors.StatusMisuse {
		t.Error("second Destroy should map to misuse")
	}
	if rec.destroyed != 1 {
		t.Fatalf("destructor ran %d times", rec.destroyed)
	}
}

func TestUnifiedTable_StaleHandleAfterReuse(t *testing.T) {
	table := NewTable()
	first := &countingRecord{kind: result.KindSuggestion}
	h1, _ := table.Insert(first)
	_ = table.Destroy(h1)

	second := &countingRecord{kind: result.KindSymbol}
	h2, _ := table.Insert(second)
	if h2.slot() != h1.slot() {
		t.Fatalf("slot should be reused: %d vs %d", h2.slot(), h1.slot())
	}
	if h1 == h2 {
		t.Fatal("reused slot must get a new generation")
	}

	if _, ok := table.Get(h1); ok {
		t.Fatal("stale handle resolved to the new record")
	}
	if err := table.Destroy(h1); !isKind(err, errors.KindReleased) {
		t.Fatalf("Destroy(stale) = %v", err)
	}
	if second.destroyed != 0 {
		t.Fatal("stale Destroy hit the new record")
	}
}

func TestUnifiedTable_UnknownHandles(t *testing.T) {
	table := NewTable()
	for _, h := range []Handle{0, 1, 999} {
		if err := table.Destroy(h); !isKind(err, errors.KindNotFound) {
			t.Errorf("Destroy(%d) = %v, want not found", h, err)
		}
	}
}

func TestUnifiedTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	// Insert should trigger EventCreated
	h, _ := table.Insert(&countingRecord{kind: result.KindSymbol})
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[0].Kind != result.KindSymbol {
		t.Fatalf("Expected EventCreated for symbol, got %+v", obs.events[0])
	}
	if obs.events[0].Handle != h {
		t.Fatal("Wrong handle in event")
	}

	// Destroy should trigger EventDestroyed
	_ = table.Destroy(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventDestroyed {
		t.Fatal("Expected EventDestroyed")
	}

	// Unsubscribe
	table.Unsubscribe(obs)
	_, _ = table.Insert(&countingRecord{kind: result.KindSymbol})
	if len(obs.events) != 2 {
		t.Fatal("Observer should not receive events after unsubscribe")
	}
}

func TestUnifiedTable_Borrow(t *testing.T) {
	table := NewTable()
	rec := &countingRecord{kind: result.KindSchemeDetails}
	h, _ := table.Insert(rec)

	if err := table.Borrow(h); err != nil {
		t.Fatal(err)
	}
	err := table.Destroy(h)
	if !isKind(err, errors.KindBorrowed) {
		t.Fatalf("Destroy while borrowed = %v", err)
	}
	if rec.destroyed != 0 {
		t.Fatal("borrowed record destroyed")
	}

	if err := table.ReturnBorrow(h); err != nil {
		t.Fatal(err)
	}
	if err := table.ReturnBorrow(h); !isKind(err, errors.KindInvalidInput) {
		t.Fatalf("extra ReturnBorrow = %v", err)
	}
	if err := table.Destroy(h); err != nil {
		t.Fatalf("Destroy after return: %v", err)
	}
}

func TestUnifiedTable_Take(t *testing.T) {
	table := NewTable()
	rec := &countingRecord{kind: result.KindSuggestionList}
	h, _ := table.Insert(rec)

	got, err := table.Take(h)
	if err != nil || got != rec {
		t.Fatalf("Take = %v, %v", got, err)
	}
	if rec.destroyed != 0 {
		t.Fatal("Take must not destroy")
	}
	if _, err := table.Take(h); !isKind(err, errors.KindReleased) {
		t.Fatalf("second Take = %v", err)
	}
}

func TestUnifiedTable_RepReleaser(t *testing.T) {
	type release struct {
		kind result.Kind
		rep  uint32
	}
	var released []release
	releaseErr := stderrors.New("bad free")
	table := NewTable(WithRepReleaser(func(kind result.Kind, rep uint32) error {
		released = append(released, release{kind, rep})
		if rep == 0xbad {
			return releaseErr
		}
		return nil
	}))

	plain, _ := table.Insert(&countingRecord{kind: result.KindSuggestion})
	exported, _ := table.InsertWithRep(&countingRecord{kind: result.KindTransliterationResult}, 4096)
	failing, _ := table.InsertWithRep(&countingRecord{kind: result.KindSymbol}, 0xbad)

	if rep, ok := table.Rep(exported); !ok || rep != 4096 {
		t.Fatalf("Rep = %d, %v", rep, ok)
	}

	_ = table.Destroy(plain)
	if len(released) != 0 {
		t.Fatal("record without rep should not be released from memory")
	}
	if err := table.Destroy(exported); err != nil {
		t.Fatal(err)
	}
	if len(released) != 1 || released[0] != (release{result.KindTransliterationResult, 4096}) {
		t.Fatalf("released = %+v", released)
	}
	if err := table.Destroy(failing); !stderrors.Is(err, releaseErr) {
		t.Fatalf("Destroy should surface release error, got %v", err)
	}
	if table.Len() != 0 {
		t.Fatal("failing release must still drop the handle")
	}
}

func TestUnifiedTable_ClearAndClose(t *testing.T) {
	table := NewTable()
	records := make([]*countingRecord, 5)
	for i := range records {
		records[i] = &countingRecord{kind: result.KindSuggestion}
		if _, err := table.Insert(records[i]); err != nil {
			t.Fatal(err)
		}
	}

	table.Clear()
	if table.Len() != 0 {
		t.Fatalf("Len() = %d after Clear", table.Len())
	}

	extra := &countingRecord{kind: result.KindSymbol}
	_, _ = table.Insert(extra)
	if err := table.Close(); err != nil {
		t.Fatal(err)
	}
	if err := table.Close(); err != nil {
		t.Fatal("second Close should be a no-op")
	}

	for i, r := range append(records, extra) {
		if r.destroyed != 1 {
			t.Errorf("record %d destroyed %d times", i, r.destroyed)
		}
	}

	if _, err := table.Insert(&countingRecord{}); !stderrors.Is(err, ErrClosed) {
		t.Fatalf("Insert after Close = %v", err)
	}
}

func TestUnifiedTable_InsertNil(t *testing.T) {
	table := NewTable()
	if _, err := table.Insert(nil); !isKind(err, errors.KindNilPointer) {
		t.Fatalf("Insert(nil) = %v", err)
	}
}

func TestUnifiedTable_CloseReleasesBorrowed(t *testing.T) {
	var released []uint32
	table := NewTable(WithRepReleaser(func(_ result.Kind, rep uint32) error {
		released = append(released, rep)
		return nil
	}))
	obs := &testObserver{}
	table.Subscribe(obs)

	free := &countingRecord{kind: result.KindSuggestion}
	borrowed := &countingRecord{kind: result.KindTransliterationResult}
	_, _ = table.InsertWithRep(free, 64)
	h, _ := table.InsertWithRep(borrowed, 128)
	if err := table.Borrow(h); err != nil {
		t.Fatal(err)
	}

	table.Clear()
	if borrowed.destroyed != 0 || table.Len() != 1 {
		t.Fatal("Clear should leave borrowed records in place")
	}

	if err := table.Close(); err != nil {
		t.Fatal(err)
	}
	if borrowed.destroyed != 1 || free.destroyed != 1 {
		t.Fatalf("destroyed = %d, %d", free.destroyed, borrowed.destroyed)
	}
	if len(released) != 2 || released[0] != 64 || released[1] != 128 {
		t.Fatalf("released = %v", released)
	}
	destroyed := 0
	for _, e := range obs.events {
		if e.Type == EventDestroyed {
			destroyed++
		}
	}
	if destroyed != 2 {
		t.Fatalf("destroyed events = %d", destroyed)
	}
}
