package result

import (
	"fmt"
	"testing"

	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/varray"
)

func suggestions(prefix string, n int) *varray.Array[Suggestion] {
	arr := varray.New[Suggestion]()
	for i := 0; i < n; i++ {
		arr.Push(NewSuggestion(own.NewString(fmt.Sprintf("%s%d", prefix, i)), i, 0))
	}
	return arr
}

func TestSuggestion_RoundTrip(t *testing.T) {
	word := own.NewString("wor1d")
	sug := NewSuggestion(word, 5, 1700000000)

	if sug.Word != word {
		t.Fatal("constructor must take ownership, not copy")
	}
	if sug.Text() != "wor1d" {
		t.Errorf("Text() = %q, want %q", sug.Text(), "wor1d")
	}
	if sug.Weight != 5 {
		t.Errorf("Weight = %d, want 5", sug.Weight)
	}
	if sug.LearnedOn != 1700000000 {
		t.Errorf("LearnedOn = %d, want 1700000000", sug.LearnedOn)
	}
	if sug.Kind() != KindSuggestion {
		t.Errorf("Kind() = %v", sug.Kind())
	}
}

func TestSuggestion_Destroy(t *testing.T) {
	word := own.NewString("abc")
	sug := NewSuggestion(word, 1, 0)

	sug.Destroy()

	if sug.Word != nil {
		t.Fatal("Word not nilled")
	}
	if !word.Freed() {
		t.Fatal("Word buffer not freed")
	}
	if !sug.Released() {
		t.Fatal("Released() = false")
	}
	if sug.Text() != "" {
		t.Fatal("released suggestion should read as empty")
	}

	sug.Destroy()
	var nilSug *Suggestion
	nilSug.Destroy()
}

func TestSameWord(t *testing.T) {
	a := NewSuggestion(own.NewString("x"), 1, 0)
	b := NewSuggestion(own.NewString("x"), 9, 3)
	c := NewSuggestion(own.NewString("y"), 1, 0)

	if !SameWord(a, b) {
		t.Error("same word should match regardless of weight")
	}
	if SameWord(a, c) {
		t.Error("different words matched")
	}
	if SameWord(a, nil) || !SameWord(nil, nil) {
		t.Error("nil handling")
	}

	arr := varray.Of(a, c)
	if !arr.Exists(b, SameWord) {
		t.Error("Exists with SameWord")
	}
}

func TestTransliterationResult_Fields(t *testing.T) {
	arrays := make([]*varray.Array[Suggestion], NumCategories)
	for i := range arrays {
		arrays[i] = suggestions(fmt.Sprintf("c%d-", i), i+1)
	}
	res := NewTransliterationResult(arrays[0], arrays[1], arrays[2], arrays[3], arrays[4], arrays[5])

	for i, c := range Categories() {
		if res.Get(c) != arrays[i] {
			t.Errorf("Get(%v) returned wrong array", c)
		}
	}
	if res.ExactWords != arrays[0] || res.GreedyTokenized != arrays[5] {
		t.Error("field order")
	}
	if res.Count() != 1+2+3+4+5+6 {
		t.Errorf("Count() = %d", res.Count())
	}
	if res.Get(Category(99)) != nil {
		t.Error("unknown category should be nil")
	}
}

func TestTransliterationResult_DestroyPropagates(t *testing.T) {
	sizes := []int{0, 3, 1, 4, 2, 5}
	arrays := make([]*varray.Array[Suggestion], NumCategories)
	var all []*Suggestion
	k := 0
	for i, n := range sizes {
		arrays[i] = suggestions("w", n)
		all = append(all, arrays[i].Items()...)
		k += n
	}
	res := NewTransliterationResult(arrays[0], arrays[1], arrays[2], arrays[3], arrays[4], arrays[5])

	calls := 0
	res.DestroyWith(func(s *Suggestion) {
		calls++
		s.Destroy()
	})

	if calls != k {
		t.Fatalf("destructor called %d times, want %d", calls, k)
	}
	for _, c := range Categories() {
		if res.Get(c) != nil {
			t.Errorf("field %v not nilled", c)
		}
	}
	for _, arr := range arrays {
		if arr.Len() != 0 || arr.Allocated() != 0 {
			t.Error("array storage not dropped")
		}
	}
	for i, s := range all {
		if !s.Released() || s.Word != nil {
			t.Errorf("suggestion %d not released", i)
		}
	}
	if !res.Released() {
		t.Fatal("Released() = false")
	}
}

func TestTransliterationResult_DestroyTwice(t *testing.T) {
	res := NewTransliterationResult(suggestions("a", 2), nil, suggestions("b", 1), nil, nil, nil)

	calls := 0
	counting := func(s *Suggestion) {
		calls++
		s.Destroy()
	}
	res.DestroyWith(counting)
	res.DestroyWith(counting)
	res.Destroy()

	if calls != 3 {
		t.Fatalf("second destroy invoked destructor, total %d", calls)
	}
}

func TestTransliterationResult_NilArrays(t *testing.T) {
	res := NewTransliterationResult(nil, nil, nil, nil, nil, nil)
	if res.Count() != 0 {
		t.Fatal("Count() on nil arrays")
	}
	res.Destroy()
	if !res.Released() {
		t.Fatal("nil-array result not released")
	}
}

func TestSchemeDetails_Destroy(t *testing.T) {
	strs := []*own.String{
		own.NewString("ml"), own.NewString("ml"), own.NewString("Malayalam"),
		own.NewString("Subin"), own.NewString("2021-06-01"),
	}
	d := NewSchemeDetails(strs[0], strs[1], strs[2], strs[3], strs[4], true)

	if d.DisplayName.String() != "Malayalam" || !d.IsStable {
		t.Fatal("field round trip")
	}

	d.Destroy()

	for i, s := range strs {
		if !s.Freed() {
			t.Errorf("string %d not freed", i)
		}
	}
	if d.Identifier != nil || d.LangCode != nil || d.DisplayName != nil || d.Author != nil || d.CompiledDate != nil {
		t.Fatal("owned fields not nilled")
	}
	if !d.IsStable {
		t.Error("scalar fields should survive Destroy")
	}
}

func TestSymbol_Destroy(t *testing.T) {
	pattern := own.NewString("ka")
	v1 := own.NewString("ക")
	v2 := own.NewString("കാ")
	v3 := own.NewString("")
	tag := own.NewString("consonant")

	s := NewSymbol(7, 2, 1, pattern, v1, v2, v3, tag, 10, 3, 0, 4)

	if s.Identifier != 7 || s.Type != 2 || s.MatchType != 1 {
		t.Fatal("leading scalars")
	}
	if s.Weight != 10 || s.Priority != 3 || s.AcceptCondition != 0 || s.Flags != 4 {
		t.Fatal("trailing scalars")
	}
	if s.Value1.String() != "ക" || s.Tag.String() != "consonant" {
		t.Fatal("string fields")
	}

	s.Destroy()

	for _, str := range []*own.String{pattern, v1, v2, v3, tag} {
		if !str.Freed() {
			t.Fatal("string not freed")
		}
	}
	if s.Pattern != nil || s.Value1 != nil || s.Value2 != nil || s.Value3 != nil || s.Tag != nil {
		t.Fatal("owned fields not nilled")
	}
}

func TestLists_Destroy(t *testing.T) {
	sugs := suggestions("s", 3)
	items := sugs.Items()
	sl := NewSuggestionList(sugs)
	sl.Destroy()
	for _, s := range items {
		if !s.Released() {
			t.Fatal("suggestion list item not released")
		}
	}
	if sl.Items != nil || !sl.Released() {
		t.Fatal("suggestion list fields")
	}

	d := NewSchemeDetails(own.NewString("a"), nil, nil, nil, nil, false)
	dl := NewSchemeDetailsList(varray.Of(d))
	dl.Destroy()
	if !d.Released() || dl.Items != nil {
		t.Fatal("scheme list")
	}

	sym := NewSymbol(1, 0, 0, own.NewString("p"), nil, nil, nil, nil, 0, 0, 0, 0)
	syl := NewSymbolList(varray.Of(sym))
	syl.Destroy()
	syl.Destroy()
	if !sym.Released() || syl.Items != nil || !syl.Released() {
		t.Fatal("symbol list")
	}
}

func TestLearnStatus(t *testing.T) {
	s := NewLearnStatus(10, 3)
	if s.TotalWords != 10 || s.FailedWords != 3 || s.Learnt() != 7 {
		t.Fatalf("LearnStatus = %+v", s)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSuggestion, "suggestion"},
		{KindTransliterationResult, "transliteration-result"},
		{KindSymbolList, "symbol-list"},
		{Kind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if CategoryGreedyTokenized.String() != "greedy-tokenized" || Category(9).String() != "unknown" {
		t.Error("Category.String")
	}
}
