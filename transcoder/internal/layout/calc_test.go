package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestCalculatePrimitives(t *testing.T) {
	tests := []struct {
		typ    wit.Type
		name   string
		target Target
		size   uint32
		align  uint32
	}{
		{wit.Bool{}, "bool", Wasm32, 4, 4},
		{wit.U8{}, "u8", Wasm32, 1, 1},
		{wit.S16{}, "s16", Wasm32, 2, 2},
		{wit.S32{}, "s32", Wasm32, 4, 4},
		{wit.S32{}, "s32-lp64", LP64, 4, 4},
		{wit.S64{}, "s64", Wasm32, 8, 8},
		{wit.F32{}, "f32", Wasm32, 4, 4},
		{wit.String{}, "string", Wasm32, 4, 4},
		{wit.String{}, "string-lp64", LP64, 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := NewCalculator(tc.target).Calculate(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func suggestionRecord() *wit.TypeDef {
	return &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "word", Type: wit.String{}},
		{Name: "weight", Type: wit.S32{}},
		{Name: "learned-on", Type: wit.S32{}},
	}}}
}

func TestCalculateRecord(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{}}}
		info := NewCalculator(Wasm32).Calculate(typedef)
		if info.Size != 0 {
			t.Errorf("size: got %d, want 0", info.Size)
		}
	})

	tests := []struct {
		name    string
		target  Target
		size    uint32
		align   uint32
		offsets map[string]uint32
	}{
		{"wasm32", Wasm32, 12, 4, map[string]uint32{"word": 0, "weight": 4, "learned-on": 8}},
		{"lp64", LP64, 16, 8, map[string]uint32{"word": 0, "weight": 8, "learned-on": 12}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := NewCalculator(tc.target).Calculate(suggestionRecord())
			if info.Size != tc.size || info.Align != tc.align {
				t.Errorf("size/align: got %d/%d, want %d/%d", info.Size, info.Align, tc.size, tc.align)
			}
			for name, off := range tc.offsets {
				if info.FieldOffs[name] != off {
					t.Errorf("offset %s: got %d, want %d", name, info.FieldOffs[name], off)
				}
			}
		})
	}
}

func TestCalculateRecord_Padding(t *testing.T) {
	// int followed by a pointer pads on LP64
	typedef := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "id", Type: wit.S32{}},
		{Name: "pattern", Type: wit.String{}},
		{Name: "flags", Type: wit.S32{}},
	}}}
	info := NewCalculator(LP64).Calculate(typedef)
	if info.FieldOffs["pattern"] != 8 {
		t.Errorf("pattern offset: got %d, want 8", info.FieldOffs["pattern"])
	}
	if info.Size != 24 {
		t.Errorf("size: got %d, want 24", info.Size)
	}
}

func TestCalculateList(t *testing.T) {
	list := &wit.TypeDef{Kind: &wit.List{Type: suggestionRecord()}}
	for _, target := range []Target{Wasm32, LP64} {
		info := NewCalculator(target).Calculate(list)
		if info.Size != target.PtrSize || info.Align != target.PtrSize {
			t.Errorf("%s list: got %d/%d", target.Name, info.Size, info.Align)
		}
	}
}

func TestVarray(t *testing.T) {
	tests := []struct {
		target Target
		size   uint32
		index  uint32
	}{
		{Wasm32, 16, 12},
		{LP64, 32, 24},
	}
	for _, tc := range tests {
		t.Run(tc.target.Name, func(t *testing.T) {
			info := NewCalculator(tc.target).Varray()
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.FieldOffs[FieldMemory] != 0 {
				t.Error("memory must be first")
			}
			if info.FieldOffs[FieldAllocated] != tc.target.PtrSize || info.FieldOffs[FieldUsed] != 2*tc.target.PtrSize {
				t.Errorf("size_t offsets: %v", info.FieldOffs)
			}
			if info.FieldOffs[FieldIndex] != tc.index {
				t.Errorf("index offset: got %d, want %d", info.FieldOffs[FieldIndex], tc.index)
			}
		})
	}
}

func TestCalculatorCache(t *testing.T) {
	c := NewCalculator(Wasm32)
	rec := suggestionRecord()
	first := c.Calculate(rec)
	second := c.Calculate(rec)
	if first.Size != second.Size || len(c.cache) != 1 {
		t.Errorf("cache: %d entries", len(c.cache))
	}
}
