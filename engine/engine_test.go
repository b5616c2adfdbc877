package engine

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	if cfg.MemoryLimitPages != 0 || cfg.InitialPages != 0 || cfg.HeapBase != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestNewWazeroEngineWithConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		cfg   *Config
		name  string
		pages uint32
	}{
		{nil, "nil config", 1},
		{&Config{}, "default config", 1},
		{&Config{MemoryLimitPages: 256}, "16MB limit", 1},
		{&Config{InitialPages: 4}, "4 pages", 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine, err := NewWazeroEngineWithConfig(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("NewWazeroEngineWithConfig failed: %v", err)
			}
			defer engine.Close(ctx)

			if engine.Memory() == nil || engine.Heap() == nil {
				t.Fatal("engine memory and heap should not be nil")
			}
			if got := engine.Memory().Size(); got != tc.pages*PageSize {
				t.Errorf("memory size = %d, want %d", got, tc.pages*PageSize)
			}
		})
	}
}

func TestNewWazeroEngine_InitialExceedsLimit(t *testing.T) {
	_, err := NewWazeroEngineWithConfig(context.Background(), &Config{InitialPages: 8, MemoryLimitPages: 4})
	if err == nil {
		t.Fatal("expected error when initial pages exceed limit")
	}
}

func TestWazeroEngine_CloseTwice(t *testing.T) {
	ctx := context.Background()
	engine, err := NewWazeroEngine(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(ctx); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := engine.Close(ctx); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := engine.Instantiate(ctx, memoryModule(1, 0), "late"); err == nil {
		t.Fatal("Instantiate after Close should fail")
	}
}

func TestWazeroMemory_ReadWrite(t *testing.T) {
	ctx := context.Background()
	engine, err := NewWazeroEngine(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close(ctx)
	mem := engine.Memory()

	if err := mem.WriteU32(16, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	if v, _ := mem.ReadU32(16); v != 0xdeadbeef {
		t.Errorf("ReadU32 = %x", v)
	}
	if err := mem.WriteU64(24, 1<<40); err != nil {
		t.Fatal(err)
	}
	if v, _ := mem.ReadU64(24); v != 1<<40 {
		t.Errorf("ReadU64 = %d", v)
	}
	if err := mem.WriteU16(40, 0xbeef); err != nil {
		t.Fatal(err)
	}
	if v, _ := mem.ReadU16(40); v != 0xbeef {
		t.Errorf("ReadU16 = %x", v)
	}
	if err := mem.Write(48, []byte("ka\x00")); err != nil {
		t.Fatal(err)
	}
	if b, _ := mem.ReadU8(49); b != 'a' {
		t.Errorf("ReadU8 = %q", b)
	}

	if _, err := mem.ReadU32(mem.Size()); err == nil {
		t.Error("read past end should fail")
	}
	if err := mem.WriteU8(mem.Size(), 1); err == nil {
		t.Error("write past end should fail")
	}

	prev, ok := mem.Grow(1)
	if !ok || prev != 1 || mem.Size() != 2*PageSize {
		t.Errorf("Grow: prev=%d ok=%v size=%d", prev, ok, mem.Size())
	}
}

func TestMemoryModule_Bytes(t *testing.T) {
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	got := memoryModule(1, 0)
	if string(got) != string(want) {
		t.Errorf("memoryModule(1, 0) = % x\nwant % x", got, want)
	}

	limited := memoryModule(2, 300)
	// flags 0x01, min 2, max 300 as LEB128
	if limited[11] != 0x01 || limited[12] != 0x02 || limited[13] != 0xac || limited[14] != 0x02 {
		t.Errorf("limited limits = % x", limited[8:15])
	}
}

const (
	sectionFunction = 3
	sectionCode     = 10

	opLocalGet = 0x20
	opCall     = 0x10
	opEnd      = 0x0b
)

// guestModule defines cabi_realloc as a local function forwarding to the
// "env" import of the same name, and exports it next to its own memory.
func guestModule() []byte {
	typ := []byte{1, funcType, 4, valI32, valI32, valI32, valI32, 1, valI32}

	imp := []byte{1}
	imp = appendName(imp, "env")
	imp = appendName(imp, ReallocExport)
	imp = append(imp, externFunc, 0)

	fn := []byte{1, 0}

	mem := memoryLimits([]byte{1}, 1, 0)

	exp := []byte{2}
	exp = appendName(exp, MemoryExport)
	exp = append(exp, externMemory, 0)
	exp = appendName(exp, ReallocExport)
	exp = append(exp, externFunc, 1)

	body := []byte{0} // no locals
	for i := byte(0); i < 4; i++ {
		body = append(body, opLocalGet, i)
	}
	body = append(body, opCall, 0, opEnd)
	code := append([]byte{1, byte(len(body))}, body...)

	out := append([]byte{}, moduleHeader...)
	out = append(out, section(sectionType, typ)...)
	out = append(out, section(sectionImport, imp)...)
	out = append(out, section(sectionFunction, fn)...)
	out = append(out, section(sectionMemory, mem)...)
	out = append(out, section(sectionExport, exp)...)
	return append(out, section(sectionCode, code)...)
}

type reallocCall struct {
	old, oldSize, align, newSize uint32
}

func TestInstantiate_GuestAllocator(t *testing.T) {
	ctx := context.Background()
	engine, err := NewWazeroEngine(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close(ctx)

	var calls []reallocCall
	next := uint32(2048)
	_, err = engine.runtime.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, old, oldSize, align, newSize uint32) uint32 {
			calls = append(calls, reallocCall{old, oldSize, align, newSize})
			if newSize == 0 {
				return 0
			}
			p := alignTo(next, align)
			next = p + newSize
			return p
		}).
		Export(ReallocExport).
		Instantiate(ctx)
	if err != nil {
		t.Fatalf("host module: %v", err)
	}

	inst, err := engine.Instantiate(ctx, guestModule(), "consumer")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer inst.Close(ctx)

	if inst.Name() != "consumer" || inst.Memory().Size() != PageSize {
		t.Errorf("instance name=%q size=%d", inst.Name(), inst.Memory().Size())
	}

	alloc := inst.Allocator()
	p, err := alloc.Alloc(12, 4)
	if err != nil {
		t.Fatal(err)
	}
	if p != 2048 {
		t.Errorf("Alloc = %d, want 2048", p)
	}
	if err := inst.Memory().WriteU32(p, 7); err != nil {
		t.Fatal(err)
	}
	alloc.Free(p, 12, 4)
	alloc.Free(0, 12, 4)

	want := []reallocCall{{0, 0, 4, 12}, {2048, 12, 4, 0}}
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestInstantiate_MissingExports(t *testing.T) {
	ctx := context.Background()
	engine, err := NewWazeroEngine(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close(ctx)

	if _, err := engine.Instantiate(ctx, memoryModule(1, 0), "no-realloc"); err == nil {
		t.Fatal("expected error for module without cabi_realloc")
	}
	if _, err := engine.Instantiate(ctx, []byte("not wasm"), "junk"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestGuestAllocator_NullResult(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	host, err := rt.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, old, oldSize, align, newSize uint32) uint32 { return 0 }).
		Export(ReallocExport).
		Instantiate(ctx)
	if err != nil {
		t.Fatal(err)
	}

	alloc := WrapAllocator(ctx, host.ExportedFunction(ReallocExport))
	if _, err := alloc.Alloc(8, 4); err == nil {
		t.Fatal("null allocation should be an error")
	}
	if WrapAllocator(ctx, nil) != nil {
		t.Fatal("WrapAllocator(nil) should be nil")
	}
	if WrapMemory(nil) != nil {
		t.Fatal("WrapMemory(nil) should be nil")
	}
}
