package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
)

const (
	// MemoryExport is the export name of linear memory.
	MemoryExport = "memory"
	// ReallocExport is the guest allocator export.
	ReallocExport = "cabi_realloc"

	hostModuleName = "varnam-host-memory"
)

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// InitialPages is the starting size of the host memory. 0 means 1.
	InitialPages uint32

	// HeapBase is the lowest address the host heap hands out. 0 means
	// DefaultHeapBase.
	HeapBase uint32
}

// WazeroEngine owns a wazero runtime and one host memory module whose
// linear memory is managed by a Heap. Consumers read records from that
// memory; guest modules can be instantiated alongside it.
type WazeroEngine struct {
	runtime wazero.Runtime
	memory  *WazeroMemory
	heap    *Heap
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	initial := cfg.InitialPages
	if initial == 0 {
		initial = 1
	}
	if cfg.MemoryLimitPages > 0 && initial > cfg.MemoryLimitPages {
		return nil, fmt.Errorf("initial pages %d exceed limit %d", initial, cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := runtime.InstantiateWithConfig(ctx,
		memoryModule(initial, cfg.MemoryLimitPages),
		wazero.NewModuleConfig().WithName(hostModuleName))
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}

	mem := WrapMemory(mod.ExportedMemory(MemoryExport))
	if mem == nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("memory module has no %q export", MemoryExport)
	}

	Logger().Debug("engine ready",
		zap.Uint32("pages", initial),
		zap.Uint32("limit_pages", cfg.MemoryLimitPages))

	return &WazeroEngine{
		runtime: runtime,
		memory:  mem,
		heap:    NewHeap(mem, cfg.HeapBase),
	}, nil
}

// Memory returns the host memory.
func (e *WazeroEngine) Memory() *WazeroMemory {
	return e.memory
}

// Heap returns the allocator over Memory.
func (e *WazeroEngine) Heap() *Heap {
	return e.heap
}

func (e *WazeroEngine) Close(ctx context.Context) error {
	if e.runtime == nil {
		return nil
	}
	err := e.runtime.Close(ctx)
	e.runtime = nil
	return err
}

// WazeroInstance is a guest module that exports memory and cabi_realloc.
type WazeroInstance struct {
	name   string
	memory *WazeroMemory
	alloc  *GuestAllocator
	close  func(context.Context) error
}

// Instantiate compiles and instantiates a guest module. The guest must
// export "memory" and "cabi_realloc".
func (e *WazeroEngine) Instantiate(ctx context.Context, wasmBytes []byte, name string) (*WazeroInstance, error) {
	if e.runtime == nil {
		return nil, fmt.Errorf("engine closed")
	}
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}

	mem := WrapMemory(mod.ExportedMemory(MemoryExport))
	alloc := WrapAllocator(ctx, mod.ExportedFunction(ReallocExport))
	if mem == nil || alloc == nil {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("module %q must export %q and %q", name, MemoryExport, ReallocExport)
	}

	Logger().Debug("guest instantiated", zap.String("name", name), zap.Uint32("memory", mem.Size()))
	return &WazeroInstance{name: name, memory: mem, alloc: alloc, close: mod.Close}, nil
}

func (i *WazeroInstance) Name() string { return i.name }

func (i *WazeroInstance) Memory() *WazeroMemory { return i.memory }

func (i *WazeroInstance) Allocator() *GuestAllocator { return i.alloc }

func (i *WazeroInstance) Close(ctx context.Context) error {
	if i.close == nil {
		return nil
	}
	err := i.close(ctx)
	i.close = nil
	i.memory = nil
	i.alloc = nil
	return err
}
