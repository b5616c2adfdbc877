package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	varnamabi "github.com/wippyai/varnam-abi"
)

// GuestAllocator adapts a guest's cabi_realloc export to
// varnamabi.Allocator, so records can be written into memory the guest
// owns and later freed by the guest's own allocator.
type GuestAllocator struct {
	fn       api.Function
	ctx      context.Context
	stackBuf []uint64
	mu       sync.Mutex
}

// WrapAllocator wraps a cabi_realloc function. It returns nil for a nil
// function.
func WrapAllocator(ctx context.Context, fn api.Function) *GuestAllocator {
	if fn == nil {
		return nil
	}
	return &GuestAllocator{fn: fn, ctx: ctx, stackBuf: make([]uint64, 4)}
}

func (a *GuestAllocator) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Alloc calls cabi_realloc(0, 0, align, size).
func (a *GuestAllocator) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = 0
	a.stackBuf[1] = 0
	a.stackBuf[2] = uint64(align)
	a.stackBuf[3] = uint64(size)
	if err := a.fn.CallWithStack(a.context(), a.stackBuf[:4]); err != nil {
		return 0, fmt.Errorf("allocation failed: %w", err)
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 {
		return 0, fmt.Errorf("allocation returned null for %d bytes", size)
	}
	return ptr, nil
}

// Free calls cabi_realloc(ptr, size, align, 0).
func (a *GuestAllocator) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = uint64(ptr)
	a.stackBuf[1] = uint64(size)
	a.stackBuf[2] = uint64(align)
	a.stackBuf[3] = 0
	if err := a.fn.CallWithStack(a.context(), a.stackBuf[:4]); err != nil {
		Logger().Warn("Free: failed to call cabi_realloc for deallocation",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Compile-time check that GuestAllocator implements varnamabi.Allocator
var _ varnamabi.Allocator = (*GuestAllocator)(nil)
