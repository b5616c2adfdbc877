package engine

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	varnamabi "github.com/wippyai/varnam-abi"
)

// GrowableMemory is linear memory that can be extended by whole pages.
type GrowableMemory interface {
	varnamabi.Memory
	varnamabi.MemorySizer
	Grow(deltaPages uint32) (previousPages uint32, ok bool)
}

// DefaultHeapBase keeps the null page and a small guard below the heap.
const DefaultHeapBase = 1024

// HeapStats is a snapshot of heap accounting.
type HeapStats struct {
	Allocs     uint64
	Frees      uint64
	BadFrees   uint64
	Grows      uint64
	LiveBlocks int
	LiveBytes  uint64
	FreeSpans  int
	Top        uint32
}

type span struct {
	ptr  uint32
	size uint32
}

func (s span) end() uint32 { return s.ptr + s.size }

// Heap is a first-fit allocator over host-owned linear memory. Blocks are
// returned zeroed; freed blocks are wiped and coalesced with neighbours.
// Free checks the pointer and size against the live set, so a double
// release or a size mismatch is counted instead of corrupting the heap.
type Heap struct {
	mu    sync.Mutex
	mem   GrowableMemory
	base  uint32
	top   uint32
	free  []span // sorted by ptr
	live  map[uint32]uint32
	stats HeapStats
}

func NewHeap(mem GrowableMemory, base uint32) *Heap {
	if base == 0 {
		base = DefaultHeapBase
	}
	return &Heap{
		mem:  mem,
		base: base,
		top:  base,
		live: make(map[uint32]uint32),
	}
}

func alignTo(offset, align uint32) uint32 {
	return (offset + align - 1) &^ (align - 1)
}

func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, fmt.Errorf("alignment %d is not a power of two", align)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ptr, ok := h.fromFreeList(size, align)
	if !ok {
		var err error
		ptr, err = h.bump(size, align)
		if err != nil {
			return 0, err
		}
	}

	h.live[ptr] = size
	h.stats.Allocs++
	return ptr, nil
}

func (h *Heap) fromFreeList(size, align uint32) (uint32, bool) {
	for i, s := range h.free {
		p := alignTo(s.ptr, align)
		if p < s.ptr || uint64(p)+uint64(size) > uint64(s.end()) {
			continue
		}
		var rest []span
		if p > s.ptr {
			rest = append(rest, span{s.ptr, p - s.ptr})
		}
		if tail := s.end() - (p + size); tail > 0 {
			rest = append(rest, span{p + size, tail})
		}
		h.free = append(h.free[:i], append(rest, h.free[i+1:]...)...)
		return p, true
	}
	return 0, false
}

func (h *Heap) bump(size, align uint32) (uint32, error) {
	p := alignTo(h.top, align)
	end := uint64(p) + uint64(size)
	if p < h.top || end >= 1<<32 {
		return 0, fmt.Errorf("heap exhausted: %d bytes (align %d)", size, align)
	}
	if current := uint64(h.mem.Size()); end > current {
		pages := uint32((end - current + PageSize - 1) / PageSize)
		if _, ok := h.mem.Grow(pages); !ok {
			return 0, fmt.Errorf("heap exhausted: cannot grow by %d pages", pages)
		}
		h.stats.Grows++
		Logger().Debug("heap grew", zap.Uint32("pages", pages), zap.Uint32("size", h.mem.Size()))
	}
	if p > h.top {
		h.insertFree(span{h.top, p - h.top})
	}
	h.top = uint32(end)
	return p, nil
}

var zeroPage [4096]byte

func (h *Heap) wipe(ptr, size uint32) {
	for size > 0 {
		n := min(size, uint32(len(zeroPage)))
		if err := h.mem.Write(ptr, zeroPage[:n]); err != nil {
			return
		}
		ptr += n
		size -= n
	}
}

// Free releases a block. Unknown pointers and size mismatches are
// counted in BadFrees and otherwise ignored.
func (h *Heap) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if size == 0 {
		size = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.Frees++
	got, ok := h.live[ptr]
	if !ok || got != size {
		h.stats.BadFrees++
		Logger().Warn("heap: bad free",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Bool("known", ok),
			zap.Uint32("live_size", got))
		return
	}
	delete(h.live, ptr)
	h.wipe(ptr, size)
	h.insertFree(span{ptr, size})
}

func (h *Heap) insertFree(s span) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].ptr >= s.ptr })
	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = s

	// merge with next, then previous
	if i+1 < len(h.free) && h.free[i].end() == h.free[i+1].ptr {
		h.free[i].size += h.free[i+1].size
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}
	if i > 0 && h.free[i-1].end() == h.free[i].ptr {
		h.free[i-1].size += h.free[i].size
		h.free = append(h.free[:i], h.free[i+1:]...)
	}

	// give the trailing span back to the bump pointer
	if last := h.free[len(h.free)-1]; last.end() == h.top {
		h.top = last.ptr
		h.free = h.free[:len(h.free)-1]
	}
}

// Live returns the number and total size of outstanding blocks.
func (h *Heap) Live() (blocks int, bytes uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, size := range h.live {
		bytes += uint64(size)
	}
	return len(h.live), bytes
}

// Owns reports whether ptr is the start of a live block.
func (h *Heap) Owns(ptr uint32) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.live[ptr]
	return ok
}

func (h *Heap) Stats() HeapStats {
	blocks, bytes := h.Live()
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.stats
	s.LiveBlocks = blocks
	s.LiveBytes = bytes
	s.FreeSpans = len(h.free)
	s.Top = h.top
	return s
}

var _ varnamabi.Allocator = (*Heap)(nil)
