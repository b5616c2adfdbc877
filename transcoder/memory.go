package transcoder

import (
	"sync"

	varnamabi "github.com/wippyai/varnam-abi"
)

type Memory = varnamabi.Memory
type Allocator = varnamabi.Allocator

type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList records the blocks handed out while encoding one record
// tree so a failed encode can return all of them.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. List invalid after Release.
func (al *AllocationList) Release() {
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(allocator Allocator) {
	al.Free(allocator)
	al.Release()
}

func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

// Free returns every recorded block, most recent first.
func (al *AllocationList) Free(allocator Allocator) {
	if allocator == nil {
		return
	}
	for i := len(al.allocations) - 1; i >= 0; i-- {
		a := al.allocations[i]
		if a.Ptr != 0 {
			allocator.Free(a.Ptr, a.Size, a.Align)
		}
	}
	al.Reset()
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// Bytes returns the total size of the recorded blocks.
func (al *AllocationList) Bytes() uint64 {
	var n uint64
	for _, a := range al.allocations {
		n += uint64(a.Size)
	}
	return n
}
