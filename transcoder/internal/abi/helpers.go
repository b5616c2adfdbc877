package abi

import "math"

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

const (
	MaxStringSize = 1 << 30 // 1 GB max string size
	MaxArrayLen   = 1 << 27 // 128M max slots
	MaxAlloc      = 1 << 30 // 1 GB max single allocation
)
