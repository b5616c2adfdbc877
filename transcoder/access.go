package transcoder

import (
	"math"
	"strconv"

	varnamabi "github.com/wippyai/varnam-abi"
	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/transcoder/internal/abi"
)

// accessor reads and writes target-width scalars.
type accessor struct {
	target Target
}

func (a accessor) readPtr(mem Memory, phase errors.Phase, addr uint32) (uint32, error) {
	if a.target.PtrSize == 8 {
		v, err := mem.ReadU64(addr)
		if err != nil {
			return 0, memErr(phase, addr, err)
		}
		if v > math.MaxUint32 {
			return 0, errors.InvalidData(phase, nil, "pointer "+strconv.FormatUint(v, 16)+" outside 32-bit memory")
		}
		return uint32(v), nil
	}
	v, err := mem.ReadU32(addr)
	if err != nil {
		return 0, memErr(phase, addr, err)
	}
	return v, nil
}

func (a accessor) writePtr(mem Memory, phase errors.Phase, addr, v uint32) error {
	var err error
	if a.target.PtrSize == 8 {
		err = mem.WriteU64(addr, uint64(v))
	} else {
		err = mem.WriteU32(addr, v)
	}
	if err != nil {
		return memErr(phase, addr, err)
	}
	return nil
}

func (a accessor) readInt(mem Memory, phase errors.Phase, addr uint32) (int, error) {
	v, err := mem.ReadU32(addr)
	if err != nil {
		return 0, memErr(phase, addr, err)
	}
	return int(int32(v)), nil
}

func (a accessor) writeInt(mem Memory, phase errors.Phase, addr uint32, v int, path []string) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return errors.New(phase, errors.KindInvalidData).
			Path(path...).
			Value(v).
			Detail("value does not fit a C int").
			Build()
	}
	if err := mem.WriteU32(addr, uint32(int32(v))); err != nil {
		return memErr(phase, addr, err)
	}
	return nil
}

// strlen returns the length of the NUL-terminated string at addr.
func (a accessor) strlen(mem Memory, phase errors.Phase, addr uint32) (uint32, error) {
	limit := uint32(math.MaxUint32)
	if sizer, ok := mem.(varnamabi.MemorySizer); ok {
		limit = sizer.Size()
	}
	if addr >= limit {
		return 0, errors.OutOfBounds(phase, nil, int(addr), int(limit))
	}

	chunk := uint32(poolInitCap)
	n := uint32(0)
	for n < abi.MaxStringSize {
		at := addr + n
		if at >= limit {
			return 0, errors.InvalidData(phase, nil, "unterminated string at "+strconv.FormatUint(uint64(addr), 10))
		}
		size := min(chunk, limit-at)
		data, err := mem.Read(at, size)
		if err != nil {
			if size == 1 {
				return 0, memErr(phase, at, err)
			}
			// without a sizer the chunk may run past the end
			chunk = 1
			continue
		}
		for i, b := range data {
			if b == 0 {
				return n + uint32(i), nil
			}
		}
		n += size
	}
	return 0, errors.InvalidData(phase, nil, "string exceeds maximum size")
}

func memErr(phase errors.Phase, addr uint32, err error) error {
	return errors.New(phase, errors.KindOutOfBounds).
		Value(addr).
		Cause(err).
		Detail("memory access at %d", addr).
		Build()
}

func childPath(path []string, elem string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}

func indexPath(path []string, i int) []string {
	return childPath(path, strconv.Itoa(i))
}

// varrayHeader is a decoded varray header.
type varrayHeader struct {
	memory    uint32
	allocated uint32
	used      uint32
	index     int
}

func (h varrayHeader) length() int {
	return h.index + 1
}

func (a accessor) readHeader(mem Memory, phase errors.Phase, addr uint32, hdr LayoutInfo) (varrayHeader, error) {
	var h varrayHeader
	var err error
	if h.memory, err = a.readPtr(mem, phase, addr+hdr.FieldOffs[varrayMemory]); err != nil {
		return h, err
	}
	if h.allocated, err = a.readPtr(mem, phase, addr+hdr.FieldOffs[varrayAllocated]); err != nil {
		return h, err
	}
	if h.used, err = a.readPtr(mem, phase, addr+hdr.FieldOffs[varrayUsed]); err != nil {
		return h, err
	}
	if h.index, err = a.readInt(mem, phase, addr+hdr.FieldOffs[varrayIndex]); err != nil {
		return h, err
	}

	ptrSize := a.target.PtrSize
	switch {
	case h.index < -1:
		return h, errors.InvalidData(phase, nil, "varray index below -1")
	case uint64(h.length())*uint64(ptrSize) != uint64(h.used):
		return h, errors.InvalidData(phase, nil, "varray used does not match index")
	case h.used > h.allocated:
		return h, errors.InvalidData(phase, nil, "varray used exceeds allocated")
	case h.allocated%ptrSize != 0:
		return h, errors.InvalidData(phase, nil, "varray allocated is not a whole number of slots")
	case h.allocated > 0 && h.memory == 0:
		return h, errors.InvalidData(phase, nil, "varray has capacity but no slot block")
	case h.allocated/ptrSize > abi.MaxArrayLen:
		return h, errors.OutOfBounds(phase, nil, int(h.allocated/ptrSize), abi.MaxArrayLen)
	}
	return h, nil
}
