package engine

import "encoding/binary"

// Minimal core module encoding for the host-owned memory module.

const (
	sectionType   = 1
	sectionImport = 2
	sectionMemory = 5
	sectionExport = 7

	externFunc   = 0x00
	externMemory = 0x02

	valI32   = 0x7f
	funcType = 0x60
)

var moduleHeader = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = binary.AppendUvarint(out, uint64(len(payload)))
	return append(out, payload...)
}

func appendName(buf []byte, name string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(name)))
	return append(buf, name...)
}

// memoryLimits encodes limits with a minimum and an optional maximum.
func memoryLimits(buf []byte, minPages, maxPages uint32) []byte {
	if maxPages == 0 {
		buf = append(buf, 0x00)
		return binary.AppendUvarint(buf, uint64(minPages))
	}
	buf = append(buf, 0x01)
	buf = binary.AppendUvarint(buf, uint64(minPages))
	return binary.AppendUvarint(buf, uint64(maxPages))
}

// memoryModule returns a module with one exported memory named "memory"
// and nothing else.
func memoryModule(initialPages, maxPages uint32) []byte {
	mem := memoryLimits([]byte{1}, initialPages, maxPages)

	exp := []byte{1}
	exp = appendName(exp, MemoryExport)
	exp = append(exp, externMemory, 0)

	out := append([]byte{}, moduleHeader...)
	out = append(out, section(sectionMemory, mem)...)
	return append(out, section(sectionExport, exp)...)
}
