// Package layout computes C struct layout for WIT record schemas.
//
// Records crossing the boundary use the natural C layout of the target
// rather than the Canonical ABI. Field widths depend on the target's
// pointer and int sizes.
//
// # Layout Rules
//
//   - s32, u32, bool: C int (bool is 0 or 1 in an int slot)
//   - s64, u64: 8 bytes, 8-aligned
//   - string: char* to a NUL-terminated buffer
//   - list<T>: varray* to a separately allocated header
//   - record: fields in declaration order, padded to each field's
//     alignment, total size padded to the largest alignment
//
// The varray header is {void **memory; size_t allocated; size_t used;
// int index}; Varray returns its layout for a target.
//
// # Usage
//
//	c := layout.NewCalculator(layout.Wasm32)
//	info := c.Calculate(schema)
//	off := info.FieldOffs["weight"]
//
// This package is internal to the transcoder.
package layout
