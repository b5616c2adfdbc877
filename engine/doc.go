// Package engine provides wazero-backed linear memory for records that
// cross the boundary.
//
// # Architecture
//
// The engine package provides three main types:
//
//	WazeroEngine   - Owns a wazero runtime and a host memory module
//	Heap           - First-fit allocator over that memory
//	WazeroInstance - A guest module exporting memory and cabi_realloc
//
// # Host Memory
//
// NewWazeroEngine instantiates a module whose only content is an
// exported memory. The Heap hands out blocks from it and grows it a page
// at a time. The transcoder writes records there with the C layout:
//
//	eng, _ := engine.NewWazeroEngine(ctx)
//	defer eng.Close(ctx)
//	addr, _ := enc.EncodeResult(res, eng.Memory(), eng.Heap())
//
// Heap.Free checks each pointer and size against the live set, so a
// record released twice shows up in Stats().BadFrees.
//
// # Guest Memory
//
// Instantiate loads a guest that owns its memory. Its cabi_realloc
// export is wrapped as an allocator:
//
//	inst, _ := eng.Instantiate(ctx, wasmBytes, "consumer")
//	addr, _ := enc.EncodeResult(res, inst.Memory(), inst.Allocator())
//
// # Thread Safety
//
// Heap and GuestAllocator serialize their own calls. WazeroMemory has no
// locking; callers coordinate access to a memory they share.
package engine
