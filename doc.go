// Package varnamabi is the interoperability layer that lets a native
// transliteration engine hand collections of result objects to a caller
// in another runtime, and lets that caller release them deterministically.
//
// # Architecture Overview
//
//	varnamabi/           Root package with the Memory and Allocator interfaces
//	├── varray/          Growable array of item handles
//	├── own/             Owned string buffers
//	├── result/          Result records and their constructor/destructor pairs
//	├── resource/        Handle table for records handed to consumers
//	├── transcoder/      Fixed C layout encoding into linear memory
//	├── engine/          wazero-backed linear memory and host heap
//	├── runtime/         Sessions, cancellation, status codes
//	├── fixture/         YAML-backed producer for tests and tooling
//	├── errors/          Structured error types and status mapping
//	└── cmd/varnamabi/   Inspection CLI
//
// # Ownership Protocol
//
// The producer builds records with constructors that take ownership of
// their arguments, pushes them into varray.Array values, wraps those in
// an aggregate and returns it:
//
//	words := varray.New[result.Suggestion]()
//	words.Push(result.NewSuggestion(own.NewString("മലയാളം"), 5, 1700000000))
//	res := result.NewTransliterationResult(words, nil, nil, nil, nil, nil)
//
// The consumer calls the matching destructor exactly once:
//
//	res.Destroy()
//
// Destroy walks every array, destroys every contained item, drops the
// backing storage and leaves every owned field nil.
//
// # Crossing a Runtime Boundary
//
// For a consumer running inside wazero, the transcoder writes records
// into linear memory with the C layout and the Releaser runs the same
// destructor protocol against that memory:
//
//	eng, _ := engine.NewWazeroEngine(ctx)
//	defer eng.Close(ctx)
//
//	enc := transcoder.NewEncoder(transcoder.Wasm32)
//	addr, _ := enc.EncodeResult(res, eng.Memory(), eng.Heap())
//	...
//	transcoder.NewReleaser(transcoder.Wasm32).ReleaseResult(addr, eng.Memory(), eng.Heap())
//
// # Thread Safety
//
// varray.Array and result records have a single owner and no internal
// locking. resource tables and runtime.Runtime are safe for concurrent use.
package varnamabi
