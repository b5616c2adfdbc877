// Package errors provides structured error types for the varnam-abi
// layers that sit above the array and record primitives.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries field path, record type and
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindAllocation).
//		Path("result", "exact-words", "0", "word").
//		Record("suggestion").
//		Detail("heap exhausted").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Released(errors.PhaseRelease, "transliteration-result", handle)
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 10, 5)
//
// Consumers across the boundary see a flat Status instead of an error
// value. StatusOf maps an error to its code:
//
//	errors.StatusOf(nil)                   // StatusSuccess
//	errors.StatusOf(errors.Released(...))  // StatusMisuse
//	errors.StatusOf(io.EOF)                // StatusError
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
