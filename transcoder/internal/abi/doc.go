// Package abi provides internal utilities for the fixed C layout.
//
// # Contents
//
//   - helpers.go: alignment, overflow-checked arithmetic, size limits
//
// This package is internal to the transcoder.
package abi
