package transcoder

import (
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/transcoder/internal/abi"
	"github.com/wippyai/varnam-abi/transcoder/internal/layout"
	"go.bytecodealliance.org/wit"
)

// Target is the consumer data model: pointer and C int width.
type Target = layout.Target

var (
	Wasm32 = layout.Wasm32
	LP64   = layout.LP64
)

type LayoutInfo = layout.Info

type LayoutCalculator struct {
	calc *layout.Calculator
}

func NewLayoutCalculator(target Target) *LayoutCalculator {
	return &LayoutCalculator{
		calc: layout.NewCalculator(target),
	}
}

func (lc *LayoutCalculator) Target() Target {
	return lc.calc.Target()
}

func (lc *LayoutCalculator) Calculate(t wit.Type) LayoutInfo {
	return lc.calc.Calculate(t)
}

// Varray returns the layout of the varray header.
func (lc *LayoutCalculator) Varray() LayoutInfo {
	return lc.calc.Varray()
}

// Record returns the layout of the struct that represents kind. List
// kinds are represented by a bare varray header.
func (lc *LayoutCalculator) Record(kind result.Kind) (LayoutInfo, bool) {
	switch kind {
	case result.KindSuggestionList, result.KindSchemeDetailsList, result.KindSymbolList:
		return lc.Varray(), true
	}
	schema := Schema(kind)
	if schema == nil {
		return LayoutInfo{}, false
	}
	return lc.Calculate(schema), true
}

// Varray header field names.
const (
	varrayMemory    = layout.FieldMemory
	varrayAllocated = layout.FieldAllocated
	varrayUsed      = layout.FieldUsed
	varrayIndex     = layout.FieldIndex
)

var alignTo = abi.AlignTo
