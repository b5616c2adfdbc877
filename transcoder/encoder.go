package transcoder

import (
	"bytes"

	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/transcoder/internal/abi"
	"github.com/wippyai/varnam-abi/varray"
)

// Encoder writes record trees into linear memory with the C layout.
// Every block of an encoded tree comes from the supplied Allocator; on
// failure all blocks allocated by that call are freed before returning.
type Encoder struct {
	accessor
	layouts *LayoutCalculator
	infos   recordInfos
}

type recordInfos struct {
	suggestion LayoutInfo
	result     LayoutInfo
	scheme     LayoutInfo
	symbol     LayoutInfo
	varray     LayoutInfo
}

func newRecordInfos(lc *LayoutCalculator) recordInfos {
	return recordInfos{
		suggestion: lc.Calculate(SuggestionSchema),
		result:     lc.Calculate(TransliterationResultSchema),
		scheme:     lc.Calculate(SchemeDetailsSchema),
		symbol:     lc.Calculate(SymbolSchema),
		varray:     lc.Varray(),
	}
}

func NewEncoder(target Target) *Encoder {
	lc := NewLayoutCalculator(target)
	return &Encoder{
		accessor: accessor{target: target},
		layouts:  lc,
		infos:    newRecordInfos(lc),
	}
}

func (e *Encoder) Layouts() *LayoutCalculator {
	return e.layouts
}

type encodeFunc func(allocs *AllocationList) (uint32, error)

func (e *Encoder) run(mem Memory, alloc Allocator, fn encodeFunc) (uint32, error) {
	if mem == nil {
		return 0, errors.NotInitialized(errors.PhaseEncode, "memory")
	}
	if alloc == nil {
		return 0, errors.NotInitialized(errors.PhaseEncode, "allocator")
	}
	allocs := NewAllocationList()
	addr, err := fn(allocs)
	if err != nil {
		allocs.FreeAndRelease(alloc)
		return 0, err
	}
	allocs.Release()
	return addr, nil
}

// EncodeString writes a NUL-terminated copy of s. A nil string encodes
// as the null pointer.
func (e *Encoder) EncodeString(s *own.String, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		return e.encodeString(s, mem, alloc, allocs, nil)
	})
}

func (e *Encoder) EncodeSuggestion(s *result.Suggestion, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		return e.encodeSuggestion(s, mem, alloc, allocs, nil)
	})
}

// EncodeResult writes a TransliterationResult: the record, its six varray
// headers, their slot blocks, every Suggestion and every word.
func (e *Encoder) EncodeResult(r *result.TransliterationResult, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		return e.encodeResult(r, mem, alloc, allocs, nil)
	})
}

func (e *Encoder) EncodeSchemeDetails(d *result.SchemeDetails, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		return e.encodeSchemeDetails(d, mem, alloc, allocs, nil)
	})
}

func (e *Encoder) EncodeSymbol(s *result.Symbol, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		return e.encodeSymbol(s, mem, alloc, allocs, nil)
	})
}

// EncodeSuggestionArray writes a varray of suggestions. A nil array
// encodes as the null pointer.
func (e *Encoder) EncodeSuggestionArray(arr *varray.Array[result.Suggestion], mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		return encodeArray(e, arr, mem, alloc, allocs, nil, e.encodeSuggestion)
	})
}

func (e *Encoder) EncodeSuggestionList(l *result.SuggestionList, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		if err := checkRecord(l, "suggestion-list"); err != nil {
			return 0, err
		}
		return encodeArray(e, l.Items, mem, alloc, allocs, nil, e.encodeSuggestion)
	})
}

func (e *Encoder) EncodeSchemeDetailsList(l *result.SchemeDetailsList, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		if err := checkRecord(l, "scheme-details-list"); err != nil {
			return 0, err
		}
		return encodeArray(e, l.Items, mem, alloc, allocs, nil, e.encodeSchemeDetails)
	})
}

func (e *Encoder) EncodeSymbolList(l *result.SymbolList, mem Memory, alloc Allocator) (uint32, error) {
	return e.run(mem, alloc, func(allocs *AllocationList) (uint32, error) {
		if err := checkRecord(l, "symbol-list"); err != nil {
			return 0, err
		}
		return encodeArray(e, l.Items, mem, alloc, allocs, nil, e.encodeSymbol)
	})
}

// EncodeRecord dispatches on the record's kind.
func (e *Encoder) EncodeRecord(rec result.Record, mem Memory, alloc Allocator) (uint32, error) {
	switch r := rec.(type) {
	case *result.Suggestion:
		return e.EncodeSuggestion(r, mem, alloc)
	case *result.TransliterationResult:
		return e.EncodeResult(r, mem, alloc)
	case *result.SchemeDetails:
		return e.EncodeSchemeDetails(r, mem, alloc)
	case *result.Symbol:
		return e.EncodeSymbol(r, mem, alloc)
	case *result.SuggestionList:
		return e.EncodeSuggestionList(r, mem, alloc)
	case *result.SchemeDetailsList:
		return e.EncodeSchemeDetailsList(r, mem, alloc)
	case *result.SymbolList:
		return e.EncodeSymbolList(r, mem, alloc)
	default:
		return 0, errors.Unsupported(errors.PhaseEncode, "record type")
	}
}

func checkRecord(rec result.Record, name string) error {
	switch {
	case isNil(rec):
		return errors.NilPointer(errors.PhaseEncode, nil, name)
	case rec.Released():
		return releasedRecord(errors.PhaseEncode, name)
	}
	return nil
}

func releasedRecord(phase errors.Phase, name string) error {
	return errors.New(phase, errors.KindReleased).
		Record(name).
		Detail("record already released").
		Build()
}

func isNil(rec result.Record) bool {
	switch r := rec.(type) {
	case nil:
		return true
	case *result.Suggestion:
		return r == nil
	case *result.TransliterationResult:
		return r == nil
	case *result.SchemeDetails:
		return r == nil
	case *result.Symbol:
		return r == nil
	case *result.SuggestionList:
		return r == nil
	case *result.SchemeDetailsList:
		return r == nil
	case *result.SymbolList:
		return r == nil
	}
	return false
}

func (e *Encoder) allocate(alloc Allocator, allocs *AllocationList, size, align uint32, path []string) (uint32, error) {
	if size > abi.MaxAlloc {
		return 0, errors.New(errors.PhaseEncode, errors.KindAllocation).
			Path(path...).
			Detail("allocation of %d bytes exceeds limit", size).
			Build()
	}
	ptr, err := alloc.Alloc(size, align)
	if err != nil {
		return 0, errors.New(errors.PhaseEncode, errors.KindAllocation).
			Path(path...).
			Cause(err).
			Detail("alloc %d bytes (align %d)", size, align).
			Build()
	}
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseEncode, size, align)
	}
	allocs.Add(ptr, size, align)
	return ptr, nil
}

func (e *Encoder) encodeString(s *own.String, mem Memory, alloc Allocator, allocs *AllocationList, path []string) (uint32, error) {
	if s == nil {
		return 0, nil
	}
	if s.Freed() {
		return 0, releasedRecord(errors.PhaseEncode, "string")
	}
	data := s.Bytes()
	if len(data) >= abi.MaxStringSize {
		return 0, errors.InvalidData(errors.PhaseEncode, path, "string exceeds maximum size")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return 0, errors.InvalidData(errors.PhaseEncode, path, "string contains NUL byte")
	}

	size := uint32(len(data)) + 1
	ptr, err := e.allocate(alloc, allocs, size, 1, path)
	if err != nil {
		return 0, err
	}

	buf := getBuf()
	*buf = append(*buf, data...)
	*buf = append(*buf, 0)
	err = mem.Write(ptr, *buf)
	putBuf(buf)
	if err != nil {
		return 0, memErr(errors.PhaseEncode, ptr, err)
	}
	return ptr, nil
}

type stringField struct {
	name  string
	value *own.String
}

type intField struct {
	name  string
	value int
}

func (e *Encoder) writeFields(mem Memory, alloc Allocator, allocs *AllocationList, base uint32, info LayoutInfo, path []string, strs []stringField, ints []intField) error {
	for _, f := range strs {
		fp := childPath(path, f.name)
		p, err := e.encodeString(f.value, mem, alloc, allocs, fp)
		if err != nil {
			return err
		}
		if err := e.writePtr(mem, errors.PhaseEncode, base+info.FieldOffs[f.name], p); err != nil {
			return err
		}
	}
	for _, f := range ints {
		if err := e.writeInt(mem, errors.PhaseEncode, base+info.FieldOffs[f.name], f.value, childPath(path, f.name)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeSuggestion(s *result.Suggestion, mem Memory, alloc Allocator, allocs *AllocationList, path []string) (uint32, error) {
	if err := checkRecord(s, "suggestion"); err != nil {
		return 0, err
	}
	info := e.infos.suggestion
	ptr, err := e.allocate(alloc, allocs, info.Size, info.Align, path)
	if err != nil {
		return 0, err
	}
	err = e.writeFields(mem, alloc, allocs, ptr, info, path,
		[]stringField{{fieldWord, s.Word}},
		[]intField{{fieldWeight, s.Weight}, {fieldLearnedOn, s.LearnedOn}},
	)
	if err != nil {
		return 0, err
	}
	return ptr, nil
}

func (e *Encoder) encodeResult(r *result.TransliterationResult, mem Memory, alloc Allocator, allocs *AllocationList, path []string) (uint32, error) {
	if err := checkRecord(r, "transliteration-result"); err != nil {
		return 0, err
	}
	info := e.infos.result
	ptr, err := e.allocate(alloc, allocs, info.Size, info.Align, path)
	if err != nil {
		return 0, err
	}
	for _, c := range result.Categories() {
		name := c.String()
		arr, err := encodeArray(e, r.Get(c), mem, alloc, allocs, childPath(path, name), e.encodeSuggestion)
		if err != nil {
			return 0, err
		}
		if err := e.writePtr(mem, errors.PhaseEncode, ptr+info.FieldOffs[name], arr); err != nil {
			return 0, err
		}
	}
	return ptr, nil
}

func (e *Encoder) encodeSchemeDetails(d *result.SchemeDetails, mem Memory, alloc Allocator, allocs *AllocationList, path []string) (uint32, error) {
	if err := checkRecord(d, "scheme-details"); err != nil {
		return 0, err
	}
	info := e.infos.scheme
	ptr, err := e.allocate(alloc, allocs, info.Size, info.Align, path)
	if err != nil {
		return 0, err
	}
	stable := 0
	if d.IsStable {
		stable = 1
	}
	err = e.writeFields(mem, alloc, allocs, ptr, info, path,
		[]stringField{
			{fieldIdentifier, d.Identifier},
			{fieldLangCode, d.LangCode},
			{fieldDisplayName, d.DisplayName},
			{fieldAuthor, d.Author},
			{fieldCompiledDate, d.CompiledDate},
		},
		[]intField{{fieldIsStable, stable}},
	)
	if err != nil {
		return 0, err
	}
	return ptr, nil
}

func (e *Encoder) encodeSymbol(s *result.Symbol, mem Memory, alloc Allocator, allocs *AllocationList, path []string) (uint32, error) {
	if err := checkRecord(s, "symbol"); err != nil {
		return 0, err
	}
	info := e.infos.symbol
	ptr, err := e.allocate(alloc, allocs, info.Size, info.Align, path)
	if err != nil {
		return 0, err
	}
	err = e.writeFields(mem, alloc, allocs, ptr, info, path,
		[]stringField{
			{fieldPattern, s.Pattern},
			{fieldValue1, s.Value1},
			{fieldValue2, s.Value2},
			{fieldValue3, s.Value3},
			{fieldTag, s.Tag},
		},
		[]intField{
			{fieldIdentifier, s.Identifier},
			{fieldType, s.Type},
			{fieldMatchType, s.MatchType},
			{fieldWeight, s.Weight},
			{fieldPriority, s.Priority},
			{fieldAcceptCondition, s.AcceptCondition},
			{fieldFlags, s.Flags},
		},
	)
	if err != nil {
		return 0, err
	}
	return ptr, nil
}

type itemEncoder[T any] func(item *T, mem Memory, alloc Allocator, allocs *AllocationList, path []string) (uint32, error)

// encodeArray writes a varray header and its slot block. The block keeps
// the array's capacity so the consumer sees the same doubling state;
// unused and nil slots hold the null pointer.
func encodeArray[T any](e *Encoder, arr *varray.Array[T], mem Memory, alloc Allocator, allocs *AllocationList, path []string, item itemEncoder[T]) (uint32, error) {
	if arr == nil {
		return 0, nil
	}
	hdr := e.infos.varray
	ptrSize := e.target.PtrSize

	slots := uint32(arr.Cap())
	n := uint32(arr.Len())
	if slots > abi.MaxArrayLen {
		return 0, errors.OutOfBounds(errors.PhaseEncode, path, int(slots), abi.MaxArrayLen)
	}
	blockSize, ok := abi.SafeMulU32(slots, ptrSize)
	if !ok {
		return 0, errors.InvalidData(errors.PhaseEncode, path, "slot block size overflow")
	}

	addr, err := e.allocate(alloc, allocs, hdr.Size, hdr.Align, path)
	if err != nil {
		return 0, err
	}

	var block uint32
	if slots > 0 {
		block, err = e.allocate(alloc, allocs, blockSize, ptrSize, path)
		if err != nil {
			return 0, err
		}
	}

	for i := uint32(0); i < slots; i++ {
		var p uint32
		if i < n {
			if it := arr.Get(int(i)); it != nil {
				p, err = item(it, mem, alloc, allocs, indexPath(path, int(i)))
				if err != nil {
					return 0, err
				}
			}
		}
		if err := e.writePtr(mem, errors.PhaseEncode, block+i*ptrSize, p); err != nil {
			return 0, err
		}
	}

	if err := e.writePtr(mem, errors.PhaseEncode, addr+hdr.FieldOffs[varrayMemory], block); err != nil {
		return 0, err
	}
	if err := e.writePtr(mem, errors.PhaseEncode, addr+hdr.FieldOffs[varrayAllocated], blockSize); err != nil {
		return 0, err
	}
	if err := e.writePtr(mem, errors.PhaseEncode, addr+hdr.FieldOffs[varrayUsed], n*ptrSize); err != nil {
		return 0, err
	}
	if err := e.writeInt(mem, errors.PhaseEncode, addr+hdr.FieldOffs[varrayIndex], int(n)-1, path); err != nil {
		return 0, err
	}
	return addr, nil
}
