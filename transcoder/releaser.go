package transcoder

import (
	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/result"
)

// Releaser runs the destructor protocol against records in linear
// memory. Each pointer field is freed and then overwritten with the null
// pointer; slot blocks are freed after the items they reference, and the
// record itself last. Address 0 is a no-op everywhere. Only ReleaseRecord
// checks mem and alloc for nil.
//
// A Releaser cannot tell a freed record from a live one. Releasing the
// same address twice is a caller error; a tracking Allocator such as
// engine.Heap reports it.
type Releaser struct {
	accessor
	infos recordInfos
}

func NewReleaser(target Target) *Releaser {
	return &Releaser{
		accessor: accessor{target: target},
		infos:    newRecordInfos(NewLayoutCalculator(target)),
	}
}

type itemReleaser func(addr uint32, mem Memory, alloc Allocator) error

// ReleaseStringField frees the char* stored at field and nulls it.
func (r *Releaser) ReleaseStringField(field uint32, mem Memory, alloc Allocator) error {
	p, err := r.readPtr(mem, errors.PhaseRelease, field)
	if err != nil || p == 0 {
		return err
	}
	n, err := r.strlen(mem, errors.PhaseRelease, p)
	if err != nil {
		return err
	}
	alloc.Free(p, n+1, 1)
	return r.writePtr(mem, errors.PhaseRelease, field, 0)
}

func (r *Releaser) releaseStrings(base uint32, info LayoutInfo, mem Memory, alloc Allocator, names ...string) error {
	for _, name := range names {
		if err := r.ReleaseStringField(base+info.FieldOffs[name], mem, alloc); err != nil {
			return withPath(err, name)
		}
	}
	return nil
}

func (r *Releaser) ReleaseSuggestion(addr uint32, mem Memory, alloc Allocator) error {
	if addr == 0 {
		return nil
	}
	info := r.infos.suggestion
	if err := r.releaseStrings(addr, info, mem, alloc, fieldWord); err != nil {
		return err
	}
	alloc.Free(addr, info.Size, info.Align)
	return nil
}

// ReleaseResult releases all six arrays of the TransliterationResult at
// addr, every Suggestion they hold, and the record.
func (r *Releaser) ReleaseResult(addr uint32, mem Memory, alloc Allocator) error {
	if addr == 0 {
		return nil
	}
	info := r.infos.result
	for _, c := range result.Categories() {
		name := c.String()
		if err := r.releaseArrayField(addr+info.FieldOffs[name], mem, alloc, r.ReleaseSuggestion); err != nil {
			return withPath(err, name)
		}
	}
	alloc.Free(addr, info.Size, info.Align)
	return nil
}

func (r *Releaser) ReleaseSchemeDetails(addr uint32, mem Memory, alloc Allocator) error {
	if addr == 0 {
		return nil
	}
	info := r.infos.scheme
	err := r.releaseStrings(addr, info, mem, alloc,
		fieldIdentifier, fieldLangCode, fieldDisplayName, fieldAuthor, fieldCompiledDate)
	if err != nil {
		return err
	}
	alloc.Free(addr, info.Size, info.Align)
	return nil
}

func (r *Releaser) ReleaseSymbol(addr uint32, mem Memory, alloc Allocator) error {
	if addr == 0 {
		return nil
	}
	info := r.infos.symbol
	err := r.releaseStrings(addr, info, mem, alloc,
		fieldPattern, fieldValue1, fieldValue2, fieldValue3, fieldTag)
	if err != nil {
		return err
	}
	alloc.Free(addr, info.Size, info.Align)
	return nil
}

// ReleaseSuggestionList releases the varray at addr and every Suggestion
// in it.
func (r *Releaser) ReleaseSuggestionList(addr uint32, mem Memory, alloc Allocator) error {
	return r.releaseArray(addr, mem, alloc, r.ReleaseSuggestion)
}

func (r *Releaser) ReleaseSchemeDetailsList(addr uint32, mem Memory, alloc Allocator) error {
	return r.releaseArray(addr, mem, alloc, r.ReleaseSchemeDetails)
}

func (r *Releaser) ReleaseSymbolList(addr uint32, mem Memory, alloc Allocator) error {
	return r.releaseArray(addr, mem, alloc, r.ReleaseSymbol)
}

// ReleaseRecord dispatches on kind.
func (r *Releaser) ReleaseRecord(kind result.Kind, addr uint32, mem Memory, alloc Allocator) error {
	if mem == nil {
		return errors.NotInitialized(errors.PhaseRelease, "memory")
	}
	if alloc == nil {
		return errors.NotInitialized(errors.PhaseRelease, "allocator")
	}
	var release itemReleaser
	switch kind {
	case result.KindSuggestion:
		release = r.ReleaseSuggestion
	case result.KindTransliterationResult:
		release = r.ReleaseResult
	case result.KindSchemeDetails:
		release = r.ReleaseSchemeDetails
	case result.KindSymbol:
		release = r.ReleaseSymbol
	case result.KindSuggestionList:
		release = r.ReleaseSuggestionList
	case result.KindSchemeDetailsList:
		release = r.ReleaseSchemeDetailsList
	case result.KindSymbolList:
		release = r.ReleaseSymbolList
	default:
		return errors.Unsupported(errors.PhaseRelease, "record kind "+kind.String())
	}
	return release(addr, mem, alloc)
}

func (r *Releaser) releaseArrayField(field uint32, mem Memory, alloc Allocator, item itemReleaser) error {
	p, err := r.readPtr(mem, errors.PhaseRelease, field)
	if err != nil || p == 0 {
		return err
	}
	if err := r.releaseArray(p, mem, alloc, item); err != nil {
		return err
	}
	return r.writePtr(mem, errors.PhaseRelease, field, 0)
}

// releaseArray destroys each non-null item in index order, then frees
// the slot block and the header.
func (r *Releaser) releaseArray(addr uint32, mem Memory, alloc Allocator, item itemReleaser) error {
	if addr == 0 {
		return nil
	}
	hdr := r.infos.varray
	h, err := r.readHeader(mem, errors.PhaseRelease, addr, hdr)
	if err != nil {
		return err
	}

	ptrSize := r.target.PtrSize
	for i := 0; i < h.length(); i++ {
		slot := h.memory + uint32(i)*ptrSize
		p, err := r.readPtr(mem, errors.PhaseRelease, slot)
		if err != nil {
			return err
		}
		if p == 0 {
			continue
		}
		if err := item(p, mem, alloc); err != nil {
			return withPath(err, indexPath(nil, i)...)
		}
		if err := r.writePtr(mem, errors.PhaseRelease, slot, 0); err != nil {
			return err
		}
	}

	if h.memory != 0 {
		alloc.Free(h.memory, h.allocated, ptrSize)
	}
	if err := r.writePtr(mem, errors.PhaseRelease, addr+hdr.FieldOffs[varrayMemory], 0); err != nil {
		return err
	}
	alloc.Free(addr, hdr.Size, hdr.Align)
	return nil
}
