package transcoder

import (
	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/varray"
)

// Decoder reads C layout records out of linear memory into fresh Go
// records. The memory is not modified; the caller still owns it.
type Decoder struct {
	accessor
	infos recordInfos
}

func NewDecoder(target Target) *Decoder {
	return &Decoder{
		accessor: accessor{target: target},
		infos:    newRecordInfos(NewLayoutCalculator(target)),
	}
}

// DecodeString copies the NUL-terminated string at addr. The null
// pointer decodes as nil.
func (d *Decoder) DecodeString(addr uint32, mem Memory) (*own.String, error) {
	if addr == 0 {
		return nil, nil
	}
	n, err := d.strlen(mem, errors.PhaseDecode, addr)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return own.NewString(""), nil
	}
	data, err := mem.Read(addr, n)
	if err != nil {
		return nil, memErr(errors.PhaseDecode, addr, err)
	}
	return own.NewString(string(data)), nil
}

func (d *Decoder) stringField(mem Memory, base uint32, info LayoutInfo, name string) (*own.String, error) {
	p, err := d.readPtr(mem, errors.PhaseDecode, base+info.FieldOffs[name])
	if err != nil {
		return nil, err
	}
	return d.DecodeString(p, mem)
}

func (d *Decoder) intField(mem Memory, base uint32, info LayoutInfo, name string) (int, error) {
	return d.readInt(mem, errors.PhaseDecode, base+info.FieldOffs[name])
}

// fieldReader collects the first error across a run of field reads.
type fieldReader struct {
	d    *Decoder
	mem  Memory
	base uint32
	info LayoutInfo
	err  error
}

func (r *fieldReader) str(name string) *own.String {
	if r.err != nil {
		return nil
	}
	var s *own.String
	s, r.err = r.d.stringField(r.mem, r.base, r.info, name)
	return s
}

func (r *fieldReader) num(name string) int {
	if r.err != nil {
		return 0
	}
	var v int
	v, r.err = r.d.intField(r.mem, r.base, r.info, name)
	return v
}

func (d *Decoder) reader(mem Memory, base uint32, info LayoutInfo) *fieldReader {
	return &fieldReader{d: d, mem: mem, base: base, info: info}
}

func (d *Decoder) DecodeSuggestion(addr uint32, mem Memory) (*result.Suggestion, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "suggestion")
	}
	r := d.reader(mem, addr, d.infos.suggestion)
	word := r.str(fieldWord)
	weight := r.num(fieldWeight)
	learnedOn := r.num(fieldLearnedOn)
	if r.err != nil {
		word.Free()
		return nil, r.err
	}
	return result.NewSuggestion(word, weight, learnedOn), nil
}

func (d *Decoder) DecodeResult(addr uint32, mem Memory) (*result.TransliterationResult, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "transliteration-result")
	}
	info := d.infos.result
	var arrays [result.NumCategories]*varray.Array[result.Suggestion]
	for i, c := range result.Categories() {
		p, err := d.readPtr(mem, errors.PhaseDecode, addr+info.FieldOffs[c.String()])
		if err == nil {
			arrays[i], err = decodeArray(d, p, mem, d.DecodeSuggestion)
		}
		if err != nil {
			for _, arr := range arrays[:i] {
				result.DestroySuggestions(arr)
			}
			return nil, withPath(err, c.String())
		}
	}
	return result.NewTransliterationResult(arrays[0], arrays[1], arrays[2], arrays[3], arrays[4], arrays[5]), nil
}

func (d *Decoder) DecodeSchemeDetails(addr uint32, mem Memory) (*result.SchemeDetails, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "scheme-details")
	}
	r := d.reader(mem, addr, d.infos.scheme)
	details := result.NewSchemeDetails(
		r.str(fieldIdentifier),
		r.str(fieldLangCode),
		r.str(fieldDisplayName),
		r.str(fieldAuthor),
		r.str(fieldCompiledDate),
		r.num(fieldIsStable) != 0,
	)
	if r.err != nil {
		details.Destroy()
		return nil, r.err
	}
	return details, nil
}

func (d *Decoder) DecodeSymbol(addr uint32, mem Memory) (*result.Symbol, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "symbol")
	}
	r := d.reader(mem, addr, d.infos.symbol)
	sym := result.NewSymbol(
		r.num(fieldIdentifier),
		r.num(fieldType),
		r.num(fieldMatchType),
		r.str(fieldPattern),
		r.str(fieldValue1),
		r.str(fieldValue2),
		r.str(fieldValue3),
		r.str(fieldTag),
		r.num(fieldWeight),
		r.num(fieldPriority),
		r.num(fieldAcceptCondition),
		r.num(fieldFlags),
	)
	if r.err != nil {
		sym.Destroy()
		return nil, r.err
	}
	return sym, nil
}

// DecodeSuggestionArray reads the varray at addr. The null pointer
// decodes as a nil array.
func (d *Decoder) DecodeSuggestionArray(addr uint32, mem Memory) (*varray.Array[result.Suggestion], error) {
	return decodeArray(d, addr, mem, d.DecodeSuggestion)
}

func (d *Decoder) DecodeSuggestionList(addr uint32, mem Memory) (*result.SuggestionList, error) {
	arr, err := decodeArray(d, addr, mem, d.DecodeSuggestion)
	if err != nil {
		return nil, err
	}
	return result.NewSuggestionList(arr), nil
}

func (d *Decoder) DecodeSchemeDetailsList(addr uint32, mem Memory) (*result.SchemeDetailsList, error) {
	arr, err := decodeArray(d, addr, mem, d.DecodeSchemeDetails)
	if err != nil {
		return nil, err
	}
	return result.NewSchemeDetailsList(arr), nil
}

func (d *Decoder) DecodeSymbolList(addr uint32, mem Memory) (*result.SymbolList, error) {
	arr, err := decodeArray(d, addr, mem, d.DecodeSymbol)
	if err != nil {
		return nil, err
	}
	return result.NewSymbolList(arr), nil
}

// DecodeRecord decodes the record of the given kind at addr.
func (d *Decoder) DecodeRecord(kind result.Kind, addr uint32, mem Memory) (result.Record, error) {
	switch kind {
	case result.KindSuggestion:
		return d.DecodeSuggestion(addr, mem)
	case result.KindTransliterationResult:
		return d.DecodeResult(addr, mem)
	case result.KindSchemeDetails:
		return d.DecodeSchemeDetails(addr, mem)
	case result.KindSymbol:
		return d.DecodeSymbol(addr, mem)
	case result.KindSuggestionList:
		return d.DecodeSuggestionList(addr, mem)
	case result.KindSchemeDetailsList:
		return d.DecodeSchemeDetailsList(addr, mem)
	case result.KindSymbolList:
		return d.DecodeSymbolList(addr, mem)
	default:
		return nil, errors.Unsupported(errors.PhaseDecode, "record kind "+kind.String())
	}
}

// ArrayLength returns the element count of the varray at addr; the null
// pointer has length 0.
func (d *Decoder) ArrayLength(addr uint32, mem Memory) (int, error) {
	if addr == 0 {
		return 0, nil
	}
	h, err := d.readHeader(mem, errors.PhaseDecode, addr, d.infos.varray)
	if err != nil {
		return 0, err
	}
	return h.length(), nil
}

// ArrayGet returns the item pointer in slot i of the varray at addr. An
// out of range index returns 0 without error.
func (d *Decoder) ArrayGet(addr uint32, i int, mem Memory) (uint32, error) {
	if addr == 0 || i < 0 {
		return 0, nil
	}
	h, err := d.readHeader(mem, errors.PhaseDecode, addr, d.infos.varray)
	if err != nil {
		return 0, err
	}
	if i >= h.length() {
		return 0, nil
	}
	return d.readPtr(mem, errors.PhaseDecode, h.memory+uint32(i)*d.target.PtrSize)
}

type itemDecoder[T any] func(addr uint32, mem Memory) (*T, error)

func decodeArray[T any](d *Decoder, addr uint32, mem Memory, item itemDecoder[T]) (*varray.Array[T], error) {
	if addr == 0 {
		return nil, nil
	}
	h, err := d.readHeader(mem, errors.PhaseDecode, addr, d.infos.varray)
	if err != nil {
		return nil, err
	}

	arr := varray.New[T]()
	for i := 0; i < h.length(); i++ {
		p, err := d.readPtr(mem, errors.PhaseDecode, h.memory+uint32(i)*d.target.PtrSize)
		var it *T
		if err == nil && p != 0 {
			it, err = item(p, mem)
		}
		if err != nil {
			arr.Release()
			return nil, withPath(err, indexPath(nil, i)...)
		}
		if it == nil {
			// keep the slot index for a null item
			arr.Push(new(T))
			arr.Insert(i, nil)
			continue
		}
		arr.Push(it)
	}
	return arr, nil
}

func withPath(err error, elems ...string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append(append([]string{}, elems...), e.Path...)
	}
	return err
}
