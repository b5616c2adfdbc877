package layout

import (
	"github.com/wippyai/varnam-abi/transcoder/internal/abi"
	"go.bytecodealliance.org/wit"
)

// Target describes the data model of the consumer.
type Target struct {
	Name    string
	PtrSize uint32
	IntSize uint32
}

var (
	Wasm32 = Target{Name: "wasm32", PtrSize: 4, IntSize: 4}
	LP64   = Target{Name: "lp64", PtrSize: 8, IntSize: 4}
)

// Info is the size, alignment and field offsets of one type.
type Info struct {
	Size      uint32
	Align     uint32
	FieldOffs map[string]uint32
}

// Varray header field names.
const (
	FieldMemory    = "memory"
	FieldAllocated = "allocated"
	FieldUsed      = "used"
	FieldIndex     = "index"
)

type Calculator struct {
	target Target
	cache  map[*wit.TypeDef]Info
	varray Info
}

func NewCalculator(target Target) *Calculator {
	c := &Calculator{
		target: target,
		cache:  make(map[*wit.TypeDef]Info),
	}
	c.varray = c.calculateVarray()
	return c
}

func (c *Calculator) Target() Target {
	return c.target
}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.Bool, wit.Char:
		return Info{Size: c.target.IntSize, Align: c.target.IntSize}
	case wit.F32:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case wit.String:
		return c.pointer()
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{Size: 0, Align: 1}
	}
}

// Varray returns the layout of the varray header.
func (c *Calculator) Varray() Info {
	return c.varray
}

func (c *Calculator) pointer() Info {
	return Info{Size: c.target.PtrSize, Align: c.target.PtrSize}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		info = c.calculateRecord(kind)
	case *wit.List:
		info = c.pointer() // varray*
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

func (c *Calculator) calculateRecord(r *wit.Record) Info {
	if len(r.Fields) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fields := make([]sized, len(r.Fields))
	for i, field := range r.Fields {
		fields[i] = sized{name: field.Name, info: c.Calculate(field.Type)}
	}
	return pack(fields)
}

func (c *Calculator) calculateVarray() Info {
	ptr := c.pointer()
	size := Info{Size: c.target.PtrSize, Align: c.target.PtrSize} // size_t
	return pack([]sized{
		{FieldMemory, ptr},
		{FieldAllocated, size},
		{FieldUsed, size},
		{FieldIndex, Info{Size: c.target.IntSize, Align: c.target.IntSize}},
	})
}

type sized struct {
	name string
	info Info
}

func pack(fields []sized) Info {
	fieldOffs := make(map[string]uint32, len(fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, f := range fields {
		offset = abi.AlignTo(offset, f.info.Align)
		fieldOffs[f.name] = offset

		if f.info.Align > maxAlign {
			maxAlign = f.info.Align
		}

		offset += f.info.Size
	}

	return Info{
		Size:      abi.AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
}
