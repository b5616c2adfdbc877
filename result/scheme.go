package result

import (
	"github.com/wippyai/varnam-abi/own"
	"github.com/wippyai/varnam-abi/varray"
)

// SchemeDetails describes a transliteration scheme.
type SchemeDetails struct {
	Identifier   *own.String
	LangCode     *own.String
	DisplayName  *own.String
	Author       *own.String
	CompiledDate *own.String
	IsStable     bool
	released     bool
}

// NewSchemeDetails takes ownership of all five strings.
func NewSchemeDetails(identifier, langCode, displayName, author, compiledDate *own.String, isStable bool) *SchemeDetails {
	return &SchemeDetails{
		Identifier:   identifier,
		LangCode:     langCode,
		DisplayName:  displayName,
		Author:       author,
		CompiledDate: compiledDate,
		IsStable:     isStable,
	}
}

func (d *SchemeDetails) Kind() Kind { return KindSchemeDetails }

func (d *SchemeDetails) strings() []**own.String {
	return []**own.String{&d.Identifier, &d.LangCode, &d.DisplayName, &d.Author, &d.CompiledDate}
}

// Destroy frees every owned string.
func (d *SchemeDetails) Destroy() {
	if d == nil || d.released {
		return
	}
	for _, s := range d.strings() {
		(*s).Free()
		*s = nil
	}
	d.released = true
}

func (d *SchemeDetails) Released() bool {
	return d != nil && d.released
}

// DestroySchemeDetailsList frees arr and every SchemeDetails in it.
func DestroySchemeDetailsList(arr *varray.Array[SchemeDetails]) {
	arr.Free((*SchemeDetails).Destroy)
}
