// Package module implements the Function/Module aggregate types and the
// explicit Context spec.md §9 recommends threading through every recursive
// transform call in place of the original's global current-module,
// current-function and report-as-hint globals (spec.md §5).
package module

import (
	"github.com/oisee/spinc/pkg/ast"
	"github.com/oisee/spinc/pkg/symbol"
)

// Language identifies a source frontend. The core never branches on this
// except where spec.md explicitly calls for language-specific behavior
// (case sensitivity, the `_parm_` coalescing quirk).
type Language int

const (
	LangSpin1 Language = iota
	LangSpin2
	LangBasic
	LangC
	LangBF
)

// CaseSensitive reports whether identifiers in this language are compared
// byte-for-byte rather than ASCII-folded (spec.md §3 Identifier, §8).
func (l Language) CaseSensitive() bool {
	switch l {
	case LangC, LangBF:
		return true
	default: // Spin 1, Spin 2, BASIC are case-insensitive
		return false
	}
}

// BEData is the type-erased, backend-owned slot on Module (spec.md §3, §6,
// §9 Design Notes: "one backend owns this slot for the lifetime of one
// compilation of this module"). The core never interprets it.
type BEData any

// Module is {classname, basename, functions, objsyms, conblock, datblock,
// varblock, mainLanguage, volatileVariables, bedata} (spec.md §3).
type Module struct {
	ClassName string
	BaseName  string
	Functions []*Function

	ObjSyms *symbol.Table

	ConBlock *ast.Node // right-spine list of constant declarations
	DatBlock *ast.Node // right-spine list of DAT-section statements
	VarBlock *ast.Node // right-spine list of module-level variable declarations

	MainLanguage       Language
	VolatileVariables  []*symbol.Symbol

	BEData BEData
}

// NewModule creates an empty module rooted at a fresh object-symbol table.
func NewModule(className, baseName string, lang Language) *Module {
	return &Module{
		ClassName:    className,
		BaseName:     baseName,
		ObjSyms:      symbol.NewTable(nil, !lang.CaseSensitive()),
		MainLanguage: lang,
	}
}

// AddFunction appends fn to the module's function list.
func (m *Module) AddFunction(fn *Function) {
	fn.Module = m
	m.Functions = append(m.Functions, fn)
}
