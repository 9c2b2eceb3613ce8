package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnshell/bnshell/script"
)

// ReferenceType indicates how a sysvar is used.
type ReferenceType int

const (
	RefDeclaration ReferenceType = iota // VarDecl
	RefRead                             // appears in a non-assignment expression position
	RefWrite                            // assignment target
	RefMethodCall                       // receiver of x.method(...)
	RefDelete                           // delete statement
)

func (r ReferenceType) String() string {
	switch r {
	case RefDeclaration:
		return "declaration"
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	case RefMethodCall:
		return "method-call"
	case RefDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Reference records one occurrence of a sysvar.
type Reference struct {
	Type ReferenceType
}

// Symbol is a sysvar and every reference to it found in the script.
type Symbol struct {
	Name       string
	Type       script.BaseType
	Declared   bool
	References []*Reference
}

// XRefGenerator builds cross-reference information for a script's sysvars.
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator creates a new cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate builds cross-reference information from script source.
func (x *XRefGenerator) Generate(input, filename string) (map[string]*Symbol, error) {
	p := script.NewParser(input, filename)
	stmts := p.ParseProgram()
	if p.Errors.HasErrors() {
		return nil, fmt.Errorf("parse error: %w", p.Errors)
	}

	x.walkBlock(stmts)
	return x.symbols, nil
}

func (x *XRefGenerator) symbol(name string) *Symbol {
	sym, ok := x.symbols[name]
	if !ok {
		sym = &Symbol{Name: name}
		x.symbols[name] = sym
	}
	return sym
}

func (x *XRefGenerator) walkBlock(stmts []script.Node) {
	for _, stmt := range stmts {
		x.walkStmt(stmt)
	}
}

func (x *XRefGenerator) walkStmt(n script.Node) {
	switch s := n.(type) {
	case *script.VarDecl:
		sym := x.symbol(s.Name)
		sym.Declared = true
		sym.Type = s.Type
		sym.References = append(sym.References, &Reference{Type: RefDeclaration})
	case *script.DeleteStmt:
		sym := x.symbol(s.Name)
		sym.References = append(sym.References, &Reference{Type: RefDelete})
	case *script.ExprStmt:
		x.walkExpr(s.X, RefRead)
	case *script.ReturnStmt:
		if s.X != nil {
			x.walkExpr(s.X, RefRead)
		}
	case *script.IfStmt:
		x.walkExpr(s.Cond, RefRead)
		x.walkBlock(s.Then)
		x.walkBlock(s.Else)
	case *script.WhileStmt:
		x.walkExpr(s.Cond, RefRead)
		x.walkBlock(s.Body)
	case *script.BlockStmt:
		x.walkBlock(s.Body)
	}
}

// walkExpr walks an expression, attributing plain-Ident references the
// given RefType unless a more specific context (assignment target, method
// receiver) overrides it.
func (x *XRefGenerator) walkExpr(n script.Node, asType ReferenceType) {
	switch e := n.(type) {
	case *script.Ident:
		sym := x.symbol(e.Name)
		sym.References = append(sym.References, &Reference{Type: asType})
	case *script.MemberExpr:
		x.walkExpr(e.Recv, RefRead)
	case *script.UnaryExpr:
		x.walkExpr(e.X, RefRead)
	case *script.BinaryExpr:
		x.walkExpr(e.L, RefRead)
		x.walkExpr(e.R, RefRead)
	case *script.AssignExpr:
		x.walkExpr(e.Target, RefWrite)
		x.walkExpr(e.X, RefRead)
	case *script.CallExpr:
		if e.Recv != nil {
			x.walkExpr(e.Recv, RefMethodCall)
		}
		for _, arg := range e.Args {
			x.walkExpr(arg, RefRead)
		}
	}
}

// XRefReport renders cross-reference information as text.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport creates a report from a symbol map, sorted by name.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &XRefReport{symbols: sorted}
}

func (r *XRefReport) String() string {
	var sb strings.Builder
	sb.WriteString("Sysvar Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(sym.Name)
		if sym.Declared {
			sb.WriteString(fmt.Sprintf(" [%s]", sym.Type))
		} else {
			sb.WriteString(" [undeclared]")
		}
		sb.WriteString("\n")

		counts := make(map[ReferenceType]int)
		for _, ref := range sym.References {
			counts[ref.Type]++
		}
		for _, rt := range []ReferenceType{RefDeclaration, RefRead, RefWrite, RefMethodCall, RefDelete} {
			if n := counts[rt]; n > 0 {
				sb.WriteString(fmt.Sprintf("  %-12s: %d\n", rt, n))
			}
		}
		sb.WriteString("\n")
	}

	declared, undeclared := 0, 0
	for _, sym := range r.symbols {
		if sym.Declared {
			declared++
		} else {
			undeclared++
		}
	}
	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total sysvars: %d\n", len(r.symbols)))
	sb.WriteString(fmt.Sprintf("Declared:      %d\n", declared))
	sb.WriteString(fmt.Sprintf("Undeclared:    %d\n", undeclared))

	return sb.String()
}

// GenerateXRef is a convenience function producing a text cross-reference
// report in one call.
func GenerateXRef(input, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(input, filename)
	if err != nil {
		return "", err
	}
	return NewXRefReport(symbols).String(), nil
}

// GetUndeclaredSymbols returns sysvars referenced but never declared.
func (x *XRefGenerator) GetUndeclaredSymbols() []*Symbol {
	var undeclared []*Symbol
	for _, sym := range x.symbols {
		if !sym.Declared {
			undeclared = append(undeclared, sym)
		}
	}
	sort.Slice(undeclared, func(i, j int) bool { return undeclared[i].Name < undeclared[j].Name })
	return undeclared
}

// GetUnusedSymbols returns sysvars declared but never referenced again.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, sym := range x.symbols {
		if sym.Declared && len(sym.References) == 1 {
			unused = append(unused, sym)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name < unused[j].Name })
	return unused
}
