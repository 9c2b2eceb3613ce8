package tools

import (
	"fmt"
	"strings"

	"github.com/bnshell/bnshell/script"
)

// FormatStyle selects an indentation preset.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // 4-space indent, braces on the same line
	FormatCompact                     // 2-space indent, no blank line between top-level statements
	FormatExpanded                    // 4-space indent, blank line between every top-level statement
)

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	Style        FormatStyle
	IndentSize   int  // spaces per nesting level
	BlankBetween bool // blank line between top-level statements
}

// DefaultFormatOptions returns default formatter options.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatDefault, IndentSize: 4, BlankBetween: false}
}

// CompactFormatOptions returns options for compact formatting.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatCompact, IndentSize: 2, BlankBetween: false}
}

// ExpandedFormatOptions returns options for expanded formatting.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatExpanded, IndentSize: 4, BlankBetween: true}
}

// Formatter re-serializes parsed script source with consistent
// indentation. Unlike the teacher's column-aligned assembly formatter
// (mnemonic/operand/comment tab stops), this language is brace-delimited,
// so formatting means indenting nested blocks rather than aligning
// columns.
type Formatter struct {
	options *FormatOptions
	output  strings.Builder
}

// NewFormatter creates a new formatter.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format formats the given script source code.
func (f *Formatter) Format(input, filename string) (string, error) {
	p := script.NewParser(input, filename)
	stmts := p.ParseProgram()
	if p.Errors.HasErrors() {
		return "", fmt.Errorf("parse error: %w", p.Errors)
	}

	f.output.Reset()
	f.formatBlock(stmts, 0, true)
	return f.output.String(), nil
}

func (f *Formatter) indent(depth int) string {
	return strings.Repeat(" ", depth*f.options.IndentSize)
}

func (f *Formatter) formatBlock(stmts []script.Node, depth int, topLevel bool) {
	for i, stmt := range stmts {
		if topLevel && f.options.BlankBetween && i > 0 {
			f.output.WriteString("\n")
		}
		f.formatStmt(stmt, depth)
	}
}

func (f *Formatter) formatStmt(n script.Node, depth int) {
	ind := f.indent(depth)
	switch s := n.(type) {
	case *script.VarDecl:
		fmt.Fprintf(&f.output, "%s%s %s;\n", ind, s.Type, s.Name)
	case *script.DeleteStmt:
		fmt.Fprintf(&f.output, "%sdelete %s;\n", ind, s.Name)
	case *script.ExprStmt:
		fmt.Fprintf(&f.output, "%s%s;\n", ind, f.formatExpr(s.X))
	case *script.ReturnStmt:
		if s.X != nil {
			fmt.Fprintf(&f.output, "%sreturn %s;\n", ind, f.formatExpr(s.X))
		} else {
			fmt.Fprintf(&f.output, "%sreturn;\n", ind)
		}
	case *script.IfStmt:
		fmt.Fprintf(&f.output, "%sif (%s) {\n", ind, f.formatExpr(s.Cond))
		f.formatBlock(s.Then, depth+1, false)
		if len(s.Else) > 0 {
			fmt.Fprintf(&f.output, "%s} else {\n", ind)
			f.formatBlock(s.Else, depth+1, false)
		}
		fmt.Fprintf(&f.output, "%s}\n", ind)
	case *script.WhileStmt:
		fmt.Fprintf(&f.output, "%swhile (%s) {\n", ind, f.formatExpr(s.Cond))
		f.formatBlock(s.Body, depth+1, false)
		fmt.Fprintf(&f.output, "%s}\n", ind)
	case *script.BlockStmt:
		fmt.Fprintf(&f.output, "%s{\n", ind)
		f.formatBlock(s.Body, depth+1, false)
		fmt.Fprintf(&f.output, "%s}\n", ind)
	}
}

// formatExpr renders an expression as a single line. Parentheses are
// dropped from the AST (script/parser.go's precedence ladder already
// resolved them), so nested binary expressions are always
// fully-parenthesized on output to keep the result unambiguous.
func (f *Formatter) formatExpr(n script.Node) string {
	switch e := n.(type) {
	case *script.NumberLit:
		return formatNumberLit(e)
	case *script.StringLit:
		return fmt.Sprintf("%q", e.Val)
	case *script.Ident:
		return e.Name
	case *script.MemberExpr:
		return fmt.Sprintf("%s.%s", f.formatExpr(e.Recv), e.Name)
	case *script.UnaryExpr:
		return fmt.Sprintf("%s%s", opSymbol(e.Op), f.formatExpr(e.X))
	case *script.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", f.formatExpr(e.L), opSymbol(e.Op), f.formatExpr(e.R))
	case *script.AssignExpr:
		return fmt.Sprintf("%s = %s", f.formatExpr(e.Target), f.formatExpr(e.X))
	case *script.CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = f.formatExpr(arg)
		}
		if e.Recv != nil {
			return fmt.Sprintf("%s.%s(%s)", f.formatExpr(e.Recv), e.Name, strings.Join(args, ", "))
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
	}
	return ""
}

func formatNumberLit(n *script.NumberLit) string {
	switch {
	case n.Type == script.BaseF32 || n.Type == script.BaseF64:
		return fmt.Sprintf("%g", n.FVal)
	case n.Type == script.BaseChar:
		return fmt.Sprintf("'%c'", rune(n.IVal))
	default:
		return fmt.Sprintf("%d", n.IVal)
	}
}

func opSymbol(tt script.TokenType) string {
	switch tt {
	case script.TokenPlus:
		return "+"
	case script.TokenMinus:
		return "-"
	case script.TokenStar:
		return "*"
	case script.TokenSlash:
		return "/"
	case script.TokenPercent:
		return "%"
	case script.TokenAmp:
		return "&"
	case script.TokenPipe:
		return "|"
	case script.TokenCaret:
		return "^"
	case script.TokenTilde:
		return "~"
	case script.TokenBang:
		return "!"
	case script.TokenShl:
		return "<<"
	case script.TokenShr:
		return ">>"
	case script.TokenRol:
		return "<<<"
	case script.TokenRor:
		return ">>>"
	case script.TokenEq:
		return "=="
	case script.TokenNeq:
		return "!="
	case script.TokenLt:
		return "<"
	case script.TokenLe:
		return "<="
	case script.TokenGt:
		return ">"
	case script.TokenGe:
		return ">="
	default:
		return "?"
	}
}

// FormatString is a convenience function to format a string with default options.
func FormatString(input, filename string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(input, filename)
}

// FormatStringWithStyle formats a string with the specified style.
func FormatStringWithStyle(input, filename string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(input, filename)
}
