package tools

import (
	"fmt"
	"sort"

	"github.com/bnshell/bnshell/script"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError   LintLevel = iota // undeclared/duplicate sysvar, parse errors
	LintWarning                  // unused sysvar, unreachable code
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// LintIssue is a single lint finding. The scripting language's AST carries
// no source position (script/ast.go's Node types are position-free), so
// issues are identified by the sysvar/statement they concern rather than a
// line:column pair.
type LintIssue struct {
	Level   LintLevel
	Name    string // sysvar or label this issue concerns, if any
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("%s: %s [%s]", i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	CheckUnused bool // warn about declared-but-unreferenced sysvars
	CheckReach  bool // warn about statements after return
}

// DefaultLintOptions returns default linter options.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUnused: true, CheckReach: true}
}

// Linter analyzes script source for sysvar and control-flow issues.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	declared   map[string]bool
	referenced map[string]bool
}

// NewLinter creates a new linter.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:    options,
		declared:   make(map[string]bool),
		referenced: make(map[string]bool),
	}
}

// Lint analyzes the given script source code.
func (l *Linter) Lint(input, filename string) []*LintIssue {
	p := script.NewParser(input, filename)
	stmts := p.ParseProgram()

	for _, perr := range p.Errors.Errors {
		l.issues = append(l.issues, &LintIssue{
			Level:   LintError,
			Message: perr.Error(),
			Code:    "PARSE_ERROR",
		})
	}

	l.walkBlock(stmts, true)

	if l.options.CheckUnused {
		l.checkUnusedSysvars()
	}

	sort.Slice(l.issues, func(i, j int) bool {
		return l.issues[i].Name < l.issues[j].Name
	})
	return l.issues
}

// walkBlock walks a statement list, recursing into nested blocks. topLevel
// is true only for the program's own top-level statement list, where sysvar
// declaration and deletion are legal (script/parser.go enforces the same
// restriction at parse time via braceDepth).
func (l *Linter) walkBlock(stmts []script.Node, topLevel bool) {
	for idx, stmt := range stmts {
		if l.options.CheckReach && idx > 0 {
			if _, wasReturn := stmts[idx-1].(*script.ReturnStmt); wasReturn {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintWarning,
					Message: "unreachable statement after return",
					Code:    "UNREACHABLE_CODE",
				})
			}
		}
		l.walkStmt(stmt)
	}
}

func (l *Linter) walkStmt(n script.Node) {
	switch s := n.(type) {
	case *script.VarDecl:
		if l.declared[s.Name] {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Name:    s.Name,
				Message: fmt.Sprintf("sysvar %q already declared", s.Name),
				Code:    "DUPLICATE_SYSVAR",
			})
		}
		l.declared[s.Name] = true
	case *script.DeleteStmt:
		if !l.declared[s.Name] {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Name:    s.Name,
				Message: fmt.Sprintf("delete of undeclared sysvar %q", s.Name),
				Code:    "DELETE_UNDECLARED",
			})
		}
		delete(l.declared, s.Name)
	case *script.ExprStmt:
		l.walkExpr(s.X)
	case *script.ReturnStmt:
		if s.X != nil {
			l.walkExpr(s.X)
		}
	case *script.IfStmt:
		l.walkExpr(s.Cond)
		l.walkBlock(s.Then, false)
		l.walkBlock(s.Else, false)
	case *script.WhileStmt:
		l.walkExpr(s.Cond)
		l.walkBlock(s.Body, false)
	case *script.BlockStmt:
		l.walkBlock(s.Body, false)
	}
}

func (l *Linter) walkExpr(n script.Node) {
	switch e := n.(type) {
	case *script.Ident:
		l.referenced[e.Name] = true
		if !l.declared[e.Name] {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Name:    e.Name,
				Message: fmt.Sprintf("reference to undeclared sysvar %q", e.Name),
				Code:    "UNDEFINED_SYSVAR",
			})
		}
	case *script.MemberExpr:
		l.walkExpr(e.Recv)
	case *script.UnaryExpr:
		l.walkExpr(e.X)
	case *script.BinaryExpr:
		l.walkExpr(e.L)
		l.walkExpr(e.R)
	case *script.AssignExpr:
		l.walkExpr(e.Target)
		l.walkExpr(e.X)
	case *script.CallExpr:
		if e.Recv != nil {
			l.walkExpr(e.Recv)
		}
		for _, arg := range e.Args {
			l.walkExpr(arg)
		}
	}
}

func (l *Linter) checkUnusedSysvars() {
	for name := range l.declared {
		if !l.referenced[name] {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Name:    name,
				Message: fmt.Sprintf("sysvar %q declared but never referenced", name),
				Code:    "UNUSED_SYSVAR",
			})
		}
	}
}
