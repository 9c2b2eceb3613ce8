package tools

import (
	"testing"
)

func hasIssue(issues []*LintIssue, code, name string) bool {
	for _, issue := range issues {
		if issue.Code == code && (name == "" || issue.Name == name) {
			return true
		}
	}
	return false
}

func TestLint_UndefinedSysvar(t *testing.T) {
	source := `x = 5;`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "UNDEFINED_SYSVAR", "x") {
		t.Error("expected undefined sysvar error for x")
	}
}

func TestLint_DuplicateSysvar(t *testing.T) {
	source := `
		i32 x;
		i32 x;
	`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "DUPLICATE_SYSVAR", "x") {
		t.Error("expected duplicate sysvar error for x")
	}
}

func TestLint_UnusedSysvar(t *testing.T) {
	source := `i32 x;`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "UNUSED_SYSVAR", "x") {
		t.Error("expected unused sysvar warning for x")
	}
}

func TestLint_UnusedSysvarDisabledByOption(t *testing.T) {
	source := `i32 x;`

	opts := DefaultLintOptions()
	opts.CheckUnused = false
	linter := NewLinter(opts)
	issues := linter.Lint(source, "test.bns")

	if hasIssue(issues, "UNUSED_SYSVAR", "x") {
		t.Error("did not expect unused sysvar warning when CheckUnused is false")
	}
}

func TestLint_UnreachableCode(t *testing.T) {
	source := `
		i32 x;
		return;
		x = 1;
	`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "UNREACHABLE_CODE", "") {
		t.Error("expected unreachable code warning after return")
	}
}

func TestLint_DeleteUndeclared(t *testing.T) {
	source := `delete x;`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "DELETE_UNDECLARED", "x") {
		t.Error("expected delete-undeclared error for x")
	}
}

func TestLint_DeclareUseDelete_NoIssues(t *testing.T) {
	source := `
		i32 x;
		x = 5;
		delete x;
	`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	for _, issue := range issues {
		if issue.Level == LintError {
			t.Errorf("unexpected error: %v", issue)
		}
	}
}

func TestLint_RedeclareAfterDelete_NoDuplicate(t *testing.T) {
	source := `
		i32 x;
		delete x;
		i32 x;
		x = 1;
	`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if hasIssue(issues, "DUPLICATE_SYSVAR", "x") {
		t.Error("did not expect duplicate sysvar after delete+redeclare")
	}
}

func TestLint_MethodCallOnSysvar(t *testing.T) {
	source := `
		f64 x;
		x = 1.5;
		x.sqrt();
	`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	for _, issue := range issues {
		if issue.Level == LintError {
			t.Errorf("unexpected error: %v", issue)
		}
	}
}

func TestLint_WhileAndIfBodiesChecked(t *testing.T) {
	source := `
		i32 x;
		while (x < 10) {
			y = 1;
		}
		if (x < 1) {
			z = 1;
		}
	`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "UNDEFINED_SYSVAR", "y") {
		t.Error("expected undefined sysvar error for y inside while body")
	}
	if !hasIssue(issues, "UNDEFINED_SYSVAR", "z") {
		t.Error("expected undefined sysvar error for z inside if body")
	}
}

func TestLint_ParseError(t *testing.T) {
	source := `i32 x`

	linter := NewLinter(DefaultLintOptions())
	issues := linter.Lint(source, "test.bns")

	if !hasIssue(issues, "PARSE_ERROR", "") {
		t.Error("expected a parse error for missing semicolon")
	}
}

func TestLintLevel_String(t *testing.T) {
	if LintError.String() != "error" {
		t.Errorf("expected \"error\", got %q", LintError.String())
	}
	if LintWarning.String() != "warning" {
		t.Errorf("expected \"warning\", got %q", LintWarning.String())
	}
}
