package tools

import (
	"strings"
	"testing"
)

func TestFormat_VarDecl(t *testing.T) {
	source := `i32 x;`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "i32 x;") {
		t.Errorf("expected declaration preserved, got: %s", result)
	}
}

func TestFormat_IfIndentsBody(t *testing.T) {
	source := `
		i32 x;
		if (x < 1) {
		x = 2;
		}
	`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	var bodyLine string
	for i, line := range lines {
		if strings.Contains(line, "if (") {
			bodyLine = lines[i+1]
		}
	}
	if !strings.HasPrefix(bodyLine, "    x = 2;") {
		t.Errorf("expected 4-space indented body, got %q", bodyLine)
	}
}

func TestFormat_CompactStyleUsesTwoSpaces(t *testing.T) {
	source := `
		i32 x;
		while (x < 1) {
		x = x + 1;
		}
	`

	result, err := FormatStringWithStyle(source, "test.bns", FormatCompact)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "  x = (x + 1);") {
		t.Errorf("expected 2-space indented body in compact style, got: %s", result)
	}
}

func TestFormat_ExpandedStyleBlankBetweenTopLevel(t *testing.T) {
	source := `
		i32 x;
		i32 y;
	`

	result, err := FormatStringWithStyle(source, "test.bns", FormatExpanded)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "i32 x;\n\ni32 y;") {
		t.Errorf("expected blank line between top-level statements, got: %s", result)
	}
}

func TestFormat_NestedWhileInsideIf(t *testing.T) {
	source := `
		i32 x;
		if (x < 1) {
			while (x < 1) {
				x = x + 1;
			}
		}
	`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	var whileLine string
	for _, line := range lines {
		if strings.Contains(line, "while (") {
			whileLine = line
		}
	}
	if !strings.HasPrefix(whileLine, "    while (") {
		t.Errorf("expected while nested one level under if, got %q", whileLine)
	}
}

func TestFormat_BinaryExprFullyParenthesized(t *testing.T) {
	source := `
		i32 x;
		x = 1 + 2 * 3;
	`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "x = (1 + (2 * 3));") {
		t.Errorf("expected fully-parenthesized binary expression, got: %s", result)
	}
}

func TestFormat_MethodCallAndArgs(t *testing.T) {
	source := `
		f64 x;
		f64 y;
		y = x.pow(2.0);
	`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "y = x.pow(2);") {
		t.Errorf("expected method call rendered, got: %s", result)
	}
}

func TestFormat_ReturnWithAndWithoutValue(t *testing.T) {
	source := `
		i32 x;
		if (x < 1) {
			return;
		}
		return x;
	`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "return;") || !strings.Contains(result, "return x;") {
		t.Errorf("expected both bare and value returns rendered, got: %s", result)
	}
}

func TestFormat_DeleteStatement(t *testing.T) {
	source := `
		i32 x;
		delete x;
	`

	result, err := NewFormatter(DefaultFormatOptions()).Format(source, "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "delete x;") {
		t.Errorf("expected delete statement rendered, got: %s", result)
	}
}

func TestFormat_EmptyInput(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format("", "test.bns")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if result != "" {
		t.Errorf("expected empty output for empty input, got %q", result)
	}
}

func TestFormat_ParseErrorPropagates(t *testing.T) {
	_, err := NewFormatter(DefaultFormatOptions()).Format("i32 x", "test.bns")
	if err == nil {
		t.Error("expected parse error for missing semicolon")
	}
}

func TestFormatString_Convenience(t *testing.T) {
	result, err := FormatString(`i32 x;`, "test.bns")
	if err != nil {
		t.Fatalf("FormatString error: %v", err)
	}
	if !strings.Contains(result, "i32 x;") {
		t.Errorf("expected declaration preserved, got: %s", result)
	}
}
