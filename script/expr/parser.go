package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnshell/bnshell/script"
)

// Parser evaluates a tokenized REPL expression by precedence climbing,
// resolving bare symbols against a script.Namespace and $N references
// against a caller-supplied result history.
type Parser struct {
	tokens  []Token
	pos     int
	ns      *script.Namespace
	history []script.Value
}

// NewParser creates a Parser over tokens, resolving symbols in ns and
// $N references against history (history[0] is result $1, etc.).
func NewParser(tokens []Token, ns *script.Namespace, history []script.Value) *Parser {
	return &Parser{tokens: tokens, ns: ns, history: history}
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() { p.pos++ }

func precedence(op string) int {
	switch op {
	case "|":
		return 1
	case "^":
		return 2
	case "&":
		return 3
	case "<<", ">>":
		return 4
	case "+", "-":
		return 5
	case "*", "/", "%":
		return 6
	default:
		return 0
	}
}

// Parse evaluates the full expression and returns its value.
func (p *Parser) Parse() (script.Value, error) {
	v, err := p.parseExpr(0)
	if err != nil {
		return script.Value{}, err
	}
	if p.current().Type != TokenEOF {
		return script.Value{}, fmt.Errorf("unexpected token: %q", p.current().Value)
	}
	return v, nil
}

func (p *Parser) parseExpr(minPrec int) (script.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return script.Value{}, err
	}
	for {
		tok := p.current()
		if tok.Type != TokenOperator {
			break
		}
		prec := precedence(tok.Value)
		if prec < minPrec || prec == 0 {
			break
		}
		op := tok.Value
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return script.Value{}, err
		}
		left, err = applyOperator(left, right, op)
		if err != nil {
			return script.Value{}, err
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (script.Value, error) {
	tok := p.current()
	if tok.Type == TokenOperator && (tok.Value == "-" || tok.Value == "~") {
		p.advance()
		v, err := p.parseUnary()
		if err != nil {
			return script.Value{}, err
		}
		if tok.Value == "-" {
			return script.IntValue(v.Type, -v.AsInt64()), nil
		}
		return script.UintValue(v.Type, ^v.U), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (script.Value, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return parseNumber(tok.Value)
	case TokenSymbol:
		p.advance()
		sv, err := p.ns.Lookup(tok.Value)
		if err != nil {
			return script.Value{}, err
		}
		return sv.Value, nil
	case TokenValueRef:
		p.advance()
		n, err := strconv.Atoi(strings.TrimPrefix(tok.Value, "$"))
		if err != nil || n < 1 || n > len(p.history) {
			return script.Value{}, fmt.Errorf("invalid value reference: %s", tok.Value)
		}
		return p.history[n-1], nil
	case TokenLParen:
		p.advance()
		v, err := p.parseExpr(0)
		if err != nil {
			return script.Value{}, err
		}
		if p.current().Type != TokenRParen {
			return script.Value{}, fmt.Errorf("expected ')', got %q", p.current().Value)
		}
		p.advance()
		return v, nil
	default:
		return script.Value{}, fmt.Errorf("unexpected token: %q", tok.Value)
	}
}

func parseNumber(s string) (script.Value, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return script.Value{}, err
		}
		if neg {
			return script.IntValue(script.BaseI64, -int64(v)), nil
		}
		return script.UintValue(script.BaseU64, v), nil
	}
	if strings.Contains(s, ".") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return script.Value{}, err
		}
		if neg {
			v = -v
		}
		return script.FloatValue(script.BaseF64, v), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return script.Value{}, err
	}
	if neg {
		v = -v
	}
	return script.IntValue(script.BaseI64, v), nil
}

func applyOperator(left, right script.Value, op string) (script.Value, error) {
	bt := left.Type
	if bt.IsFloat() || right.Type.IsFloat() {
		lf, rf := left.AsFloat64(), right.AsFloat64()
		switch op {
		case "+":
			return script.FloatValue(script.BaseF64, lf+rf), nil
		case "-":
			return script.FloatValue(script.BaseF64, lf-rf), nil
		case "*":
			return script.FloatValue(script.BaseF64, lf*rf), nil
		case "/":
			if rf == 0 {
				return script.Value{}, fmt.Errorf("division by zero")
			}
			return script.FloatValue(script.BaseF64, lf/rf), nil
		default:
			return script.Value{}, fmt.Errorf("operator %q not defined on floating values", op)
		}
	}

	li, ri := left.AsInt64(), right.AsInt64()
	switch op {
	case "+":
		return script.IntValue(bt, li+ri), nil
	case "-":
		return script.IntValue(bt, li-ri), nil
	case "*":
		return script.IntValue(bt, li*ri), nil
	case "/":
		if ri == 0 {
			return script.Value{}, fmt.Errorf("division by zero")
		}
		return script.IntValue(bt, li/ri), nil
	case "%":
		if ri == 0 {
			return script.Value{}, fmt.Errorf("division by zero")
		}
		return script.IntValue(bt, li%ri), nil
	case "&":
		return script.IntValue(bt, li&ri), nil
	case "|":
		return script.IntValue(bt, li|ri), nil
	case "^":
		return script.IntValue(bt, li^ri), nil
	case "<<":
		return script.IntValue(bt, li<<uint(ri)), nil
	case ">>":
		return script.IntValue(bt, li>>uint(ri)), nil
	default:
		return script.Value{}, fmt.Errorf("unknown operator: %q", op)
	}
}

// Eval is a convenience wrapper: tokenize and parse src in one call.
func Eval(src string, ns *script.Namespace, history []script.Value) (script.Value, error) {
	toks := NewLexer(src).TokenizeAll()
	return NewParser(toks, ns, history).Parse()
}
