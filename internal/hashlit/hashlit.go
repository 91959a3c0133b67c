// Package hashlit reads Ruby hash literals as they appear in HAML attribute
// blocks without evaluating them. Only literal shapes are understood:
// string, symbol and number values and nested hashes. Anything else is kept
// as an opaque expression.
package hashlit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned when the source is not a hash literal this package
// can read.
var ErrSyntax = errors.New("hashlit: syntax error")

// Kind classifies a parsed value.
type Kind int

const (
	String Kind = iota
	Symbol
	Number
	Nested
	Expr
)

// Value is one right-hand side of a hash entry.
type Value struct {
	Kind Kind
	// Str is the literal content for String, Symbol and Number values.
	Str string
	// Raw is the source text of the value.
	Raw string
	// Hash is set for Nested values.
	Hash Hash
}

// Hash maps keys to values. Symbol and string keys share one namespace.
type Hash map[string]Value

// String returns the literal string stored under key.
func (h Hash) String(key string) (string, bool) {
	v, ok := h[key]
	if !ok || v.Kind != String {
		return "", false
	}
	return v.Str, true
}

// Parse reads src as a hash literal. Surrounding braces are optional.
func Parse(src string) (Hash, error) {
	p := &parser{src: strings.TrimSpace(src)}
	braced := p.peek() == '{'
	if braced {
		p.pos++
	}
	h, err := p.entries(braced)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("trailing input")
	}
	return h, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrSyntax, fmt.Sprintf(format, args...), p.pos)
}

// entries reads key/value pairs until the closing brace (when braced) or the
// end of input.
func (p *parser) entries(braced bool) (Hash, error) {
	h := make(Hash)
	for {
		p.skipSpace()
		if p.eof() {
			if braced {
				return nil, p.errorf("missing closing brace")
			}
			return h, nil
		}
		if p.peek() == '}' {
			if !braced {
				return nil, p.errorf("unexpected closing brace")
			}
			p.pos++
			return h, nil
		}

		key, err := p.key()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		h[key] = val

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}', 0:
		default:
			return nil, p.errorf("expected comma")
		}
	}
}

func (p *parser) key() (string, error) {
	switch c := p.peek(); {
	case c == ':':
		// :key => value, :"key" => value
		p.pos++
		var key string
		if q := p.peek(); q == '\'' || q == '"' {
			s, _, err := p.quoted()
			if err != nil {
				return "", err
			}
			key = s
		} else {
			key = p.ident()
		}
		if key == "" {
			return "", p.errorf("empty symbol key")
		}
		return key, p.rocket()
	case c == '\'' || c == '"':
		// "key": value, "key" => value
		key, _, err := p.quoted()
		if err != nil {
			return "", err
		}
		if p.peek() == ':' && !strings.HasPrefix(p.src[p.pos:], "::") {
			p.pos++
			return key, nil
		}
		return key, p.rocket()
	case isIdentStart(c):
		// key: value
		key := p.ident()
		if p.peek() != ':' || strings.HasPrefix(p.src[p.pos:], "::") {
			return "", p.errorf("expected colon after %q", key)
		}
		p.pos++
		return key, nil
	default:
		return "", p.errorf("unexpected %q", c)
	}
}

func (p *parser) rocket() error {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], "=>") {
		return p.errorf("expected =>")
	}
	p.pos += 2
	return nil
}

func (p *parser) value() (Value, error) {
	start := p.pos
	var v Value
	switch c := p.peek(); {
	case c == 0:
		return Value{}, p.errorf("missing value")
	case c == '{':
		p.pos++
		h, err := p.entries(true)
		if err != nil {
			return Value{}, err
		}
		v = Value{Kind: Nested, Hash: h}
	case c == '\'' || c == '"':
		s, interpolated, err := p.quoted()
		if err != nil {
			return Value{}, err
		}
		v = Value{Kind: String, Str: s}
		if interpolated {
			v.Kind = Expr
		}
	case c == ':' && p.pos+1 < len(p.src) && isIdentStart(p.src[p.pos+1]):
		p.pos++
		v = Value{Kind: Symbol, Str: p.ident()}
	case isDigit(c) || (c == '-' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		p.pos++
		for !p.eof() && (isDigit(p.peek()) || p.peek() == '.' || p.peek() == '_') {
			p.pos++
		}
		v = Value{Kind: Number, Str: p.src[start:p.pos]}
	default:
		return p.expr(start)
	}

	// A literal followed by anything but a separator is part of a larger
	// expression, e.g. 'a' + b.
	p.skipSpace()
	if c := p.peek(); c != ',' && c != '}' && c != 0 {
		return p.expr(start)
	}
	v.Raw = strings.TrimSpace(p.src[start:p.pos])
	return v, nil
}

// expr consumes an opaque expression up to the next top-level comma or
// closing brace.
func (p *parser) expr(start int) (Value, error) {
	p.pos = start
	depth := 0
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '\'' || c == '"':
			if _, _, err := p.quoted(); err != nil {
				return Value{}, err
			}
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '}':
			if depth == 0 {
				return p.finishExpr(start)
			}
			depth--
		case c == ',' && depth == 0:
			return p.finishExpr(start)
		}
		if depth < 0 {
			return Value{}, p.errorf("unbalanced %q", c)
		}
		p.pos++
	}
	return p.finishExpr(start)
}

func (p *parser) finishExpr(start int) (Value, error) {
	raw := strings.TrimSpace(p.src[start:p.pos])
	if raw == "" {
		return Value{}, p.errorf("missing value")
	}
	return Value{Kind: Expr, Raw: raw}, nil
}

// quoted reads a single- or double-quoted string starting at the current
// position and reports whether a double-quoted string interpolates.
func (p *parser) quoted() (string, bool, error) {
	q := p.src[p.pos]
	start := p.pos
	p.pos++
	var b strings.Builder
	interpolated := false
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			next := p.src[p.pos+1]
			if next == q || next == '\\' {
				b.WriteByte(next)
			} else {
				b.WriteByte(c)
				b.WriteByte(next)
			}
			p.pos += 2
			continue
		case c == q:
			p.pos++
			return b.String(), interpolated, nil
		case q == '"' && c == '#' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '{':
			interpolated = true
		}
		b.WriteByte(c)
		p.pos++
	}
	p.pos = start
	return "", false, p.errorf("unterminated string")
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	// Ruby allows a trailing ? or ! on method-like symbols.
	if !p.eof() && (p.peek() == '?' || p.peek() == '!') && p.pos > start {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
