package ron

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrSyntax = errors.New("ron syntax error")

// Parse parses a single RON value, surrounding whitespace and comments are ignored
func Parse(data []byte) (*Value, error) {
	p := &parser{data: data}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err = p.skipSpace(); err != nil {
		return nil, err
	}
	if p.pos < len(p.data) {
		return nil, p.errorf("unexpected trailing content")
	}
	return value, nil
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) errorf(format string, a ...interface{}) error {
	line, column := 1, 1
	for i := 0; i < p.pos && i < len(p.data); i++ {
		if p.data[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return fmt.Errorf("%w at line %d, column %d: %s", ErrSyntax, line, column, fmt.Sprintf(format, a...))
}

func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) skipSpace() error {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '/':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '*':
			end := strings.Index(string(p.data[p.pos+2:]), "*/")
			if end < 0 {
				return p.errorf("unterminated block comment")
			}
			p.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) expect(c byte) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() != c {
		return p.errorf("expected '%c'", c)
	}
	p.pos++
	return nil
}

func (p *parser) parseValue() (*Value, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	c := p.peek()
	switch {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '(':
		return p.parseParen("")
	case c == '{':
		return p.parseMap()
	case c == '[':
		return p.parseList()
	case c == '"':
		raw, err := p.parseQuoted('"')
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KindString, Raw: raw}, nil
	case c == '\'':
		raw, err := p.parseQuoted('\'')
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KindChar, Raw: raw}, nil
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.parseNumber(), nil
	case isIdentStart(c):
		return p.parseIdentValue()
	default:
		return nil, p.errorf("unexpected character '%c'", c)
	}
}

func (p *parser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.data) && isIdentChar(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *parser) parseIdentValue() (*Value, error) {
	name := p.parseIdent()
	if name == "r" && (p.peek() == '"' || p.peek() == '#') {
		return p.parseRawString()
	}

	// a struct name may be followed by whitespace before the opening paren
	save := p.pos
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == '(' {
		return p.parseParen(name)
	}
	p.pos = save
	return &Value{Kind: KindIdent, Raw: name}, nil
}

// parseParen parses a struct with named fields or a tuple, depending on the first element
func (p *parser) parseParen(name string) (*Value, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == ')' {
		p.pos++
		return &Value{Kind: KindTuple, Name: name}, nil
	}

	if p.startsStructField() {
		return p.parseStructFields(name)
	}

	value := &Value{Kind: KindTuple, Name: name}
	for {
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		value.Items = append(value.Items, item)
		done, err := p.separator(')')
		if err != nil {
			return nil, err
		}
		if done {
			return value, nil
		}
	}
}

func (p *parser) startsStructField() bool {
	save := p.pos
	defer func() { p.pos = save }()

	if !isIdentStart(p.peek()) {
		return false
	}
	if len(p.parseIdent()) <= 0 {
		return false
	}
	if p.skipSpace() != nil {
		return false
	}
	return p.peek() == ':'
}

func (p *parser) parseStructFields(name string) (*Value, error) {
	value := &Value{Kind: KindStruct, Name: name}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		fieldName := p.parseIdent()
		if len(fieldName) <= 0 {
			return nil, p.errorf("expected field name")
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		fieldValue, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		value.Fields = append(value.Fields, Field{Name: fieldName, Value: fieldValue})
		done, err := p.separator(')')
		if err != nil {
			return nil, err
		}
		if done {
			return value, nil
		}
	}
}

func (p *parser) parseMap() (*Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	value := &Value{Kind: KindMap}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == '}' {
		p.pos++
		return value, nil
	}
	for {
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err = p.expect(':'); err != nil {
			return nil, err
		}
		entryValue, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		value.Entries = append(value.Entries, Entry{Key: key, Value: entryValue})
		done, err := p.separator('}')
		if err != nil {
			return nil, err
		}
		if done {
			return value, nil
		}
	}
}

func (p *parser) parseList() (*Value, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	value := &Value{Kind: KindList}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == ']' {
		p.pos++
		return value, nil
	}
	for {
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		value.Items = append(value.Items, item)
		done, err := p.separator(']')
		if err != nil {
			return nil, err
		}
		if done {
			return value, nil
		}
	}
}

// separator consumes a ',' and/or the closing character, trailing commas are allowed.
// Returns true when the closing character was consumed.
func (p *parser) separator(closing byte) (bool, error) {
	if err := p.skipSpace(); err != nil {
		return false, err
	}
	switch p.peek() {
	case closing:
		p.pos++
		return true, nil
	case ',':
		p.pos++
		if err := p.skipSpace(); err != nil {
			return false, err
		}
		if p.peek() == closing {
			p.pos++
			return true, nil
		}
		return false, nil
	default:
		return false, p.errorf("expected ',' or '%c'", closing)
	}
}

func (p *parser) parseQuoted(quote byte) (string, error) {
	start := p.pos
	p.pos++
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '\\':
			p.pos += 2
		case quote:
			p.pos++
			return string(p.data[start:p.pos]), nil
		default:
			p.pos++
		}
	}
	p.pos = start
	return "", p.errorf("unterminated literal")
}

func (p *parser) parseRawString() (*Value, error) {
	start := p.pos - 1
	hashes := 0
	for p.peek() == '#' {
		hashes++
		p.pos++
	}
	if p.peek() != '"' {
		return nil, p.errorf("expected '\"' in raw string")
	}
	terminator := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(string(p.data[p.pos+1:]), terminator)
	if end < 0 {
		return nil, p.errorf("unterminated raw string")
	}
	p.pos += 1 + end + len(terminator)
	return &Value{Kind: KindString, Raw: string(p.data[start:p.pos])}, nil
}

func (p *parser) parseNumber() *Value {
	start := p.pos
	for p.pos < len(p.data) && isNumberChar(p.data[p.pos]) {
		p.pos++
	}
	raw := string(p.data[start:p.pos])
	kind := KindInt
	lower := strings.ToLower(strings.TrimLeft(raw, "+-"))
	if !strings.HasPrefix(lower, "0x") && !strings.HasPrefix(lower, "0b") && !strings.HasPrefix(lower, "0o") &&
		strings.ContainsAny(lower, ".e") {
		kind = KindFloat
	}
	return &Value{Kind: kind, Raw: raw}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isNumberChar(c byte) bool {
	return isDigit(c) || c == '.' || c == '_' || c == '+' || c == '-' ||
		(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == 'x' || c == 'X' || c == 'o' || c == 'O'
}
