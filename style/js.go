package style

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// DefaultVariable is the name style object has in generated scripts.
const DefaultVariable = "mdStyle"

// QuoteJS returns s as single quoted JS string literal safe to be embedded
// into a script element.
func QuoteJS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028':
			sb.WriteString(`\u2028`)
		case '\u2029':
			sb.WriteString(`\u2029`)
		case '<':
			// do not let "</script" close surrounding element
			if strings.HasPrefix(s[i:], "</") {
				sb.WriteString(`\x3C`)
			} else {
				sb.WriteRune(r)
			}
		case utf8.RuneError:
			sb.WriteString(`\uFFFD`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\x%02X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// jsName returns key as is when it is a valid identifier, quoted otherwise.
func jsName(key string) string {
	if IsIdentifier(key) {
		return key
	}
	return QuoteJS(key)
}

// WriteJS writes sheet as "let <variable> = {...};" statement.
func WriteJS(w io.Writer, variable string, s *Sheet) error {
	if variable == "" {
		variable = DefaultVariable
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "let %s = {\n", variable)
	for _, r := range s.Rules() {
		fmt.Fprintf(bw, "\t%s: {", jsName(r.Key))
		for i, p := range r.Props {
			if i > 0 {
				bw.WriteString(", ")
			}
			fmt.Fprintf(bw, "%s: %s", jsName(p.Name), QuoteJS(p.Value))
		}
		bw.WriteString("},\n")
	}
	bw.WriteString("};\n")
	return bw.Flush()
}

// JS returns sheet as JS statement.
func (s *Sheet) JS(variable string) string {
	var buf bytes.Buffer
	_ = WriteJS(&buf, variable, s)
	return buf.String()
}

// ParseJS reads style file which declares single variable initialized with
// object literal:
//
//	let mdStyle = {
//		h1: {fontSize: '2rem', margin: '0 1rem',},
//		p: {margin: '1rem 0'},
//	};
//
// It returns name of the variable and the sheet.
func ParseJS(data []byte) (string, *Sheet, error) {
	t := &jsTokens{lex: js.NewLexer(parse.NewInputBytes(data)), line: 1}

	tt, tok := t.next()
	switch string(tok) {
	case "let", "const", "var":
		tt, tok = t.next()
	}
	if tt == js.ErrorToken {
		return "", nil, t.failure("variable declaration", tt, tok)
	}
	if !validIdent(string(tok), false) {
		return "", nil, t.failure("variable name", tt, tok)
	}
	name := string(tok)

	if err := t.expect("="); err != nil {
		return "", nil, err
	}

	sheet := NewSheet(name)
	if err := t.parseSheet(sheet); err != nil {
		return "", nil, err
	}

	tt, tok = t.next()
	if string(tok) == ";" {
		tt, tok = t.next()
	}
	if tt != js.ErrorToken {
		return "", nil, fmt.Errorf("line %d: unexpected %q after style declaration", t.line, tok)
	}
	if err := t.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("line %d: %w", t.line, err)
	}
	return name, sheet, nil
}

type jsTokens struct {
	lex  *js.Lexer
	line int

	peeked bool
	tt     js.TokenType
	data   []byte
}

func (t *jsTokens) next() (js.TokenType, []byte) {
	if t.peeked {
		t.peeked = false
		return t.tt, t.data
	}
	for {
		tt, data := t.lex.Next()
		switch tt {
		case js.WhitespaceToken, js.CommentToken:
			continue
		case js.LineTerminatorToken, js.CommentLineTerminatorToken:
			t.line += max(1, bytes.Count(data, []byte{'\n'}))
			continue
		}
		return tt, data
	}
}

func (t *jsTokens) peek() (js.TokenType, []byte) {
	if !t.peeked {
		t.tt, t.data = t.next()
		t.peeked = true
	}
	return t.tt, t.data
}

func (t *jsTokens) expect(punct string) error {
	tt, tok := t.next()
	if string(tok) != punct || tt == js.StringToken {
		return t.failure(strconv.Quote(punct), tt, tok)
	}
	return nil
}

func (t *jsTokens) failure(what string, tt js.TokenType, tok []byte) error {
	if tt == js.ErrorToken {
		if err := t.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("line %d: expected %s: %w", t.line, what, err)
		}
		return fmt.Errorf("line %d: expected %s, got end of input", t.line, what)
	}
	return fmt.Errorf("line %d: expected %s, got %q", t.line, what, tok)
}

// key reads property name: identifier, string or number.
func (t *jsTokens) key() (string, error) {
	tt, tok := t.next()
	switch {
	case tt == js.StringToken:
		return unquoteJS(tok)
	case tt != js.ErrorToken && validIdent(string(tok), true):
		return string(tok), nil
	}
	return "", t.failure("property name", tt, tok)
}

// list walks "{ key: value, ... }" calling fn for every key, trailing comma
// is allowed.
func (t *jsTokens) list(fn func(key string) error) error {
	if err := t.expect("{"); err != nil {
		return err
	}
	for {
		if _, tok := t.peek(); string(tok) == "}" {
			t.next()
			return nil
		}
		key, err := t.key()
		if err != nil {
			return err
		}
		if err := t.expect(":"); err != nil {
			return err
		}
		if err := fn(key); err != nil {
			return err
		}
		tt, tok := t.next()
		switch string(tok) {
		case ",":
		case "}":
			return nil
		default:
			return t.failure(`"," or "}"`, tt, tok)
		}
	}
}

func (t *jsTokens) parseSheet(sheet *Sheet) error {
	return t.list(func(key string) error {
		if sheet.Has(key) {
			return fmt.Errorf("line %d: duplicate style key %q", t.line, key)
		}
		var props Properties
		err := t.list(func(name string) error {
			value, err := t.scalar()
			if err != nil {
				return err
			}
			if _, ok := props.Get(name); ok {
				return fmt.Errorf("line %d: %s: duplicate property %q", t.line, key, name)
			}
			props.Set(name, value)
			return nil
		})
		if err != nil {
			return err
		}
		sheet.Set(key, props)
		return nil
	})
}

func (t *jsTokens) scalar() (string, error) {
	tt, tok := t.next()
	switch {
	case tt == js.StringToken:
		return unquoteJS(tok)
	case tt != js.ErrorToken && len(tok) > 0 && (tok[0] >= '0' && tok[0] <= '9' || tok[0] == '.'):
		return string(tok), nil
	}
	return "", t.failure("string or number", tt, tok)
}

// unquoteJS decodes JS string literal including its quotes.
func unquoteJS(lit []byte) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '\'' && lit[0] != '"') {
		return "", fmt.Errorf("malformed string literal %s", lit)
	}
	s := string(lit[1 : len(lit)-1])
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("malformed escape in %s", lit)
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("malformed escape in %s: %w", lit, err)
			}
			sb.WriteRune(rune(v))
			i += 2
		case 'u':
			hex := ""
			if i+1 < len(s) && s[i+1] == '{' {
				end := strings.IndexByte(s[i:], '}')
				if end < 0 {
					return "", fmt.Errorf("malformed escape in %s", lit)
				}
				hex = s[i+2 : i+end]
				i += end
			} else {
				if i+4 >= len(s) {
					return "", fmt.Errorf("malformed escape in %s", lit)
				}
				hex = s[i+1 : i+5]
				i += 4
			}
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return "", fmt.Errorf("malformed escape in %s: %w", lit, err)
			}
			sb.WriteRune(rune(v))
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String(), nil
}
