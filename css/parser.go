package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads CSS style sheets. Anything style sheet cannot use (complex
// selectors, at-rule blocks) is skipped with a warning.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse never fails, problems are reported in Stylesheet.Warnings. Optional
// source names input for logging.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	log := p.log
	if len(source) > 0 && len(source[0]) > 0 {
		log = log.With(zap.String("source", source[0]))
	}
	log.Debug("Parsing CSS", zap.Int("bytes", len(data)))

	r := &reader{
		lex:   css.NewParser(parse.NewInput(bytes.NewReader(data)), false),
		log:   log,
		sheet: &Stylesheet{},
	}
	r.run()
	return r.sheet
}

type reader struct {
	lex   *css.Parser
	log   *zap.Logger
	sheet *Stylesheet
}

func (r *reader) warn(msg, subject string) {
	r.sheet.Warnings = append(r.sheet.Warnings, msg+": "+subject)
	r.log.Debug("Skipping CSS", zap.String("reason", msg), zap.String("subject", subject))
}

func (r *reader) run() {
	for {
		gt, _, data := r.lex.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := r.lex.Err(); err != nil && !errors.Is(err, io.EOF) {
				r.warn("parse error", err.Error())
			}
			return
		case css.BeginAtRuleGrammar:
			r.skipBlock()
			r.log.Debug("Skipping @-rule block", zap.ByteString("rule", data))
		case css.AtRuleGrammar:
			if string(data) != "@import" {
				r.log.Debug("Skipping @-rule", zap.ByteString("rule", data))
				continue
			}
			if url := importURL(r.lex.Values()); len(url) > 0 {
				r.sheet.Imports = append(r.sheet.Imports, url)
			}
		case css.BeginRulesetGrammar:
			r.ruleset(data)
		}
	}
}

// ParseInline reads declarations of HTML style attribute. Values keep their
// quoting, so semicolons inside strings and url() do not split declarations.
func (p *Parser) ParseInline(data []byte) []Declaration {
	r := &reader{
		lex:   css.NewParser(parse.NewInput(bytes.NewReader(data)), true),
		log:   p.log,
		sheet: &Stylesheet{},
	}
	return r.inline()
}

// ruleset reads declarations and adds rule for every usable selector of the
// group, each with its own copy of declarations.
func (r *reader) ruleset(head []byte) {
	var sb strings.Builder
	sb.Write(head)
	for _, v := range r.lex.Values() {
		sb.Write(v.Data)
	}
	decls := r.declarations()

	for raw := range strings.SplitSeq(sb.String(), ",") {
		raw = strings.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		sel, reason := parseSelector(raw)
		if len(reason) > 0 {
			r.warn(reason, raw)
			continue
		}
		r.sheet.Rules = append(r.sheet.Rules, Rule{Selector: sel, Declarations: append([]Declaration(nil), decls...)})
	}
}

func (r *reader) declarations() []Declaration {
	var decls []Declaration
	for {
		gt, _, data := r.lex.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		default:
			if d, ok := r.declaration(gt, data); ok {
				decls = append(decls, d)
			}
		}
	}
}

// inline reads declaration list without braces. Malformed declarations are
// skipped up to the next semicolon.
func (r *reader) inline() []Declaration {
	var decls []Declaration
	last, stuck := -1, 0
	for {
		gt, _, data := r.lex.Next()
		switch gt {
		case css.ErrorGrammar:
			if !r.lex.HasParseError() {
				return decls
			}
			// closing brace is reported twice at the same offset, anything
			// more means parser is not moving
			if off := r.lex.Offset(); off != last {
				last, stuck = off, 0
			} else if stuck++; stuck > 1 {
				return decls
			}
			r.warn("parse error", r.lex.Err().Error())
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			r.skipBlock()
		default:
			if d, ok := r.declaration(gt, data); ok {
				decls = append(decls, d)
			}
		}
	}
}

func (r *reader) declaration(gt css.GrammarType, data []byte) (Declaration, bool) {
	switch gt {
	case css.DeclarationGrammar:
		values := r.lex.Values()
		if len(values) == 0 {
			return Declaration{}, false
		}
		value, important := declarationValue(values)
		return Declaration{Name: strings.ToLower(string(data)), Value: value, Important: important}, true
	case css.CustomPropertyGrammar:
		// custom properties are case sensitive and keep their value verbatim
		var sb strings.Builder
		for _, v := range r.lex.Values() {
			sb.Write(v.Data)
		}
		value := strings.TrimSpace(sb.String())
		return Declaration{Name: string(data), Value: value}, len(value) > 0
	}
	return Declaration{}, false
}

// skipBlock consumes tokens up to the end of at-rule block.
func (r *reader) skipBlock() {
	for depth := 1; depth > 0; {
		switch gt, _, _ := r.lex.Next(); gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// declarationValue joins value tokens collapsing whitespace and separates
// trailing !important.
func declarationValue(tokens []css.Token) (string, bool) {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	value := sb.String()
	if i := strings.LastIndexByte(value, '!'); i >= 0 && strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
		return strings.TrimSpace(value[:i]), true
	}
	return value, false
}

// parseSelector accepts "elem", ".class" and "elem.class", for anything else
// it returns reason why selector is not usable.
func parseSelector(raw string) (Selector, string) {
	sel := Selector{Raw: raw}
	switch {
	case strings.ContainsAny(raw, "+~> \t\n"):
		return sel, "unsupported combinator selector"
	case strings.Contains(raw, "["):
		return sel, "unsupported attribute selector"
	case strings.Contains(raw, ":"):
		return sel, "unsupported pseudo selector"
	case strings.Count(raw, ".") > 1 || strings.HasPrefix(raw, "#") || raw == "*":
		return sel, "unsupported selector"
	}
	element, class, _ := strings.Cut(raw, ".")
	sel.Element, sel.Class = strings.ToLower(element), class
	if !sel.IsSimple() {
		return sel, "unsupported selector"
	}
	return sel, ""
}

// importURL handles @import "x", @import url("x") and @import url(x).
func importURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return unquote(s)
		}
	}
	return ""
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
