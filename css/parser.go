package css

import (
	"errors"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

var (
	blockPattern     = regexp.MustCompile(`([^{]+)\{([^}]*)\}`)
	importantPattern = regexp.MustCompile(`!important`)
)

func newRule(group, declarations string, important int) Rule {
	return Rule{
		Selectors:       splitGroup(group),
		DeclarationText: declarations,
		ImportantCount:  important,
	}
}

// splitGroup splits selector group on commas dropping empty members.
func splitGroup(group string) []string {
	selectors := make([]string, 0, 1)
	for s := range strings.SplitSeq(group, ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parsePattern scans "<selector-group>{<declarations>}" blocks left to right.
// Nested blocks are not understood: an at-rule prelude becomes a selector
// group and its first inner block becomes declaration text. Unterminated
// blocks produce no match and are dropped.
func parsePattern(text string) []Rule {
	text = stripComments(text)

	var rules []Rule
	for _, m := range blockPattern.FindAllStringSubmatch(text, -1) {
		rules = append(rules, newRule(m[1], m[2], count(importantPattern, m[2])))
	}
	return rules
}

// tokenizer builds rules from stylesheet grammar. Rules nested in grouping
// at-rules are reported as if they were top level, other at-rule blocks
// (keyframes, font-face, page) are skipped.
type tokenizer struct {
	log     *zap.Logger
	parser  *css.Parser
	lastErr int
}

var groupingAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@layer":     true,
	"@document":  true,
	"@container": true,
	"@scope":     true,
}

func parseTokens(text string, log *zap.Logger) []Rule {
	t := &tokenizer{
		log:     log,
		parser:  css.NewParser(parse.NewInput(strings.NewReader(text)), false),
		lastErr: -1,
	}

	var rules []Rule
	for {
		gt, _, data := t.parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if t.resume() {
				continue
			}
			if err := t.parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				t.log.Debug("Stylesheet parsing stopped", zap.Error(err))
			}
			return rules

		case css.BeginAtRuleGrammar:
			name := strings.ToLower(string(data))
			if groupingAtRules[name] {
				continue
			}
			t.skipAtRuleBlock()
			t.log.Debug("Skipping @-rule", zap.String("rule", name))

		case css.BeginRulesetGrammar:
			rules = append(rules, t.ruleset()...)
		}
	}
}

// ruleset reads declarations until the end of the current ruleset. Nested
// rulesets follow their parent in the result.
func (t *tokenizer) ruleset() []Rule {
	group := selectorText(t.parser.Values())

	var (
		decls     []string
		important int
		nested    []Rule
	)
	for {
		gt, _, data := t.parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if t.resume() {
				continue
			}
			return append([]Rule{newRule(group, strings.Join(decls, "; "), important)}, nested...)

		case css.EndRulesetGrammar:
			return append([]Rule{newRule(group, strings.Join(decls, "; "), important)}, nested...)

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			values := t.parser.Values()
			decls = append(decls, declarationText(data, values))
			if isImportant(values) {
				important++
			}

		case css.BeginRulesetGrammar:
			nested = append(nested, t.ruleset()...)

		case css.BeginAtRuleGrammar:
			t.skipAtRuleBlock()
		}
	}
}

// resume reports whether parsing may continue after ErrorGrammar. Parser
// must have moved since the previous error, otherwise input is abandoned.
func (t *tokenizer) resume() bool {
	if !t.parser.HasParseError() {
		return false
	}
	off := t.parser.Offset()
	if off == t.lastErr {
		return false
	}
	t.lastErr = off
	t.log.Debug("Skipping malformed fragment", zap.Error(t.parser.Err()))
	return true
}

func (t *tokenizer) skipAtRuleBlock() {
	depth := 1
	for depth > 0 {
		gt, _, _ := t.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if t.resume() {
				continue
			}
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// selectorText rebuilds selector group from tokens. Tokenizer drops
// whitespace around combinators, it is restored so both parsers split
// selectors into the same parts.
func selectorText(tokens []css.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		switch {
		case tok.TokenType == css.WhitespaceToken:
			sb.WriteByte(' ')
		case tok.TokenType == css.DelimToken && len(tok.Data) == 1 && strings.ContainsRune(">+~", rune(tok.Data[0])):
			sb.WriteByte(' ')
			sb.Write(tok.Data)
			sb.WriteByte(' ')
		default:
			sb.Write(tok.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func declarationText(name []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(name)
	sb.WriteString(": ")
	for _, v := range values {
		if v.TokenType == css.DelimToken && string(v.Data) == "!" {
			sb.WriteByte(' ')
		}
		sb.Write(v.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// isImportant looks for "!" delimiter followed by "important" identifier.
func isImportant(values []css.Token) bool {
	for i := 0; i+1 < len(values); i++ {
		if values[i].TokenType != css.DelimToken || string(values[i].Data) != "!" {
			continue
		}
		next := values[i+1]
		if next.TokenType == css.IdentToken && strings.EqualFold(string(next.Data), "important") {
			return true
		}
	}
	return false
}
