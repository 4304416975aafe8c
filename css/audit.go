// Package css audits stylesheets for selector specificity and !important
// usage and suggests lower specificity rewrites.
package css

import (
	"strings"

	"go.uber.org/zap"

	"uxkit/common"
)

// Thresholds drive high specificity classification. A selector with more
// than one space separated part is flagged when its score reaches Score or
// its class-like count reaches ClassLike. A selector with more than Parts
// parts is always flagged.
type Thresholds struct {
	Score     int
	ClassLike int
	Parts     int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Score: 100, ClassLike: 2, Parts: 2}
}

type Options struct {
	Parser     common.ParserMode
	Thresholds Thresholds
}

func DefaultOptions() Options {
	return Options{Parser: common.ParserModePattern, Thresholds: DefaultThresholds()}
}

// Analyzer is immutable after creation and may be shared.
type Analyzer struct {
	opts Options
	log  *zap.Logger
}

// NewAnalyzer creates analyzer, zero thresholds are replaced with defaults.
func NewAnalyzer(opts Options, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultThresholds()
	if opts.Thresholds.Score <= 0 {
		opts.Thresholds.Score = def.Score
	}
	if opts.Thresholds.ClassLike <= 0 {
		opts.Thresholds.ClassLike = def.ClassLike
	}
	if opts.Thresholds.Parts <= 0 {
		opts.Thresholds.Parts = def.Parts
	}
	return &Analyzer{opts: opts, log: log.Named("css")}
}

var defaultAnalyzer = NewAnalyzer(DefaultOptions(), nil)

// Parse splits stylesheet into rules using default options.
func Parse(text string) []Rule { return defaultAnalyzer.Parse(text) }

// Analyze reports high specificity selectors and !important usage using
// default options.
func Analyze(text string) Report { return defaultAnalyzer.Analyze(text) }

// Audit summarizes stylesheet using default options.
func Audit(text string) Summary { return defaultAnalyzer.Audit(text) }

func (a *Analyzer) Parse(text string) []Rule {
	var rules []Rule
	switch a.opts.Parser {
	case common.ParserModeTokenizer:
		rules = parseTokens(text, a.log)
	default:
		rules = parsePattern(text)
	}
	a.log.Debug("Stylesheet parsed", zap.Stringer("parser", a.opts.Parser), zap.Int("bytes", len(text)), zap.Int("rules", len(rules)))
	return rules
}

func (a *Analyzer) Analyze(text string) Report {
	return a.AnalyzeRules(a.Parse(text))
}

func (a *Analyzer) Audit(text string) Summary {
	return a.Summarize(a.Parse(text))
}

// AnalyzeRules emits issues in rule order: for each rule its high
// specificity selectors first, then its !important usage.
func (a *Analyzer) AnalyzeRules(rules []Rule) Report {
	report := Report{Issues: make([]Issue, 0)}

	var rewrites []Rewrite
	for _, rule := range rules {
		group := rule.Group()
		for _, sel := range rule.Selectors {
			after, ok := a.Rewrite(sel)
			if !ok {
				continue
			}
			report.Issues = append(report.Issues, Issue{
				Type:     IssueHighSpecificity,
				Selector: group,
				Fix:      fixWherePrefix + after,
			})
			rewrites = append(rewrites, Rewrite{Before: sel, After: after})
		}
		if rule.ImportantCount > 0 {
			report.Issues = append(report.Issues, Issue{
				Type:     IssueImportantUsage,
				Selector: group,
				Fix:      fixImportant,
			})
		}
	}
	report.SuggestedCode = SuggestedCode(rewrites)
	return report
}

// IsHighSpecificity classifies single selector.
func (a *Analyzer) IsHighSpecificity(selector string) bool {
	sel := strings.TrimSpace(selector)
	if strings.HasPrefix(sel, "@") {
		// at-rule prelude picked up by pattern parser
		return false
	}
	parts := len(strings.Fields(sel))
	if parts < 2 {
		return false
	}
	th := a.opts.Thresholds
	spec := Calculate(sel)
	return spec.Score >= th.Score || spec.ClassLike >= th.ClassLike || parts > th.Parts
}

// Rewrite wraps all but the last compound of a high specificity selector
// into :where() which contributes no specificity. Prefix compounds are joined
// with spaces and stay one complex selector, not a ", " selector list. Second
// value is false when selector does not need rewriting.
func (a *Analyzer) Rewrite(selector string) (string, bool) {
	if !a.IsHighSpecificity(selector) {
		return "", false
	}
	parts := strings.Fields(selector)
	last := len(parts) - 1
	return ":where(" + strings.Join(parts[:last], " ") + ") " + parts[last], true
}

// SuggestedCode renders before/after blocks separated by blank lines.
func SuggestedCode(rewrites []Rewrite) string {
	if len(rewrites) == 0 {
		return noRewritesCode
	}
	blocks := make([]string, 0, len(rewrites))
	for _, rw := range rewrites {
		blocks = append(blocks, "/* Before */\n"+rw.Before+" { ... }\n/* After */\n"+rw.After+" { ... }")
	}
	return strings.Join(blocks, "\n\n")
}

// Summarize lists rules whose most specific selector reaches score threshold
// and rules using !important.
func (a *Analyzer) Summarize(rules []Rule) Summary {
	sum := Summary{
		TotalRules:      len(rules),
		HighSpecificity: make([]SpecificityFinding, 0),
		ImportantUsage:  make([]ImportantFinding, 0),
		Suggestions:     make([]string, 0, 2),
	}

	for _, rule := range rules {
		if spec := Max(rule.Selectors); spec.Score >= a.opts.Thresholds.Score {
			sum.HighSpecificity = append(sum.HighSpecificity, SpecificityFinding{Selectors: rule.Selectors, Specificity: spec})
		}
		if rule.ImportantCount > 0 {
			sum.ImportantUsage = append(sum.ImportantUsage, ImportantFinding{Selectors: rule.Selectors, Count: rule.ImportantCount})
		}
	}

	if len(sum.HighSpecificity) > 0 {
		sum.Suggestions = append(sum.Suggestions, suggestLowerSpec)
	}
	if len(sum.ImportantUsage) > 0 {
		sum.Suggestions = append(sum.Suggestions, suggestImportant)
	}
	if len(sum.Suggestions) == 0 && len(rules) > 0 {
		sum.Suggestions = append(sum.Suggestions, suggestNothing)
	}
	return sum
}
