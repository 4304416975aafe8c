package css

import (
	"fmt"
	"strings"
)

// IssueType classifies a reported problem.
type IssueType string

const (
	IssueHighSpecificity IssueType = "high-specificity"
	IssueImportantUsage  IssueType = "important-usage"
)

// Rule is a single selector group with its declaration block.
type Rule struct {
	Selectors       []string `json:"selectors" yaml:"selectors"`
	DeclarationText string   `json:"declarations" yaml:"declarations"`
	ImportantCount  int      `json:"important_count" yaml:"important_count"`
}

// Group returns selector group as written, members joined with ", ".
func (r Rule) Group() string {
	return strings.Join(r.Selectors, ", ")
}

// Specificity is a heuristic (ids, class-like, elements) triple. Score is
// ids*100 + classLike*10 + elements and is used to order selectors.
type Specificity struct {
	IDs       int `json:"ids" yaml:"ids"`
	ClassLike int `json:"class_like" yaml:"class_like"`
	Elements  int `json:"elements" yaml:"elements"`
	Score     int `json:"score" yaml:"score"`
}

func newSpecificity(ids, classLike, elements int) Specificity {
	return Specificity{
		IDs:       ids,
		ClassLike: classLike,
		Elements:  elements,
		Score:     ids*100 + classLike*10 + elements,
	}
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.IDs, s.ClassLike, s.Elements)
}

// Issue is one flagged problem.
type Issue struct {
	Type     IssueType `json:"type" yaml:"type"`
	Selector string    `json:"selector" yaml:"selector"`
	Fix      string    `json:"fix" yaml:"fix"`
}

// Report is the result of Analyze.
type Report struct {
	Issues        []Issue `json:"issues" yaml:"issues"`
	SuggestedCode string  `json:"suggested_code" yaml:"suggested_code"`
}

// Rewrite is a selector paired with its lower specificity replacement.
type Rewrite struct {
	Before string
	After  string
}

// SpecificityFinding is a rule whose most specific selector crossed the
// score threshold.
type SpecificityFinding struct {
	Selectors   []string    `json:"selectors" yaml:"selectors"`
	Specificity Specificity `json:"specificity" yaml:"specificity"`
}

// ImportantFinding is a rule using !important.
type ImportantFinding struct {
	Selectors []string `json:"selectors" yaml:"selectors"`
	Count     int      `json:"count" yaml:"count"`
}

// Summary is a rule level overview of a stylesheet.
type Summary struct {
	TotalRules      int                  `json:"total_rules" yaml:"total_rules"`
	HighSpecificity []SpecificityFinding `json:"high_specificity" yaml:"high_specificity"`
	ImportantUsage  []ImportantFinding   `json:"important_usage" yaml:"important_usage"`
	Suggestions     []string             `json:"suggestions" yaml:"suggestions"`
}

const (
	fixWherePrefix   = "Use :where() to lower specificity: "
	fixImportant     = "Remove !important; use cascade order or custom properties instead."
	noRewritesCode   = "/* No high-specificity selectors to fix */"
	suggestLowerSpec = "Consider lowering specificity with :where() or cascade layers (@layer)."
	suggestImportant = "Reduce !important; prefer cascade order or custom properties."
	suggestNothing   = "No major specificity or !important issues found."
)
