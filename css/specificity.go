package css

import (
	"regexp"
	"strings"
)

// Selectors are matched with patterns, not a selector grammar. Escapes,
// :not() internals and the universal selector are not handled exactly.
var (
	commentPattern       = regexp.MustCompile(`(?s)/\*.*?\*/`)
	idPattern            = regexp.MustCompile(`#[a-zA-Z_-][\w-]*`)
	classPattern         = regexp.MustCompile(`\.[a-zA-Z_-][\w-]*`)
	attributePattern     = regexp.MustCompile(`\[[^\]]+\]`)
	pseudoClassPattern   = regexp.MustCompile(`:[a-zA-Z_-][\w-]*(?:\s|$|\))`)
	elementPattern       = regexp.MustCompile(`(?:^|[\s+>~])[a-zA-Z][\w-]*`)
	pseudoElementPattern = regexp.MustCompile(`::[a-zA-Z_-][\w-]*`)
)

func stripComments(s string) string {
	return commentPattern.ReplaceAllString(s, "")
}

func count(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

// Calculate computes specificity of a single selector (not a group).
func Calculate(selector string) Specificity {
	s := strings.TrimSpace(stripComments(selector))
	return newSpecificity(
		count(idPattern, s),
		count(classPattern, s)+count(attributePattern, s)+count(pseudoClassPattern, s),
		count(elementPattern, s)+count(pseudoElementPattern, s),
	)
}

// Max returns the most specific of the selectors. First one wins on ties.
func Max(selectors []string) Specificity {
	var best Specificity
	for i, sel := range selectors {
		if s := Calculate(sel); i == 0 || s.Score > best.Score {
			best = s
		}
	}
	return best
}
