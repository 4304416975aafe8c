package css

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown renders summary and issue report of one stylesheet. Source,
// when not empty, names the stylesheet under the title.
func WriteMarkdown(w io.Writer, source string, sum Summary, rep Report) error {
	lines := []string{"# CSS Audit Report", ""}
	if len(source) > 0 {
		lines = append(lines, fmt.Sprintf("Source: `%s`", source), "")
	}
	lines = append(lines, fmt.Sprintf("- **Total rules:** %d", sum.TotalRules), "")

	if len(sum.HighSpecificity) > 0 {
		lines = append(lines, "## High specificity")
		for _, f := range sum.HighSpecificity {
			lines = append(lines, fmt.Sprintf("- `%s` → %s", strings.Join(f.Selectors, ", "), f.Specificity))
		}
		lines = append(lines, "")
	}
	if len(sum.ImportantUsage) > 0 {
		lines = append(lines, "## !important usage")
		for _, f := range sum.ImportantUsage {
			lines = append(lines, fmt.Sprintf("- `%s` — %d use(s)", strings.Join(f.Selectors, ", "), f.Count))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "## Suggestions")
	for _, s := range sum.Suggestions {
		lines = append(lines, "- "+s)
	}

	if len(rep.Issues) > 0 {
		lines = append(lines, "", "## Issues")
		for _, is := range rep.Issues {
			lines = append(lines, fmt.Sprintf("- **%s** `%s`: %s", is.Type, is.Selector, is.Fix))
		}
	}
	lines = append(lines, "", "## Suggested code", "", "```css", rep.SuggestedCode, "```", "")

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
