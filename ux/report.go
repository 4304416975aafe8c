package ux

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown renders audit result as a check table.
func WriteMarkdown(w io.Writer, source string, res Result) error {
	lines := []string{"# Baymard-style Ecommerce UX Audit", ""}
	if len(source) > 0 {
		lines = append(lines, fmt.Sprintf("Source: `%s`", source), "")
	}
	lines = append(lines,
		"## "+res.Section,
		"",
		fmt.Sprintf("**Score: %d/%d** (%d%%)", res.Summary.Passed, res.Summary.Total, res.Summary.Score),
		"",
		"| Check | Status |",
		"|-------|--------|",
	)
	for _, c := range res.Checks {
		status := "❌ Fail"
		if c.Pass {
			status = "✅ Pass"
		}
		lines = append(lines, fmt.Sprintf("| %s | %s |", c.Label, status))
	}
	lines = append(lines, "")

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
