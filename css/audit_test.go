package css_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"uxkit/css"
)

const placeholder = "/* No high-specificity selectors to fix */"

func TestAnalyze_NoBlocks(t *testing.T) {
	for _, input := range []string{"", "   \n", "body", "/* only a comment */"} {
		rep := css.Analyze(input)
		if len(rep.Issues) != 0 {
			t.Errorf("Analyze(%q) issues = %d, want 0", input, len(rep.Issues))
		}
		if rep.Issues == nil {
			t.Errorf("Analyze(%q) issues must be empty, not nil", input)
		}
		if rep.SuggestedCode != placeholder {
			t.Errorf("Analyze(%q) suggested code = %q", input, rep.SuggestedCode)
		}
	}
}

func TestAnalyze_HighSpecificity(t *testing.T) {
	rep := css.Analyze(".nav .nav-item.active { color: red; }")

	want := []css.Issue{{
		Type:     css.IssueHighSpecificity,
		Selector: ".nav .nav-item.active",
		Fix:      "Use :where() to lower specificity: :where(.nav) .nav-item.active",
	}}
	if diff := cmp.Diff(want, rep.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(rep.Issues[0].Fix, ":where(") {
		t.Errorf("fix %q does not use :where(", rep.Issues[0].Fix)
	}

	wantCode := "/* Before */\n.nav .nav-item.active { ... }\n/* After */\n:where(.nav) .nav-item.active { ... }"
	if rep.SuggestedCode != wantCode {
		t.Errorf("suggested code = %q, want %q", rep.SuggestedCode, wantCode)
	}
}

func TestAnalyze_ImportantOnly(t *testing.T) {
	rep := css.Analyze(".a { color: red !important; }")

	want := []css.Issue{{
		Type:     css.IssueImportantUsage,
		Selector: ".a",
		Fix:      "Remove !important; use cascade order or custom properties instead.",
	}}
	if diff := cmp.Diff(want, rep.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
	if rep.SuggestedCode != placeholder {
		t.Errorf("suggested code = %q, want placeholder", rep.SuggestedCode)
	}
}

func TestAnalyze_SourceOrder(t *testing.T) {
	rep := css.Analyze("#main .title { color: blue }\n.b { margin: 0 !important }")

	if len(rep.Issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(rep.Issues))
	}
	if rep.Issues[0].Type != css.IssueHighSpecificity || rep.Issues[0].Selector != "#main .title" {
		t.Errorf("first issue = %+v", rep.Issues[0])
	}
	if rep.Issues[1].Type != css.IssueImportantUsage || rep.Issues[1].Selector != ".b" {
		t.Errorf("second issue = %+v", rep.Issues[1])
	}
}

func TestAnalyze_GroupSelector(t *testing.T) {
	rep := css.Analyze("h1, .x .y .z { color: red !important }")

	want := []css.Issue{
		{Type: css.IssueHighSpecificity, Selector: "h1, .x .y .z", Fix: "Use :where() to lower specificity: :where(.x .y) .z"},
		{Type: css.IssueImportantUsage, Selector: "h1, .x .y .z", Fix: "Remove !important; use cascade order or custom properties instead."},
	}
	if diff := cmp.Diff(want, rep.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(rep.SuggestedCode, "/* Before */\n.x .y .z { ... }") {
		t.Errorf("suggested code should pair flagged member, got %q", rep.SuggestedCode)
	}
}

func TestAnalyze_SuggestedCodeJoined(t *testing.T) {
	rep := css.Analyze("#a b { } .c .d { }")

	blocks := strings.Split(rep.SuggestedCode, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %q", len(blocks), rep.SuggestedCode)
	}
	if !strings.Contains(blocks[1], ":where(.c) .d { ... }") {
		t.Errorf("second block = %q", blocks[1])
	}
}

func TestIsHighSpecificity(t *testing.T) {
	a := css.NewAnalyzer(css.DefaultOptions(), zap.NewNop())

	tests := []struct {
		selector string
		want     bool
	}{
		{"#app", false},
		{".a.b.c", false},
		{"div p", false},
		{".a .b", true},
		{"#app p", true},
		{"ul li a", true},
		{"ul > li a", true},
		{"@media screen and (min-width: 10px)", false},
	}
	for _, tt := range tests {
		if got := a.IsHighSpecificity(tt.selector); got != tt.want {
			t.Errorf("IsHighSpecificity(%q) = %v, want %v", tt.selector, got, tt.want)
		}
	}
}

func TestRewrite(t *testing.T) {
	a := css.NewAnalyzer(css.DefaultOptions(), nil)

	got, ok := a.Rewrite("ul > li   a")
	if !ok || got != ":where(ul > li) a" {
		t.Errorf("Rewrite() = %q, %v", got, ok)
	}
	if _, ok := a.Rewrite(".btn"); ok {
		t.Error("Rewrite(.btn) should not rewrite simple selector")
	}
	// prefix stays a descendant chain, never a selector list
	if got, _ := a.Rewrite(".a .b .c"); got != ":where(.a .b) .c" || strings.Contains(got, ",") {
		t.Errorf("Rewrite(.a .b .c) = %q", got)
	}
}

func TestAnalyze_PatternAtRulePrelude(t *testing.T) {
	text := "@media (max-width: 600px) { .a { color: red } }"

	rules := css.Parse(text)
	if len(rules) != 1 || len(rules[0].Selectors) != 1 || rules[0].Selectors[0] != "@media (max-width: 600px)" {
		t.Fatalf("Parse() = %+v", rules)
	}
	// prelude has three parts but is not a selector
	if rep := css.Analyze(text); len(rep.Issues) != 0 {
		t.Errorf("at-rule prelude flagged: %+v", rep.Issues)
	}
}

func TestAnalyze_CommentBeforeRule(t *testing.T) {
	text := "/* Buttons */\n.btn { color: red }"

	rules := css.Parse(text)
	if len(rules) != 1 || len(rules[0].Selectors) != 1 || rules[0].Selectors[0] != ".btn" {
		t.Fatalf("Parse() = %+v", rules)
	}
	if rep := css.Analyze(text); len(rep.Issues) != 0 {
		t.Errorf("comment counted as selector parts: %+v", rep.Issues)
	}
}

func TestAnalyzer_Thresholds(t *testing.T) {
	relaxed := css.NewAnalyzer(css.Options{Thresholds: css.Thresholds{Score: 100, ClassLike: 3, Parts: 3}}, zap.NewNop())

	if rep := relaxed.Analyze(".a .b { }"); len(rep.Issues) != 0 {
		t.Errorf("relaxed thresholds issues = %d, want 0", len(rep.Issues))
	}
	if rep := css.Analyze(".a .b { }"); len(rep.Issues) != 1 {
		t.Errorf("default thresholds issues = %d, want 1", len(rep.Issues))
	}

	zero := css.NewAnalyzer(css.Options{}, nil)
	if diff := cmp.Diff(css.Analyze(".a .b {} p {}"), zero.Analyze(".a .b {} p {}")); diff != "" {
		t.Errorf("zero options must behave as defaults:\n%s", diff)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	sheet := "#app .x .y { color: red !important } .a { } .b .c.d { }"
	for _, a := range []*css.Analyzer{css.NewAnalyzer(css.DefaultOptions(), nil), tokenizerAnalyzer()} {
		first := a.Analyze(sheet)
		second := a.Analyze(sheet)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("second run differs:\n%s", diff)
		}
	}
}

func TestAudit(t *testing.T) {
	sum := css.Audit("#app .x { color: red }\n.a { color: blue !important; margin: 0 !important }\np { }")

	want := css.Summary{
		TotalRules: 3,
		HighSpecificity: []css.SpecificityFinding{{
			Selectors:   []string{"#app .x"},
			Specificity: css.Specificity{IDs: 1, ClassLike: 1, Score: 110},
		}},
		ImportantUsage: []css.ImportantFinding{{Selectors: []string{".a"}, Count: 2}},
		Suggestions: []string{
			"Consider lowering specificity with :where() or cascade layers (@layer).",
			"Reduce !important; prefer cascade order or custom properties.",
		},
	}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestAudit_Suggestions(t *testing.T) {
	if sum := css.Audit(""); len(sum.Suggestions) != 0 || sum.TotalRules != 0 {
		t.Errorf("empty stylesheet summary = %+v", sum)
	}
	sum := css.Audit("p { margin: 0 }")
	if diff := cmp.Diff([]string{"No major specificity or !important issues found."}, sum.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch:\n%s", diff)
	}
}

func FuzzAnalyze(f *testing.F) {
	for _, seed := range []string{
		"",
		".a { color: red !important; }",
		".nav .nav-item.active { }",
		"@media (x) { .a .b .c { } }",
		"a{b{c{}}}}}",
		"/* unterminated",
		"#a[x=\"}\"] { }",
	} {
		f.Add(seed)
	}
	tok := tokenizerAnalyzer()
	f.Fuzz(func(t *testing.T, input string) {
		for _, rep := range []css.Report{css.Analyze(input), tok.Analyze(input)} {
			if rep.SuggestedCode == "" {
				t.Fatal("suggested code must never be empty")
			}
			for _, is := range rep.Issues {
				if is.Type != css.IssueHighSpecificity && is.Type != css.IssueImportantUsage {
					t.Fatalf("unexpected issue type %q", is.Type)
				}
			}
		}
	})
}
