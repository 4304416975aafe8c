package ux_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"uxkit/ux"
)

const productCard = `<!DOCTYPE html>
<html><head><title>Shop</title><style>.price { color: red }</style></head>
<body>
<ul>
  <li role="listitem">
    <article class="product-card">
      <a href="/p/1"><img src="shoe.jpg" alt="Shoe"></a>
      <h3 class="product-title">Running shoe</h3>
      <span class="price" itemprop="price">$89.99</span>
      <button>Add to cart</button>
    </article>
  </li>
</ul>
</body></html>`

func TestAudit_CompleteCard(t *testing.T) {
	res := ux.Audit(productCard)

	if res.Section != "Product grid / listing" {
		t.Errorf("Section = %q", res.Section)
	}
	want := ux.Summary{Passed: 5, Total: 5, Score: 100}
	if diff := cmp.Diff(want, res.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	var ids []string
	for _, c := range res.Checks {
		ids = append(ids, c.ID)
	}
	wantIDs := []string{"visible-price", "cta-add-cart", "product-title", "image-link", "semantic-structure"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("check order mismatch (-want +got):\n%s", diff)
	}
}

func TestAudit_Empty(t *testing.T) {
	res := ux.Audit("")
	if res.Summary.Passed != 0 || res.Summary.Total != 5 || res.Summary.Score != 0 {
		t.Errorf("summary = %+v", res.Summary)
	}
	if len(ux.Issues("")) != 5 {
		t.Errorf("expected every check to fail")
	}
}

func TestAudit_IndividualChecks(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		id     string
		want   bool
	}{
		{"price needs price markup", `<p>$10.00</p>`, "visible-price", false},
		{"price in text with class", `<p class="price">€12</p>`, "visible-price", true},
		{"price with itemprop", `<span itemprop="price">12.50</span>`, "visible-price", true},
		{"price hidden in script", `<script>var price = "$10.00"</script>`, "visible-price", false},
		{"cta case insensitive", `<button>SHOP NOW</button>`, "cta-add-cart", true},
		{"cta only in attribute", `<button title="add to cart"></button>`, "cta-add-cart", false},
		{"title heading", `<h2>Shoe</h2>`, "product-title", true},
		{"title itemprop", `<span itemprop="name">Shoe</span>`, "product-title", true},
		{"h1 is not a card title", `<h1>Shop</h1>`, "product-title", false},
		{"linked image", `<a href="/x"><span><img src="a.png"></span></a>`, "image-link", true},
		{"image without link", `<img src="a.png">`, "image-link", false},
		{"article", `<article></article>`, "semantic-structure", true},
		{"product class", `<div class="grid-product-item"></div>`, "semantic-structure", true},
		{"plain div", `<div class="card"></div>`, "semantic-structure", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ux.Audit(tt.markup)
			for _, c := range res.Checks {
				if c.ID == tt.id {
					if c.Pass != tt.want {
						t.Errorf("%s = %v, want %v", tt.id, c.Pass, tt.want)
					}
					return
				}
			}
			t.Fatalf("check %s not found", tt.id)
		})
	}
}

func TestIssues(t *testing.T) {
	got := ux.Issues(`<article><h2>Shoe</h2><a href="/p"><img src="x"></a></article>`)
	want := []string{
		"Missing or insufficient: Price visible on listing",
		"Missing or insufficient: Clear add-to-cart or view CTA",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleText(t *testing.T) {
	got := ux.VisibleText("<html><head><style>a{}</style></head><body><p>Hello\n\n  <b>world</b></p><script>x()</script></body></html>")
	if got != "Hello world" {
		t.Errorf("VisibleText() = %q", got)
	}
}

func TestDecode(t *testing.T) {
	// "Цена" in windows-1251
	data := append([]byte(`<html><head><meta charset="windows-1251"></head><body>`), 0xd6, 0xe5, 0xed, 0xe0)
	data = append(data, []byte(`</body></html>`)...)

	got, err := ux.Decode(bytes.NewReader(data), "")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !strings.Contains(got, "Цена") {
		t.Errorf("Decode() did not convert to UTF-8: %q", got)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := ux.WriteMarkdown(&buf, "grid.html", ux.Audit(`<article><h2>x</h2></article>`)); err != nil {
		t.Fatalf("WriteMarkdown() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Baymard-style Ecommerce UX Audit",
		"Source: `grid.html`",
		"## Product grid / listing",
		"**Score: 2/5** (40%)",
		"| Check | Status |\n|-------|--------|",
		"| Product title/name present | ✅ Pass |",
		"| Price visible on listing | ❌ Fail |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
