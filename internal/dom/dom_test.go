package dom

import (
	"strings"
	"testing"
)

const page = `<html><head><title>Acme Ltd: Share Price</title>
<script>var label = "ROE";</script></head>
<body>
<div id="ratios">
  <ul>
    <li><span class="name">Stock&nbsp;P/E</span> <span class="value"><span class="number">18.5</span></span></li>
    <li><span class="name">ROE</span><!-- note --><span class="value">  14.2 % </span></li>
  </ul>
</div>
<p id="free">Industry PE: 22.1</p>
<div class="tail"><a href="/company/ACME/">Acme</a></div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestDocumentSelect(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)

	t.Run("returns matches in document order", func(t *testing.T) {
		t.Parallel()

		names := doc.Select("#ratios .name")
		if len(names) != 2 {
			t.Fatalf("got %d names, want 2", len(names))
		}
		if got := names[0].Text(); got != "Stock P/E" {
			t.Errorf("names[0] = %q, want %q", got, "Stock P/E")
		}
		if got := names[1].Text(); got != "ROE" {
			t.Errorf("names[1] = %q, want %q", got, "ROE")
		}
	})

	t.Run("missing selector yields nothing", func(t *testing.T) {
		t.Parallel()

		if _, ok := doc.SelectOne("#profit-loss"); ok {
			t.Error("SelectOne() found a node for a missing selector")
		}
		if got := doc.Select("table"); len(got) != 0 {
			t.Errorf("Select() = %d nodes, want 0", len(got))
		}
	})

	t.Run("node select is scoped to descendants", func(t *testing.T) {
		t.Parallel()

		li, ok := doc.SelectOne("#ratios li")
		if !ok {
			t.Fatal("li not found")
		}
		if got := len(li.Select(".name")); got != 1 {
			t.Errorf("li.Select() = %d nodes, want 1", got)
		}
	})
}

func TestNodeText(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)
	v, ok := doc.SelectOne("#ratios li:nth-child(2) .value")
	if !ok {
		t.Fatal("value not found")
	}
	if got := v.Text(); got != "14.2 %" {
		t.Errorf("Text() = %q, want %q", got, "14.2 %")
	}
}

func TestNodeNavigation(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)

	t.Run("next sibling skips comments and whitespace", func(t *testing.T) {
		t.Parallel()

		names := doc.Select(".name")
		sib, ok := names[1].NextSibling()
		if !ok {
			t.Fatal("NextSibling() found nothing")
		}
		if got := sib.Text(); got != "14.2 %" {
			t.Errorf("sibling text = %q", got)
		}
	})

	t.Run("last child has no next sibling", func(t *testing.T) {
		t.Parallel()

		values := doc.Select("#ratios .value")
		if _, ok := values[1].NextSibling(); ok {
			t.Error("NextSibling() found a node after the last child")
		}
	})

	t.Run("parent", func(t *testing.T) {
		t.Parallel()

		name, _ := doc.SelectOne(".name")
		p, ok := name.Parent()
		if !ok || p.Tag() != "li" {
			t.Errorf("Parent() = %q, %v; want li", p.Tag(), ok)
		}
	})

	t.Run("find next searches forward in document order", func(t *testing.T) {
		t.Parallel()

		free, _ := doc.SelectOne("#free")
		next, ok := free.FindNext("div")
		if !ok {
			t.Fatal("FindNext() found nothing")
		}
		if cls, _ := next.Attr("class"); cls != "tail" {
			t.Errorf("FindNext() class = %q, want tail", cls)
		}
		if _, ok := free.FindNext("table"); ok {
			t.Error("FindNext() found a table that does not exist")
		}
	})

	t.Run("find next includes own descendants", func(t *testing.T) {
		t.Parallel()

		li, _ := doc.SelectOne("#ratios li")
		span, ok := li.FindNext("span")
		if !ok || span.Text() != "Stock P/E" {
			t.Errorf("FindNext(span) = %q, %v", span.Text(), ok)
		}
	})

	t.Run("first descendant", func(t *testing.T) {
		t.Parallel()

		tail, _ := doc.SelectOne(".tail")
		a, ok := tail.FirstDescendant("a")
		if !ok {
			t.Fatal("FirstDescendant() found nothing")
		}
		if href, _ := a.Attr("href"); href != "/company/ACME/" {
			t.Errorf("href = %q", href)
		}
	})

	t.Run("leaf detection", func(t *testing.T) {
		t.Parallel()

		name, _ := doc.SelectOne(".name")
		if !name.IsLeaf() {
			t.Error("span.name should be a leaf")
		}
		li, _ := doc.SelectOne("#ratios li")
		if li.IsLeaf() {
			t.Error("li should not be a leaf")
		}
	})
}

func TestDocumentTextNodes(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, page)
	nodes := doc.TextNodes(func(s string) bool { return strings.Contains(s, "ROE") })
	if len(nodes) != 1 {
		t.Fatalf("got %d text nodes, want 1 (script text must be skipped)", len(nodes))
	}
	if nodes[0].Parent.Tag() != "span" {
		t.Errorf("parent tag = %q, want span", nodes[0].Parent.Tag())
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims", in: "  12%  ", want: "12%"},
		{name: "folds nbsp", in: "Stock\u00a0P/E", want: "Stock P/E"},
		{name: "collapses newlines", in: "Sales\n   +", want: "Sales +"},
		{name: "full-width digits", in: "１２", want: "12"},
		{name: "empty", in: " \t\n", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
