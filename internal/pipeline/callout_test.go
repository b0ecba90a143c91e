package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func transformCallouts(t *testing.T, input string) (string, *goquery.Document) {
	t.Helper()

	got, err := (&CalloutTransformation{}).TransformCallouts(context.Background(), input)
	if err != nil {
		t.Fatalf("TransformCallouts() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return got, doc
}

// calloutHTML is what the Markdown stage emits for a callout quote block.
func calloutHTML(header string, body ...string) string {
	first := "<p>" + header
	if len(body) > 0 {
		first += "<br />\n" + body[0]
	}
	first += "</p>\n"

	var rest strings.Builder
	for _, b := range body[min(1, len(body)):] {
		rest.WriteString("<p>" + b + "</p>\n")
	}
	return "<blockquote>\n" + first + rest.String() + "</blockquote>\n"
}

// ---------------------------------------------------------------------------
// TestTransformCallouts - Detection and titles
// ---------------------------------------------------------------------------

func TestTransformCallouts_Detection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantType  string
		wantTitle string
	}{
		{
			name:      "type with title",
			input:     calloutHTML("[!warning] Careful", "Body"),
			wantType:  "warning",
			wantTitle: "Careful",
		},
		{
			name:      "default title",
			input:     calloutHTML("[!warning]", "Body"),
			wantType:  "warning",
			wantTitle: "Warning",
		},
		{
			name:      "alias resolves to canonical type",
			input:     calloutHTML("[!faq]", "Body"),
			wantType:  "question",
			wantTitle: "Question",
		},
		{
			name:      "type is case-insensitive",
			input:     calloutHTML("[!TIP] Remember", "Body"),
			wantType:  "tip",
			wantTitle: "Remember",
		},
		{
			name:      "unknown type falls back to note",
			input:     calloutHTML("[!custom]", "Body"),
			wantType:  "note",
			wantTitle: "Note",
		},
		{
			name:      "fold marker ignored",
			input:     calloutHTML("[!example]- Folded title", "Body"),
			wantType:  "example",
			wantTitle: "Folded title",
		},
		{
			name:      "title text is escaped on output",
			input:     calloutHTML("[!note] a &lt;b&gt; c", "Body"),
			wantType:  "note",
			wantTitle: "a <b> c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, doc := transformCallouts(t, tt.input)

			if doc.Find("blockquote").Length() != 0 {
				t.Error("callout quote block should be replaced")
			}
			table := doc.Find("table")
			if table.Length() != 1 {
				t.Fatalf("want 1 table, got %d", table.Length())
			}
			if got, _ := table.Attr("data-callout"); got != tt.wantType {
				t.Errorf("data-callout = %q, want %q", got, tt.wantType)
			}
			if _, hasClass := table.Attr("class"); hasClass {
				t.Error("callout table should carry no class")
			}
			title := doc.Find("td > p").First()
			if title.Text() != tt.wantTitle {
				t.Errorf("title = %q, want %q", title.Text(), tt.wantTitle)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTransformCallouts - Styling and body
// ---------------------------------------------------------------------------

func TestTransformCallouts_Styles(t *testing.T) {
	t.Parallel()

	_, doc := transformCallouts(t, calloutHTML("[!warning] Careful", "First", "Second"))
	theme := CalloutWarning.Theme()

	tableStyle, _ := doc.Find("table").Attr("style")
	for _, want := range []string{"width: 100%", "margin: 20px 0", "border-collapse: collapse"} {
		if !strings.Contains(tableStyle, want) {
			t.Errorf("table style %q missing %q", tableStyle, want)
		}
	}

	tdStyle, _ := doc.Find("td").Attr("style")
	for _, want := range []string{"border-left: 4px solid " + theme.BorderColor, "background: " + theme.Background} {
		if !strings.Contains(tdStyle, want) {
			t.Errorf("td style %q missing %q", tdStyle, want)
		}
	}

	paragraphs := doc.Find("td > p")
	if paragraphs.Length() != 3 {
		t.Fatalf("want title + 2 body paragraphs, got %d", paragraphs.Length())
	}

	titleStyle, _ := paragraphs.Eq(0).Attr("style")
	if !strings.Contains(titleStyle, "color: "+theme.TitleColor) || !strings.Contains(titleStyle, "font-weight: 700") {
		t.Errorf("title style = %q", titleStyle)
	}

	firstStyle, _ := paragraphs.Eq(1).Attr("style")
	if !strings.Contains(firstStyle, "margin: 0 0 12px 0") || !strings.Contains(firstStyle, "color: #333") {
		t.Errorf("body style = %q", firstStyle)
	}
	if strings.Contains(paragraphs.Eq(1).Text(), "[!warning]") {
		t.Errorf("header line should be stripped, got %q", paragraphs.Eq(1).Text())
	}

	lastStyle, _ := paragraphs.Eq(2).Attr("style")
	if !strings.Contains(lastStyle, "margin: 0;") || strings.Contains(lastStyle, "12px") {
		t.Errorf("last paragraph style = %q, want margin 0", lastStyle)
	}
}

func TestTransformCallouts_BodyStructure(t *testing.T) {
	t.Parallel()

	t.Run("header only keeps just the title", func(t *testing.T) {
		t.Parallel()

		_, doc := transformCallouts(t, calloutHTML("[!note] Just a title"))
		if n := doc.Find("td > p").Length(); n != 1 {
			t.Errorf("want only the title paragraph, got %d", n)
		}
	})

	t.Run("non-paragraph children kept in order", func(t *testing.T) {
		t.Parallel()

		input := "<blockquote>\n<p>[!tip]<br />\nIntro</p>\n<ul>\n<li>one</li>\n</ul>\n<p>Outro</p>\n</blockquote>"
		_, doc := transformCallouts(t, input)

		children := doc.Find("td").Children()
		var tags []string
		children.Each(func(_ int, s *goquery.Selection) {
			tags = append(tags, goquery.NodeName(s))
		})
		if strings.Join(tags, ",") != "p,p,ul,p" {
			t.Errorf("td children = %v, want title, intro, list, outro", tags)
		}
		if style, _ := doc.Find("td > p").Last().Attr("style"); !strings.Contains(style, "margin: 0;") {
			t.Errorf("last paragraph style = %q", style)
		}
	})

	t.Run("image after header is kept", func(t *testing.T) {
		t.Parallel()

		input := `<blockquote><p>[!tip]<br/><img src="a.png" alt="x"/></p></blockquote>`
		_, doc := transformCallouts(t, input)
		if doc.Find("td img").Length() != 1 {
			t.Error("image on the line after the header should survive")
		}
	})

	t.Run("blank remainder removed", func(t *testing.T) {
		t.Parallel()

		input := "<blockquote><p>[!tip] T<br/>  </p><p>Body</p></blockquote>"
		_, doc := transformCallouts(t, input)
		if n := doc.Find("td > p").Length(); n != 2 {
			t.Errorf("want title + body, got %d paragraphs", n)
		}
	})
}

// ---------------------------------------------------------------------------
// TestTransformCallouts - Non-callouts
// ---------------------------------------------------------------------------

func TestTransformCallouts_LeavesPlainQuotes(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<p>no quotes</p>",
		"<blockquote>\n<p>plain quote</p>\n</blockquote>\n",
		"<blockquote>\n<p>text then [!note]</p>\n</blockquote>\n",
		"<blockquote>\n<ul><li>[!note]</li></ul>\n</blockquote>\n",
		"<blockquote></blockquote>",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			got, _ := transformCallouts(t, input)
			if got != input {
				t.Errorf("TransformCallouts() = %q, want input unchanged", got)
			}
		})
	}
}

func TestTransformCallouts_Multiple(t *testing.T) {
	t.Parallel()

	input := calloutHTML("[!note] One", "a") +
		"<blockquote>\n<p>plain</p>\n</blockquote>\n" +
		calloutHTML("[!danger] Two", "b")

	_, doc := transformCallouts(t, input)

	tables := doc.Find("table")
	if tables.Length() != 2 {
		t.Fatalf("want 2 callouts, got %d", tables.Length())
	}
	if got, _ := tables.Eq(1).Attr("data-callout"); got != "danger" {
		t.Errorf("second callout = %q, want danger", got)
	}
	if doc.Find("blockquote").Length() != 1 {
		t.Error("plain quote block should survive")
	}
}

func TestTransformCallouts_Nested(t *testing.T) {
	t.Parallel()

	input := "<blockquote><p>[!note] Outer<br/>text</p>" +
		"<blockquote><p>[!tip] Inner<br/>deep</p></blockquote></blockquote>"

	_, doc := transformCallouts(t, input)
	if doc.Find("blockquote").Length() != 0 {
		t.Error("nested callout should be transformed too")
	}
	if doc.Find("table table").Length() != 1 {
		t.Error("inner callout should be nested in the outer one")
	}
}

func TestTransformCallouts_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&CalloutTransformation{}).TransformCallouts(ctx, calloutHTML("[!note]", "x"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
