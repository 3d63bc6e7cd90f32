package report

import (
	"strings"
	"testing"
)

func TestRenderHTMLConvertsTables(t *testing.T) {
	md := BuildMarkdown(reportResponse())
	out, err := RenderHTML(md, "scn-001")
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if !strings.Contains(out, "<title>scn-001</title>") {
		t.Fatal("title not embedded")
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<th>Metric</th>") {
		t.Fatal("growth table not converted to HTML")
	}
	if !strings.Contains(out, "<h2") || !strings.Contains(out, "Expected ROI") {
		t.Fatal("section headings not converted")
	}
	if !strings.HasPrefix(out, "<!doctype html>") || !strings.HasSuffix(out, "</body></html>") {
		t.Fatal("document wrapper missing")
	}
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	out, err := RenderHTML("# Hi\n", "<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("escaped title missing")
	}
}
