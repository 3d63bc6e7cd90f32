package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const styleCSS = `
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; color: #1c1917; line-height: 1.55; max-width: 880px; margin: 0 auto; padding: 1.2rem; }
h1 { font-size: 1.7rem; border-bottom: 2px solid #e7e5e4; padding-bottom: 0.4rem; }
h2 { font-size: 1.25rem; margin-top: 1.6rem; }
table { width: 100%; border-collapse: collapse; font-size: 0.85rem; margin: 0.6rem 0; }
th, td { border: 1px solid #a8a29e; padding: 0.35rem 0.45rem; text-align: left; vertical-align: top; }
thead th { background: #f1f5f9; font-weight: 700; }
blockquote { border-left: 3px solid #92400e; margin: 0.6rem 0; padding: 0.2rem 0.65rem; color: #44403c; background: #fef3c7; }
code { background: #f5f5f4; padding: 0.1rem 0.3rem; border-radius: 3px; font-size: 0.85em; }
`

// RenderHTML converts report markdown into a standalone HTML document with
// embedded styling, suitable for browsers and for the PDF renderer.
func RenderHTML(markdown, title string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title><style>")
	b.WriteString(styleCSS)
	b.WriteString("html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}\n")
	b.WriteString("@media print{ @page{size:auto;margin:12mm;} body{padding:0;max-width:none;} }\n")
	b.WriteString("</style></head><body>")
	b.WriteString(content.String())
	b.WriteString("</body></html>")
	return b.String(), nil
}
