// ABOUTME: Converts streamed markdown text to HTML for the dashboard answer panel.
// ABOUTME: Pure and deterministic: same input always yields the same HTML, no I/O.

package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// converter is built once and reused for every fragment. Hard wraps turn
// single newlines into <br> so partially streamed lines still read correctly.
var converter = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// Markdown converts markdown text to HTML. Raw HTML in the input is escaped,
// not passed through. Conversion failure degrades to escaped plain text so a
// malformed fragment can never blank the answer panel.
func Markdown(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := converter.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	return buf.String()
}
