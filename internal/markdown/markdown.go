// Package markdown renders product descriptions to sanitized HTML.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer, extension.Linkify),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("target", "rel").OnElements("a")
	return p
}

// Render converts markdown source to HTML safe to store and serve verbatim.
// Raw HTML in the source passes through the renderer and is stripped down by
// the sanitizer afterwards.
func Render(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		// Conversion only fails on writer errors, which bytes.Buffer never
		// returns; fall back to the sanitized source just in case.
		return policy.Sanitize(source)
	}
	return policy.Sanitize(buf.String())
}
