// Package markdown renders markdown with goldmark and derives plain text
// from the result with goquery.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/swsnr/swsnr.de/internal/preprocess"
)

var _ preprocess.PlainTextRenderer = (*Renderer)(nil)

// Options configure a Renderer.
type Options struct {
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
}

// Renderer converts markdown to HTML or plain text. It is safe for
// concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GFM, footnotes and heading IDs.
// Raw HTML in the source is passed through.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{gmhtml.WithUnsafe()}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// HTML renders src to HTML.
func (r *Renderer) HTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// PlainText renders src and returns the text of the result without any
// tags, with runs of whitespace collapsed into single spaces.
func (r *Renderer) PlainText(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := r.HTML(src)
	if err != nil {
		return "", err
	}
	return StripTags(string(html))
}

// StripTags returns the text content of an HTML fragment with whitespace
// collapsed.
func StripTags(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
