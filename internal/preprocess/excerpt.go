package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/swsnr/swsnr.de/internal/model"
)

// MoreMarker separates the excerpt of a page from the rest of its content.
const MoreMarker = "<!--more-->"

// DefaultDescriptionWords is the word budget of a derived description.
const DefaultDescriptionWords = 100

const ellipsis = "…"

// PlainTextRenderer renders markdown and strips all markup from the result.
type PlainTextRenderer interface {
	PlainText(ctx context.Context, markdown string) (string, error)
}

// ExcerptExtractor derives excerpts and descriptions of pages.
type ExcerptExtractor struct {
	renderer PlainTextRenderer
	words    int
	logger   *slog.Logger
}

// NewExcerptExtractor returns an ExcerptExtractor which truncates
// descriptions to words words. A non-positive words uses
// DefaultDescriptionWords; a nil logger discards output.
func NewExcerptExtractor(renderer PlainTextRenderer, words int, logger *slog.Logger) *ExcerptExtractor {
	if words <= 0 {
		words = DefaultDescriptionWords
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExcerptExtractor{renderer: renderer, words: words, logger: logger}
}

// Process extracts excerpts and descriptions of pages one after another,
// and stops at the first page that fails.
func (e *ExcerptExtractor) Process(ctx context.Context, pages []*model.Page) error {
	for _, page := range pages {
		if err := e.Extract(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

// Extract sets the excerpt of page, then its description.
func (e *ExcerptExtractor) Extract(ctx context.Context, page *model.Page) error {
	e.extractExcerpt(page)
	return e.describe(ctx, page)
}

func (e *ExcerptExtractor) extractExcerpt(page *model.Page) {
	if page.Excerpt != "" {
		return
	}
	content, ok := page.ContentString()
	if !ok {
		if page.Content != nil {
			e.logger.Warn("ignoring page with complex content",
				"path", page.SourcePath,
				"type", fmt.Sprintf("%T", page.Content),
			)
		}
		return
	}
	page.Excerpt, _, _ = strings.Cut(content, MoreMarker)
}

func (e *ExcerptExtractor) describe(ctx context.Context, page *model.Page) error {
	if page.Description != "" || page.Excerpt == "" {
		return nil
	}
	text, err := e.renderer.PlainText(ctx, page.Excerpt)
	if err != nil {
		return fmt.Errorf("describe %s: %w", page.SourcePath, err)
	}
	page.Description = Truncate(text, e.words)
	return nil
}

// Truncate returns the first words whitespace separated words of text,
// joined by single spaces. An ellipsis marks a result shorter than text.
func Truncate(text string, words int) string {
	fields := strings.Fields(text)
	if len(fields) > words {
		fields = fields[:words]
	}
	truncated := strings.Join(fields, " ")
	if len(truncated) < len(text) {
		return truncated + ellipsis
	}
	return truncated
}
