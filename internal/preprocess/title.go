package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/swsnr/swsnr.de/internal/model"
)

// headingRegexp matches the first ATX heading of level 1 to 3 (group 1) or
// setext heading (group 2), following jekyll-titles-from-headings.
var headingRegexp = regexp.MustCompile(`(?m)^\s*(?:#{1,3}\s+(.*?)(?:[ \t]+#{1,3})?[ \t]*|(.*?)\r?\n[-=]+\s*)\r?$`)

// TitleExtractor sets page titles from the first markdown heading.
type TitleExtractor struct {
	logger *slog.Logger
}

// NewTitleExtractor returns a TitleExtractor. A nil logger discards output.
func NewTitleExtractor(logger *slog.Logger) *TitleExtractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TitleExtractor{logger: logger}
}

// Process extracts titles for all pages in order.
func (e *TitleExtractor) Process(_ context.Context, pages []*model.Page) error {
	for _, page := range pages {
		e.Extract(page)
	}
	return nil
}

// Extract sets the page title from its first heading if the page has no
// title and asks for one. In cut mode the heading is removed from the
// content.
func (e *TitleExtractor) Extract(page *model.Page) {
	if page.Title != "" || page.Content == nil || !page.TitleFromHeading.Enabled() {
		e.logger.Debug("skipping title extraction",
			"path", page.SourcePath,
			"hasTitle", page.Title != "",
			"mode", string(page.TitleFromHeading),
		)
		return
	}

	content, ok := page.ContentString()
	if !ok {
		e.logger.Warn("ignoring page with complex content",
			"path", page.SourcePath,
			"type", fmt.Sprintf("%T", page.Content),
		)
		return
	}
	if content == "" {
		e.logger.Debug("skipping title extraction", "path", page.SourcePath, "reason", "empty content")
		return
	}

	title, loc := matchHeading(content)
	if title == "" {
		return
	}

	page.Title = title
	if page.TitleFromHeading == model.TitleModeCut {
		page.Content = content[:loc[0]] + content[loc[1]:]
	}
}

// matchHeading returns the text of the first heading in content and the
// byte range of the whole match.
func matchHeading(content string) (string, []int) {
	m := headingRegexp.FindStringSubmatchIndex(content)
	if m == nil {
		return "", nil
	}
	if m[2] >= 0 && m[3] > m[2] {
		return content[m[2]:m[3]], m[:2]
	}
	if m[4] >= 0 && m[5] > m[4] {
		return content[m[4]:m[5]], m[:2]
	}
	return "", nil
}
