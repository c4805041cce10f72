package model

import (
	"html/template"
	"slices"
	"time"

	"github.com/swsnr/swsnr.de/internal/config"
)

// Page represents a single source page (e.g. blog post) or a generated one
// (e.g. a tag archive).
//
// Title, Excerpt and Description are absent while empty.
type Page struct {
	SourcePath string
	URL        string
	Layout     string
	Date       time.Time
	Tags       []string

	// Content holds the raw body of the page. Markdown sources carry a string;
	// anything else is treated as already rendered and left alone.
	Content any

	Title            string
	Excerpt          string
	Description      string
	TitleFromHeading TitleMode
	IncludeInFeed    bool

	// Query selects the tag a generated archive page lists. Empty lists
	// everything.
	Query string
	Feeds *Feeds

	// Data holds front matter and directory data keys without a dedicated
	// field.
	Data map[string]any

	HTML template.HTML
}

// Feeds holds the URLs of the feeds belonging to a page.
type Feeds struct {
	RSS  string
	Atom string
}

// ContentString returns the page content if it is a string.
func (p *Page) ContentString() (string, bool) {
	s, ok := p.Content.(string)
	return s, ok
}

// HasTag reports whether the page is tagged with tag.
func (p *Page) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// Site holds all site-wide data, including configuration and content.
type Site struct {
	Config config.Config
	Pages  []*Page
	// Posts are the pages included in feeds, newest first.
	Posts []*Page
	ByTag map[string][]*Page
}

// Tagged returns the posts tagged with tag, or all posts if tag is empty.
func (s *Site) Tagged(tag string) []*Page {
	if tag == "" {
		return s.Posts
	}
	return s.ByTag[tag]
}
