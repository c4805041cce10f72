// Package archive generates the archive pages of the site: one listing all
// posts, and one per tag.
package archive

import (
	"fmt"

	"github.com/swsnr/swsnr.de/internal/model"
)

// DefaultLayout renders archive pages.
const DefaultLayout = "archive.html"

// Options configure generated archive pages.
type Options struct {
	Layout string
	// Feeds adds per-tag feed URLs to tag pages.
	Feeds bool
}

func (o Options) layout() string {
	if o.Layout == "" {
		return DefaultLayout
	}
	return o.Layout
}

// Index returns the page listing all posts.
func Index(opts Options) *model.Page {
	return &model.Page{
		URL:    "/archives/",
		Title:  "Archives",
		Layout: opts.layout(),
	}
}

// TagPages returns one archive page per tag, in the order of tags.
func TagPages(tags []string, opts Options) []*model.Page {
	pages := make([]*model.Page, 0, len(tags))
	for _, tag := range tags {
		url := fmt.Sprintf("/archives/%s/", tag)
		page := &model.Page{
			URL:    url,
			Query:  tag,
			Title:  fmt.Sprintf("Posts tagged %s", tag),
			Layout: opts.layout(),
		}
		if opts.Feeds {
			page.Feeds = &model.Feeds{
				RSS:  url + "feed.xml",
				Atom: url + "feed.atom.xml",
			}
		}
		pages = append(pages, page)
	}
	return pages
}

// Generator returns a function generating the index and all tag pages.
func Generator(tags []string, opts Options) func() []*model.Page {
	return func() []*model.Page {
		return append([]*model.Page{Index(opts)}, TagPages(tags, opts)...)
	}
}
