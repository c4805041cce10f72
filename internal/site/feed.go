package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/swsnr/swsnr.de/internal/model"
)

const (
	maxFeedItems = 100
	rssPath      = "/feed.xml"
	atomPath     = "/feed.atom.xml"
)

// feed is a list of posts published at a pair of RSS and Atom URLs.
type feed struct {
	Title string
	Link  string
	Feeds model.Feeds
	Items []*model.Page
}

func (e *Engine) writeFeeds(site *model.Site, generated []*model.Page) error {
	feeds := []feed{{
		Title: e.cfg.SiteTitle,
		Link:  "/",
		Feeds: model.Feeds{RSS: rssPath, Atom: atomPath},
		Items: site.Posts,
	}}
	for _, page := range generated {
		if page.Feeds == nil {
			continue
		}
		feeds = append(feeds, feed{
			Title: fmt.Sprintf("%s: %s", e.cfg.SiteTitle, page.Title),
			Link:  page.URL,
			Feeds: *page.Feeds,
			Items: site.Tagged(page.Query),
		})
	}

	generatedAt := e.Now().UTC()
	for _, f := range feeds {
		if len(f.Items) > maxFeedItems {
			f.Items = f.Items[:maxFeedItems]
		}
		if err := e.writeXML(f.Feeds.RSS, e.buildRSS(f, generatedAt)); err != nil {
			return err
		}
		if err := e.writeXML(f.Feeds.Atom, e.buildAtom(f, generatedAt)); err != nil {
			return err
		}
	}
	e.logger.Debug("feeds written", "count", len(feeds))
	return nil
}

func (e *Engine) buildRSS(f feed, generatedAt time.Time) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(f.Title)
	channel.CreateElement("link").SetText(e.absURL(f.Link))
	channel.CreateElement("description").SetText(e.cfg.Description)
	if e.cfg.Lang != "" {
		channel.CreateElement("language").SetText(e.cfg.Lang)
	}
	channel.CreateElement("lastBuildDate").SetText(generatedAt.Format(time.RFC1123Z))

	for _, post := range f.Items {
		link := e.absURL(post.URL)
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(post.Title)
		item.CreateElement("link").SetText(link)
		item.CreateElement("guid").SetText(link)
		item.CreateElement("pubDate").SetText(publishedAt(post, generatedAt).Format(time.RFC1123Z))
		if post.Description != "" {
			item.CreateElement("description").SetText(post.Description)
		}
		for _, tag := range post.Tags {
			item.CreateElement("category").SetText(tag)
		}
	}
	doc.Indent(2)
	return doc
}

func (e *Engine) buildAtom(f feed, generatedAt time.Time) *etree.Document {
	self := e.absURL(f.Feeds.Atom)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("feed")
	root.CreateAttr("xmlns", "http://www.w3.org/2005/Atom")
	if e.cfg.Lang != "" {
		root.CreateAttr("xml:lang", e.cfg.Lang)
	}
	root.CreateElement("id").SetText(self)
	root.CreateElement("title").SetText(f.Title)
	root.CreateElement("updated").SetText(generatedAt.Format(time.RFC3339))
	alternate := root.CreateElement("link")
	alternate.CreateAttr("rel", "alternate")
	alternate.CreateAttr("href", e.absURL(f.Link))
	selfLink := root.CreateElement("link")
	selfLink.CreateAttr("rel", "self")
	selfLink.CreateAttr("href", self)
	if e.cfg.Author.Name != "" {
		author := root.CreateElement("author")
		author.CreateElement("name").SetText(e.cfg.Author.Name)
		if e.cfg.Author.Email != "" {
			author.CreateElement("email").SetText(e.cfg.Author.Email)
		}
	}

	for _, post := range f.Items {
		link := e.absURL(post.URL)
		published := publishedAt(post, generatedAt)
		entry := root.CreateElement("entry")
		entry.CreateElement("id").SetText(entryID(link))
		entry.CreateElement("title").SetText(post.Title)
		href := entry.CreateElement("link")
		href.CreateAttr("href", link)
		entry.CreateElement("published").SetText(published.Format(time.RFC3339))
		entry.CreateElement("updated").SetText(published.Format(time.RFC3339))
		if post.Description != "" {
			entry.CreateElement("summary").SetText(post.Description)
		}
		for _, tag := range post.Tags {
			entry.CreateElement("category").CreateAttr("term", tag)
		}
	}
	doc.Indent(2)
	return doc
}

// entryID derives a stable Atom entry ID from the entry's link.
func entryID(link string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func publishedAt(page *model.Page, fallback time.Time) time.Time {
	if page.Date.IsZero() {
		return fallback
	}
	return page.Date.UTC()
}

// writeXML writes doc to the site path p below the output directory.
func (e *Engine) writeXML(p string, doc *etree.Document) error {
	outputPath := filepath.Join(e.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", p, err)
	}
	if err := doc.WriteToFile(outputPath); err != nil {
		return fmt.Errorf("failed to write '%s': %w", p, err)
	}
	return nil
}
