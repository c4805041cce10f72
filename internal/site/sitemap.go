package site

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/swsnr/swsnr.de/internal/model"
)

func (e *Engine) writeSitemap(pages []*model.Page) error {
	if err := e.writeXML("/sitemap.xml", e.buildSitemap(pages)); err != nil {
		return err
	}
	robots := buildRobots(e.absURL("/sitemap.xml"))
	if err := os.WriteFile(filepath.Join(e.cfg.OutputDir, "robots.txt"), []byte(robots), 0o644); err != nil {
		return fmt.Errorf("failed to write robots.txt: %w", err)
	}
	return nil
}

func (e *Engine) buildSitemap(pages []*model.Page) *etree.Document {
	type entry struct {
		loc     string
		lastMod time.Time
	}
	seen := map[string]struct{}{}
	entries := make([]entry, 0, len(pages))
	for _, page := range pages {
		loc := e.absURL(page.URL)
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		entries = append(entries, entry{loc: loc, lastMod: page.Date})
	}
	slices.SortFunc(entries, func(a, b entry) int { return strings.Compare(a.loc, b.loc) })

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", "http://www.sitemaps.org/schemas/sitemap/0.9")
	for _, entry := range entries {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(entry.loc)
		if !entry.lastMod.IsZero() {
			u.CreateElement("lastmod").SetText(entry.lastMod.UTC().Format("2006-01-02"))
		}
	}
	doc.Indent(2)
	return doc
}

func buildRobots(sitemapURL string) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Sitemap: %s\n", sitemapURL))
	return builder.String()
}
