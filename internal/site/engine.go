// Package site assembles the blog: it loads markdown pages from the source
// tree, runs the registered preprocessors over them, renders layouts and
// writes the site together with its feeds and sitemap.
package site

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/swsnr/swsnr.de/internal/config"
	"github.com/swsnr/swsnr.de/internal/markdown"
	"github.com/swsnr/swsnr.de/internal/model"
)

// Processor transforms a batch of pages before they are rendered.
type Processor func(ctx context.Context, pages []*model.Page) error

// Generator produces virtual pages which have no source file.
type Generator func() []*model.Page

type preprocessor struct {
	exts []string
	fn   Processor
}

// matches reports whether page has a source file with one of p's
// extensions.
func (p preprocessor) matches(page *model.Page) bool {
	if page.SourcePath == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(page.SourcePath))
	return slices.Contains(p.exts, ext)
}

// Engine builds the site described by a configuration.
type Engine struct {
	cfg      config.Config
	renderer *markdown.Renderer
	logger   *slog.Logger

	preprocessors []preprocessor
	generators    []Generator

	// Now returns the build time stamped into feeds.
	Now func() time.Time
}

// New returns an Engine for cfg. A nil logger discards output.
func New(cfg config.Config, renderer *markdown.Renderer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		Now:      time.Now,
	}
}

// Preprocess registers fn to run over all pages whose source file has one
// of exts, e.g. ".md". Processors run in registration order.
func (e *Engine) Preprocess(exts []string, fn Processor) {
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	e.preprocessors = append(e.preprocessors, preprocessor{exts: normalized, fn: fn})
}

// Generate registers fn to add virtual pages to every build.
func (e *Engine) Generate(fn Generator) {
	e.generators = append(e.generators, fn)
}

// Build loads, preprocesses, renders and writes the whole site.
func (e *Engine) Build(ctx context.Context) (*model.Site, error) {
	begin := time.Now()
	e.logger.Info("build started",
		"src", e.cfg.Src,
		"outputDir", e.cfg.OutputDir,
		"location", e.cfg.Location,
	)

	if _, err := os.Stat(e.cfg.Src); os.IsNotExist(err) {
		return nil, fmt.Errorf("source directory '%s' not found", e.cfg.Src)
	}

	layouts, err := e.parseLayouts()
	if err != nil {
		return nil, err
	}

	pages, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.logger.Info("pages loaded", "count", len(pages))

	if err := e.preprocess(ctx, pages); err != nil {
		return nil, err
	}
	if err := e.finalize(pages); err != nil {
		return nil, err
	}

	site := newSite(e.cfg, pages)
	var generated []*model.Page
	for _, generate := range e.generators {
		generated = append(generated, generate()...)
	}
	site.Pages = append(site.Pages, generated...)

	if err := e.prepareOutput(); err != nil {
		return nil, err
	}

	written, err := e.writePages(ctx, layouts, site)
	if err != nil {
		return nil, err
	}
	if err := e.writeFeeds(site, generated); err != nil {
		return nil, err
	}
	if err := e.writeSitemap(written); err != nil {
		return nil, err
	}

	e.logger.Info("build completed",
		"pages", len(written),
		"posts", len(site.Posts),
		"duration", time.Since(begin),
	)
	return site, nil
}

func (e *Engine) preprocess(ctx context.Context, pages []*model.Page) error {
	for _, p := range e.preprocessors {
		var matched []*model.Page
		for _, page := range pages {
			if p.matches(page) {
				matched = append(matched, page)
			}
		}
		if err := p.fn(ctx, matched); err != nil {
			return fmt.Errorf("preprocess: %w", err)
		}
	}
	return nil
}

// finalize fills titles the preprocessors left empty and renders page
// content to HTML.
func (e *Engine) finalize(pages []*model.Page) error {
	for _, page := range pages {
		if page.Title == "" {
			page.Title = titleFromPath(page.SourcePath)
			e.logger.Debug("title from file name", "path", page.SourcePath, "title", page.Title)
		}
		content, ok := page.ContentString()
		if !ok {
			continue
		}
		html, err := e.renderer.HTML(content)
		if err != nil {
			return fmt.Errorf("render %s: %w", page.SourcePath, err)
		}
		page.HTML = html
	}
	return nil
}

// prepareOutput cleans the output directory and copies static assets into
// it.
func (e *Engine) prepareOutput() error {
	outputDir := e.cfg.OutputDir
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	staticDir := e.cfg.StaticDir
	if staticDir == "" {
		return nil
	}
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		e.logger.Debug("static directory not found, skipping copy", "dir", staticDir)
		return nil
	}
	if err := copyDirContents(staticDir, outputDir); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}
	e.logger.Debug("static assets copied", "from", staticDir, "to", outputDir)
	return nil
}

// newSite collects pages into a site; posts are the pages included in
// feeds, newest first, with undated posts last.
func newSite(cfg config.Config, pages []*model.Page) *model.Site {
	site := &model.Site{
		Config: cfg,
		Pages:  pages,
		ByTag:  make(map[string][]*model.Page),
	}
	for _, page := range pages {
		if page.IncludeInFeed {
			site.Posts = append(site.Posts, page)
		}
	}
	slices.SortStableFunc(site.Posts, func(a, b *model.Page) int {
		switch {
		case a.Date.IsZero() && b.Date.IsZero():
			return cmp.Compare(a.URL, b.URL)
		case a.Date.IsZero():
			return 1
		case b.Date.IsZero():
			return -1
		}
		return b.Date.Compare(a.Date)
	})
	for _, post := range site.Posts {
		for _, tag := range post.Tags {
			site.ByTag[tag] = append(site.ByTag[tag], post)
		}
	}
	return site
}
