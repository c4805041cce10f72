package site

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/swsnr/swsnr.de/internal/model"
)

const (
	baseLayout   = "base.html"
	singleLayout = "single.html"
	homeLayout   = "home.html"
	partialsDir  = "partials"
)

// layouts maps layout names to template sets. Every set holds base.html,
// all partials and the layout itself, so layouts can each define the same
// blocks.
type layouts map[string]*template.Template

// lookup resolves the layout for a page: its own layout, then single.html,
// then base.html.
func (l layouts) lookup(name string) (*template.Template, string, bool) {
	for _, candidate := range []string{name, singleLayout, baseLayout} {
		if candidate == "" {
			continue
		}
		if t, ok := l[candidate]; ok {
			return t, candidate, true
		}
	}
	return nil, "", false
}

func (e *Engine) funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time, layout ...string) string {
			if t.IsZero() {
				return ""
			}
			if len(layout) > 0 {
				return t.Format(layout[0])
			}
			return t.Format("2006-01-02")
		},
		"markdown": func(src string) (template.HTML, error) {
			return e.renderer.HTML(src)
		},
		"absURL": e.absURL,
	}
}

// absURL resolves a site path against the configured location.
func (e *Engine) absURL(p string) string {
	base, err := url.Parse(e.cfg.Location)
	if err != nil || e.cfg.Location == "" {
		return p
	}
	ref, err := url.Parse(p)
	if err != nil {
		return p
	}
	return base.ResolveReference(ref).String()
}

func (e *Engine) parseLayouts() (layouts, error) {
	layoutsDir := e.cfg.LayoutsDir
	if _, err := os.Stat(layoutsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("layouts directory '%s' not found", layoutsDir)
	}

	var basePath string
	var partials, others []string
	err := filepath.WalkDir(layoutsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case p == filepath.Join(layoutsDir, baseLayout):
			basePath = p
		case strings.HasPrefix(p, filepath.Join(layoutsDir, partialsDir)+string(filepath.Separator)):
			partials = append(partials, p)
		default:
			others = append(others, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in '%s': %w", layoutsDir, err)
	}
	if basePath == "" {
		return nil, fmt.Errorf("%s not found directly in layouts directory '%s'", baseLayout, layoutsDir)
	}

	base, err := template.New(baseLayout).Funcs(e.funcs()).ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s and partials: %w", baseLayout, err)
	}

	set := layouts{baseLayout: base}
	for _, p := range others {
		name, err := filepath.Rel(layoutsDir, p)
		if err != nil {
			return nil, err
		}
		name = filepath.ToSlash(name)
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read layout '%s': %w", p, err)
		}
		if _, err := clone.New(name).Parse(string(b)); err != nil {
			return nil, fmt.Errorf("failed to parse layout '%s': %w", p, err)
		}
		set[name] = clone
	}
	e.logger.Debug("layouts parsed", "count", len(set))
	return set, nil
}

// writePages renders every page and the home page in parallel and returns
// the pages written.
func (e *Engine) writePages(ctx context.Context, l layouts, site *model.Site) ([]*model.Page, error) {
	written := make([]*model.Page, 0, len(site.Pages)+1)
	hasHome := false
	for _, page := range site.Pages {
		if page.URL == "/" {
			hasHome = true
		}
		written = append(written, page)
	}
	if !hasHome {
		if _, ok := l[homeLayout]; ok {
			written = append(written, &model.Page{URL: "/", Title: e.cfg.SiteTitle, Layout: homeLayout})
		} else {
			e.logger.Warn("no home page: neither src/index.md nor layout found", "layout", homeLayout)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, page := range written {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return e.writePage(l, site, page)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

func (e *Engine) writePage(l layouts, site *model.Site, page *model.Page) error {
	tmpl, name, ok := l.lookup(page.Layout)
	if !ok {
		return fmt.Errorf("no layout '%s' for page '%s'", page.Layout, page.URL)
	}
	if page.Layout != "" && name != page.Layout {
		e.logger.Warn("layout not found, using fallback", "layout", page.Layout, "fallback", name, "url", page.URL)
	}

	data := model.PageData{Site: site, Page: page}
	if page.SourcePath == "" {
		data.Results = site.Tagged(page.Query)
	}

	outputPath := outputPath(e.cfg.OutputDir, page.URL)
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", page.URL, err)
	}
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", outputPath, err)
	}
	defer outFile.Close()

	if err := tmpl.ExecuteTemplate(outFile, name, data); err != nil {
		return fmt.Errorf("failed to execute layout '%s' for '%s': %w", name, page.URL, err)
	}
	e.logger.Debug("page written", "url", page.URL, "layout", name)
	return outFile.Close()
}

// outputPath maps a page URL to a file below outputDir; directory URLs get
// an index.html.
func outputPath(outputDir, pageURL string) string {
	p := filepath.Join(outputDir, filepath.FromSlash(pageURL))
	if strings.HasSuffix(pageURL, "/") {
		p = filepath.Join(p, "index.html")
	}
	return p
}
