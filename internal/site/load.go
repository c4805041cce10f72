package site

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"github.com/swsnr/swsnr.de/internal/model"
)

// datedName matches file names like 2021-03-04-hello-world.
var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

var dateFormats = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

var dataFileNames = []string{"_data.yml", "_data.yaml"}

// Load reads all markdown pages below the source directory. Entries whose
// name starts with "_" or "." and entries matching an ignore pattern are
// skipped.
//
// Each directory may hold a _data.yml whose keys apply to all pages below
// it; nested directories and front matter override outer values.
func (e *Engine) Load(ctx context.Context) ([]*model.Page, error) {
	sourceDir := e.cfg.Src
	dirData := map[string]map[string]any{}
	var pages []*model.Page

	walkErr := filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if rel != "." && e.skip(rel, d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			own, err := loadDirData(p)
			if err != nil {
				return err
			}
			parent := map[string]any{}
			if rel != "." {
				parent = dirData[path.Dir(rel)]
			}
			dirData[rel] = mergeData(parent, own)
			return nil
		}

		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		fileBytes, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", p, err)
		}

		var fmData map[string]any
		body, err := frontmatter.Parse(bytes.NewReader(fileBytes), &fmData)
		if err != nil {
			e.logger.Warn("could not parse front matter, treating as pure markdown", "path", rel, "err", err)
			body = fileBytes
			fmData = nil
		}

		page, err := newPage(rel, mergeData(dirData[path.Dir(rel)], fmData), string(body))
		if err != nil {
			return fmt.Errorf("load %s: %w", rel, err)
		}
		e.logger.Debug("page loaded", "path", rel, "url", page.URL)
		pages = append(pages, page)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error during content collection walk: %w", walkErr)
	}
	return pages, nil
}

func (e *Engine) skip(rel, name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range e.cfg.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func loadDirData(dir string) (map[string]any, error) {
	for _, name := range dataFileNames {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("read directory data: %w", err)
		}
		var data map[string]any
		if err := yaml.Unmarshal(b, &data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Join(dir, name), err)
		}
		return data, nil
	}
	return nil, nil
}

// mergeData returns a new map with the keys of base overridden by those of
// override.
func mergeData(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// newPage builds a page from its path relative to the source directory, its
// merged data and markdown body.
func newPage(rel string, data map[string]any, body string) (*model.Page, error) {
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	slug := name
	var date time.Time
	if m := datedName.FindStringSubmatch(name); m != nil {
		if parsed, err := time.Parse("2006-01-02", m[1]); err == nil {
			date = parsed
			slug = m[2]
		}
	}

	mode, err := model.ParseTitleMode(stringValue(data["titleFromHeading"]))
	if err != nil {
		return nil, err
	}

	if v, ok := data["date"]; ok {
		parsed, err := parseDate(v)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	page := &model.Page{
		SourcePath:       rel,
		URL:              pageURL(rel, slug, data),
		Layout:           stringValue(data["layout"]),
		Date:             date,
		Tags:             stringsValue(data["tags"]),
		Content:          body,
		Title:            stringValue(data["title"]),
		Excerpt:          stringValue(data["excerpt"]),
		Description:      stringValue(data["description"]),
		TitleFromHeading: mode,
		IncludeInFeed:    boolValue(data["includeInFeed"]),
		Data:             data,
	}
	return page, nil
}

// pageURL returns the url key if set, or the page's directory resolved
// against the basename key, followed by the slug.
func pageURL(rel, slug string, data map[string]any) string {
	if u := stringValue(data["url"]); u != "" {
		return u
	}
	dir := path.Join("/", path.Dir(rel), stringValue(data["basename"]))
	if slug == "index" {
		return strings.TrimSuffix(dir, "/") + "/"
	}
	return path.Join(dir, slug) + "/"
}

func parseDate(v any) (time.Time, error) {
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, format := range dateFormats {
			if t, err := time.Parse(format, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, model.Errorf(model.EINVALID, "could not parse date %q, use YYYY-MM-DD or RFC3339", v)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, model.Errorf(model.EINVALID, "unsupported date value %v", v)
	}
}

func titleFromPath(sourcePath string) string {
	name := strings.TrimSuffix(path.Base(sourcePath), path.Ext(sourcePath))
	if m := datedName.FindStringSubmatch(name); m != nil {
		name = m[2]
	}
	name = strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " ")
	return cases.Title(language.English).String(name)
}

func stringValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func stringsValue(v any) []string {
	switch v := v.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}
