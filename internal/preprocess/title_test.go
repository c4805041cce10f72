package preprocess_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swsnr/swsnr.de/internal/model"
	"github.com/swsnr/swsnr.de/internal/preprocess"
)

func TestTitleExtractor_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     any
		mode        model.TitleMode
		title       string
		wantTitle   string
		wantContent any
	}{
		{
			name:        "cut removes heading",
			content:     "# Hello\nBody",
			mode:        model.TitleModeCut,
			wantTitle:   "Hello",
			wantContent: "\nBody",
		},
		{
			name:        "copy keeps heading",
			content:     "# Hello\nBody",
			mode:        model.TitleModeCopy,
			wantTitle:   "Hello",
			wantContent: "# Hello\nBody",
		},
		{
			name:        "no heading",
			content:     "Just body text",
			mode:        model.TitleModeCut,
			wantContent: "Just body text",
		},
		{
			name:        "mode none",
			content:     "# Hello\nBody",
			mode:        model.TitleModeNone,
			wantContent: "# Hello\nBody",
		},
		{
			name:        "mode absent",
			content:     "# Hello\nBody",
			wantContent: "# Hello\nBody",
		},
		{
			name:        "existing title",
			content:     "# Hello\nBody",
			mode:        model.TitleModeCut,
			title:       "Given",
			wantTitle:   "Given",
			wantContent: "# Hello\nBody",
		},
		{
			name:        "level three heading",
			content:     "### Third\n\nBody",
			mode:        model.TitleModeCopy,
			wantTitle:   "Third",
			wantContent: "### Third\n\nBody",
		},
		{
			name:        "closing hashes stripped",
			content:     "## Closed ##\nBody",
			mode:        model.TitleModeCut,
			wantTitle:   "Closed",
			wantContent: "\nBody",
		},
		{
			name:        "level four heading ignored",
			content:     "#### Deep\n\nBody",
			mode:        model.TitleModeCut,
			wantContent: "#### Deep\n\nBody",
		},
		{
			name:        "setext heading",
			content:     "Underlined\n==========\nBody",
			mode:        model.TitleModeCut,
			wantTitle:   "Underlined",
			wantContent: "\nBody",
		},
		{
			name:        "setext dashes",
			content:     "Underlined\n---\nBody",
			mode:        model.TitleModeCopy,
			wantTitle:   "Underlined",
			wantContent: "Underlined\n---\nBody",
		},
		{
			name:        "first heading wins",
			content:     "Intro\n\n# First\n\n## Second\n",
			mode:        model.TitleModeCut,
			wantTitle:   "First",
			wantContent: "Intro\n\n\n## Second\n",
		},
		{
			name:        "only first heading cut",
			content:     "# One\n# One\n",
			mode:        model.TitleModeCut,
			wantTitle:   "One",
			wantContent: "\n# One\n",
		},
		{
			name:        "crlf setext",
			content:     "Title\r\n=====\r\nBody",
			mode:        model.TitleModeCopy,
			wantTitle:   "Title",
			wantContent: "Title\r\n=====\r\nBody",
		},
		{
			name:        "crlf atx",
			content:     "# Hello\r\nBody",
			mode:        model.TitleModeCopy,
			wantTitle:   "Hello",
			wantContent: "# Hello\r\nBody",
		},
		{
			name:        "trailing spaces",
			content:     "# Hello  \nBody",
			mode:        model.TitleModeCopy,
			wantTitle:   "Hello",
			wantContent: "# Hello  \nBody",
		},
		{
			name:        "empty content",
			content:     "",
			mode:        model.TitleModeCut,
			wantContent: "",
		},
		{
			name:        "non string content",
			content:     []byte("# Hello\n"),
			mode:        model.TitleModeCut,
			wantContent: []byte("# Hello\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &model.Page{
				SourcePath:       "posts/hello.md",
				Content:          tt.content,
				Title:            tt.title,
				TitleFromHeading: tt.mode,
			}
			preprocess.NewTitleExtractor(nil).Extract(page)

			assert.Equal(t, tt.wantTitle, page.Title)
			assert.Equal(t, tt.wantContent, page.Content)
		})
	}
}

func TestTitleExtractor_Process(t *testing.T) {
	t.Parallel()

	t.Run("processes every page", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{Content: "# A\nbody", TitleFromHeading: model.TitleModeCut},
			{Content: "# B\nbody", TitleFromHeading: model.TitleModeCopy},
			{Content: "# C\nbody"},
		}
		err := preprocess.NewTitleExtractor(nil).Process(context.Background(), pages)

		require.NoError(t, err)
		assert.Equal(t, "A", pages[0].Title)
		assert.Equal(t, "B", pages[1].Title)
		assert.Empty(t, pages[2].Title)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		page := &model.Page{Content: "# Hello\n# World\nBody", TitleFromHeading: model.TitleModeCut}
		extractor := preprocess.NewTitleExtractor(nil)

		require.NoError(t, extractor.Process(context.Background(), []*model.Page{page}))
		title, content := page.Title, page.Content
		require.NoError(t, extractor.Process(context.Background(), []*model.Page{page}))

		assert.Equal(t, "Hello", title)
		assert.Equal(t, title, page.Title)
		assert.Equal(t, content, page.Content)
	})
}
