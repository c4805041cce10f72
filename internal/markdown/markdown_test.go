package markdown_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swsnr/swsnr.de/internal/markdown"
)

func TestRenderer_HTML(t *testing.T) {
	t.Parallel()

	t.Run("renders paragraphs", func(t *testing.T) {
		t.Parallel()

		html, err := markdown.NewRenderer(markdown.Options{}).HTML("Hello *world*")

		require.NoError(t, err)
		assert.Equal(t, "<p>Hello <em>world</em></p>\n", string(html))
	})

	t.Run("adds heading ids", func(t *testing.T) {
		t.Parallel()

		html, err := markdown.NewRenderer(markdown.Options{}).HTML("## Some Heading")

		require.NoError(t, err)
		assert.Contains(t, string(html), `<h2 id="some-heading">Some Heading</h2>`)
	})

	t.Run("keeps raw html", func(t *testing.T) {
		t.Parallel()

		html, err := markdown.NewRenderer(markdown.Options{}).HTML("Intro\n\n<!--more-->\n\nRest")

		require.NoError(t, err)
		assert.Contains(t, string(html), "<!--more-->")
	})

	t.Run("renders gfm tables", func(t *testing.T) {
		t.Parallel()

		html, err := markdown.NewRenderer(markdown.Options{}).HTML("| a | b |\n|---|---|\n| 1 | 2 |\n")

		require.NoError(t, err)
		assert.Contains(t, string(html), "<table>")
	})

	t.Run("hard wraps", func(t *testing.T) {
		t.Parallel()

		html, err := markdown.NewRenderer(markdown.Options{HardWraps: true}).HTML("one\ntwo")

		require.NoError(t, err)
		assert.Contains(t, string(html), "<br>")
	})
}

func TestRenderer_PlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "inline markup", src: "**Hello** _world_", want: "Hello world"},
		{name: "blocks", src: "# Title\n\nPara one.\n\nPara two.", want: "Title Para one. Para two."},
		{name: "links", src: "See [the docs](https://example.com).", want: "See the docs."},
		{name: "lists", src: "- one\n- two\n", want: "one two"},
		{name: "code", src: "Run `make`.", want: "Run make."},
		{name: "empty", src: "", want: ""},
	}

	r := markdown.NewRenderer(markdown.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, err := r.PlainText(context.Background(), tt.src)

			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}

	t.Run("honours cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.PlainText(ctx, "text")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	text, err := markdown.StripTags("<p>a\n\n <b>b</b></p><!-- c -->")

	require.NoError(t, err)
	assert.Equal(t, "a b", text)
}
