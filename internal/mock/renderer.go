package mock

import (
	"context"

	"github.com/swsnr/swsnr.de/internal/preprocess"
)

var _ preprocess.PlainTextRenderer = (*PlainTextRenderer)(nil)

// PlainTextRenderer is a mock implementation of preprocess.PlainTextRenderer.
type PlainTextRenderer struct {
	PlainTextFn func(ctx context.Context, markdown string) (string, error)
	Calls       []string
}

func (r *PlainTextRenderer) PlainText(ctx context.Context, markdown string) (string, error) {
	r.Calls = append(r.Calls, markdown)
	return r.PlainTextFn(ctx, markdown)
}
