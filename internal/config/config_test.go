package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swsnr/swsnr.de/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Src:              "src",
		OutputDir:        "_site",
		Location:         "https://swsnr.de",
		DescriptionWords: 100,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "no location", mutate: func(c *config.Config) { c.Location = "" }},
		{name: "missing src", mutate: func(c *config.Config) { c.Src = "" }, wantErr: "src required"},
		{name: "missing output", mutate: func(c *config.Config) { c.OutputDir = "" }, wantErr: "outputDir required"},
		{name: "output equals src", mutate: func(c *config.Config) { c.OutputDir = "src" }, wantErr: "must differ"},
		{name: "relative location", mutate: func(c *config.Config) { c.Location = "/blog" }, wantErr: "absolute URL"},
		{name: "zero words", mutate: func(c *config.Config) { c.DescriptionWords = 0 }, wantErr: "descriptionWords"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
