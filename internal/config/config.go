package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Config is the site configuration, decoded by viper from config.yaml and
// SWSNR_* environment variables.
type Config struct {
	SiteTitle   string `mapstructure:"siteTitle"`
	Description string `mapstructure:"description"`
	Location    string `mapstructure:"location"`
	Lang        string `mapstructure:"lang"`
	Image       string `mapstructure:"image"`
	Author      Author `mapstructure:"author"`

	Src        string   `mapstructure:"src"`
	OutputDir  string   `mapstructure:"outputDir"`
	LayoutsDir string   `mapstructure:"layoutsDir"`
	StaticDir  string   `mapstructure:"staticDir"`
	Ignore     []string `mapstructure:"ignore"`

	// Tags get an archive page each.
	Tags             []string `mapstructure:"tags"`
	DescriptionWords int      `mapstructure:"descriptionWords"`
	HardWraps        bool     `mapstructure:"hardWraps"`

	Port      int               `mapstructure:"port"`
	Redirects map[string]string `mapstructure:"redirects"`
}

// Author identifies the author in feeds.
type Author struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// Validate returns an error if the configuration cannot build a site.
func (c *Config) Validate() error {
	if c.Src == "" {
		return errors.New("config: src required")
	}
	if c.OutputDir == "" {
		return errors.New("config: outputDir required")
	}
	if c.Src == c.OutputDir {
		return fmt.Errorf("config: outputDir %q must differ from src", c.OutputDir)
	}
	if c.Location != "" {
		u, err := url.Parse(c.Location)
		if err != nil {
			return fmt.Errorf("config: invalid location %q: %w", c.Location, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: location %q must be an absolute URL", c.Location)
		}
	}
	if c.DescriptionWords <= 0 {
		return fmt.Errorf("config: descriptionWords must be positive, got %d", c.DescriptionWords)
	}
	return nil
}
