package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swsnr/swsnr.de/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the site into the output directory",
	Long: `The build command reads the pages under src/, extracts titles and
excerpts, renders them with the layouts, adds the archive pages, copies the
static assets and writes feeds and a sitemap to the output directory
(default ./_site/).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(cmd.Context(), newEngine(appConfig, logger))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuildProcess(ctx context.Context, engine *site.Engine) error {
	start := time.Now()
	s, err := engine.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	logger.Info("site built",
		"pages", len(s.Pages),
		"posts", len(s.Posts),
		"output", appConfig.OutputDir,
		"duration", time.Since(start),
	)
	return nil
}
