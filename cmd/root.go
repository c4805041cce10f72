package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swsnr/swsnr.de/internal/archive"
	"github.com/swsnr/swsnr.de/internal/config"
	"github.com/swsnr/swsnr.de/internal/markdown"
	"github.com/swsnr/swsnr.de/internal/preprocess"
	"github.com/swsnr/swsnr.de/internal/site"
)

var (
	cfgFile string
	verbose bool

	appConfig config.Config
	logger    = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "swsnr",
	Short: "Builds and serves swsnr.de",
	Long: `swsnr turns the markdown pages under src/ into the static swsnr.de
website, with archive pages, feeds and a sitemap, and serves the result
for local development.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "swsnr")
	v.SetDefault("description", "Sebastian Wiesner's personal website")
	v.SetDefault("location", "https://swsnr.de")
	v.SetDefault("lang", "en")
	v.SetDefault("author.name", "Sebastian Wiesner")

	v.SetDefault("src", "src")
	v.SetDefault("outputDir", "_site")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")

	v.SetDefault("tags", []string{"archlinux", "emacs", "gnome"})
	v.SetDefault("descriptionWords", preprocess.DefaultDescriptionWords)
	v.SetDefault("port", 8000)
}

func initializeConfig(_ *cobra.Command) error {
	// Values from .env end up in the environment and are picked up below.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SWSNR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
		logger.Debug("no config file found, using defaults and environment")
	} else {
		logger.Debug("using config file", "path", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return appConfig.Validate()
}

// newEngine wires the content transforms and generators of the site.
func newEngine(cfg config.Config, logger *slog.Logger) *site.Engine {
	renderer := markdown.NewRenderer(markdown.Options{HardWraps: cfg.HardWraps})
	engine := site.New(cfg, renderer, logger)

	titles := preprocess.NewTitleExtractor(logger)
	excerpts := preprocess.NewExcerptExtractor(renderer, cfg.DescriptionWords, logger)
	engine.Preprocess([]string{".md"}, titles.Process)
	engine.Preprocess([]string{".md"}, excerpts.Process)

	engine.Generate(archive.Generator(cfg.Tags, archive.Options{Feeds: true}))
	return engine
}
