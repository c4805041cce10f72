package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/swsnr/swsnr.de/internal/server"
	"github.com/swsnr/swsnr.de/internal/watch"
)

var (
	serverPort int
	noWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of the site, then serves the
output directory over HTTP. Unless --no-watch is given it watches src/,
layouts/ and static/ and rebuilds the site on changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := newEngine(appConfig, logger)
		if err := runBuildProcess(ctx, engine); err != nil {
			return err
		}

		port := appConfig.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}
		addr := fmt.Sprintf(":%d", port)
		logger.Info("press Ctrl+C to stop", "url", fmt.Sprintf("http://localhost%s", addr))

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.Serve(ctx, addr, server.New(appConfig, logger), logger)
		})
		if !noWatch {
			dirs := []string{appConfig.Src, appConfig.LayoutsDir, appConfig.StaticDir}
			w := watch.New(dirs, func(ctx context.Context) error {
				return runBuildProcess(ctx, engine)
			}, logger)
			g.Go(func() error {
				return w.Run(ctx)
			})
		}
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8000, "port to serve on")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not rebuild on changes")
	rootCmd.AddCommand(serveCmd)
}
