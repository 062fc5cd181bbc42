package cmd

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjauquet/sitegen/internal/builder"
	"github.com/rjauquet/sitegen/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuilds the site whenever content changes",
	Long: `The watch command performs an initial build, then watches the template,
content, and static directories and rebuilds on every change. Changes that
arrive while a build is running are counted and reported when it finishes;
they do not queue another build. Stops on interrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := builder.New(appConfig, siteData)

		log.Println("Performing initial build...")
		if err := b.Build(); err != nil {
			return err
		}
		log.Println("Initial build successful.")

		w, err := watcher.New(b.Build, watchRoots()...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Println("Watching for changes. Press Ctrl+C to stop.")
		return w.Run(ctx)
	},
}

func watchRoots() []string {
	roots := []string{filepath.Dir(appConfig.Template), appConfig.Content}
	if appConfig.Static != "" {
		roots = append(roots, appConfig.Static)
	}
	return roots
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
