package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rjauquet/sitegen/internal/builder"
	"github.com/rjauquet/sitegen/internal/watcher"
)

var serverPort int // For the --port flag

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a
local web server over the output directory. It also watches the template,
content, and static directories and rebuilds the site on changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := builder.New(appConfig, siteData)

		log.Println("Performing initial build...")
		if err := b.Build(); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}
		log.Println("Initial build successful.")

		w, err := watcher.New(b.Build, watchRoots()...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("Watcher stopped with error: %v", err)
			}
		}()

		serverAddr := fmt.Sprintf(":%d", serverPort)
		log.Printf("Serving site from %s on http://localhost%s", appConfig.Output, serverAddr)
		log.Println("Press Ctrl+C to stop the server.")

		fileServer := http.FileServer(http.Dir(appConfig.Output))
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
			// Prevent directory listing for directories without an index.
			if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
				_, err := os.Stat(filepath.Join(appConfig.Output, r.URL.Path, "index.html"))
				if os.IsNotExist(err) {
					http.NotFound(rw, r)
					return
				}
			}
			// No caching during development.
			rw.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			rw.Header().Set("Pragma", "no-cache")
			rw.Header().Set("Expires", "0")
			fileServer.ServeHTTP(rw, r)
		})

		srv := &http.Server{Addr: serverAddr, Handler: mux}
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
