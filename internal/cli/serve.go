package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/truthquest/truthquest/internal/server"
)

var (
	servePort int
	quotaPath string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the analysis pipeline over HTTP:

  POST /api/analyze        fact-check a video and return the graded result
  POST /api/transcription  return just the transcript for a video
  GET  /api/health         liveness probe

Requests are metered per user against daily and monthly quotas. Set
TRUTHQUEST_AUTH_TOKEN to require a bearer token on metered endpoints.

Example:
  truthquest serve
  truthquest serve --port 8080 --quota-db /var/lib/truthquest/quota.db`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 uses the configured default)")
	serveCmd.Flags().StringVar(&quotaPath, "quota-db", "", "sqlite quota database path")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	cfg.Server.AuthToken = os.Getenv("TRUTHQUEST_AUTH_TOKEN")
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if quotaPath != "" {
		cfg.Quota.Path = quotaPath
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Listening on :%d\n", cfg.Server.Port)
	return srv.Run()
}
