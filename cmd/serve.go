package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/metric"
	"github.com/fruitstand-signage/fruitstand/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metric params endpoint",
	Long: `Serves the endpoint the demo panel resolves metric inputs through.

Routes:
  POST /demo/params   - multipart form of "metricKey;inputName" entries,
                        answered with the query fragment
  GET  /demo/metrics  - the metric inputs as JSON
  GET  /healthz       - liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveListen    string
	serveRateLimit int
	serveRateWin   time.Duration
)

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (default from settings)")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 0, "Max params requests per client per window (0 = unlimited)")
	serveCmd.Flags().DurationVar(&serveRateWin, "rate-window", time.Minute, "Rate limit window")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s := settings()

	listen := serveListen
	if listen == "" {
		listen = s.Server.Listen
	}
	defs, err := metric.Select(s.Metrics)
	if err != nil {
		return err
	}

	srv := server.New(&server.Config{
		ListenAddr:        listen,
		Metrics:           defs,
		RateLimitRequests: serveRateLimit,
		RateLimitWindow:   serveRateWin,
		Logger:            logging.With("component", "server"),
	})
	defer srv.Close()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logInfo("Serving params endpoint on http://%s/demo/params", listen)
	return srv.ListenAndServe(ctx)
}
