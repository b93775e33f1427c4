package cmd

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tictoc/internal/bench"
	"github.com/psantana5/tictoc/pkg/api"
	"github.com/psantana5/tictoc/pkg/logging"
	"github.com/psantana5/tictoc/pkg/tictoc"
)

var (
	serveListen string
	serveDemo   bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve timer statistics over HTTP",
	Long: `Starts an HTTP server exposing aggregated timer statistics as JSON
at /stats and in Prometheus exposition format at /metrics. With --demo, a
background loop keeps feeding the registry from the benchmark workloads so
the endpoints have something to show.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "continuously run demo workloads against the registry")
}

func runServe(cmd *cobra.Command, args []string) error {
	listen := serveListen
	if listen == "" {
		listen = viper.GetString("listen")
	}

	log := logging.NewComponentLogger("serve", logging.INFO, false)
	reg := tictoc.New(
		tictoc.WithVerbose(verbose),
		tictoc.WithWarnSink(func(message string) { log.Warn(message) }),
	)

	if serveDemo {
		go func() {
			cfg := bench.DefaultConfig()
			for {
				bench.Run(reg, cfg)
				time.Sleep(time.Second)
			}
		}()
	}

	handler := api.NewHandler(reg)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Serving timer statistics", map[string]interface{}{"listen": listen})
	log.Info("Endpoints: GET /stats, GET /metrics, GET /health")

	return srv.ListenAndServe()
}
