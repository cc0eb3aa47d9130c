package common

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	_ "github.com/mkevac/debugcharts" // registers /debug/charts on the default mux
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = NewLog("common")

func NewMetricServer(port string) {
	if port == "" {
		port = ":9000"
	}
	log.Info("Starting metric server", "listen", port)
	http.Handle("/metrics", promhttp.Handler())
	h := handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, http.DefaultServeMux))
	go func() {
		if err := http.ListenAndServe(port, h); err != nil {
			log.Error("metric server stopped", "err", err)
		}
	}()
}
