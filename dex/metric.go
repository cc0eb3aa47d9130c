package dex

import (
	"github.com/prometheus/client_golang/prometheus"
)

var swapCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "w3ledger",
		Name:      "swaps",
		Help:      "swap requests by method and result",
	},
	[]string{"method", "result"},
)

func init() {
	prometheus.MustRegister(swapCounter)
}

func metricSwap(m SwapMethod, err error) {
	res := "ok"
	if err != nil {
		res = "fail"
	}
	swapCounter.WithLabelValues(m.String(), res).Inc()
}
