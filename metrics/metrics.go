// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package metrics exposes the subsystem's Prometheus instrumentation:
// tip height, verification outcomes, reorg counts and retarget
// bootstrap events, all scraped from a plain /metrics HTTP endpoint.
// There is no gRPC surface in this subsystem, so there is no
// stats.Handler to wire in here -- just a flat set of promauto
// collectors plus the tiny HTTP server that exposes them.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tipHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "myriad_headers_tip_height",
		Help: "Highest height present in the local header file.",
	})

	verifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myriad_headers_verify_total",
		Help: "Count of chain/chunk verification attempts by outcome.",
	}, []string{"result"})

	reorgTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myriad_headers_reorg_total",
		Help: "Count of successful reorg walk-backs applied to the header file.",
	})

	retargetBootstrapTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myriad_headers_retarget_bootstrap_total",
		Help: "Count of retarget computations that fell back to genesis difficulty for lack of same-algo ancestry.",
	})
)

// SetTipHeight records the local tip height.
func SetTipHeight(height int) {
	tipHeight.Set(float64(height))
}

// ObserveVerify increments the verification outcome counter for
// result, one of "success" or "failure".
func ObserveVerify(result string) {
	verifyTotal.WithLabelValues(result).Inc()
}

// ObserveReorg increments the reorg counter.
func ObserveReorg() {
	reorgTotal.Inc()
}

// ObserveRetargetBootstrap increments the bootstrap-fallback counter.
func ObserveRetargetBootstrap() {
	retargetBootstrapTotal.Inc()
}

// Serve starts an HTTP server exposing /metrics on addr and returns
// it without blocking; the caller is responsible for calling Shutdown
// on it during graceful exit.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go srv.ListenAndServe()
	return srv
}

// Shutdown gracefully stops a server returned by Serve, bounded by a
// short timeout so process exit is never blocked indefinitely.
func Shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
