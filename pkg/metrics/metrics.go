// Package metrics exports bus exchange counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang/glog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/axpose/pkg/ax/comm"
)

// Results of an exchange.
const (
	ResultOK       = "ok"
	ResultStatus   = "status"
	ResultTimeout  = "timeout"
	ResultChecksum = "checksum"
	ResultError    = "error"
	ResultNoReply  = "noreply"
)

// Collector observes client exchanges.
type Collector struct {
	exchanges *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewCollector creates the collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axbus",
			Name:      "exchanges_total",
			Help:      "Instructions sent on the bus by result.",
		}, []string{"instruction", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "axbus",
			Name:      "exchange_seconds",
			Help:      "Time from sending an instruction to its status packet.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"instruction"}),
	}
	if reg != nil {
		reg.MustRegister(c.exchanges, c.latency)
	}
	return c
}

// ObserveExchange implements comm.Observer.
func (c *Collector) ObserveExchange(x comm.Exchange) {
	ins := x.Instruction.String()
	result := Result(x)
	c.exchanges.WithLabelValues(ins, result).Inc()
	if result == ResultOK || result == ResultStatus {
		c.latency.WithLabelValues(ins).Observe(x.Elapsed.Seconds())
	}
}

// Result classifies an exchange.
func Result(x comm.Exchange) string {
	switch {
	case x.Err == nil && x.NoReply:
		return ResultNoReply
	case x.Err == nil && x.Status.OK():
		return ResultOK
	case x.Err == nil:
		return ResultStatus
	case errors.Is(x.Err, comm.ErrReadTimeout):
		return ResultTimeout
	case errors.Is(x.Err, comm.ErrChecksum):
		return ResultChecksum
	default:
		return ResultError
	}
}

// NewRegistry creates a registry with process and Go collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics of reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Serve serves the metrics of reg on addr until ctx is done.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("metrics on %s/metrics", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
