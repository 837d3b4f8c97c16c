package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	commands     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "asisten_commands_total", Help: "Chat commands by parsed intent"}, []string{"intent"})
	launches     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "asisten_launches_total", Help: "Browser and application launches"}, []string{"kind", "status"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "asisten_http_requests_total", Help: "HTTP requests served by the front door"}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(commands, launches, httpRequests)
}

// Start runs a Prometheus handler on the given listen addr until ctx is done.
func Start(ctx context.Context, listen string, log *slog.Logger) error {
	if listen == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	go func() {
		if log != nil {
			log.Info("metrics server listening", slog.String("addr", listen))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", slog.String("err", err.Error()))
			}
		}
	}()
	return nil
}

func IncCommand(intent string) { commands.WithLabelValues(intent).Inc() }

func IncLaunch(kind, status string) { launches.WithLabelValues(kind, status).Inc() }

func IncHTTP(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
