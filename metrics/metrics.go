package metrics

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type registry struct {
	mutex         sync.Mutex
	preCollectFns []func()
}

type MetricsHandler struct {
	handler         http.Handler
	mutex           sync.Mutex
	lastCollectTime time.Time
}

var metrics = &registry{}

// AddPreCollectFn registers a callback that refreshes gauges before a scrape.
func AddPreCollectFn(fn func()) {
	metrics.mutex.Lock()
	defer metrics.mutex.Unlock()
	metrics.preCollectFns = append(metrics.preCollectFns, fn)
}

func runPreCollectFns() {
	metrics.mutex.Lock()
	fns := make([]func(), len(metrics.preCollectFns))
	copy(fns, metrics.preCollectFns)
	metrics.mutex.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// StartMetricsServer serves the prometheus metrics on a dedicated listener until ctx is done.
func StartMetricsServer(ctx context.Context, logger logrus.FieldLogger, host string, port string) error {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           GetMetricsHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		logger.Infof("metrics server listening on %v", srv.Addr)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Error serving metrics")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	return nil
}

func GetMetricsHandler() http.Handler {
	return &MetricsHandler{
		handler: promhttp.Handler(),
	}
}

func (mh *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mh.mutex.Lock()
	if time.Since(mh.lastCollectTime) > 1*time.Second {
		runPreCollectFns()
		mh.lastCollectTime = time.Now()
	}
	mh.mutex.Unlock()

	mh.handler.ServeHTTP(w, r)
}
