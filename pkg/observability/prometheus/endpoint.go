package prometheus

import (
	"context"
	"fmt"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// MetricsPath is where Serve exposes the scrape endpoint
const MetricsPath = "/metrics"

// Handler returns a fasthttp handler writing gatherer in the Prometheus exposition format
func Handler(gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	if gatherer == nil {
		gatherer = DefaultRegistry
	}
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// Serve exposes MetricsPath on ln until ctx is done
func Serve(ctx context.Context, ln net.Listener, gatherer prometheus.Gatherer) error {
	metricsHandler := Handler(gatherer)
	srv := &fasthttp.Server{
		Name: "parsort",
		Handler: func(rc *fasthttp.RequestCtx) {
			if string(rc.Path()) != MetricsPath {
				rc.SetStatusCode(fasthttp.StatusNotFound)
				return
			}
			metricsHandler(rc)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		err := srv.Shutdown()
		// Serve may not have registered ln yet.
		_ = ln.Close()
		if err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return <-errCh
	}
}

// ListenAndServe listens on addr and calls Serve
func ListenAndServe(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return Serve(ctx, ln, gatherer)
}
