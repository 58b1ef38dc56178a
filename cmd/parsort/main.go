// Command parsort sorts a generated slice with the parallel partition sorter and reports
// how many sub-ranges ran as pool tasks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/fluxorio/parsort/pkg/config"
	"github.com/fluxorio/parsort/pkg/core/failfast"
	"github.com/fluxorio/parsort/pkg/observability/prometheus"
	"github.com/fluxorio/parsort/pkg/sorter"
)

type options struct {
	configPath  string
	size        int
	order       string
	seed        uint64
	metricsAddr string
	hold        bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "parsort:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("parsort", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML or JSON config file")
	fs.IntVar(&opts.size, "size", 100000, "number of elements to sort")
	fs.StringVar(&opts.order, "order", "reverse", "input order: reverse, random or sorted")
	fs.Uint64Var(&opts.seed, "seed", 1, "seed for -order random")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address (overrides config)")
	fs.BoolVar(&opts.hold, "hold", false, "keep serving metrics until interrupted")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.size < 0 {
		return opts, fmt.Errorf("-size must not be negative")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) (err error) {
	defer failfast.Recover(&err)

	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metricsAddr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	pivot, err := sorter.ParsePivot(cfg.Sort.Pivot)
	if err != nil {
		return err
	}

	sortConfig := sorter.Config{
		PoolSize:        cfg.Pool.Workers,
		FanoutThreshold: cfg.Sort.FanoutThreshold,
		Pivot:           pivot,
		Logger:          logger,
	}

	serveErr := make(chan error, 1)
	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()
	if cfg.Metrics.Enabled {
		sortConfig.Metrics = prometheus.GetMetrics()
		go func() {
			serveErr <- prometheus.ListenAndServe(serveCtx, cfg.Metrics.Addr, prometheus.DefaultRegistry)
		}()
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr, "path", prometheus.MetricsPath)
	}

	data, err := generate(opts.order, opts.size, opts.seed)
	if err != nil {
		return err
	}

	s := sorter.New[int](sortConfig)
	s.Sort(data)

	report := s.LastReport()
	fmt.Fprintf(out, "number of tasks %d\n", s.DispatchedTaskCount())
	logger.Info("sort complete",
		"run_id", report.RunID,
		"elements", report.Elements,
		"duration", report.Duration,
		"workers", report.Pool.Workers,
		"peak_queued", report.Pool.PeakQueued)

	if !slices.IsSorted(data) {
		return errors.New("unsorted")
	}
	fmt.Fprintln(out, "finished")

	if cfg.Metrics.Enabled && opts.hold {
		logger.Info("holding for metrics scrapes; interrupt to exit")
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			return err
		}
	}

	cancelServe()
	if cfg.Metrics.Enabled {
		return <-serveErr
	}
	return nil
}

func generate(order string, size int, seed uint64) ([]int, error) {
	data := make([]int, size)
	switch order {
	case "reverse":
		for i := range data {
			data[i] = size - 1 - i
		}
	case "sorted":
		for i := range data {
			data[i] = i
		}
	case "random":
		rng := rand.New(rand.NewPCG(seed, seed))
		for i := range data {
			data[i] = rng.IntN(5 * max(size, 1))
		}
	default:
		return nil, fmt.Errorf("unknown -order %q", order)
	}
	return data, nil
}
