package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reddit/redispool/log"
	"github.com/reddit/redispool/redisconn"
)

type loadOptions struct {
	workers     int
	ops         int
	metricsAddr string
}

func newLoadCmd() *cobra.Command {
	var lo loadOptions
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run concurrent SET/GET round trips through the pool",
		Long: `load starts --workers goroutines, each doing --ops SET/GET round trips on its
own key, acquiring and releasing a connection for every round trip.
With more workers than --max connections the workers contend for the pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, lo)
		},
	}
	cmd.Flags().IntVarP(&lo.workers, "workers", "w", 8, "Number of concurrent workers")
	cmd.Flags().IntVar(&lo.ops, "ops", 100, "Round trips per worker")
	cmd.Flags().StringVar(&lo.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while running, e.g. :9090")
	return cmd
}

func runLoad(cmd *cobra.Command, lo loadOptions) error {
	if lo.workers <= 0 || lo.ops <= 0 {
		return errors.New("--workers and --ops must be positive")
	}

	if lo.metricsAddr != "" {
		srv := &http.Server{
			Addr:    lo.metricsAddr,
			Handler: promhttp.Handler(),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server failed", "addr", lo.metricsAddr, "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	start := time.Now()
	eg, ctx := errgroup.WithContext(cmd.Context())
	for i := 0; i < lo.workers; i++ {
		key := "redispool:load:" + strconv.Itoa(i)
		eg.Go(func() error {
			for j := 0; j < lo.ops; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := withConn(func(c *redisconn.Conn) error {
					return roundTrip(c, key, strconv.Itoa(j))
				}); err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
			}
			return nil
		})
	}
	err := eg.Wait()

	elapsed := time.Since(start)
	stats := pool.Stats()
	fmt.Fprintf(
		cmd.OutOrStdout(),
		"%d round trips in %v; connections: open=%d idle=%d peak-active=%d max=%d; waits=%d evictions=%d connect-failures=%d\n",
		stats.Gets, elapsed,
		stats.Open, stats.Idle, stats.PeakActive, stats.Max,
		stats.Waits, stats.Evictions, stats.ConnectFailures,
	)
	return err
}

func roundTrip(c *redisconn.Conn, key, value string) error {
	if err := c.Set(key, value); err != nil {
		return err
	}
	got, err := c.Get(key)
	if err != nil {
		return err
	}
	if got != value {
		return fmt.Errorf("read back %q, wrote %q", got, value)
	}
	return nil
}
