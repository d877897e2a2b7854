// Package main implements redispool, a command line client running redis
// commands through a connection pool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reddit/redispool"
	"github.com/reddit/redispool/log"
)

const exitError = 1

var (
	opts options
	pool *redispool.Pool
)

func main() {
	err := newRootCmd().Execute()
	// Not a PersistentPostRunE, those are skipped when RunE fails.
	if closeErr := teardown(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitError)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "redispool",
		Short: "Run redis commands through a connection pool",
		Long: `redispool runs redis commands through a bounded connection pool.

Pool settings come from an optional YAML config file (--config),
and are overridden by any flag given explicitly.`,
		Example: `  redispool --config pool.yaml get mykey
  redispool --host cache.local --db 2 hset session:1 user alice
  redispool --max 8 load --workers 32 --ops 1000 --metrics-addr :9090`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	opts.register(rootCmd)
	rootCmd.AddCommand(
		newPingCmd(),
		newExistsCmd(),
		newGetCmd(),
		newSetCmd(),
		newHSetCmd(),
		newHGetCmd(),
		newHGetAllCmd(),
		newLoadCmd(),
	)
	return rootCmd
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	log.InitFromConfig(cfg.Log)

	pool, err = redispool.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("creating pool: %w", err)
	}
	return nil
}

func teardown() error {
	defer log.Sync()
	if pool == nil {
		return nil
	}
	err := pool.Close()
	pool = nil
	return err
}
