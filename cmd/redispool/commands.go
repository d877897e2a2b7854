package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/reddit/redispool/log"
	"github.com/reddit/redispool/redisconn"
)

// withConn runs fn on a connection from the pool.
//
// Connections failing at transport level are discarded instead of being
// returned to the pool.
func withConn(fn func(c *redisconn.Conn) error) error {
	c, err := pool.Acquire()
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	err = fn(c)
	var cmdErr *redisconn.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Kind == redisconn.KindNull {
		if discardErr := pool.Discard(c); discardErr != nil {
			log.Warnw(
				"redispool: failed to discard connection",
				"conn", c.ID(),
				"err", discardErr,
			)
		}
		return err
	}
	if releaseErr := pool.Release(c); releaseErr != nil {
		log.Warnw(
			"redispool: failed to release connection",
			"conn", c.ID(),
			"err", releaseErr,
		)
	}
	return err
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that a pooled connection is alive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConn(func(c *redisconn.Conn) error {
				if err := c.Ping(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "PONG")
				return nil
			})
		},
	}
}

func newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists KEY",
		Short: "Report whether a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConn(func(c *redisconn.Conn) error {
				ok, err := c.Exists(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				return nil
			})
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get the value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConn(func(c *redisconn.Conn) error {
				v, err := c.Get(args[0])
				if errors.Is(err, redisconn.ErrNil) {
					fmt.Fprintln(cmd.OutOrStdout(), "(nil)")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConn(func(c *redisconn.Conn) error {
				if err := c.Set(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			})
		},
	}
}

func newHSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hset KEY FIELD VALUE",
		Short: "Set a field of a hash",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConn(func(c *redisconn.Conn) error {
				n, err := c.HSet(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
}

func newHGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hget KEY FIELD",
		Short: "Get a field of a hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConn(func(c *redisconn.Conn) error {
				v, err := c.HGet(args[0], args[1])
				if errors.Is(err, redisconn.ErrNil) {
					fmt.Fprintln(cmd.OutOrStdout(), "(nil)")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newHGetAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hgetall KEY",
		Short: "Get all fields and values of a hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConn(func(c *redisconn.Conn) error {
				m, err := c.HGetAll(args[0])
				if err != nil {
					return err
				}
				fields := make([]string, 0, len(m))
				for f := range m {
					fields = append(fields, f)
				}
				sort.Strings(fields)
				for _, f := range fields {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f, m[f])
				}
				return nil
			})
		},
	}
}
