package redispool_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/reddit/redispool"
	"github.com/reddit/redispool/redisconn"
)

func newRedisPool(t *testing.T, db, min, max int) (*redispool.Pool, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)

	port, err := strconv.Atoi(s.Port())
	if err != nil {
		t.Fatalf("parsing miniredis port %q: %v", s.Port(), err)
	}
	pool, err := redispool.New(
		redispool.Config{
			Name:           t.Name(),
			Host:           s.Host(),
			Port:           port,
			DB:             db,
			MinConnections: min,
			MaxConnections: max,
		},
		redispool.WithRegisterer(prometheus.NewRegistry()),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
	})
	return pool, s
}

func TestRedisGrowth(t *testing.T) {
	const max = 3
	pool, s := newRedisPool(t, 0, 0, max)

	conns := make([]*redisconn.Conn, max)
	var eg errgroup.Group
	for i := range conns {
		i := i
		eg.Go(func() error {
			c, err := pool.Acquire()
			if err != nil {
				return err
			}
			conns[i] = c
			return c.Set("key"+strconv.Itoa(i), "value")
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatalf("concurrent Acquire/Set failed: %v", err)
	}
	if n := s.CurrentConnectionCount(); n != max {
		t.Errorf("server sees %d connections, want %d", n, max)
	}

	ch := acquireAsync(pool)
	expectBlocked(t, ch)

	if err := pool.Release(conns[0]); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	r := expectAcquired(t, ch)
	if r.err != nil {
		t.Fatalf("Acquire returned error: %v", r.err)
	}
	if r.conn != conns[0] {
		t.Error("blocked Acquire did not get the released connection")
	}
	for _, c := range conns {
		pool.Release(c)
	}
}

func TestRedisHashRoundTrip(t *testing.T) {
	pool, _ := newRedisPool(t, 0, 1, 2)

	c, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	defer pool.Release(c)

	if _, err := c.HSet("k", "f", "v"); err != nil {
		t.Fatalf("HSet returned error: %v", err)
	}
	got, err := c.HGet("k", "f")
	if err != nil {
		t.Fatalf("HGet returned error: %v", err)
	}
	if got != "v" {
		t.Errorf("HGet got %q, want %q", got, "v")
	}

	for _, f := range []string{"f1", "f2"} {
		if _, err := c.HSet("all", f, f+"-value"); err != nil {
			t.Fatalf("HSet returned error: %v", err)
		}
	}
	all, err := c.HGetAll("all")
	if err != nil {
		t.Fatalf("HGetAll returned error: %v", err)
	}
	want := map[string]string{
		"f1": "f1-value",
		"f2": "f2-value",
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("HGetAll mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisSelectsDatabase(t *testing.T) {
	const db = 5
	pool, s := newRedisPool(t, db, 2, 2)

	c, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if _, err := c.HSet("h", "f", "v"); err != nil {
		t.Fatalf("HSet returned error: %v", err)
	}
	pool.Release(c)

	ctx := context.Background()
	for _, c := range []struct {
		db      int
		want    string
		wantErr error
	}{
		{db: db, want: "v"},
		{db: 0, wantErr: goredis.Nil},
	} {
		client := goredis.NewClient(&goredis.Options{Addr: s.Addr(), DB: c.db})
		got, err := client.HGet(ctx, "h", "f").Result()
		client.Close()
		if !errors.Is(err, c.wantErr) {
			t.Errorf("db %d: HGet error got %v, want %v", c.db, err, c.wantErr)
		}
		if got != c.want {
			t.Errorf("db %d: HGet got %q, want %q", c.db, got, c.want)
		}
	}
}

func TestRedisServerDown(t *testing.T) {
	pool, s := newRedisPool(t, 0, 2, 2)

	s.Close()
	if n := pool.Sweep(); n != 2 {
		t.Errorf("Sweep evicted %d connections, want 2", n)
	}
	checkStats(t, pool, 0, 0, 0)

	_, err := pool.Acquire()
	var connErr *redisconn.ConnectionError
	if !errors.As(err, &connErr) {
		t.Errorf("Acquire expected *ConnectionError, got %v", err)
	}
}
