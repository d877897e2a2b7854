package redispool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reddit/redispool"
	"github.com/reddit/redispool/redisconn"
)

var errRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

// fakeSession answers SELECT and PING until it's killed.
// "ID" returns the index of the session in its fakeServer.
type fakeSession struct {
	id     int64
	dead   atomic.Bool
	closed atomic.Int32
}

func (s *fakeSession) Do(cmd string, args ...interface{}) (interface{}, error) {
	if s.dead.Load() {
		return nil, errors.New("read: connection reset by peer")
	}
	switch cmd {
	case "SELECT":
		return "OK", nil
	case "PING":
		return "PONG", nil
	case "ID":
		return s.id, nil
	}
	return nil, nil
}

func (s *fakeSession) Close() error {
	s.closed.Add(1)
	return nil
}

type fakeServer struct {
	mu       sync.Mutex
	sessions []*fakeSession
	down     bool
	// When set, every other dial fails.
	flaky bool
	dials int
}

func (f *fakeServer) dial(redisconn.Config) (redisconn.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dials++
	if f.down || (f.flaky && f.dials%2 == 0) {
		return nil, errRefused
	}
	s := &fakeSession{id: int64(len(f.sessions))}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeServer) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeServer) session(i int) *fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[i]
}

func (f *fakeServer) numSessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeServer) killAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		s.dead.Store(true)
	}
}

// sessionID returns the index of the fakeSession behind c.
func sessionID(t *testing.T, c *redisconn.Conn) int {
	t.Helper()
	r := c.Execute("ID")
	if r.Kind != redisconn.KindInteger {
		t.Fatalf("ID reply got %+v", r)
	}
	return int(r.Int)
}

func fakeConfig(t *testing.T, min, max int) redispool.Config {
	return redispool.Config{
		Name:           t.Name(),
		Host:           "localhost",
		Port:           6379,
		MinConnections: min,
		MaxConnections: max,
		// Tests run sweeps manually unless they override this.
		SweepInterval: time.Hour,
	}
}

func newFakePool(t *testing.T, f *fakeServer, cfg redispool.Config, opts ...redispool.Option) *redispool.Pool {
	t.Helper()
	opts = append(
		[]redispool.Option{
			redispool.WithDialer(f.dial),
			redispool.WithRegisterer(prometheus.NewRegistry()),
		},
		opts...,
	)
	pool, err := redispool.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
	})
	return pool
}

func checkStats(t *testing.T, pool *redispool.Pool, open, idle, active int) {
	t.Helper()
	stats := pool.Stats()
	if stats.Open != open || stats.Idle != idle || stats.Active != active {
		t.Errorf(
			"Stats got open=%d idle=%d active=%d, want open=%d idle=%d active=%d",
			stats.Open, stats.Idle, stats.Active,
			open, idle, active,
		)
	}
}

// acquireAsync calls Acquire in a new goroutine.
func acquireAsync(pool *redispool.Pool) <-chan acquireResult {
	ch := make(chan acquireResult, 1)
	go func() {
		c, err := pool.Acquire()
		ch <- acquireResult{conn: c, err: err}
	}()
	return ch
}

type acquireResult struct {
	conn *redisconn.Conn
	err  error
}

const (
	blockCheck  = 50 * time.Millisecond
	waitTimeout = 2 * time.Second
)

func expectBlocked(t *testing.T, ch <-chan acquireResult) {
	t.Helper()
	select {
	case r := <-ch:
		t.Fatalf("Acquire expected to block, returned %+v", r)
	case <-time.After(blockCheck):
	}
}

func expectAcquired(t *testing.T, ch <-chan acquireResult) acquireResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(waitTimeout):
		t.Fatal("Acquire did not unblock")
		return acquireResult{}
	}
}
