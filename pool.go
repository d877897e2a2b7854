package redispool

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/reddit/redispool/log"
	"github.com/reddit/redispool/redisconn"
)

// Option customizes a Pool created by New.
type Option func(p *Pool)

// WithDialer overrides the dialer used to open connections.
func WithDialer(dialer redisconn.Dialer) Option {
	return func(p *Pool) {
		p.connCfg.Dialer = dialer
	}
}

// WithRegisterer sets the prometheus registerer the pool metrics are
// registered with.
//
// The default is prometheus.DefaultRegisterer. A nil registerer disables
// metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Pool) {
		p.reg = reg
	}
}

// Pool is a bounded pool of redis connections.
//
// It's safe for concurrent use.
// A *redisconn.Conn returned by Acquire is owned by the caller until it's
// passed to Release or Discard.
type Pool struct {
	cfg     Config
	connCfg redisconn.Config

	reg      prometheus.Registerer
	exporter *exporter
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	notEmpty *sync.Cond
	idle     []*redisconn.Conn
	// Connections opened by the pool and not yet closed or discarded,
	// both idle and checked out.
	// Connections released into the pool from elsewhere are never in it.
	owned  map[*redisconn.Conn]struct{}
	closed bool

	peakActive      int
	gets            uint64
	waits           uint64
	evictions       uint64
	connectFailures uint64

	quit chan struct{}
	done chan struct{}
}

// New creates a Pool.
//
// It opens up to cfg.MinConnections connections before returning.
// Connections failing to connect at this stage are logged and dropped,
// so the pool may start with fewer connections (or none at all if the server
// is unreachable).
// It also starts the background sweep.
//
// The only errors returned are config validation and metrics registration
// errors.
func New(cfg Config, opts ...Option) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:     cfg,
		connCfg: cfg.ConnConfig(),
		reg:     prometheus.DefaultRegisterer,
		logger:  log.With("pool", cfg.Name),
		owned:   make(map[*redisconn.Conn]struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.notEmpty = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}

	if p.reg != nil {
		p.exporter = newExporter(p)
		if err := p.reg.Register(p.exporter); err != nil {
			return nil, fmt.Errorf("redispool: registering metrics for pool %q: %w", cfg.Name, err)
		}
	}

	p.init()
	return p, nil
}

func (p *Pool) init() {
	p.mu.Lock()
	for i := 0; i < p.cfg.MinConnections; i++ {
		c, err := p.open()
		if err != nil {
			continue
		}
		p.idle = append(p.idle, c)
		p.owned[c] = struct{}{}
	}
	opened := len(p.owned)
	p.mu.Unlock()

	p.logger.Infow(
		"redispool: pool initialized",
		"addr", p.connCfg.Addr(),
		"db", p.cfg.DB,
		"connections", opened,
		"min", p.cfg.MinConnections,
		"max", p.cfg.MaxConnections,
	)

	go p.sweepLoop(p.cfg.sweepInterval())
}

// open creates and connects a new connection.
//
// Caller must hold p.mu.
func (p *Pool) open() (*redisconn.Conn, error) {
	c := redisconn.New(p.connCfg)
	if err := c.Connect(); err != nil {
		p.connectFailures++
		p.logger.Warnw(
			"redispool: failed to open connection",
			"err", err,
		)
		return nil, err
	}
	p.logger.Debugw(
		"redispool: opened connection",
		"conn", c.ID(),
	)
	return c, nil
}

// Name returns the configured name of the pool.
func (p *Pool) Name() string {
	return p.cfg.Name
}

// Acquire returns an idle connection, opening a new one if there's no idle
// connection and the pool is not full.
//
// When the pool is full it blocks until a connection is released or
// discarded, or the pool is closed.
// There's no timeout.
//
// If opening a new connection fails, the *redisconn.ConnectionError is
// returned as-is without retrying.
// After Close it returns ErrClosed.
func (p *Pool) Acquire() (*redisconn.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.idle) == 0 {
		if p.closed {
			return nil, ErrClosed
		}
		if len(p.owned) >= p.cfg.MaxConnections {
			p.waits++
			p.notEmpty.Wait()
			continue
		}
		c, err := p.open()
		if err != nil {
			return nil, err
		}
		p.owned[c] = struct{}{}
		p.idle = append(p.idle, c)
	}
	if p.closed {
		return nil, ErrClosed
	}

	last := len(p.idle) - 1
	c := p.idle[last]
	p.idle[last] = nil
	p.idle = p.idle[:last]

	p.gets++
	if active := p.active(); active > p.peakActive {
		p.peakActive = active
	}
	return c, nil
}

// Release returns a connection acquired from the pool.
//
// Releasing the same connection more than once is a no-op.
// The pool does not check where the connection came from.
//
// After Close, Release closes the connection instead and returns the error
// from closing it.
func (p *Pool) Release(c *redisconn.Conn) error {
	if c == nil {
		return nil
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return c.Close()
	}
	if p.indexOf(c) < 0 {
		p.idle = append(p.idle, c)
	}
	p.notEmpty.Signal()
	p.mu.Unlock()
	return nil
}

// Discard closes a connection acquired from the pool instead of returning it,
// freeing its slot for a new connection.
//
// Use it when the caller knows the connection is no longer usable.
//
// Only a connection opened by this pool frees a slot, and only once.
// Discarding the same connection again, or one the pool did not open,
// just closes it.
func (p *Pool) Discard(c *redisconn.Conn) error {
	if c == nil {
		return nil
	}

	p.mu.Lock()
	if i := p.indexOf(c); i >= 0 {
		p.idle = append(p.idle[:i], p.idle[i+1:]...)
	}
	_, owned := p.owned[c]
	if owned {
		delete(p.owned, c)
		p.notEmpty.Signal()
	}
	p.mu.Unlock()

	if owned {
		p.logger.Debugw(
			"redispool: discarded connection",
			"conn", c.ID(),
		)
	}
	return c.Close()
}

// Close stops the sweep, wakes up all goroutines blocked in Acquire
// (they get ErrClosed), and closes all idle connections.
//
// Connections checked out at this point are not closed by the pool,
// but calling Release on them afterwards closes them.
//
// It's safe to call Close multiple times.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.notEmpty.Broadcast()
	p.mu.Unlock()

	close(p.quit)
	<-p.done

	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.owned = make(map[*redisconn.Conn]struct{})
	p.mu.Unlock()

	var err error
	for _, c := range idle {
		err = multierr.Append(err, c.Close())
	}
	if p.exporter != nil {
		p.reg.Unregister(p.exporter)
	}

	if err != nil {
		p.logger.Warnw(
			"redispool: errors closing idle connections",
			"err", err,
		)
	}
	p.logger.Infow(
		"redispool: pool closed",
		"closed", len(idle),
	)
	return err
}

// active returns the number of checked out connections opened by the pool.
//
// Caller must hold p.mu.
func (p *Pool) active() int {
	n := len(p.owned)
	for _, c := range p.idle {
		if _, ok := p.owned[c]; ok {
			n--
		}
	}
	return n
}

// indexOf returns the index of c in p.idle, or -1.
//
// Caller must hold p.mu.
func (p *Pool) indexOf(c *redisconn.Conn) int {
	for i, ic := range p.idle {
		if ic == c {
			return i
		}
	}
	return -1
}
