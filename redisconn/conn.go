package redisconn

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
)

// Conn is a single session to a redis server.
//
// Conn is not safe for concurrent use.
type Conn struct {
	cfg     Config
	id      string
	session Session

	// unix nanoseconds
	lastActive atomic.Int64
}

// New creates an unconnected Conn.
func New(cfg Config) *Conn {
	c := &Conn{
		cfg: cfg,
		id:  uuid.Must(uuid.NewV4()).String(),
	}
	c.touch()
	return c
}

// ID returns a random identifier of this Conn, for logging purposes.
func (c *Conn) ID() string {
	return c.id
}

// LastActive returns the last time a command on this Conn succeeded.
//
// It's informational only, liveness is decided by Probe.
func (c *Conn) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

func (c *Conn) touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

// Connected reports whether c currently holds a session.
func (c *Conn) Connected() bool {
	return c.session != nil
}

// Connect opens the session and selects the configured database.
//
// On any failure it returns a *ConnectionError,
// and c is left without a session.
func (c *Conn) Connect() error {
	if c.session != nil {
		return ErrAlreadyConnected
	}

	addr := c.cfg.Addr()
	session, err := c.cfg.dialer()(c.cfg)
	if err != nil {
		return &ConnectionError{
			Addr:      addr,
			Transport: err.Error(),
			Cause:     err,
		}
	}

	r := newReply(session.Do("SELECT", c.cfg.DB))
	if !r.OK() {
		session.Close()
		e := &ConnectionError{
			Addr:  addr,
			Cause: r.Err,
		}
		if r.Err != nil {
			e.Transport = r.Err.Error()
		}
		if r.Kind == KindError {
			e.Server = r.Str
		}
		return e
	}

	c.session = session
	c.touch()
	return nil
}

// Close closes the session.
//
// It's safe to call Close multiple times, only the first call closes the
// session.
func (c *Conn) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// Probe sends a PING and reports whether any reply came back.
//
// A server error reply still counts as alive.
// When the session supports it, the wait for the reply is bounded by
// ReadTimeout, or ConnectTimeout if ReadTimeout is not set.
func (c *Conn) Probe() bool {
	if s, ok := c.session.(timeoutSession); ok {
		return newReply(s.DoWithTimeout(c.cfg.probeTimeout(), "PING")).Kind != KindNull
	}
	return c.Execute("PING").Kind != KindNull
}

// Ping sends a PING and expects a PONG status reply.
//
// Unlike Probe it reports server errors, as a *CommandError.
func (c *Conn) Ping() error {
	r := c.Execute("PING")
	if r.Kind != KindStatus || !strings.EqualFold(r.Str, "PONG") {
		return newCommandError("PING", r)
	}
	c.touch()
	return nil
}

// Execute sends a command and returns the raw reply without classifying it.
func (c *Conn) Execute(cmd string, args ...interface{}) Reply {
	if c.session == nil {
		return Reply{Kind: KindNull, Err: ErrNotConnected}
	}
	return newReply(c.session.Do(cmd, args...))
}

// do executes a command and applies the classification rule.
func (c *Conn) do(cmd string, args ...interface{}) (Reply, error) {
	r := c.Execute(cmd, args...)
	if !r.OK() {
		return r, newCommandError(cmd, r)
	}
	c.touch()
	return r, nil
}

// Exists reports whether key exists.
func (c *Conn) Exists(key string) (bool, error) {
	r, err := c.do("EXISTS", key)
	if err != nil {
		return false, err
	}
	return r.Int == 1, nil
}

// Set sets key to value.
func (c *Conn) Set(key, value string) error {
	_, err := c.do("SET", key, value)
	return err
}

// Get returns the value of key.
//
// A missing key results in a *CommandError matching ErrNil.
func (c *Conn) Get(key string) (string, error) {
	r, err := c.do("GET", key)
	if err != nil {
		return "", err
	}
	return r.Str, nil
}

// HSet sets field in the hash stored at key,
// and returns the number of fields that were added.
func (c *Conn) HSet(key, field, value string) (int64, error) {
	r, err := c.do("HSET", key, field, value)
	if err != nil {
		return 0, err
	}
	return r.Int, nil
}

// HGet returns the value of field in the hash stored at key.
//
// A missing key or field results in a *CommandError matching ErrNil.
func (c *Conn) HGet(key, field string) (string, error) {
	r, err := c.do("HGET", key, field)
	if err != nil {
		return "", err
	}
	return r.Str, nil
}

// HGetAll returns all fields and values of the hash stored at key.
func (c *Conn) HGetAll(key string) (map[string]string, error) {
	r, err := c.do("HGETALL", key)
	if err != nil {
		return nil, err
	}
	return r.Pairs(), nil
}
