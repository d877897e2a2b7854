package redisconn

import (
	"net"
	"strconv"
	"time"

	"github.com/garyburd/redigo/redis"
)

// DefaultConnectTimeout is the connect timeout used when Config.ConnectTimeout
// is not set.
const DefaultConnectTimeout = time.Second

// Session is the minimal interface of a redis session needed by Conn.
//
// redis.Conn from redigo satisfies it.
type Session interface {
	Do(commandName string, args ...interface{}) (reply interface{}, err error)
	Close() error
}

// timeoutSession is implemented by sessions supporting a per command read
// deadline, like redis.Conn from redigo.
type timeoutSession interface {
	DoWithTimeout(timeout time.Duration, commandName string, args ...interface{}) (reply interface{}, err error)
}

var _ timeoutSession = redis.ConnWithTimeout(nil)

// Dialer opens a new Session using the given config.
type Dialer func(cfg Config) (Session, error)

// Config is the snapshot of everything a Conn needs to connect.
type Config struct {
	Host string
	Port int

	// DB is the logical database selected right after connecting.
	DB int

	// ConnectTimeout defaults to DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// Read and write deadlines for each command. 0 means no deadline,
	// except for Probe which then waits at most ConnectTimeout.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Dialer defaults to DialTCP.
	Dialer Dialer
}

// Addr returns the host:port address of the server.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

func (cfg Config) connectTimeout() time.Duration {
	if cfg.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return cfg.ConnectTimeout
}

// probeTimeout bounds Probe even when no read deadline is configured.
func (cfg Config) probeTimeout() time.Duration {
	if cfg.ReadTimeout > 0 {
		return cfg.ReadTimeout
	}
	return cfg.connectTimeout()
}

func (cfg Config) dialer() Dialer {
	if cfg.Dialer == nil {
		return DialTCP
	}
	return cfg.Dialer
}

// DialTCP is the default Dialer, using redigo over tcp.
func DialTCP(cfg Config) (Session, error) {
	conn, err := redis.Dial(
		"tcp",
		cfg.Addr(),
		redis.DialConnectTimeout(cfg.connectTimeout()),
		redis.DialReadTimeout(cfg.ReadTimeout),
		redis.DialWriteTimeout(cfg.WriteTimeout),
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

var _ Dialer = DialTCP
