// Package redisconn wraps a single redis session with reply classification.
//
// A Conn owns exactly one session to a redis server.
// It is created unconnected, connected with Connect (which also selects the
// configured logical database), used by exactly one goroutine at a time, and
// finally closed with Close.
//
// Every typed command helper (Exists, Set, Get, HSet, HGet, HGetAll) applies
// the same classification rule to the raw reply (see Reply.OK), and returns a
// *CommandError when the reply does not classify as success:
//
//	v, err := conn.Get("key")
//	if errors.Is(err, redisconn.ErrNil) {
//		// key does not exist
//	}
//
// Wire protocol handling is delegated to redigo.
// This package is considered low level, most users should get their Conn
// from a redispool.Pool instead.
package redisconn
