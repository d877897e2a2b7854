// Package redispool provides a bounded, thread-safe pool of connections to a
// single redis server.
//
// The pool keeps between MinConnections and MaxConnections connections.
// Acquire hands out an idle connection, opening a new one when none is idle
// and the pool is not yet full, and blocks when the pool is full until another
// goroutine releases one:
//
//	pool, err := redispool.New(cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Acquire()
//	if err != nil {
//		return err
//	}
//	defer pool.Release(conn)
//
//	value, err := conn.Get("key")
//
// Acquire has no timeout.
// Callers needing bounded waiting have to build it on top of the pool.
//
// A background sweep probes idle connections every SweepInterval and closes
// the ones that no longer reply.
// Connections checked out by callers are never touched by the sweep,
// and the pool is not replenished by it: new connections are only opened
// lazily by Acquire.
package redispool
