// Package log provides the global zap logger used by redispool packages.
//
// The logger is a no-op until one of the Init functions is called,
// so libraries importing redispool stay silent unless the application opts
// in:
//
//	log.InitFromConfig(log.Config{Level: log.InfoLevel})
//	log.Infow("Pool ready", "pool", pool.Name())
package log
