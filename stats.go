package redispool

// Stats is a snapshot of the pool state.
type Stats struct {
	// MaxConnections as configured.
	Max int

	// Connections opened by the pool and not yet closed or discarded.
	Open int

	// Connections sitting in the pool, including ones released into it that
	// it did not open.
	Idle int

	// Connections opened by the pool and checked out by callers.
	Active int

	// The highest Active seen since the pool was created.
	PeakActive int

	// Counters since the pool was created.
	Gets            uint64
	Waits           uint64
	Evictions       uint64
	ConnectFailures uint64
}

// Stats returns a snapshot of the pool state.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Max:             p.cfg.MaxConnections,
		Open:            len(p.owned),
		Idle:            len(p.idle),
		Active:          p.active(),
		PeakActive:      p.peakActive,
		Gets:            p.gets,
		Waits:           p.waits,
		Evictions:       p.evictions,
		ConnectFailures: p.connectFailures,
	}
}
