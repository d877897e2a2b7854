package redispool

import (
	"time"

	"github.com/reddit/redispool/redisconn"
)

func (p *Pool) sweepLoop(interval time.Duration) {
	defer close(p.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

// sweep probes every idle connection and closes the ones not replying.
//
// It returns the number of connections evicted.
func (p *Pool) sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.idle) == 0 {
		return 0
	}

	// Survivors are compacted into a new slice, p.idle is never modified while
	// being iterated.
	alive := make([]*redisconn.Conn, 0, len(p.idle))
	var evicted, freed int
	for _, c := range p.idle {
		if c.Probe() {
			alive = append(alive, c)
			continue
		}

		evicted++
		if _, ok := p.owned[c]; ok {
			delete(p.owned, c)
			freed++
		}
		lastActive := c.LastActive()
		if err := c.Close(); err != nil {
			p.logger.Debugw(
				"redispool: error closing dead connection",
				"conn", c.ID(),
				"err", err,
			)
		}
		p.logger.Warnw(
			"redispool: evicted dead idle connection",
			"conn", c.ID(),
			"lastActive", lastActive,
		)
	}
	p.idle = alive
	p.evictions += uint64(evicted)

	if freed > 0 {
		// Blocked acquirers can open new connections now.
		p.notEmpty.Broadcast()
	}
	return evicted
}
