package redispool

// Sweep runs a single sweep pass synchronously.
func (p *Pool) Sweep() int {
	return p.sweep()
}
