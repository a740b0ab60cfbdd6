package jobs

// Tracked returns how many dedupe keys the dispatcher remembers.
func (d *InlineDispatcher) Tracked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
