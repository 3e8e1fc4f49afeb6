package distributor

func (d *Distributor) journal(undo func()) {
	d.undo = append(d.undo, undo)
}

// Snapshot returns an identifier for the current staged state.
func (d *Distributor) Snapshot() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.undo)
}

// RevertToSnapshot undoes every staged change made after Snapshot returned id.
func (d *Distributor) RevertToSnapshot(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.undo) - 1; i >= id; i-- {
		d.undo[i]()
	}
	d.undo = d.undo[:id]
}

// Commit publishes the staged changes to readers and discards the journal.
func (d *Distributor) Commit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cumulative.Commit()
	d.checkpoints.Commit()
	d.unaccrued.Commit()
	d.claimable.Commit()
	d.positions.Commit()
	d.totals.Commit()
	d.undo = d.undo[:0]
}
