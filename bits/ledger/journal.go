package ledger

// Snapshot returns an identifier for the current staged state.
func (l *Ledger) Snapshot() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.journal)
}

// RevertToSnapshot undoes every staged change made after Snapshot returned id.
func (l *Ledger) RevertToSnapshot(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.journal) - 1; i >= id; i-- {
		l.journal[i]()
	}
	l.journal = l.journal[:id]
}

// Commit publishes the staged changes to readers and discards the journal.
func (l *Ledger) Commit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.supply.Commit()
	l.balances.Commit()
	for _, key := range l.opened {
		l.holders[key.creator] = append(l.holders[key.creator], key.holder)
	}
	l.opened = l.opened[:0]
	l.journal = l.journal[:0]
}
