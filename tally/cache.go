package tally

// pendingVotes accumulates raw ranking entries per voter before they are
// validated and committed. It performs no validation of its own: entries are
// purely additive until a flush either takes them all or restores them.
type pendingVotes struct {
	rankings map[uint64][]int32
}

func newPendingVotes() *pendingVotes {
	return &pendingVotes{rankings: make(map[uint64][]int32)}
}

// append adds a single ranking value to the voter's in-progress ballot,
// creating the ballot if the voter has none pending.
func (p *pendingVotes) append(voterID uint64, value int32) {
	p.rankings[voterID] = append(p.rankings[voterID], value)
}

// voterCount returns the number of distinct voters with a pending ballot,
// not the number of individual ranking entries.
func (p *pendingVotes) voterCount() int {
	return len(p.rankings)
}

// takeAll removes and returns every pending ballot. Paired with restore it
// lets a flush be all-or-nothing.
func (p *pendingVotes) takeAll() map[uint64][]int32 {
	taken := p.rankings
	p.rankings = make(map[uint64][]int32)
	return taken
}

// restore reinserts ballots previously removed by takeAll, used when a flush
// fails validation and must leave the pending set untouched.
func (p *pendingVotes) restore(rankings map[uint64][]int32) {
	for voterID, ranking := range rankings {
		p.rankings[voterID] = append(p.rankings[voterID], ranking...)
	}
}
