package tally

// runoff executes the instant runoff elimination algorithm over the
// committed contents of a vote trie. It can be viewed as a small state
// machine: the state is the set of remaining candidates plus a round
// number, and each round scores every remaining candidate, checks the
// terminal conditions and otherwise eliminates exactly one candidate. The
// trie's committed data is never mutated; a runoff holds only per-run
// scratch state.
type runoff struct {
	trie     *voteTrie
	strategy Strategy

	remaining  map[Candidate]struct{}
	eliminated map[Candidate]struct{}
	round      int
}

func newRunoff(trie *voteTrie, strategy Strategy) *runoff {
	return &runoff{
		trie:       trie,
		strategy:   strategy,
		remaining:  trie.candidates(),
		eliminated: make(map[Candidate]struct{}),
	}
}

// run drives the elimination rounds to completion and returns the winning
// candidate, or false if the tally produces no winner. The loop always
// terminates: every round either returns or shrinks the remaining set by
// exactly one.
func (r *runoff) run() (Candidate, bool) {
	for {
		// terminal conditions: no candidate left to win, or a sole survivor
		if len(r.remaining) == 0 {
			return 0, false
		}
		if len(r.remaining) == 1 {
			for winner := range r.remaining {
				return winner, true
			}
		}

		ballots, threshold := r.roundBallots()
		scores := r.strategy.Score(ballots)
		for candidate := range r.remaining {
			if _, ok := scores[candidate]; !ok {
				scores[candidate] = 0
			}
		}

		// majority short-circuit: a candidate whose score strictly exceeds
		// half the threshold wins without further elimination
		if winner, ok := majority(scores, threshold); ok {
			return winner, true
		}

		r.eliminate(minimumScorer(scores))
	}
}

// roundBallots assembles the strategy's view of every committed ballot for
// the current round, squeezing out eliminated candidates while keeping
// relative order. It also returns the majority threshold denominator for
// the round: the total committed ballot count, including withhold-only
// ballots, minus the abstain ballots that have become exhausted. Keeping
// withheld ballots in the denominator means a majority can be
// mathematically unreachable under heavy withholding; that is deliberate.
func (r *runoff) roundBallots() ([]Ballot, uint64) {
	var ballots []Ballot
	var abstained uint64
	r.trie.walk(func(choices []Candidate, special SpecialVote, count uint64) {
		remaining := make([]Candidate, 0, len(choices))
		for _, candidate := range choices {
			if _, gone := r.eliminated[candidate]; !gone {
				remaining = append(remaining, candidate)
			}
		}
		if len(remaining) == 0 {
			// exhausted: the ballot supports nobody this round. Abstaining
			// voters additionally leave the majority denominator.
			if special == Abstain {
				abstained += count
			}
			return
		}
		ballots = append(ballots, Ballot{Remaining: remaining, Count: count})
	})
	return ballots, r.trie.committedCount() - abstained
}

func (r *runoff) eliminate(candidate Candidate) {
	delete(r.remaining, candidate)
	r.eliminated[candidate] = struct{}{}
	r.round++
}

// majority reports the candidate whose score strictly exceeds half of the
// threshold, if any. Positional strategies can in principle push several
// candidates over the bar in the same round, in which case the highest
// scorer wins, ties broken by lowest id.
func majority(scores map[Candidate]float64, threshold uint64) (Candidate, bool) {
	var winner Candidate
	found := false
	for candidate, score := range scores {
		if score*2 <= float64(threshold) {
			continue
		}
		if !found || score > scores[winner] || (score == scores[winner] && candidate < winner) {
			winner = candidate
			found = true
		}
	}
	return winner, found
}

// minimumScorer returns the candidate to eliminate this round: the lowest
// scorer, with ties broken deterministically by lowest candidate id.
func minimumScorer(scores map[Candidate]float64) Candidate {
	var loser Candidate
	first := true
	for candidate, score := range scores {
		if first || score < scores[loser] || (score == scores[loser] && candidate < loser) {
			loser = candidate
			first = false
		}
	}
	return loser
}
