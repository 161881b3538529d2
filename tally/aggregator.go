package tally

import (
	"os"

	"github.com/rs/zerolog"
)

// Aggregator is the orchestrating object a poll exposes to its callers. It
// owns a pending cache of raw, unvalidated rankings keyed by voter id and a
// trie of validated, committed ballots, and it determines a winner by
// running elimination rounds under the selected scoring strategy.
//
// An Aggregator is single owner state: every operation runs synchronously to
// completion and instances are not safe for concurrent mutation. Distinct
// instances share nothing and may be used fully in parallel.
type Aggregator struct {
	pending  *pendingVotes
	trie     *voteTrie
	strategy Strategy
	logger   zerolog.Logger
}

// Option configures an Aggregator. If left empty, defaults are used.
type Option func(*Aggregator)

// WithLogger sets the logger used by the aggregator.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithStrategy sets the initial scoring strategy, overriding the plurality
// first-choice default.
func WithStrategy(strategy Strategy) Option {
	return func(a *Aggregator) {
		a.strategy = strategy
	}
}

// NewAggregator creates an aggregator with an empty pending cache, an empty
// ballot trie and the plurality first-choice strategy.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		pending:  newPendingVotes(),
		trie:     newVoteTrie(),
		strategy: PluralityFirstChoice,
		logger:   zerolog.New(os.Stdout),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetStrategy selects the scoring strategy for subsequent tally runs. The
// strategy in effect when DetermineWinner starts is fixed for that run.
func (a *Aggregator) SetStrategy(strategy Strategy) {
	a.strategy = strategy
}

// InsertVoteRanking appends a single raw ranking value to the voter's
// pending ballot, creating it if absent. Nothing is validated until the
// pending set is flushed, so a voter's ranking can arrive incrementally.
func (a *Aggregator) InsertVoteRanking(voterID uint64, value int32) {
	a.pending.append(voterID, value)
}

// InsertEmptyVotes commits count withhold-only ballots directly to the
// trie, bypassing the pending cache. These represent registered voters who
// never cast a ballot: they contribute to no candidate's score but raise
// the majority threshold. It always succeeds.
func (a *Aggregator) InsertEmptyVotes(count uint64) bool {
	for i := uint64(0); i < count; i++ {
		a.trie.commit(withholdVote())
	}
	return true
}

// ValidateRawVote checks a raw ranking sequence without committing anything.
// It returns whether the sequence forms a valid ballot along with the fixed
// message for the failure, or an empty message on success. The check is
// pure: facade state is never touched and the result is independent of any
// prior call.
func (a *Aggregator) ValidateRawVote(raw []int32) (bool, string) {
	if _, err := NewRankedVote(raw); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// FlushVotes validates and commits every pending voter submission. The
// operation is all-or-nothing: every pending ballot is validated before any
// is committed, and on the first failure the entire pending set is restored
// untouched and the error reported. On success the pending cache is left
// empty. It returns whether anything was committed.
func (a *Aggregator) FlushVotes() (bool, error) {
	pending := a.pending.takeAll()
	if len(pending) == 0 {
		return false, nil
	}

	votes := make([]RankedVote, 0, len(pending))
	for voterID, raw := range pending {
		vote, err := NewRankedVote(raw)
		if err != nil {
			a.pending.restore(pending)
			a.logger.Debug().
				Uint64("voter_id", voterID).
				Err(err).
				Msg("flush rejected, pending votes restored")
			return false, err
		}
		votes = append(votes, vote)
	}
	for _, vote := range votes {
		a.trie.commit(vote)
	}
	a.logger.Debug().Int("flushed", len(votes)).Msg("committed pending votes")
	return true, nil
}

// NumVotes returns the number of committed ballots plus the number of
// distinct voters with a pending, not yet flushed ballot.
func (a *Aggregator) NumVotes() uint64 {
	return a.trie.committedCount() + uint64(a.pending.voterCount())
}

// DetermineWinner flushes any pending votes and runs elimination rounds to
// completion under the active strategy. A flush failure propagates as an
// error with the pending set fully restored. The second return is false
// when the tally produces no winner, such as when every committed ballot
// withheld.
func (a *Aggregator) DetermineWinner() (Candidate, bool, error) {
	if _, err := a.FlushVotes(); err != nil {
		return 0, false, err
	}
	elimination := newRunoff(a.trie, a.strategy)
	winner, ok := elimination.run()
	a.logger.Info().
		Str("strategy", a.strategy.Name()).
		Uint64("num_votes", a.trie.committedCount()).
		Int("rounds", elimination.round).
		Bool("has_winner", ok).
		Uint16("winner", uint16(winner)).
		Msg("tally complete")
	return winner, ok, nil
}
