package tally_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ishmanwtf/RCV-tele-bot/tally"
)

// repeat casts the same ranking sequence n times, each under a fresh voter.
func repeat(n int, ballot []int32) [][]int32 {
	ballots := make([][]int32, n)
	for i := range ballots {
		ballots[i] = ballot
	}
	return ballots
}

func castAll(a *tally.Aggregator, groups ...[][]int32) {
	voterID := uint64(0)
	for _, group := range groups {
		for _, ballot := range group {
			voterID++
			for _, value := range ballot {
				a.InsertVoteRanking(voterID, value)
			}
		}
	}
}

func TestPluralityRedistribution(t *testing.T) {
	// Round 0 first choices: 1->4, 2->3, 3->3 out of 10 ballots, so nobody
	// clears the majority of >5. The 2/3 tie for minimum is broken by
	// lowest id, eliminating 2, whose ballots redistribute to 3:
	// 1->4, 3->6 and 6 > 5 wins.
	aggregator := tally.NewAggregator(tally.WithStrategy(tally.PluralityFirstChoice))
	castAll(aggregator,
		repeat(4, []int32{1, 2, 3}),
		repeat(3, []int32{2, 3, 1}),
		repeat(3, []int32{3, 1, 2}),
	)

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 3, winner)
	require.EqualValues(t, 10, aggregator.NumVotes())
}

func TestTieBreakEliminatesLowestID(t *testing.T) {
	// two single-entry ballots tie at the minimum; candidate 1 goes first
	aggregator := tally.NewAggregator()
	castAll(aggregator,
		repeat(1, []int32{1}),
		repeat(1, []int32{2}),
	)

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 2, winner)
}

// The fixture below separates the scoring strategies: the same nine ballots
// elect 2 under plurality but 1 under Dowdall, where broad second and third
// places push every candidate past the majority bar in round 0 and the
// highest scorer takes it.
//
// Dowdall round 0: 1 -> 4 + 3/3 + 2/3 = 5.67, 2 -> 4/3 + 3 + 1 = 5.33,
// 3 -> 2 + 1.5 + 2 = 5.5, all above 9/2.
func contestedBallots() [][][]int32 {
	return [][][]int32{
		repeat(4, []int32{1, 3, 2}),
		repeat(3, []int32{2, 3, 1}),
		repeat(2, []int32{3, 2, 1}),
	}
}

func TestContestedPlurality(t *testing.T) {
	aggregator := tally.NewAggregator()
	castAll(aggregator, contestedBallots()...)

	// round 0: 1->4, 2->3, 3->2, none above 4.5; eliminate 3, whose
	// supporters prefer 2: 1->4, 2->5 and 5 > 4.5 wins
	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 2, winner)
}

func TestContestedDowdall(t *testing.T) {
	aggregator := tally.NewAggregator(tally.WithStrategy(tally.DowdallScoring))
	castAll(aggregator, contestedBallots()...)

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, winner)
}

func TestWithholdRaisesMajorityThreshold(t *testing.T) {
	// three withheld ballots lift the majority bar from 4.5 to 6, so the
	// round 0 short-circuit that elected 1 under Dowdall no longer fires.
	// Candidate 2 is eliminated (5.33 minimum) and round 1 scores
	// 1 -> 6.5, 3 -> 7, both above 6: 3 wins on the higher score.
	aggregator := tally.NewAggregator(tally.WithStrategy(tally.DowdallScoring))
	castAll(aggregator, contestedBallots()...)
	aggregator.InsertEmptyVotes(3)

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 3, winner)
	require.EqualValues(t, 12, aggregator.NumVotes())
}

func TestAbstainLeavesMajorityThreshold(t *testing.T) {
	// abstaining ballots count as votes cast but drop out of the majority
	// denominator, so unlike the withheld variant above the round 0
	// short-circuit still fires and 1 wins.
	aggregator := tally.NewAggregator(tally.WithStrategy(tally.DowdallScoring))
	castAll(aggregator, contestedBallots()...)
	for i := uint64(0); i < 3; i++ {
		aggregator.InsertVoteRanking(100+i, int32(tally.Abstain))
	}
	require.EqualValues(t, 12, aggregator.NumVotes())

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, winner)
}

func TestExhaustedBallotsSupportNobody(t *testing.T) {
	// ballots ranking only eliminated candidates become functionally
	// withheld: once 4 is eliminated its ballot contributes to no one but
	// still holds the majority bar at >2.5, so the 5/6 race is settled by
	// elimination rather than short-circuit.
	aggregator := tally.NewAggregator()
	castAll(aggregator,
		repeat(1, []int32{4}),
		repeat(2, []int32{5}),
		repeat(2, []int32{6}),
	)

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 6, winner)
}

func TestAllWithheldNoWinner(t *testing.T) {
	aggregator := tally.NewAggregator()
	aggregator.InsertEmptyVotes(5)
	castAll(aggregator, repeat(2, []int32{int32(tally.Withhold)}))

	winner, found, err := aggregator.DetermineWinner()
	require.NoError(t, err)
	require.False(t, found)
	require.EqualValues(t, 0, winner)
	require.EqualValues(t, 7, aggregator.NumVotes())
}
