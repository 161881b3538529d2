package poll_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ishmanwtf/RCV-tele-bot/poll"
	"github.com/ishmanwtf/RCV-tele-bot/tally"
)

func TestParseRankings(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []int32
	}{
		{"arrow separated", "1 > 3 > 2", []int32{1, 3, 2}},
		{"space separated", "1 3 2", []int32{1, 3, 2}},
		{"mixed separators", "4>2 > 1", []int32{4, 2, 1}},
		{"trailing withhold", "2 > 1 > 0", []int32{2, 1, int32(tally.Withhold)}},
		{"trailing abstain", "2 > nil", []int32{2, int32(tally.Abstain)}},
		{"lone withhold", "0", []int32{int32(tally.Withhold)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rankings, err := poll.ParseRankings(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want, rankings)
		})
	}
}

func TestParseRankingsRejections(t *testing.T) {
	_, err := poll.ParseRankings("   ")
	require.ErrorIs(t, err, tally.ErrVoteIsEmpty)

	_, err = poll.ParseRankings("1 > two > 3")
	require.Error(t, err)

	_, err = poll.ParseRankings("1 > -4")
	require.Error(t, err)
}

func TestFormatRankings(t *testing.T) {
	text := poll.FormatRankings([]int32{2, 1, int32(tally.Withhold)})
	require.Equal(t, "2 > 1 > withhold", text)

	// parsing accepts the rendered special names back
	rankings, err := poll.ParseRankings(text)
	require.NoError(t, err)
	require.Equal(t, []int32{2, 1, int32(tally.Withhold)}, rankings)
}
