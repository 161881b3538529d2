package poll

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ishmanwtf/RCV-tele-bot/tally"
)

// ParseRankings parses the textual form of a ranked vote into raw ranking
// values ready for validation, e.g. "1 > 3 > 2" or "1 3 2". The final
// choice may be one of two special values: "0" to vote for none of the
// options, or "nil" to withdraw from the poll entirely.
func ParseRankings(text string) ([]int32, error) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == '>' || r == ' ' || r == '\t'
	})
	if len(tokens) == 0 {
		return nil, tally.ErrVoteIsEmpty
	}

	rankings := make([]int32, 0, len(tokens))
	for _, token := range tokens {
		ranking, err := parseRanking(token)
		if err != nil {
			return nil, err
		}
		rankings = append(rankings, ranking)
	}
	return rankings, nil
}

func parseRanking(token string) (int32, error) {
	switch token {
	case "0", "withhold":
		return int32(tally.Withhold), nil
	case "nil", "abstain":
		return int32(tally.Abstain), nil
	}
	ranking, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid vote ranking %q", token)
	}
	if ranking <= 0 {
		return 0, fmt.Errorf("vote rankings must be positive, got %d", ranking)
	}
	return int32(ranking), nil
}

// FormatRankings renders raw ranking values back into the textual vote
// form, resolving special values to their names.
func FormatRankings(rankings []int32) string {
	parts := make([]string, 0, len(rankings))
	for _, ranking := range rankings {
		if ranking < 0 {
			parts = append(parts, tally.SpecialVote(ranking).String())
			continue
		}
		parts = append(parts, strconv.FormatInt(int64(ranking), 10))
	}
	return strings.Join(parts, " > ")
}
