package tally

// Candidate identifies a single option that can be ranked in a ballot.
// Ids are positive and fit within 16 bits. The same id may appear across
// many ballots; uniqueness is only enforced within one ballot.
type Candidate uint16

// MaxCandidate is the highest representable candidate id. Zero is not a
// candidate: the ranking value 0 is reserved for the withhold special vote
// at the text level and is rejected outright as a raw entry.
const MaxCandidate = int32(^Candidate(0))

// SpecialVote is a sentinel ranking disjoint from the candidate id range,
// representable only as the final entry of a ballot.
type SpecialVote int32

const (
	// Withhold expresses no preference for any candidate. Withheld ballots
	// count towards the majority threshold for the entire tally, so a
	// heavily withheld poll can make a majority unreachable.
	Withhold SpecialVote = -1
	// Abstain withdraws the voter from the poll. Abstained ballots count
	// towards the total number of votes cast but drop out of the majority
	// threshold once every candidate they ranked has been eliminated.
	Abstain SpecialVote = -2
)

func (s SpecialVote) String() string {
	switch s {
	case Withhold:
		return "withhold"
	case Abstain:
		return "abstain"
	default:
		return "invalid"
	}
}

// RankedVote is one voter's validated ballot: an ordered, non-empty sequence
// of unique candidate ids, optionally terminated by a single special vote.
// A RankedVote is immutable once constructed.
type RankedVote struct {
	choices []Candidate
	special SpecialVote // 0 when the ballot ends on a candidate
}

// NewRankedVote validates a raw ranking sequence and encodes it as a ballot.
// It is a pure function: it never mutates shared state and the same input
// always yields the same result. On failure it returns one of the VoteError
// kinds and the ballot is rejected in full, never partially accepted.
func NewRankedVote(raw []int32) (RankedVote, error) {
	if len(raw) == 0 {
		return RankedVote{}, ErrVoteIsEmpty
	}

	vote := RankedVote{choices: make([]Candidate, 0, len(raw))}
	seen := make(map[Candidate]struct{}, len(raw))
	for i, value := range raw {
		if value < 0 {
			special, err := castSpecialVote(value)
			if err != nil {
				return RankedVote{}, err
			}
			if i != len(raw)-1 {
				return RankedVote{}, ErrNonFinalSpecialVote
			}
			vote.special = special
			continue
		}

		if value == 0 || value > MaxCandidate {
			return RankedVote{}, ErrInvalidCastToCandidate
		}
		candidate := Candidate(value)
		if _, ok := seen[candidate]; ok {
			return RankedVote{}, ErrDuplicateVotes
		}
		seen[candidate] = struct{}{}
		vote.choices = append(vote.choices, candidate)
	}
	return vote, nil
}

func castSpecialVote(value int32) (SpecialVote, error) {
	switch SpecialVote(value) {
	case Withhold, Abstain:
		return SpecialVote(value), nil
	default:
		return 0, ErrInvalidCastToSpecialVote
	}
}

// withholdVote constructs the canonical empty ballot. The engine guarantees
// it is well formed, so a validation failure here is a defect in the engine
// itself rather than bad input.
func withholdVote() RankedVote {
	vote, err := NewRankedVote([]int32{int32(Withhold)})
	if err != nil {
		panic(err)
	}
	return vote
}

// Len returns the total number of ranked entries, counting a trailing
// special vote.
func (v RankedVote) Len() int {
	if v.special != 0 {
		return len(v.choices) + 1
	}
	return len(v.choices)
}

// Choices returns the ranked candidates in their original order, most
// preferred first. The trailing special vote, if any, is not included.
func (v RankedVote) Choices() []Candidate {
	return v.choices
}

// Special reports the ballot's terminating special vote, if it has one.
func (v RankedVote) Special() (SpecialVote, bool) {
	return v.special, v.special != 0
}

// Choice returns the raw value ranked at position i, zero indexed, where a
// trailing special vote occupies the final position. Indexing past the end
// of the ballot fails with ErrReadOutOfBounds.
func (v RankedVote) Choice(i int) (int32, error) {
	if i < 0 || i >= v.Len() {
		return 0, ErrReadOutOfBounds
	}
	if i == len(v.choices) {
		return int32(v.special), nil
	}
	return int32(v.choices[i]), nil
}
