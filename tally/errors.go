package tally

// VoteError classifies the ways a raw ballot can fail validation. Every kind
// carries a fixed, stable message so callers can surface it to voters
// directly. Validation errors are always recoverable: they are reported to
// the caller and never crash the process.
type VoteError uint8

const (
	// ErrInvalidCastToCandidate marks an entry outside the candidate id
	// range that is not a special vote.
	ErrInvalidCastToCandidate VoteError = iota + 1
	// ErrInvalidCastToSpecialVote marks a negative entry that does not map
	// to any known special vote.
	ErrInvalidCastToSpecialVote
	// ErrReadOutOfBounds marks an attempt to index past the end of a ballot.
	ErrReadOutOfBounds
	// ErrNonFinalSpecialVote marks a special vote ranked before the last
	// choice, or ranked more than once.
	ErrNonFinalSpecialVote
	// ErrDuplicateVotes marks a candidate ranked more than once in the
	// same ballot.
	ErrDuplicateVotes
	// ErrVoteIsEmpty marks a ballot with no entries at all.
	ErrVoteIsEmpty
)

func (e VoteError) Error() string {
	switch e {
	case ErrInvalidCastToCandidate:
		return "Invalid candidate"
	case ErrInvalidCastToSpecialVote:
		return "Invalid cast to special vote"
	case ErrReadOutOfBounds:
		return "Read out of bounds"
	case ErrNonFinalSpecialVote:
		return "Special vote value can only be ranked once as the last choice"
	case ErrDuplicateVotes:
		return "Duplicate vote rankings"
	case ErrVoteIsEmpty:
		return "Vote is empty"
	default:
		return "Unknown vote error"
	}
}
