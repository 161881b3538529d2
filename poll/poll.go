package poll

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MinOptions is the smallest number of options a poll can offer.
	MinOptions = 2
	// MaxOptions caps the number of options in a single poll.
	MaxOptions = 20
	// MaxOptionLength caps the character length of a single option.
	MaxOptionLength = 100
)

var (
	ErrPollNotFound  = errors.New("poll does not exist")
	ErrPollClosed    = errors.New("poll is closed")
	ErrPollOpen      = errors.New("poll is still open")
	ErrNotVoter      = errors.New("not a registered voter of this poll")
	ErrNotCreator    = errors.New("only the poll creator may do this")
	ErrInvalidOption = errors.New("ranked option is not in the poll")
)

// Poll is a single ranked choice voting session: a question, an ordered list
// of options and a fixed roster of registered voters. Options are ranked by
// their 1-indexed position, which doubles as the candidate id fed to the
// tally engine.
type Poll struct {
	id       uuid.UUID
	question string
	options  []string
	creator  string
	openTime time.Time
	closed   bool

	// voters maps every registered username to their recorded raw ballot,
	// nil until they vote. Recasting a vote replaces the previous ballot.
	voters map[string][]int32
}

func newPoll(creator, question string, options, voters []string) (*Poll, error) {
	return newPollWithID(uuid.New(), creator, question, options, voters)
}

// newPollWithID builds a poll under a caller-supplied id, used when
// replicating a poll announced by another registry.
func newPollWithID(id uuid.UUID, creator, question string, options, voters []string) (*Poll, error) {
	if len(options) < MinOptions {
		return nil, fmt.Errorf("poll requires at least %d options", MinOptions)
	}
	if len(options) > MaxOptions {
		return nil, fmt.Errorf("poll can have at most %d options, %d passed", MaxOptions, len(options))
	}
	for _, option := range options {
		if option == "" {
			return nil, errors.New("poll option is empty")
		}
		if len(option) > MaxOptionLength {
			return nil, fmt.Errorf("poll option exceeds %d character limit: %q", MaxOptionLength, option)
		}
	}
	if len(voters) == 0 {
		return nil, errors.New("poll requires at least one registered voter")
	}

	roster := make(map[string][]int32, len(voters))
	for _, voter := range voters {
		if voter == "" {
			return nil, errors.New("voter username is empty")
		}
		roster[voter] = nil
	}

	return &Poll{
		id:       id,
		question: question,
		options:  append([]string(nil), options...),
		creator:  creator,
		openTime: time.Now(),
		voters:   roster,
	}, nil
}

// snapshot copies the poll so callers can read it without holding the
// registry lock. A nil recorded ballot stays nil, preserving the
// has-not-voted marker.
func (p *Poll) snapshot() *Poll {
	voters := make(map[string][]int32, len(p.voters))
	for name, ballot := range p.voters {
		voters[name] = append([]int32(nil), ballot...)
	}
	return &Poll{
		id:       p.id,
		question: p.question,
		options:  append([]string(nil), p.options...),
		creator:  p.creator,
		openTime: p.openTime,
		closed:   p.closed,
		voters:   voters,
	}
}

func (p *Poll) ID() uuid.UUID    { return p.id }
func (p *Poll) Question() string { return p.question }
func (p *Poll) Creator() string  { return p.creator }
func (p *Poll) Closed() bool     { return p.closed }

// Options returns the poll's options in ranking order.
func (p *Poll) Options() []string {
	return append([]string(nil), p.options...)
}

// Option resolves a candidate id back to its option text.
func (p *Poll) Option(candidate int) (string, error) {
	if candidate < 1 || candidate > len(p.options) {
		return "", ErrInvalidOption
	}
	return p.options[candidate-1], nil
}

// VoterNames returns the usernames registered to vote on this poll.
func (p *Poll) VoterNames() []string {
	names := make([]string, 0, len(p.voters))
	for name := range p.voters {
		names = append(names, name)
	}
	return names
}

// RegisteredVoters returns the number of usernames allowed to vote.
func (p *Poll) RegisteredVoters() int {
	return len(p.voters)
}

// VotesCast returns the number of registered voters with a recorded ballot.
func (p *Poll) VotesCast() int {
	cast := 0
	for _, ballot := range p.voters {
		if ballot != nil {
			cast++
		}
	}
	return cast
}

// EveryoneVoted reports whether all registered voters have cast a ballot.
func (p *Poll) EveryoneVoted() bool {
	return p.VotesCast() == len(p.voters)
}
