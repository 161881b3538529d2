package network

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// Ballot is one voter's raw ranking sequence for one poll, relayed between
// replicas of a poll registry. Relay is best effort and carries no
// authority; every receiving registry still validates the rankings and the
// voter's registration before recording anything.
type Ballot struct {
	PollID   uuid.UUID `json:"poll_id"`
	VoterID  string    `json:"voter_id"`
	Rankings []int32   `json:"rankings"`
}

// ValidateForm checks the structural validity of a relayed ballot. It does
// not rank-validate the sequence; that remains the receiving tally's job.
func (b *Ballot) ValidateForm() error {
	if b.PollID == uuid.Nil {
		return errors.New("ballot is missing a poll id")
	}
	if b.VoterID == "" {
		return errors.New("ballot is missing a voter id")
	}
	if len(b.Rankings) == 0 {
		return errors.New("ballot does not contain any rankings")
	}
	return nil
}

// Announcement replicates a newly created poll so that replicas can accept
// ballots for it under the same poll id.
type Announcement struct {
	PollID   uuid.UUID `json:"poll_id"`
	Question string    `json:"question"`
	Options  []string  `json:"options"`
	Creator  string    `json:"creator"`
	Voters   []string  `json:"voters"`
}

func (a *Announcement) ValidateForm() error {
	if a.PollID == uuid.Nil {
		return errors.New("announcement is missing a poll id")
	}
	if a.Creator == "" {
		return errors.New("announcement is missing a creator")
	}
	if len(a.Options) == 0 {
		return errors.New("announcement does not contain any options")
	}
	if len(a.Voters) == 0 {
		return errors.New("announcement does not contain any voters")
	}
	return nil
}

// Gossip is an interface which allows a poll registry to both broadcast
// messages to and receive messages from its replicas. It must eventually
// propagate messages to all non-faulty replicas; whether that happens by
// flooding or via a pubsub protocol is left to the implementer.
type Gossip interface {
	io.Closer
	Broadcaster
	Notifier
}

type Broadcaster interface {
	BroadcastBallot(context.Context, *Ballot) error
	BroadcastAnnouncement(context.Context, *Announcement) error
}

type Notifier interface {
	// Notify registers a Notifiee wishing to receive relayed messages. Any
	// non-nil error returned from an On handler rejects the message as
	// invalid.
	Notify(Notifiee)
}

type Notifiee interface {
	OnBallot(context.Context, *Ballot) error
	OnAnnouncement(context.Context, *Announcement) error
}
