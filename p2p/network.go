package p2p

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/ishmanwtf/RCV-tele-bot/network"
)

// Network hands out pubsub backed gossip instances, one per election topic.
// Registries replicating the same set of polls join the same topic.
type Network struct {
	ps *pubsub.PubSub
}

func NewNetwork(ps *pubsub.PubSub) *Network {
	return &Network{
		ps: ps,
	}
}

// Gossip joins the given election topic and returns a Gossip bound to it.
func (n *Network) Gossip(topic string) (network.Gossip, error) {
	tp, err := n.ps.Join(topic)
	if err != nil {
		return nil, err
	}

	g := &Gossip{
		ps: n.ps,
		tp: tp,
	}
	g.ensureSubscribed()
	return g, nil
}

var _ network.Gossip = (*Gossip)(nil)

// Gossip relays poll announcements and ballots over a single pubsub topic.
// Incoming messages are screened by a topic validator: structurally
// malformed messages and messages the local registry rejects are not
// propagated further.
type Gossip struct {
	ps  *pubsub.PubSub
	tp  *pubsub.Topic
	sub *pubsub.Subscription
}

func (g *Gossip) BroadcastBallot(ctx context.Context, ballot *network.Ballot) error {
	if err := ballot.ValidateForm(); err != nil {
		return err
	}
	return g.publish(ctx, &message{Type: ballotType, Ballot: ballot})
}

func (g *Gossip) BroadcastAnnouncement(ctx context.Context, announcement *network.Announcement) error {
	if err := announcement.ValidateForm(); err != nil {
		return err
	}
	return g.publish(ctx, &message{Type: announcementType, Announcement: announcement})
}

func (g *Gossip) publish(ctx context.Context, msg *message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// so that we publish when we have at least one peer
	opt := pubsub.WithReadiness(pubsub.MinTopicSize(1))
	return g.tp.Publish(ctx, data, opt)
}

func (g *Gossip) Notify(notifiee network.Notifiee) {
	// error can be safely ignored
	_ = g.ps.RegisterTopicValidator(g.tp.String(), func(ctx context.Context, _ peer.ID, pmsg *pubsub.Message) pubsub.ValidationResult {
		var msg message
		if err := json.Unmarshal(pmsg.Data, &msg); err != nil {
			return pubsub.ValidationReject
		}

		switch msg.Type {
		case ballotType:
			if msg.Ballot == nil || msg.Ballot.ValidateForm() != nil {
				return pubsub.ValidationReject
			}
			if err := notifiee.OnBallot(ctx, msg.Ballot); err != nil {
				return pubsub.ValidationReject
			}
		case announcementType:
			if msg.Announcement == nil || msg.Announcement.ValidateForm() != nil {
				return pubsub.ValidationReject
			}
			if err := notifiee.OnAnnouncement(ctx, msg.Announcement); err != nil {
				return pubsub.ValidationReject
			}
		default:
			return pubsub.ValidationReject
		}

		return pubsub.ValidationAccept
	})
}

func (g *Gossip) Close() (err error) {
	// sub is nil when the initial subscription attempt failed
	if g.sub != nil {
		g.sub.Cancel()
	}
	err = errors.Join(err, g.ps.UnregisterTopicValidator(g.tp.String()))
	err = errors.Join(err, g.tp.Close())
	return err
}

// ensureSubscribed maintains one and only one subscription for the topic.
// PubSub requires at least one subscription in order to work correctly; the
// Gossip interface has no notion of subscribers and relies only on
// validators, so received messages are drained and discarded.
func (g *Gossip) ensureSubscribed() {
	sub, err := g.tp.Subscribe()
	if err != nil {
		return // safe to ignore
	}
	g.sub = sub

	go func() {
		for {
			_, err := sub.Next(context.Background())
			if err != nil {
				// happens when the subscription is canceled
				return
			}
		}
	}()
}

type messageType uint8

const (
	ballotType messageType = iota + 1
	announcementType
)

type message struct {
	Type         messageType           `json:"type"`
	Ballot       *network.Ballot       `json:"ballot,omitempty"`
	Announcement *network.Announcement `json:"announcement,omitempty"`
}
