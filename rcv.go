// Package rcv glues the ranked choice voting components together: the tally
// package counts validated ballots through elimination rounds, the poll
// package manages voting sessions on top of it, and the network and p2p
// packages relay polls and ballots between registry replicas.
package rcv

import (
	pubsub "github.com/libp2p/go-libp2p-pubsub"

	"github.com/ishmanwtf/RCV-tele-bot/p2p"
	"github.com/ishmanwtf/RCV-tele-bot/poll"
)

// New creates a poll registry whose polls and ballots are replicated over
// libp2p pubsub on the given election topic.
func New(ps *pubsub.PubSub, topic string, opts ...poll.Option) (*poll.Registry, error) {
	gossip, err := p2p.NewNetwork(ps).Gossip(topic)
	if err != nil {
		return nil, err
	}
	return poll.NewRegistry(append(opts, poll.WithGossip(gossip))...), nil
}
