package network

import (
	"context"
	"errors"
	"sync"
)

// Bus is an in-process Gossip implementation. Every message broadcast on
// the bus is delivered synchronously to every registered notifiee,
// including the broadcaster's own, mirroring the delivery semantics of the
// pubsub transport. It is intended for wiring registries together in tests
// and in single-process deployments.
type Bus struct {
	mtx       sync.RWMutex
	closed    bool
	notifiees []Notifiee
}

var _ Gossip = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) BroadcastBallot(ctx context.Context, ballot *Ballot) error {
	if err := ballot.ValidateForm(); err != nil {
		return err
	}
	return b.deliver(func(n Notifiee) error {
		return n.OnBallot(ctx, ballot)
	})
}

func (b *Bus) BroadcastAnnouncement(ctx context.Context, announcement *Announcement) error {
	if err := announcement.ValidateForm(); err != nil {
		return err
	}
	return b.deliver(func(n Notifiee) error {
		return n.OnAnnouncement(ctx, announcement)
	})
}

func (b *Bus) deliver(send func(Notifiee) error) error {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	if b.closed {
		return errors.New("bus is closed")
	}

	var errs error
	for _, notifiee := range b.notifiees {
		// a rejecting notifiee does not stop delivery to the others
		errs = errors.Join(errs, send(notifiee))
	}
	return errs
}

func (b *Bus) Notify(notifiee Notifiee) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.notifiees = append(b.notifiees, notifiee)
}

func (b *Bus) Close() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.closed = true
	b.notifiees = nil
	return nil
}
