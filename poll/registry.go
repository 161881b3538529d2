package poll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ishmanwtf/RCV-tele-bot/network"
	"github.com/ishmanwtf/RCV-tele-bot/tally"
)

// Registry holds every poll of one deployment in memory and serializes all
// access to them. Ballots cast locally are optionally relayed to replica
// registries over a gossip layer; relayed ballots pass through the same
// validation as local ones. Polls are not persisted across restarts.
type Registry struct {
	mtx      sync.RWMutex
	polls    map[uuid.UUID]*Poll
	strategy tally.Strategy
	gossip   network.Gossip
	logger   zerolog.Logger
}

var _ network.Notifiee = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithStrategy sets the scoring strategy used when determining poll
// winners, overriding the plurality first-choice default.
func WithStrategy(strategy tally.Strategy) Option {
	return func(r *Registry) {
		r.strategy = strategy
	}
}

// WithGossip connects the registry to a gossip layer. Locally cast ballots
// are broadcast to replicas and relayed ballots are applied as they arrive.
func WithGossip(gossip network.Gossip) Option {
	return func(r *Registry) {
		r.gossip = gossip
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		polls:    make(map[uuid.UUID]*Poll),
		strategy: tally.PluralityFirstChoice,
		logger:   zerolog.New(os.Stdout),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.gossip != nil {
		r.gossip.Notify(r)
	}
	return r
}

// CreatePoll registers a new open poll and returns its id. When connected
// to a gossip layer, the poll is announced so replicas can accept ballots
// for it.
func (r *Registry) CreatePoll(ctx context.Context, creator, question string, options, voters []string) (uuid.UUID, error) {
	p, err := newPoll(creator, question, options, voters)
	if err != nil {
		return uuid.Nil, err
	}

	r.mtx.Lock()
	r.polls[p.ID()] = p
	r.mtx.Unlock()

	r.logger.Info().
		Str("poll_id", p.ID().String()).
		Str("creator", creator).
		Int("options", len(options)).
		Int("voters", len(voters)).
		Msg("poll created")

	if r.gossip != nil {
		announcement := &network.Announcement{
			PollID:   p.ID(),
			Question: question,
			Options:  options,
			Creator:  creator,
			Voters:   voters,
		}
		if err := r.gossip.BroadcastAnnouncement(ctx, announcement); err != nil {
			// the local poll stands; replicas will miss it
			r.logger.Warn().Err(err).Str("poll_id", p.ID().String()).Msg("poll announcement failed")
		}
	}
	return p.ID(), nil
}

// OnAnnouncement replicates a poll announced by another registry. An
// announcement for a poll this registry already holds is ignored.
func (r *Registry) OnAnnouncement(_ context.Context, announcement *network.Announcement) error {
	if err := announcement.ValidateForm(); err != nil {
		return err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, exists := r.polls[announcement.PollID]; exists {
		return nil
	}
	p, err := newPollWithID(
		announcement.PollID,
		announcement.Creator,
		announcement.Question,
		announcement.Options,
		announcement.Voters,
	)
	if err != nil {
		return err
	}
	r.polls[p.ID()] = p
	return nil
}

// Poll returns a point-in-time snapshot of a poll. Later votes and state
// changes do not show through the returned value, so gossip callbacks can
// keep mutating the registry's copy while callers read; look the poll up
// again for fresh state.
func (r *Registry) Poll(id uuid.UUID) (*Poll, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, ErrPollNotFound
	}
	return p.snapshot(), nil
}

// CastVote records a ballot for a registered voter of an open poll,
// replacing any ballot the voter cast before. The rankings must validate
// and every ranked candidate must be one of the poll's options. When the
// registry is connected to a gossip layer the ballot is also relayed to
// replicas.
func (r *Registry) CastVote(ctx context.Context, id uuid.UUID, voter string, rankings []int32) error {
	if err := r.castVote(id, voter, rankings); err != nil {
		return err
	}

	if r.gossip != nil {
		ballot := &network.Ballot{PollID: id, VoterID: voter, Rankings: rankings}
		if err := r.gossip.BroadcastBallot(ctx, ballot); err != nil {
			// the local vote stands; replicas will miss it
			r.logger.Warn().Err(err).Str("poll_id", id.String()).Msg("ballot relay failed")
		}
	}
	return nil
}

func (r *Registry) castVote(id uuid.UUID, voter string, rankings []int32) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	p, ok := r.polls[id]
	if !ok {
		return ErrPollNotFound
	}
	if p.closed {
		return ErrPollClosed
	}
	if _, registered := p.voters[voter]; !registered {
		return ErrNotVoter
	}
	for _, ranking := range rankings {
		if ranking > 0 && int(ranking) > len(p.options) {
			return fmt.Errorf("%w: %d", ErrInvalidOption, ranking)
		}
	}
	if _, err := tally.NewRankedVote(rankings); err != nil {
		return err
	}

	p.voters[voter] = append([]int32(nil), rankings...)
	return nil
}

// OnBallot applies a ballot relayed from a replica registry. Ballots for
// polls this registry does not hold are ignored rather than rejected, since
// replicas need not carry the same poll set. Any other failure rejects the
// message.
func (r *Registry) OnBallot(_ context.Context, ballot *network.Ballot) error {
	if err := ballot.ValidateForm(); err != nil {
		return err
	}
	err := r.castVote(ballot.PollID, ballot.VoterID, ballot.Rankings)
	if errors.Is(err, ErrPollNotFound) {
		return nil
	}
	return err
}

// HasVoted reports whether a registered voter has cast a ballot.
func (r *Registry) HasVoted(id uuid.UUID, voter string) (bool, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	p, ok := r.polls[id]
	if !ok {
		return false, ErrPollNotFound
	}
	ballot, registered := p.voters[voter]
	if !registered {
		return false, ErrNotVoter
	}
	return ballot != nil, nil
}

// ClosePoll closes a poll to further voting. Only the creator may close it.
func (r *Registry) ClosePoll(id uuid.UUID, requester string) error {
	return r.setClosed(id, requester, true)
}

// ReopenPoll reverses a close. Only the creator may reopen it.
func (r *Registry) ReopenPoll(id uuid.UUID, requester string) error {
	return r.setClosed(id, requester, false)
}

func (r *Registry) setClosed(id uuid.UUID, requester string, closed bool) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return ErrPollNotFound
	}
	if p.creator != requester {
		return ErrNotCreator
	}
	p.closed = closed
	return nil
}

// Winner tallies a closed poll and returns the winning option. Registered
// voters who never cast a ballot are counted as withholding, so they raise
// the majority threshold without supporting any option. The second return
// is false when the tally produces no winner.
func (r *Registry) Winner(id uuid.UUID) (string, bool, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	p, ok := r.polls[id]
	if !ok {
		return "", false, ErrPollNotFound
	}
	if !p.closed {
		return "", false, ErrPollOpen
	}

	aggregator := tally.NewAggregator(
		tally.WithStrategy(r.strategy),
		tally.WithLogger(r.logger),
	)
	voterID := uint64(0)
	for _, ballot := range p.voters {
		if ballot == nil {
			continue
		}
		for _, ranking := range ballot {
			aggregator.InsertVoteRanking(voterID, ranking)
		}
		voterID++
	}
	aggregator.InsertEmptyVotes(uint64(p.RegisteredVoters() - p.VotesCast()))

	winner, found, err := aggregator.DetermineWinner()
	if err != nil {
		// recorded ballots were validated on cast, so a flush failure here
		// is a registry defect rather than voter input
		return "", false, fmt.Errorf("tallying poll %s: %w", id, err)
	}
	if !found {
		return "", false, nil
	}
	option, err := p.Option(int(winner))
	if err != nil {
		return "", false, err
	}
	return option, true, nil
}

// Close detaches the registry from its gossip layer, if any.
func (r *Registry) Close() error {
	if r.gossip == nil {
		return nil
	}
	return r.gossip.Close()
}
