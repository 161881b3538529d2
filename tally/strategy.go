package tally

// Ballot is one committed ballot as presented to a scoring strategy for a
// single elimination round: the ranked candidates that have not yet been
// eliminated, in their original relative order, together with how many
// voters cast exactly that ranking. Ballots whose every ranked candidate has
// been eliminated are not presented at all; they contribute to no candidate
// for the remainder of the run.
type Ballot struct {
	Remaining []Candidate
	Count     uint64
}

// Strategy computes a score per remaining candidate for one elimination
// round. It is the single capability a scoring method must provide: the
// elimination state machine itself never needs to change when a new strategy
// is added. A strategy is selected once per tally run and fixed for its
// duration.
type Strategy interface {
	// Score awards points to candidates from the given round ballots.
	// Candidates absent from the result are treated as scoring zero.
	Score(ballots []Ballot) map[Candidate]float64

	// Name identifies the strategy in logs.
	Name() string
}

var (
	// PluralityFirstChoice scores each candidate by the number of ballots
	// currently ranking them first among the remaining candidates.
	PluralityFirstChoice Strategy = pluralityFirstChoice{}

	// DowdallScoring is positional: every ballot awards 1/position points
	// to each of its remaining candidates, positions counted from 1 after
	// eliminated candidates have been squeezed out.
	DowdallScoring Strategy = dowdallScoring{}
)

type pluralityFirstChoice struct{}

func (pluralityFirstChoice) Score(ballots []Ballot) map[Candidate]float64 {
	scores := make(map[Candidate]float64)
	for _, ballot := range ballots {
		scores[ballot.Remaining[0]] += float64(ballot.Count)
	}
	return scores
}

func (pluralityFirstChoice) Name() string { return "plurality-first-choice" }

type dowdallScoring struct{}

func (dowdallScoring) Score(ballots []Ballot) map[Candidate]float64 {
	scores := make(map[Candidate]float64)
	for _, ballot := range ballots {
		for position, candidate := range ballot.Remaining {
			scores[candidate] += float64(ballot.Count) / float64(position+1)
		}
	}
	return scores
}

func (dowdallScoring) Name() string { return "dowdall" }
