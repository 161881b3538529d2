package tally

// voteTrie stores committed ballots in a prefix sharing tree so that ballots
// with identical leading rankings amortize both storage and traversal. Nodes
// live in an arena and link to each other by index rather than by pointer;
// the structure is a strict forward tree so there is no ownership cycle to
// manage. Ballots are immutable once committed and are never removed.
type voteTrie struct {
	nodes     []trieNode
	committed uint64
}

type trieNode struct {
	// children is keyed by the raw ranking entry: candidate ids are
	// positive, special votes negative. Special vote children are always
	// leaves.
	children map[int32]uint32
	// terminal counts the ballots that end exactly at this node.
	terminal uint64
}

func newVoteTrie() *voteTrie {
	// index 0 is the root
	return &voteTrie{nodes: make([]trieNode, 1)}
}

// commit integrates one validated ballot, sharing any existing prefix.
// Amortized cost is linear in the ballot's length.
func (t *voteTrie) commit(vote RankedVote) {
	node := uint32(0)
	for i := 0; i < vote.Len(); i++ {
		value, err := vote.Choice(i)
		if err != nil {
			panic(err)
		}
		node = t.descend(node, value)
	}
	t.nodes[node].terminal++
	t.committed++
}

// descend returns the child of parent keyed by value, allocating it in the
// arena if it does not exist yet.
func (t *voteTrie) descend(parent uint32, value int32) uint32 {
	if t.nodes[parent].children == nil {
		t.nodes[parent].children = make(map[int32]uint32)
	}
	if child, ok := t.nodes[parent].children[value]; ok {
		return child
	}
	child := uint32(len(t.nodes))
	t.nodes[parent].children[value] = child
	t.nodes = append(t.nodes, trieNode{})
	return child
}

// committedCount returns the total number of committed ballots. It is
// monotonically non-decreasing.
func (t *voteTrie) committedCount() uint64 {
	return t.committed
}

// candidates returns the set of candidates ranked by at least one
// committed ballot.
func (t *voteTrie) candidates() map[Candidate]struct{} {
	set := make(map[Candidate]struct{})
	t.walk(func(choices []Candidate, _ SpecialVote, _ uint64) {
		for _, c := range choices {
			set[c] = struct{}{}
		}
	})
	return set
}

// walk visits every distinct committed ballot once, passing its ranked
// candidates, its terminating special vote (zero if it ends on a candidate)
// and the number of voters who cast exactly that ranking. The choices slice
// must not be retained past the callback.
func (t *voteTrie) walk(fn func(choices []Candidate, special SpecialVote, count uint64)) {
	var dfs func(node uint32, choices []Candidate)
	dfs = func(node uint32, choices []Candidate) {
		n := t.nodes[node]
		if n.terminal > 0 {
			fn(choices, 0, n.terminal)
		}
		for value, child := range n.children {
			if value < 0 {
				// special votes only ever terminate a ballot
				if leaf := t.nodes[child]; leaf.terminal > 0 {
					fn(choices, SpecialVote(value), leaf.terminal)
				}
				continue
			}
			dfs(child, append(choices[:len(choices):len(choices)], Candidate(value)))
		}
	}
	dfs(0, nil)
}
