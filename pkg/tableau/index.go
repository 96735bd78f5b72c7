package tableau

// branchIndex is the multi-key index over exactly six keys: sentence,
// designated, world, world1, world2, and the composite w1Rw2 pair. It is
// grounded on gokando's pldb.go indexed-relation lookups (index by column,
// probe the smallest candidate set first) generalized from ground facts
// to node property lookups, and follows pytableaux's common.py exact
// six-key shape and smallest-candidate-set-first selection strategy.
type branchIndex struct {
	bySentence   map[string]map[*Node]struct{}
	byDesignated map[bool]map[*Node]struct{}
	byWorld      map[int]map[*Node]struct{}
	byWorld1     map[int]map[*Node]struct{}
	byWorld2     map[int]map[*Node]struct{}
	byW1W2       map[[2]int]map[*Node]struct{}
}

func newBranchIndex() *branchIndex {
	return &branchIndex{
		bySentence:   make(map[string]map[*Node]struct{}),
		byDesignated: make(map[bool]map[*Node]struct{}),
		byWorld:      make(map[int]map[*Node]struct{}),
		byWorld1:     make(map[int]map[*Node]struct{}),
		byWorld2:     make(map[int]map[*Node]struct{}),
		byW1W2:       make(map[[2]int]map[*Node]struct{}),
	}
}

func addTo(m map[*Node]struct{}, n *Node) { m[n] = struct{}{} }

func getOrMake(idx map[string]map[*Node]struct{}, key string) map[*Node]struct{} {
	s, ok := idx[key]
	if !ok {
		s = make(map[*Node]struct{})
		idx[key] = s
	}
	return s
}

// add inserts n into every key it carries a value for.
func (bi *branchIndex) add(n *Node) {
	if n.HasSentence() {
		addTo(getOrMake(bi.bySentence, n.Sentence.String()), n)
	}
	if n.HasDesignated() {
		s, ok := bi.byDesignated[n.Designated]
		if !ok {
			s = make(map[*Node]struct{})
			bi.byDesignated[n.Designated] = s
		}
		addTo(s, n)
	}
	if n.HasWorld() {
		s, ok := bi.byWorld[n.World]
		if !ok {
			s = make(map[*Node]struct{})
			bi.byWorld[n.World] = s
		}
		addTo(s, n)
	}
	if n.HasAccess() {
		s1, ok := bi.byWorld1[n.World1]
		if !ok {
			s1 = make(map[*Node]struct{})
			bi.byWorld1[n.World1] = s1
		}
		addTo(s1, n)
		s2, ok := bi.byWorld2[n.World2]
		if !ok {
			s2 = make(map[*Node]struct{})
			bi.byWorld2[n.World2] = s2
		}
		addTo(s2, n)
		key := [2]int{n.World1, n.World2}
		sw, ok := bi.byW1W2[key]
		if !ok {
			sw = make(map[*Node]struct{})
			bi.byW1W2[key] = sw
		}
		addTo(sw, n)
	}
}

// candidateSets returns every indexed candidate set relevant to q, in no
// particular order; selectSmallest then picks among them.
func (bi *branchIndex) candidateSets(q *Node) []map[*Node]struct{} {
	var sets []map[*Node]struct{}
	if q.flags&hasSentence != 0 {
		if s, ok := bi.bySentence[q.Sentence.String()]; ok {
			sets = append(sets, s)
		} else {
			sets = append(sets, nil)
		}
	}
	if q.flags&hasDesignated != 0 {
		sets = append(sets, bi.byDesignated[q.Designated])
	}
	if q.flags&hasWorld != 0 {
		sets = append(sets, bi.byWorld[q.World])
	}
	if q.flags&hasAccess != 0 {
		sets = append(sets, bi.byW1W2[[2]int{q.World1, q.World2}])
	}
	return sets
}

// selectSmallest returns the smallest of the candidate sets relevant to q,
// and whether any indexed key applied at all (false means the caller must
// fall back to a ticked/whole-branch scan).
func (bi *branchIndex) selectSmallest(q *Node) (map[*Node]struct{}, bool) {
	sets := bi.candidateSets(q)
	if len(sets) == 0 {
		return nil, false
	}
	var best map[*Node]struct{}
	found := false
	for _, s := range sets {
		if s == nil {
			return nil, true // an indexed key had zero candidates: the query matches nothing
		}
		if !found || len(s) < len(best) {
			best = s
			found = true
		}
	}
	return best, true
}
