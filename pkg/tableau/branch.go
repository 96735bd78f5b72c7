package tableau

import "github.com/google/uuid"

// Branch is an ordered sequence of Nodes plus a multi-key index, a ticked
// set, and the next-world counter rules consult to mint fresh worlds
// (fresh constants are found by scanning the nodes). Branch mutation is not safe for concurrent use by two rules
// (§5); a Tableau only ever has one rule mutating one branch at a time.
type Branch struct {
	ID     string
	tab    *Tableau
	parent *Branch

	nodes  []*Node
	ticked map[*Node]struct{}
	index  *branchIndex

	closed bool

	nextWorld int
}

// newBranch creates a fresh, empty branch owned by tab.
func newBranch(tab *Tableau, parent *Branch) *Branch {
	return &Branch{
		ID:     uuid.NewString(),
		tab:    tab,
		parent: parent,
		ticked: make(map[*Node]struct{}),
		index:  newBranchIndex(),
	}
}

// Origin walks Parent back to the root ancestor.
func (b *Branch) Origin() *Branch {
	o := b
	for o.parent != nil {
		o = o.parent
	}
	return o
}

// Parent returns the branch this one was copied from, or nil for a root
// branch.
func (b *Branch) Parent() *Branch { return b.parent }

// Nodes returns the branch's nodes in append order. The slice is owned by
// the branch; callers must not mutate it.
func (b *Branch) Nodes() []*Node { return b.nodes }

// Len returns the number of nodes on the branch.
func (b *Branch) Len() int { return len(b.nodes) }

// Closed reports whether Close has been called on this branch.
func (b *Branch) Closed() bool { return b.closed }

// Ticked reports whether n has been ticked.
func (b *Branch) Ticked(n *Node) bool {
	_, ok := b.ticked[n]
	return ok
}

// Append inserts node, updates the index and the next-world counter, and
// emits AFTER_NODE_ADD. Fails with IllegalState if the
// branch is already closed.
func (b *Branch) Append(n *Node) error {
	if b.closed {
		return newIllegalState("cannot append to a closed branch")
	}
	if n.HasWorld() && n.World >= b.nextWorld {
		b.nextWorld = n.World + 1
	}
	if n.HasAccess() {
		if n.World1 >= b.nextWorld {
			b.nextWorld = n.World1 + 1
		}
		if n.World2 >= b.nextWorld {
			b.nextWorld = n.World2 + 1
		}
	}
	b.nodes = append(b.nodes, n)
	b.index.add(n)
	if b.tab != nil {
		return b.tab.events.Emit(b.tab, AfterNodeAdd, b, n)
	}
	return nil
}

// Tick marks n ticked and emits AFTER_NODE_TICK. Ticking an already-ticked
// node is a no-op.
func (b *Branch) Tick(n *Node) error {
	if b.Ticked(n) {
		return nil
	}
	b.ticked[n] = struct{}{}
	if b.tab != nil {
		return b.tab.events.Emit(b.tab, AfterNodeTick, b, n)
	}
	return nil
}

// Close requires the branch be open; it appends a ClosureNode, sets the
// closed flag, and emits AFTER_BRANCH_CLOSE. Fails with IllegalState if
// already closed.
func (b *Branch) Close() error {
	if b.closed {
		return newIllegalState("branch %s is already closed", b.ID)
	}
	cn := NewNode(WithClosureFlag())
	b.nodes = append(b.nodes, cn)
	b.index.add(cn)
	b.closed = true
	if b.tab != nil {
		return b.tab.events.Emit(b.tab, AfterBranchClose, b)
	}
	return nil
}

// Copy returns a logically independent branch whose nodes and index are
// duplicated (mutation of the copy never affects the parent); event
// listeners live on the tableau, not the branch, so there is nothing
// branch-local to carry over.
func (b *Branch) Copy() *Branch {
	nb := newBranch(b.tab, b)
	nb.nodes = append([]*Node(nil), b.nodes...)
	for n := range b.ticked {
		nb.ticked[n] = struct{}{}
	}
	for _, n := range nb.nodes {
		nb.index.add(n)
	}
	nb.nextWorld = b.nextWorld
	return nb
}

// NewWorld returns the next fresh world index and does not mutate state;
// the counter itself advances only when a node using that world is
// appended.
func (b *Branch) NewWorld() int { return b.nextWorld }

// NewConstant returns the lexically-first constant not occurring on the
// branch, probing by incrementing index up to the type maximum then
// bumping subscript -- the same gap-probing algorithm as pytableaux's
// common.py Branch.new_constant.
func (b *Branch) NewConstant() Parameter {
	have := make(map[Parameter]struct{})
	for _, n := range b.nodes {
		if n.HasSentence() {
			for _, c := range n.Sentence.Constants() {
				have[c] = struct{}{}
			}
		}
	}
	c := Constant(0, 0)
	for {
		if _, ok := have[c]; !ok {
			return c
		}
		c = NextParameter(c)
	}
}

// query is the shared implementation of Find/FindAll/Has/HasAny: it
// consults the smallest indexed candidate set for q, falling back to a
// ticked-aware linear scan of the whole branch when no query field is
// indexed.
func (b *Branch) query(q *Node, requireTicked *bool) []*Node {
	var out []*Node
	if cands, indexed := b.index.selectSmallest(q); indexed {
		for n := range cands {
			if n.matches(q) && tickMatches(b, n, requireTicked) {
				out = append(out, n)
			}
		}
		return out
	}
	for _, n := range b.nodes {
		if n.matches(q) && tickMatches(b, n, requireTicked) {
			out = append(out, n)
		}
	}
	return out
}

func tickMatches(b *Branch, n *Node, requireTicked *bool) bool {
	if requireTicked == nil {
		return true
	}
	return b.Ticked(n) == *requireTicked
}

// Find returns every node matching every set field of q.
func (b *Branch) Find(q *Node) []*Node { return b.query(q, nil) }

// Has reports whether any node matches q.
func (b *Branch) Has(q *Node) bool { return len(b.Find(q)) > 0 }

// HasAny reports whether any node matches at least one of qs.
func (b *Branch) HasAny(qs ...*Node) bool {
	for _, q := range qs {
		if b.Has(q) {
			return true
		}
	}
	return false
}

// HasAll reports whether every q in qs has a matching node.
func (b *Branch) HasAll(qs ...*Node) bool {
	for _, q := range qs {
		if !b.Has(q) {
			return false
		}
	}
	return true
}

// Unticked returns every node on the branch not yet ticked, matching q
// (pass an empty &Node{} to match every node).
func (b *Branch) Unticked(q *Node) []*Node {
	no := false
	return b.query(q, &no)
}
