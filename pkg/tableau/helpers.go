package tableau

// This file is the helper protocol from §4.3: indexed caches attached to
// rules with a well-defined upkeep discipline, grounded on pytableaux's
// proof/helpers.py and on gokando's copy-on-fork BranchCache idiom
// already present for per-store state in its FD solver.

// BranchCache holds one value of T per branch, copied on fork and
// optionally dropped on close. copyFn must return an independent copy of
// v suitable for the forked branch to mutate without affecting the
// parent's; for an immutable or scalar T, copyFn can just return v.
type BranchCache[T any] struct {
	tab     *Tableau
	values  map[string]T
	copyFn  func(T) T
	zero    func() T
	onClose bool
}

// NewBranchCache attaches a new per-branch cache to tab. zero produces the
// initial value for a branch with no parent (a root branch); copyFn
// produces a forked branch's independent copy of its parent's value.
// When dropOnClose is true, values are deleted at AFTER_BRANCH_CLOSE to
// bound memory once a branch can no longer be extended.
func NewBranchCache[T any](tab *Tableau, zero func() T, copyFn func(T) T, dropOnClose bool) *BranchCache[T] {
	bc := &BranchCache[T]{tab: tab, values: make(map[string]T), copyFn: copyFn, zero: zero, onClose: dropOnClose}
	tab.events.On(AfterBranchAdd, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b := args[0].(*Branch)
		if b.parent != nil {
			if v, ok := bc.values[b.parent.ID]; ok {
				bc.values[b.ID] = bc.copyFn(v)
				return nil
			}
		}
		bc.values[b.ID] = bc.zero()
		return nil
	})
	if dropOnClose {
		tab.events.On(AfterBranchClose, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
			delete(bc.values, args[0].(*Branch).ID)
			return nil
		})
	}
	return bc
}

// Get returns branch's current value, initializing it from zero() if the
// branch was never seen (e.g. the tableau's very first branch, added
// before this helper subscribed).
func (bc *BranchCache[T]) Get(b *Branch) T {
	if v, ok := bc.values[b.ID]; ok {
		return v
	}
	v := bc.zero()
	bc.values[b.ID] = v
	return v
}

// Set overwrites branch's value.
func (bc *BranchCache[T]) Set(b *Branch, v T) { bc.values[b.ID] = v }

// QuitFlag reports whether a quit-flag node naming ruleName is present on
// the branch, so a resource-bounded rule only ever emits one quit-flag
// target per branch.
type QuitFlag struct {
	ruleName string
}

// NewQuitFlag builds a quit-flag check scoped to one rule name.
func NewQuitFlag(ruleName string) *QuitFlag { return &QuitFlag{ruleName: ruleName} }

// IsQuit reports whether b already carries this rule's quit-flag node.
func (q *QuitFlag) IsQuit(b *Branch) bool {
	for _, n := range b.nodes {
		if n.IsQuitFlagNode() && n.Quit == q.ruleName {
			return true
		}
	}
	return false
}

// NodeFilter is a single composable predicate over (branch, node), the
// unit FilterHelper composes. ExampleNode, when non-nil, returns a
// witness node satisfying this filter alone (used to assemble
// ExampleNodes for the branching probe).
type NodeFilter struct {
	Name        string
	Match       func(branch *Branch, n *Node) bool
	ExampleNode func() *Node
}

// FilterHelper is the canonical per-node gate: it composes zero or more
// NodeFilters into a single predicate, offers ExampleNode by asking each
// filter in turn, and maintains a garbage set of (branch, node) pairs that
// no longer pass so callers can lazily release them instead of
// re-filtering the whole branch every time.
type FilterHelper struct {
	tab     *Tableau
	Filters []NodeFilter
	garbage map[*Branch]map[*Node]struct{}
}

// NewFilterHelper builds a FilterHelper composing filters in the order
// given; a node passes only if it passes every filter.
func NewFilterHelper(tab *Tableau, filters ...NodeFilter) *FilterHelper {
	fh := &FilterHelper{tab: tab, Filters: filters, garbage: make(map[*Branch]map[*Node]struct{})}
	tab.events.On(AfterBranchClose, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		delete(fh.garbage, args[0].(*Branch))
		return nil
	})
	return fh
}

// Pass reports whether n satisfies every composed filter on branch and
// has not been released into the garbage set.
func (fh *FilterHelper) Pass(branch *Branch, n *Node) bool {
	if g, ok := fh.garbage[branch]; ok {
		if _, dead := g[n]; dead {
			return false
		}
	}
	for _, f := range fh.Filters {
		if !f.Match(branch, n) {
			return false
		}
	}
	return true
}

// Release marks (branch, n) as no longer eligible, the lazy-GC discipline
// that keeps repeated scans from re-examining nodes a rule has already
// exhausted.
func (fh *FilterHelper) Release(branch *Branch, n *Node) {
	g, ok := fh.garbage[branch]
	if !ok {
		g = make(map[*Node]struct{})
		fh.garbage[branch] = g
	}
	g[n] = struct{}{}
}

// ExampleNode returns the example node of the first filter that declares
// one; it is not checked against the other filters. Nil if none do.
func (fh *FilterHelper) ExampleNode() *Node {
	for _, f := range fh.Filters {
		if f.ExampleNode != nil {
			if n := f.ExampleNode(); n != nil {
				return n
			}
		}
	}
	return nil
}

// NodeTargets filters branch's nodes through Pass and maps each surviving
// node to a Target via build, the node_targets decorator's job in
// pytableaux: the pattern rules in patterns.go build their GetTargets on
// fh.NodeTargets, passing a closure as build.
func (fh *FilterHelper) NodeTargets(branch *Branch, build func(n *Node) *Target) []*Target {
	var out []*Target
	for _, n := range branch.Unticked(&Node{}) {
		if !fh.Pass(branch, n) {
			continue
		}
		if t := build(n); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// NodeCount is a per-(branch,node) application counter, the basis for
// "least-applied-to node" scoring in Fat quantifier and Necessity-style
// modal rules.
type NodeCount struct {
	tab    *Tableau
	counts map[*Branch]map[*Node]int
}

// NewNodeCount attaches a fresh per-branch application counter.
func NewNodeCount(tab *Tableau) *NodeCount {
	nc := &NodeCount{tab: tab, counts: make(map[*Branch]map[*Node]int)}
	tab.events.On(AfterBranchAdd, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b := args[0].(*Branch)
		if b.parent != nil {
			if m, ok := nc.counts[b.parent]; ok {
				cp := make(map[*Node]int, len(m))
				for k, v := range m {
					cp[k] = v
				}
				nc.counts[b] = cp
				return nil
			}
		}
		nc.counts[b] = make(map[*Node]int)
		return nil
	})
	return nc
}

// Count returns how many times n has been applied to on branch.
func (nc *NodeCount) Count(branch *Branch, n *Node) int {
	m, ok := nc.counts[branch]
	if !ok {
		return 0
	}
	return m[n]
}

// Increment bumps n's application count on branch.
func (nc *NodeCount) Increment(branch *Branch, n *Node) {
	m, ok := nc.counts[branch]
	if !ok {
		m = make(map[*Node]int)
		nc.counts[branch] = m
	}
	m[n]++
}

// Least returns the node among candidates with the smallest application
// count on branch (first one in iteration order wins ties), the shared
// "pick the least-applied-to node" rule every Fat/Necessity-style rule
// uses.
func (nc *NodeCount) Least(branch *Branch, candidates []*Node) *Node {
	var best *Node
	bestCount := -1
	for _, n := range candidates {
		c := nc.Count(branch, n)
		if bestCount < 0 || c < bestCount {
			best, bestCount = n, c
		}
	}
	return best
}

// WorldIndex tracks, per branch, which worlds are visible from which
// (an adjacency view over AccessNodes), used by Necessity-style and
// accessibility rules to enumerate w2 in R(w1) without a linear scan.
type WorldIndex struct {
	tab  *Tableau
	adj  map[*Branch]map[int]map[int]struct{}
}

// NewWorldIndex attaches a fresh per-branch accessibility adjacency cache.
func NewWorldIndex(tab *Tableau) *WorldIndex {
	wi := &WorldIndex{tab: tab, adj: make(map[*Branch]map[int]map[int]struct{})}
	tab.events.On(AfterNodeAdd, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b, n := args[0].(*Branch), args[1].(*Node)
		if !n.HasAccess() {
			return nil
		}
		m, ok := wi.adj[b]
		if !ok {
			m = make(map[int]map[int]struct{})
			wi.adj[b] = m
		}
		s, ok := m[n.World1]
		if !ok {
			s = make(map[int]struct{})
			m[n.World1] = s
		}
		s[n.World2] = struct{}{}
		return nil
	})
	tab.events.On(AfterBranchAdd, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b := args[0].(*Branch)
		if b.parent == nil {
			return nil
		}
		if pm, ok := wi.adj[b.parent]; ok {
			cp := make(map[int]map[int]struct{}, len(pm))
			for w1, s := range pm {
				cps := make(map[int]struct{}, len(s))
				for w2 := range s {
					cps[w2] = struct{}{}
				}
				cp[w1] = cps
			}
			wi.adj[b] = cp
		}
		return nil
	})
	return wi
}

// Has reports whether (w1, w2) is a known access edge on branch.
func (wi *WorldIndex) Has(branch *Branch, w1, w2 int) bool {
	m, ok := wi.adj[branch]
	if !ok {
		return false
	}
	s, ok := m[w1]
	if !ok {
		return false
	}
	_, ok = s[w2]
	return ok
}

// Visible returns every w2 with a known (w1, w2) edge on branch.
func (wi *WorldIndex) Visible(branch *Branch, w1 int) []int {
	m, ok := wi.adj[branch]
	if !ok {
		return nil
	}
	s, ok := m[w1]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(s))
	for w2 := range s {
		out = append(out, w2)
	}
	return out
}

// AdzHelper performs the common operator-rule apply pattern: fork a new
// branch per additional node group beyond the first, extend (and tick, if
// the rule ticks) the original branch with the first group.
type AdzHelper struct{ tab *Tableau }

// NewAdzHelper attaches the shared apply helper for a tableau.
func NewAdzHelper(tab *Tableau) *AdzHelper { return &AdzHelper{tab: tab} }

// Apply implements the fork-per-group discipline. rule.Ticking() decides
// whether target.Node is ticked on each resulting branch.
func (h *AdzHelper) Apply(rule Rule, target *Target) error {
	groups := target.Groups
	if groups == nil && target.Nodes != nil {
		groups = [][]*Node{target.Nodes}
	}
	if len(groups) == 0 {
		return nil
	}
	for _, extra := range groups[1:] {
		nb := h.tab.AddBranch(target.Branch)
		for _, n := range extra {
			if err := nb.Append(n); err != nil {
				return err
			}
		}
		if rule.Ticking() && target.Node != nil {
			if err := nb.Tick(target.Node); err != nil {
				return err
			}
		}
	}
	for _, n := range groups[0] {
		if err := target.Branch.Append(n); err != nil {
			return err
		}
	}
	if rule.Ticking() && target.Node != nil {
		return target.Branch.Tick(target.Node)
	}
	return nil
}

// ClosureScore counts how many of target's groups would immediately close
// their branch, the same heuristic pytableaux's AdzHelper.closure_score
// uses to prefer branching rules that resolve quickly.
func (h *AdzHelper) ClosureScore(target *Target, wouldClose func(nodes []*Node) bool) float64 {
	groups := target.Groups
	if groups == nil && target.Nodes != nil {
		groups = [][]*Node{target.Nodes}
	}
	n := 0
	for _, g := range groups {
		if wouldClose(g) {
			n++
		}
	}
	return float64(n)
}

// modalComplexity counts the modal operators (Possibility, Necessity) in
// s, the unit MaxWorlds sums over untouched nodes.
func modalComplexity(s Sentence) int {
	n := 0
	for _, op := range s.Operators() {
		if op.IsModal() {
			n++
		}
	}
	return n
}

// branchingComplexity approximates how many branches a node's sentence
// would induce if fully expanded: the count of branching-shaped operators
// (Disjunction, MaterialConditional, MaterialBiconditional, and the
// Conditional/Biconditional forms that reduce to them) in its structure. Narrow quantifier rules score candidates by the negative of
// this value, preferring simple nodes first.
func branchingComplexity(n *Node) int {
	if n == nil || !n.HasSentence() {
		return 0
	}
	c := 0
	for _, op := range n.Sentence.Operators() {
		switch op {
		case Disjunction, MaterialConditional, MaterialBiconditional, Biconditional, Conditional:
			c++
		}
	}
	return c
}

// MaxConsts projects, once per branch origin at AFTER_TRUNK_BUILD, a
// single scalar upper bound on constants a branch may introduce:
// max(1, constants_on_branch) * max(1, sum of quantifier-depths across
// every node's sentence) + 1. This is computed once per origin, not
// per-world, and the constant count checked against it
// (countBranchConstants) is likewise branch-wide, not per-world --
// resolved from pytableaux's helpers.py MaxConsts
// (§9 Open Question).
type MaxConsts struct {
	tab    *Tableau
	bounds map[*Branch]int
	quit   *QuitFlag
}

const maxConstsRuleName = "MaxConsts"

// NewMaxConsts attaches the constants-per-branch resource bound.
func NewMaxConsts(tab *Tableau) *MaxConsts {
	mc := &MaxConsts{tab: tab, bounds: make(map[*Branch]int), quit: NewQuitFlag(maxConstsRuleName)}
	tab.events.On(AfterTrunkBuild, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b := args[0].(*Branch)
		mc.bounds[b.Origin()] = computeMaxConstants(b)
		return nil
	})
	return mc
}

func computeMaxConstants(b *Branch) int {
	constSet := make(map[Parameter]struct{})
	qsum := 0
	for _, n := range b.nodes {
		if !n.HasSentence() {
			continue
		}
		for _, c := range n.Sentence.Constants() {
			constSet[c] = struct{}{}
		}
		qsum += len(n.Sentence.Quantifiers())
	}
	constCount := len(constSet)
	if constCount < 1 {
		constCount = 1
	}
	if qsum < 1 {
		qsum = 1
	}
	return constCount*qsum + 1
}

func (mc *MaxConsts) bound(b *Branch) int { return mc.bounds[b.Origin()] }

// Reached reports whether branch has already introduced at least the
// projected bound of constants (>=): a rule guarded by MaxConsts must not
// introduce another once Reached is true.
func (mc *MaxConsts) Reached(branch *Branch) bool {
	return countBranchConstants(branch) >= mc.bound(branch)
}

// Exceeded reports whether branch strictly exceeds the bound (>). The
// pattern rules do not consult it: QuitIfReached emits the single
// quit-flag target as soon as Reached is true.
func (mc *MaxConsts) Exceeded(branch *Branch) bool {
	return countBranchConstants(branch) > mc.bound(branch)
}

func countBranchConstants(b *Branch) int {
	set := make(map[Parameter]struct{})
	for _, n := range b.nodes {
		if n.HasSentence() {
			for _, c := range n.Sentence.Constants() {
				set[c] = struct{}{}
			}
		}
	}
	return len(set)
}

// QuitIfReached returns a quit-flag Target once if Reached(branch) and
// the branch has not already quit for this rule, else nil.
func (mc *MaxConsts) QuitIfReached(branch *Branch) *Target {
	if !mc.Reached(branch) || mc.quit.IsQuit(branch) {
		return nil
	}
	return &Target{Branch: branch, Flag: maxConstsRuleName}
}

// MaxWorlds projects, once per branch origin at AFTER_TRUNK_BUILD, a
// single scalar bound on worlds a branch may introduce: world_count +
// sum(modal_complexity(sentence) for sentence in untouched nodes) + 1.
type MaxWorlds struct {
	tab    *Tableau
	bounds map[*Branch]int
	quit   *QuitFlag
}

const maxWorldsRuleName = "MaxWorlds"

// NewMaxWorlds attaches the worlds-per-branch resource bound.
func NewMaxWorlds(tab *Tableau) *MaxWorlds {
	mw := &MaxWorlds{tab: tab, bounds: make(map[*Branch]int), quit: NewQuitFlag(maxWorldsRuleName)}
	tab.events.On(AfterTrunkBuild, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b := args[0].(*Branch)
		mw.bounds[b.Origin()] = computeMaxWorlds(b)
		return nil
	})
	return mw
}

func computeMaxWorlds(b *Branch) int {
	worldSet := make(map[int]struct{})
	sum := 0
	for _, n := range b.nodes {
		if n.HasWorld() {
			worldSet[n.World] = struct{}{}
		}
		if n.HasSentence() && !b.Ticked(n) {
			sum += modalComplexity(n.Sentence)
		}
	}
	return len(worldSet) + sum + 1
}

func (mw *MaxWorlds) bound(b *Branch) int { return mw.bounds[b.Origin()] }

func countBranchWorlds(b *Branch) int {
	set := make(map[int]struct{})
	for _, n := range b.nodes {
		if n.HasWorld() {
			set[n.World] = struct{}{}
		}
	}
	return len(set)
}

// Reached reports whether branch has already introduced at least the
// projected bound of worlds.
func (mw *MaxWorlds) Reached(branch *Branch) bool {
	return countBranchWorlds(branch) >= mw.bound(branch)
}

// Exceeded reports whether branch strictly exceeds the bound.
func (mw *MaxWorlds) Exceeded(branch *Branch) bool {
	return countBranchWorlds(branch) > mw.bound(branch)
}

// QuitIfReached returns a quit-flag Target once if Reached(branch) and the
// branch has not already quit for this rule, else nil.
func (mw *MaxWorlds) QuitIfReached(branch *Branch) *Target {
	if !mw.Reached(branch) || mw.quit.IsQuit(branch) {
		return nil
	}
	return &Target{Branch: branch, Flag: maxWorldsRuleName}
}

// NodeConsts tracks, per quantified node, which constants on the branch
// have not yet been applied to it -- the basis for fat/universal-style
// quantifier rules, which must eventually apply every branch constant to
// every universally quantified node. A constant is back-filled into a
// tracked node's unapplied set exactly once, the first time it appears
// anywhere on the branch, and never into the node whose own instantiation
// is what just introduced it -- MarkApplied's verdict on a (node,
// constant) pair is permanent, even though the Append of the
// instantiated sentence fires the same back-fill handler that just
// processed the rule's own MarkApplied call.
type NodeConsts struct {
	tab       *Tableau
	unapplied map[*Branch]map[*Node]map[Parameter]struct{}
	seen      map[*Branch]map[Parameter]struct{}
	applied   map[*Branch]map[*Node]map[Parameter]struct{}
}

// NewNodeConsts attaches the per-node unapplied-constant tracker.
func NewNodeConsts(tab *Tableau) *NodeConsts {
	nc := &NodeConsts{
		tab:       tab,
		unapplied: make(map[*Branch]map[*Node]map[Parameter]struct{}),
		seen:      make(map[*Branch]map[Parameter]struct{}),
		applied:   make(map[*Branch]map[*Node]map[Parameter]struct{}),
	}
	tab.events.On(AfterNodeAdd, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		b, n := args[0].(*Branch), args[1].(*Node)
		m, ok := nc.unapplied[b]
		if !ok {
			m = make(map[*Node]map[Parameter]struct{})
			nc.unapplied[b] = m
		}
		seen, ok := nc.seen[b]
		if !ok {
			seen = make(map[Parameter]struct{})
			nc.seen[b] = seen
		}
		applied := nc.applied[b]

		if n.HasSentence() {
			if _, ok := n.Sentence.(Quantified); ok {
				m[n] = make(map[Parameter]struct{})
				for c := range seen {
					m[n][c] = struct{}{}
				}
			}
			for _, c := range n.Sentence.Constants() {
				if _, already := seen[c]; already {
					continue
				}
				seen[c] = struct{}{}
				for node, set := range m {
					if applied != nil {
						if done, ok := applied[node]; ok {
							if _, was := done[c]; was {
								continue
							}
						}
					}
					set[c] = struct{}{}
				}
			}
		}
		return nil
	})
	return nc
}

// Unapplied returns the constants on branch not yet applied to n.
func (nc *NodeConsts) Unapplied(branch *Branch, n *Node) []Parameter {
	m, ok := nc.unapplied[branch]
	if !ok {
		return nil
	}
	set, ok := m[n]
	if !ok {
		return nil
	}
	out := make([]Parameter, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// MarkApplied removes c from n's unapplied set on branch once the rule
// has instantiated n with c, and permanently records the (n, c) pair so
// a later back-fill -- including one triggered by appending the very
// instantiation this call is for -- never reintroduces it.
func (nc *NodeConsts) MarkApplied(branch *Branch, n *Node, c Parameter) {
	if m, ok := nc.unapplied[branch]; ok {
		if set, ok := m[n]; ok {
			delete(set, c)
		}
	}
	am, ok := nc.applied[branch]
	if !ok {
		am = make(map[*Node]map[Parameter]struct{})
		nc.applied[branch] = am
	}
	set, ok := am[n]
	if !ok {
		set = make(map[Parameter]struct{})
		am[n] = set
	}
	set[c] = struct{}{}
}
