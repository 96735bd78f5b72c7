package tableau

// patterns.go supplies the reusable rule shapes §4.4 describes. Concrete
// logics (cpl.go, fde.go, modal.go, d.go, cfol.go, and any logic package
// built on top of this one) wire
// these constructors with logic-specific predicates (which operator,
// which truth function, which accessibility relation) instead of
// reimplementing the shape. Every shape bottoms out in FuncRule, a
// closures-based Rule implementation -- Go has no metaclass-driven rule
// discovery (§9), so a rule here is data (a struct of callbacks) rather
// than a generated subclass.

// FuncRule implements Rule by delegating to caller-supplied callbacks. It
// is the common concrete type every pattern constructor below returns.
type FuncRule struct {
	BaseRule
	name      string
	ticking   bool
	branching int
	example   func() []*Node
	targets   func(branch *Branch) []*Target
	apply     func(target *Target) error
	candScore func(target *Target) float64
	grpScore  func(target *Target) float64
}

func (r *FuncRule) Name() string                       { return r.name }
func (r *FuncRule) Ticking() bool                       { return r.ticking }
func (r *FuncRule) Branching() int                      { return r.branching }
func (r *FuncRule) ExampleNodes() []*Node               { return r.example() }
func (r *FuncRule) GetTargets(branch *Branch) []*Target { return r.targets(branch) }
func (r *FuncRule) Apply(target *Target) error          { return r.apply(target) }

func (r *FuncRule) ScoreCandidate(target *Target) float64 {
	if r.candScore == nil {
		return 0
	}
	return r.candScore(target)
}

func (r *FuncRule) GroupScore(target *Target) float64 {
	if r.grpScore == nil {
		return 0
	}
	return r.grpScore(target)
}

// ---------------------------------------------------------------------
// 1. Closure rule
// ---------------------------------------------------------------------

// NewClosureRule builds a closure rule: find scans an open branch for a
// witness node that closes it (e.g. a node whose sentence is the negation
// of another on the branch); GroupScore is fixed at 1.0, ScoreCandidate
// at 0.0, matching pytableaux's BaseClosureRule (closure always wins its
// group outright once found).
func NewClosureRule(tab *Tableau, name string, example func() []*Node, find func(branch *Branch) *Node) Rule {
	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: false, branching: 0, example: example}
	r.targets = func(branch *Branch) []*Target {
		n := find(branch)
		if n == nil {
			return nil
		}
		return []*Target{{Branch: branch, Node: n, Rule: r}}
	}
	r.apply = func(target *Target) error { return target.Branch.Close() }
	r.candScore = func(*Target) float64 { return 0.0 }
	r.grpScore = func(*Target) float64 { return 1.0 }
	return r
}

// ---------------------------------------------------------------------
// 2. Operator node rules
// ---------------------------------------------------------------------

// OperatorShape configures an operator node rule: Match picks which nodes
// the rule fires on (sentence shape, optional negated/designation gate);
// Build turns a matched node into the node group(s) the rule adds.
type OperatorShape struct {
	Match   func(branch *Branch, n *Node) bool
	Build   func(branch *Branch, n *Node) [][]*Node
	Ticking bool
}

// NewOperatorRule builds an operator node rule from shape: Flipping,
// Operands, Branching-operands, Conjunction/Material-reducing, and
// Double-negation are all the same shape with different Build functions
// (§4.4.2) -- the AdzHelper fork-per-group apply is identical across all
// of them.
func NewOperatorRule(tab *Tableau, name string, shape OperatorShape, branching int) Rule {
	fh := NewFilterHelper(tab, NodeFilter{Name: "shape", Match: shape.Match})
	adz := NewAdzHelper(tab)
	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: shape.Ticking, branching: branching}
	r.example = func() []*Node { return nil }
	r.targets = func(branch *Branch) []*Target {
		return fh.NodeTargets(branch, func(n *Node) *Target {
			groups := shape.Build(branch, n)
			if len(groups) == 0 {
				return nil
			}
			return &Target{Branch: branch, Node: n, Groups: groups, Nodes: groups[0], Rule: r}
		})
	}
	r.apply = func(target *Target) error {
		defer fh.Release(target.Branch, target.Node)
		return adz.Apply(r, target)
	}
	r.candScore = func(*Target) float64 { return 0.0 }
	r.grpScore = func(target *Target) float64 {
		return adz.ClosureScore(target, func([]*Node) bool { return false })
	}
	return r
}

// ---------------------------------------------------------------------
// 3. Quantifier rules
// ---------------------------------------------------------------------

// NewNarrowQuantifierRule builds an existential-instantiation-like rule:
// ticks the quantified node, introduces one fresh constant via
// branch.NewConstant, guarded by MaxConsts + QuitFlag. Scoring is the
// negative branching complexity of the node, preferring simple nodes.
func NewNarrowQuantifierRule(tab *Tableau, name string, match func(branch *Branch, n *Node) bool,
	build func(branch *Branch, n *Node, c Parameter) []*Node, mc *MaxConsts) Rule {

	fh := NewFilterHelper(tab, NodeFilter{Name: "shape", Match: match})
	adz := NewAdzHelper(tab)
	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: true, branching: 0}
	r.example = func() []*Node { return nil }
	r.targets = func(branch *Branch) []*Target {
		if q := mc.QuitIfReached(branch); q != nil {
			return []*Target{q}
		}
		return fh.NodeTargets(branch, func(n *Node) *Target {
			if mc.Reached(branch) {
				return nil
			}
			c := branch.NewConstant()
			nodes := build(branch, n, c)
			return &Target{Branch: branch, Node: n, Groups: [][]*Node{nodes}, Nodes: nodes, Rule: r}
		})
	}
	r.apply = func(target *Target) error {
		if target.IsQuitFlag() {
			return target.Branch.Append(NewNode(WithQuitFlag(target.Flag)))
		}
		defer fh.Release(target.Branch, target.Node)
		return adz.Apply(r, target)
	}
	r.candScore = func(target *Target) float64 {
		if target.IsQuitFlag() {
			return 0
		}
		return -float64(branchingComplexity(target.Node))
	}
	return r
}

// NewExtendedQuantifierRule builds a universal-instantiation-like rule:
// does not tick; tracks unapplied constants per node via NodeConsts; on
// each fire picks the least-applied-to node (via NodeCount) and
// instantiates with its next unapplied constant. ScoreCandidate is
// 1/(apply_count+1); a candidate that would close the branch gets no
// higher score than any other. Guarded
// by MaxConsts exactly like NewNarrowQuantifierRule: a branch that has
// already reached its projected constant bound stops minting witnesses
// and quits instead, which is what keeps an undischarged universal from
// looping forever alongside a narrow rule on the same branch.
func NewExtendedQuantifierRule(tab *Tableau, name string, match func(branch *Branch, n *Node) bool,
	build func(branch *Branch, n *Node, c Parameter) []*Node, nodeConsts *NodeConsts, nodeCount *NodeCount,
	mc *MaxConsts) Rule {

	fh := NewFilterHelper(tab, NodeFilter{Name: "shape", Match: match})
	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: false, branching: 0}
	r.example = func() []*Node { return nil }
	r.targets = func(branch *Branch) []*Target {
		if q := mc.QuitIfReached(branch); q != nil {
			return []*Target{q}
		}
		var out []*Target
		candidates := fh.NodeTargets(branch, func(n *Node) *Target { return &Target{Branch: branch, Node: n} })
		var nodes []*Node
		for _, t := range candidates {
			nodes = append(nodes, t.Node)
		}
		if len(nodes) == 0 {
			return nil
		}
		n := nodeCount.Least(branch, nodes)
		unapplied := nodeConsts.Unapplied(branch, n)
		for _, c := range unapplied {
			built := build(branch, n, c)
			out = append(out, &Target{Branch: branch, Node: n, Groups: [][]*Node{built}, Nodes: built, Rule: r,
				Constant: &c})
		}
		if len(out) == 0 && countBranchConstants(branch) == 0 && !mc.Reached(branch) {
			// the branch has never introduced a constant at all: instantiate
			// with a fresh one so it has at least a witness. Once any
			// constant exists, every further application is driven by
			// NodeConsts' unapplied bookkeeping, not this fallback.
			c := branch.NewConstant()
			built := build(branch, n, c)
			out = append(out, &Target{Branch: branch, Node: n, Groups: [][]*Node{built}, Nodes: built, Rule: r, Constant: &c})
		}
		return out
	}
	r.apply = func(target *Target) error {
		if target.IsQuitFlag() {
			return target.Branch.Append(NewNode(WithQuitFlag(target.Flag)))
		}
		nodeCount.Increment(target.Branch, target.Node)
		if target.Constant != nil {
			nodeConsts.MarkApplied(target.Branch, target.Node, *target.Constant)
		}
		for _, n := range target.Nodes {
			if err := target.Branch.Append(n); err != nil {
				return err
			}
		}
		return nil
	}
	r.candScore = func(target *Target) float64 {
		if target.IsQuitFlag() {
			return 0
		}
		return 1.0 / float64(nodeCount.Count(target.Branch, target.Node)+1)
	}
	return r
}

// ---------------------------------------------------------------------
// 4. Modal rules
// ---------------------------------------------------------------------

// NewPossibilityRule builds an existential-modal rule: introduces a fresh
// world w2, adds the unwrapped sentence at w2 and an access edge
// (w1, w2). Guarded by MaxWorlds.
func NewPossibilityRule(tab *Tableau, name string, match func(branch *Branch, n *Node) bool,
	unwrap func(n *Node) Sentence, mw *MaxWorlds) Rule {

	fh := NewFilterHelper(tab, NodeFilter{Name: "shape", Match: match})
	adz := NewAdzHelper(tab)
	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: true, branching: 0}
	r.example = func() []*Node { return nil }
	r.targets = func(branch *Branch) []*Target {
		if q := mw.QuitIfReached(branch); q != nil {
			return []*Target{q}
		}
		return fh.NodeTargets(branch, func(n *Node) *Target {
			if mw.Reached(branch) {
				return nil
			}
			w1 := 0
			if n.HasWorld() {
				w1 = n.World
			}
			w2 := branch.NewWorld()
			nodes := []*Node{
				WithSentenceWorldNode(unwrap(n), w2),
				NewNode(WithAccess(w1, w2)),
			}
			return &Target{Branch: branch, Node: n, Groups: [][]*Node{nodes}, Nodes: nodes, Rule: r}
		})
	}
	r.apply = func(target *Target) error {
		if target.IsQuitFlag() {
			return target.Branch.Append(NewNode(WithQuitFlag(target.Flag)))
		}
		defer fh.Release(target.Branch, target.Node)
		return adz.Apply(r, target)
	}
	r.candScore = func(*Target) float64 { return 0.0 }
	return r
}

// WithSentenceWorldNode is shorthand for a sentence node tagged with a
// world.
func WithSentenceWorldNode(s Sentence, w int) *Node {
	return NewNode(WithSentence(s), WithWorld(w))
}

// NewNecessityRule builds a universal-modal rule: for each w2 visible
// from the node's world not yet processed for this node, adds the inner
// sentence at w2; does not tick; picks the least-applied-to node.
func NewNecessityRule(tab *Tableau, name string, match func(branch *Branch, n *Node) bool,
	unwrap func(n *Node) Sentence, wi *WorldIndex, nodeCount *NodeCount) Rule {

	fh := NewFilterHelper(tab, NodeFilter{Name: "shape", Match: match})
	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: false, branching: 0}
	r.example = func() []*Node { return nil }
	r.targets = func(branch *Branch) []*Target {
		candidates := fh.NodeTargets(branch, func(n *Node) *Target { return &Target{Branch: branch, Node: n} })
		var out []*Target
		for _, t := range candidates {
			n := t.Node
			w1 := 0
			if n.HasWorld() {
				w1 = n.World
			}
			for _, w2 := range wi.Visible(branch, w1) {
				s := unwrap(n)
				if branch.Has(WithSentenceWorldNode(s, w2)) {
					continue
				}
				nodes := []*Node{WithSentenceWorldNode(s, w2)}
				out = append(out, &Target{Branch: branch, Node: n, Groups: [][]*Node{nodes}, Nodes: nodes, Rule: r})
			}
		}
		return out
	}
	r.apply = func(target *Target) error {
		nodeCount.Increment(target.Branch, target.Node)
		for _, n := range target.Nodes {
			if err := target.Branch.Append(n); err != nil {
				return err
			}
		}
		return nil
	}
	r.candScore = func(target *Target) float64 {
		return 1.0 / float64(nodeCount.Count(target.Branch, target.Node)+1)
	}
	return r
}

// NewAccessibilityRule builds an accessibility rule (reflexive, transitive,
// symmetric, serial, ...): scan scans the branch for worlds missing an
// access edge the relation requires and returns the edges to add; guarded
// by MaxWorlds the same way modal rules are, since serial rules can
// otherwise introduce worlds forever.
func NewAccessibilityRule(tab *Tableau, name string, scan func(branch *Branch, wi *WorldIndex) [][2]int,
	wi *WorldIndex, mw *MaxWorlds) Rule {

	r := &FuncRule{BaseRule: BaseRule{Tab: tab}, name: name, ticking: false, branching: 0}
	r.example = func() []*Node { return nil }
	r.targets = func(branch *Branch) []*Target {
		if q := mw.QuitIfReached(branch); q != nil {
			return []*Target{q}
		}
		missing := scan(branch, wi)
		var out []*Target
		for _, pair := range missing {
			if mw.Reached(branch) {
				break
			}
			nodes := []*Node{NewNode(WithAccess(pair[0], pair[1]))}
			out = append(out, &Target{Branch: branch, Groups: [][]*Node{nodes}, Nodes: nodes, Rule: r,
				World1: &pair[0], World2: &pair[1]})
		}
		return out
	}
	r.apply = func(target *Target) error {
		if target.IsQuitFlag() {
			return target.Branch.Append(NewNode(WithQuitFlag(target.Flag)))
		}
		for _, n := range target.Nodes {
			if err := target.Branch.Append(n); err != nil {
				return err
			}
		}
		return nil
	}
	r.candScore = func(*Target) float64 { return 0.0 }
	return r
}
