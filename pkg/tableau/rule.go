package tableau

import "fmt"

// Target proposes a rule application: a branch, optionally a node or node
// set, optionally a designation/world/constant, and -- after engine
// augmentation in the step loop -- scoring fields. A Target carrying Flag
// represents a quit-flag pseudo-application (§4.5 Max-* helpers) rather
// than a real rule application.
type Target struct {
	Branch *Branch
	Node   *Node
	Nodes  []*Node

	Designated *bool
	World      *int
	World1     *int
	World2     *int
	Constant   *Parameter

	// Groups holds one or more node groups built via adds(group(...)...):
	// the first group extends the target branch in place, every
	// additional group forks a new branch (AdzHelper). Nodes, when set,
	// is shorthand for Groups[0] on single-group targets.
	Groups [][]*Node

	// Flag is non-empty for a quit-flag target; Rule.Apply on such a
	// target only appends a QuitFlagNode and never scores.
	Flag string

	Rule Rule

	CandidateScore    float64
	TotalCandidates   int
	MinCandidateScore float64
	MaxCandidateScore float64
	IsRankOptim       bool

	GroupScore        float64
	TotalGroupTargets int
	IsGroupOptim      bool

	// TimingInaccurate is set when the engine could not itself measure
	// this application's duration (e.g. a quit-flag target applied
	// outside the normal timed path), keeping history timers honest.
	TimingInaccurate bool

	// Extra carries forward-compatible keys outside the well-known slots
	// above. Set enforces pytableaux's Target semantics: rebinding an
	// existing key to a different value is a ValueConflict.
	Extra map[string]interface{}
}

// Set assigns key in t.Extra, failing with ValueConflict if key is
// already bound to a different value.
func (t *Target) Set(key string, val interface{}) error {
	if t.Extra == nil {
		t.Extra = make(map[string]interface{})
	}
	if existing, ok := t.Extra[key]; ok && existing != val {
		return newValueConflict("target key %q already bound to %v, cannot rebind to %v", key, existing, val)
	}
	t.Extra[key] = val
	return nil
}

// IsQuitFlag reports whether this target is a quit-flag pseudo-application.
func (t *Target) IsQuitFlag() bool { return t.Flag != "" }

// group builds a Target representing one branch's worth of new nodes, the
// idiom every operator/quantifier/modal rule pattern uses to describe
// "add these nodes to a (possibly new) branch" -- pytableaux's
// adds(group(...)) helper.
func group(nodes ...*Node) []*Node { return nodes }

// adds bundles one or more node groups: each group becomes its own branch
// (AdzHelper forks one new branch per group beyond the first).
func adds(groups ...[]*Node) [][]*Node { return groups }

// Rule is the contract every logic rule implements: operator-driven,
// quantifier-driven, modal-driven, or closure rules all satisfy this
// interface, typically as the FuncRule (which embeds BaseRule) returned by
// one of the pattern constructors in patterns.go.
type Rule interface {
	// Name identifies the rule for stats, logging, and presentation.
	Name() string
	// Ticking reports whether a successful application ticks the target
	// node. When false the node stays eligible for future application.
	Ticking() bool
	// Branching is the number of additional branches a single
	// application creates. The pattern constructors take it as an
	// argument; it is not derived from ExampleNodes.
	Branching() int
	// ExampleNodes returns witness nodes that trigger the rule, used by
	// tests.
	ExampleNodes() []*Node
	// GetTargets yields zero or more candidate Targets the rule would
	// apply against branch.
	GetTargets(branch *Branch) []*Target
	// Apply mutates the branch(es) described by target.
	Apply(target *Target) error
	// ScoreCandidate heuristically ranks one candidate against its
	// siblings from the same rule (rank-optim, §4.6).
	ScoreCandidate(target *Target) float64
	// GroupScore heuristically ranks this rule's best candidate against
	// other rules in the same group (group-optim, §4.6).
	GroupScore(target *Target) float64
}

// BaseRule supplies the bookkeeping every concrete Rule embeds: a back
// reference to the owning tableau (set once at construction) and the
// rule-level lock pytableaux applies after the first AFTER_BRANCH_ADD.
type BaseRule struct {
	Tab    *Tableau
	locked bool
}

// Lock freezes the rule's configuration. Called once by RulesRoot.Lock at
// the first AFTER_BRANCH_ADD (§5: "rule-root and rule-group membership are
// locked at AFTER_BRANCH_ADD of the first branch").
func (r *BaseRule) Lock() { r.locked = true }

// Locked reports whether Lock has been called.
func (r *BaseRule) Locked() bool { return r.locked }

// RuleGroup is a named, ordered list of rules tried together during one
// step: under group-optim, every rule in the group is asked for its best
// candidate and the highest GroupScore wins; under group-optim off, the
// first rule with any target wins.
type RuleGroup struct {
	Name   string
	Rules  []Rule
	locked bool
}

// NewRuleGroup builds a named group from rules in the given order.
func NewRuleGroup(name string, rules ...Rule) *RuleGroup {
	return &RuleGroup{Name: name, Rules: rules}
}

// Append adds a rule to the group. Fails with IllegalState once the group
// is locked.
func (g *RuleGroup) Append(r Rule) error {
	if g.locked {
		return newIllegalState("rule group %q is locked", g.Name)
	}
	g.Rules = append(g.Rules, r)
	return nil
}

func (g *RuleGroup) lock() { g.locked = true }

// RuleGroups is an ordered collection of named RuleGroup, the unit the
// step loop iterates: groups are tried in declared order and the first
// one to yield any candidate wins outright -- group-vs-group score
// comparison never happens (§9 Open Question, resolved from
// pytableaux's tableaux.py next()/_get_group_application).
type RuleGroups struct {
	groups []*RuleGroup
	byName map[string]*RuleGroup
	locked bool
}

// NewRuleGroups builds an ordered set of groups.
func NewRuleGroups(groups ...*RuleGroup) *RuleGroups {
	rg := &RuleGroups{byName: make(map[string]*RuleGroup)}
	for _, g := range groups {
		rg.groups = append(rg.groups, g)
		rg.byName[g.Name] = g
	}
	return rg
}

// Get looks up a group by name.
func (rg *RuleGroups) Get(name string) (*RuleGroup, bool) {
	g, ok := rg.byName[name]
	return g, ok
}

// Names returns group names in declared order.
func (rg *RuleGroups) Names() []string {
	out := make([]string, len(rg.groups))
	for i, g := range rg.groups {
		out[i] = g.Name
	}
	return out
}

func (rg *RuleGroups) lock() {
	rg.locked = true
	for _, g := range rg.groups {
		g.lock()
	}
}

// RulesRoot owns every rule a logic contributes, grouped and ordered per
// §4.4's convention (non-branching operator rules, branching operator
// rules, modal rules, accessibility rules, quantifier rules, late rules).
type RulesRoot struct {
	Groups *RuleGroups
	locked bool
}

// NewRulesRoot wraps an ordered RuleGroups as the root rule set for one
// logic.
func NewRulesRoot(groups *RuleGroups) *RulesRoot {
	return &RulesRoot{Groups: groups}
}

// All flattens every rule across every group, in group then in-group
// order.
func (rr *RulesRoot) All() []Rule {
	var out []Rule
	for _, g := range rr.Groups.groups {
		out = append(out, g.Rules...)
	}
	return out
}

// lock freezes every group and every rule's BaseRule.
func (rr *RulesRoot) lock() {
	if rr.locked {
		return
	}
	rr.locked = true
	rr.Groups.lock()
	for _, r := range rr.All() {
		if lr, ok := r.(interface{ Lock() }); ok {
			lr.Lock()
		}
	}
}

// Locked reports whether the root has been locked.
func (rr *RulesRoot) Locked() bool { return rr.locked }

func (t *Target) String() string {
	switch {
	case t.IsQuitFlag():
		return fmt.Sprintf("Target{quit=%s}", t.Flag)
	case t.Node != nil:
		return fmt.Sprintf("Target{rule=%s node=%s}", ruleName(t.Rule), t.Node)
	default:
		return fmt.Sprintf("Target{rule=%s nodes=%d}", ruleName(t.Rule), len(t.Nodes))
	}
}

func ruleName(r Rule) string {
	if r == nil {
		return "<nil>"
	}
	return r.Name()
}
