package tableau

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Options configures a Tableau's build behavior. New starts from
// defaults (unlimited steps/time, both optimizations on, no model
// building), so New(arg, logic) alone is a valid call. MaxSteps is
// a pointer so an explicit WithMaxSteps(0) -- "build zero steps" -- is
// distinguishable from never having set a limit at all; nil means
// unlimited, not "unlimited because the caller passed zero".
type Options struct {
	MaxSteps     *int
	BuildTimeout time.Duration
	RankOptim    bool
	GroupOptim   bool
	BuildModels  bool
	Logger       hclog.Logger
	Metrics      *Metrics
}

// Option configures a Tableau at construction, following the functional-
// options idiom the rest of this package's ambient stack uses.
type Option func(*Options)

// WithMaxSteps bounds the number of rule applications Build will perform
// before marking the tableau premature. WithMaxSteps(0) is a real bound
// -- the tableau is premature before its first Step -- not a no-op.
func WithMaxSteps(n int) Option { return func(o *Options) { o.MaxSteps = &n } }

// WithBuildTimeout bounds Build's wall-clock time before marking the
// tableau premature and timed out.
func WithBuildTimeout(d time.Duration) Option { return func(o *Options) { o.BuildTimeout = d } }

// WithRankOptim toggles candidate scoring within a winning rule group
// (default on); off picks the first candidate a rule returns.
func WithRankOptim(on bool) Option { return func(o *Options) { o.RankOptim = on } }

// WithGroupOptim toggles GroupScore comparison among the rules in a
// winning group (default on); off picks the first rule in group order
// that produced any candidate.
func WithGroupOptim(on bool) Option { return func(o *Options) { o.GroupOptim = on } }

// WithBuildModels enables model construction for every open branch once
// Finish determines the argument is invalid.
func WithBuildModels(on bool) Option { return func(o *Options) { o.BuildModels = on } }

// WithLogger overrides the tableau's hclog.Logger (default: a null
// logger, so a tableau is silent unless the caller asks otherwise).
func WithLogger(l hclog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMetrics attaches a Prometheus metrics bundle the tableau reports
// step counts, branch open/close counts, and build duration into.
func WithMetrics(m *Metrics) Option { return func(o *Options) { o.Metrics = m } }

func defaultOptions() Options {
	return Options{RankOptim: true, GroupOptim: true, Logger: hclog.NewNullLogger()}
}

// StepRecord is one entry in a tableau's build history: which rule fired,
// against what target, and how long it took.
type StepRecord struct {
	Rule     string
	Target   *Target
	Duration time.Duration
}

// Stats summarizes a tableau's run, mirroring pytableaux's
// _compute_stats output shape.
type Stats struct {
	RulesApplied   map[string]int
	Branches       int
	OpenBranches   int
	ClosedBranches int
	Steps          int
	DistinctNodes  int
	Duration       time.Duration
}

// TreeNode is one level of the pre-ordered, shared-prefix tree view over
// a tableau's branches: NewNodes holds only the nodes a branch added
// since diverging from its parent, so a rendering walks the tree instead
// of repeating shared prefixes per leaf.
type TreeNode struct {
	Branch   *Branch
	NewNodes []*Node
	Closed   bool
	Children []*TreeNode
}

// Tableau is the proof engine: one logic, one argument, a rule root, an
// event bus, and the open/closed branch set the step loop advances.
// Mutation is single-goroutine; run many tableaux concurrently via
// internal/parallel instead of sharing one across goroutines.
type Tableau struct {
	ID       string
	Argument Argument
	Logic    *Logic
	Rules    *RulesRoot

	events *EventBus
	opts   Options
	log    hclog.Logger

	branches []*Branch
	open     []*Branch

	trunkBuilt bool
	started    bool
	finished   bool
	timedOut   bool
	premature  bool
	steps      int
	startedAt  time.Time

	history []StepRecord
	stats   Stats
	models  []*Model
}

// New builds a tableau for arg under logic, ready for Build. Rule-group
// membership locks at the first AFTER_BRANCH_ADD (§5), matching
// pytableaux's rules.lock timing.
func New(arg Argument, logic *Logic, opts ...Option) (*Tableau, error) {
	if logic == nil {
		return nil, newInputError("logic must not be nil")
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	tab := &Tableau{
		ID:       uuid.NewString(),
		Argument: arg,
		Logic:    logic,
		opts:     o,
		log:      o.Logger,
		stats:    Stats{RulesApplied: make(map[string]int)},
	}
	tab.events = newEventBus(o.Logger)
	tab.events.Once(AfterBranchAdd, func(_ *Tableau, _ TabEvent, _ ...interface{}) error {
		tab.Rules.lock()
		return nil
	})
	tab.events.On(AfterBranchClose, func(_ *Tableau, _ TabEvent, args ...interface{}) error {
		closed := args[0].(*Branch)
		tab.removeOpen(closed)
		tab.opts.Metrics.observeBranchClosed()
		return nil
	})
	tab.events.On(AfterBranchAdd, func(_ *Tableau, _ TabEvent, _ ...interface{}) error {
		tab.opts.Metrics.observeBranchOpened()
		return nil
	})
	tab.Rules = logic.NewRules(tab)
	if tab.Rules == nil {
		return nil, newInputError("logic %s supplied a nil rule set", logic.Meta.Name)
	}
	return tab, nil
}

func (tab *Tableau) removeOpen(b *Branch) {
	for i, ob := range tab.open {
		if ob == b {
			tab.open = append(tab.open[:i], tab.open[i+1:]...)
			return
		}
	}
}

// AddBranch creates a new branch (a fresh root if parent is nil, or a
// copy of parent otherwise), registers it, and emits AFTER_BRANCH_ADD.
func (tab *Tableau) AddBranch(parent *Branch) *Branch {
	var nb *Branch
	if parent == nil {
		nb = newBranch(tab, nil)
	} else {
		nb = parent.Copy()
	}
	tab.branches = append(tab.branches, nb)
	tab.open = append(tab.open, nb)
	_ = tab.events.Emit(tab, AfterBranchAdd, nb)
	return nb
}

// OpenBranches returns the tableau's currently open branches, in the
// order they were added. The slice is a copy; mutating it does not
// affect the tableau.
func (tab *Tableau) OpenBranches() []*Branch {
	out := make([]*Branch, len(tab.open))
	copy(out, tab.open)
	return out
}

// Branches returns every branch the tableau has ever created, open or
// closed, in creation order.
func (tab *Tableau) Branches() []*Branch {
	out := make([]*Branch, len(tab.branches))
	copy(out, tab.branches)
	return out
}

// buildTrunk emits BEFORE_TRUNK_BUILD, creates the root branch, delegates
// to the logic's BuildTrunk to populate it, then emits AFTER_TRUNK_BUILD
// with the root branch -- the event MaxConsts/MaxWorlds key their
// per-origin bounds off of.
func (tab *Tableau) buildTrunk() error {
	if tab.trunkBuilt {
		return newIllegalState("trunk has already been built")
	}
	tab.trunkBuilt = true
	if err := tab.events.Emit(tab, BeforeTrunkBuild); err != nil {
		return err
	}
	root := tab.AddBranch(nil)
	if err := tab.Logic.BuildTrunk(tab, tab.Argument); err != nil {
		return err
	}
	return tab.events.Emit(tab, AfterTrunkBuild, root)
}

type ruleWinner struct {
	rule   Rule
	target *Target
}

// pickTarget walks rule groups in declared order and returns the winning
// target from the first group with any candidate at all; groups after
// that are never even scored (§9, resolved from pytableaux's
// tableaux.py next()).
func (tab *Tableau) pickTarget(b *Branch) *Target {
	for _, name := range tab.Rules.Groups.Names() {
		g, _ := tab.Rules.Groups.Get(name)
		var winners []ruleWinner
		for _, r := range g.Rules {
			targets := r.GetTargets(b)
			if len(targets) == 0 {
				continue
			}
			chosen := tab.rankWithinRule(r, targets)
			winners = append(winners, ruleWinner{r, chosen})
		}
		if len(winners) > 0 {
			return tab.pickGroupWinner(winners)
		}
	}
	return nil
}

func (tab *Tableau) rankWithinRule(r Rule, targets []*Target) *Target {
	chosen := targets[0]
	chosen.TotalCandidates = len(targets)
	if tab.opts.RankOptim {
		best := r.ScoreCandidate(chosen)
		minS, maxS := best, best
		for _, t := range targets[1:] {
			s := r.ScoreCandidate(t)
			if s < minS {
				minS = s
			}
			if s > maxS {
				maxS = s
			}
			if s > best {
				best, chosen = s, t
			}
		}
		chosen.CandidateScore = best
		chosen.MinCandidateScore = minS
		chosen.MaxCandidateScore = maxS
		chosen.IsRankOptim = true
		chosen.TotalCandidates = len(targets)
	}
	if chosen.Rule == nil {
		chosen.Rule = r
	}
	return chosen
}

func (tab *Tableau) pickGroupWinner(winners []ruleWinner) *Target {
	pick := winners[0]
	pick.target.TotalGroupTargets = len(winners)
	if tab.opts.GroupOptim {
		bestScore := pick.rule.GroupScore(pick.target)
		pick.target.GroupScore = bestScore
		for _, w := range winners[1:] {
			w.target.TotalGroupTargets = len(winners)
			s := w.rule.GroupScore(w.target)
			w.target.GroupScore = s
			if s > bestScore {
				bestScore, pick = s, w
			}
		}
		pick.target.IsGroupOptim = true
	}
	return pick.target
}

// Step finds and applies one rule target across the currently open
// branches, branch-outer / group-inner per §4.6. Returns the applied
// target, or nil if no branch has any rule with a candidate (the
// tableau is then complete).
func (tab *Tableau) Step() (*Target, error) {
	for _, b := range tab.OpenBranches() {
		if t := tab.pickTarget(b); t != nil {
			if err := tab.applyTarget(t); err != nil {
				return nil, err
			}
			return t, nil
		}
	}
	return nil, nil
}

func (tab *Tableau) applyTarget(t *Target) error {
	start := time.Now()
	if err := tab.events.EmitRule(t.Rule, BeforeApply, t); err != nil {
		return err
	}
	if err := t.Rule.Apply(t); err != nil {
		return err
	}
	dur := time.Since(start)
	t.TimingInaccurate = false
	if err := tab.events.EmitRule(t.Rule, AfterApply, t); err != nil {
		return err
	}
	name := ruleName(t.Rule)
	tab.stats.RulesApplied[name]++
	tab.history = append(tab.history, StepRecord{Rule: name, Target: t, Duration: dur})
	tab.steps++
	tab.opts.Metrics.observeRuleApply(name)
	return tab.events.Emit(tab, AfterRuleApply, t)
}

// Build runs the full proof loop: build the trunk, then Step until no
// branch yields a candidate, a step limit, or a wall-clock timeout is
// hit, then Finish. Build is not re-entrant; call it once per tableau.
func (tab *Tableau) Build() error {
	if tab.started {
		return newIllegalState("tableau has already been built")
	}
	tab.started = true
	tab.startedAt = time.Now()
	if err := tab.buildTrunk(); err != nil {
		return err
	}
	for {
		if len(tab.open) == 0 {
			break
		}
		if tab.opts.MaxSteps != nil && tab.steps >= *tab.opts.MaxSteps {
			tab.premature = true
			break
		}
		if tab.opts.BuildTimeout > 0 && time.Since(tab.startedAt) > tab.opts.BuildTimeout {
			tab.premature = true
			tab.timedOut = true
			break
		}
		t, err := tab.Step()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
	}
	tab.opts.Metrics.observeBuildDuration(time.Since(tab.startedAt).Seconds())
	if tab.timedOut {
		return Timeout
	}
	return tab.Finish()
}

// Finish marks the tableau finished, computes final stats, and (when
// WithBuildModels is set and the argument turned out invalid) reads a
// Model off every remaining open branch. Finish is called automatically
// by Build on a non-timed-out run; Timeout short-circuits it, matching
// pytableaux's distinction between a timed-out tableau (not finished)
// and a premature-but-finished one (step limit hit).
func (tab *Tableau) Finish() error {
	if tab.finished {
		return newIllegalState("tableau has already finished")
	}
	tab.finished = true
	tab.fillStats()
	if tab.opts.BuildModels && !tab.Valid() {
		for _, b := range tab.OpenBranches() {
			m := NewModel(tab.Logic.Meta)
			if err := m.ReadBranch(b); err != nil {
				return err
			}
			tab.models = append(tab.models, m)
		}
	}
	return tab.events.Emit(tab, AfterFinish)
}

func (tab *Tableau) fillStats() {
	tab.stats.Branches = len(tab.branches)
	open := 0
	distinct := make(map[string]struct{})
	for _, b := range tab.branches {
		if !b.closed {
			open++
		}
		for _, n := range b.nodes {
			distinct[n.String()] = struct{}{}
		}
	}
	tab.stats.OpenBranches = open
	tab.stats.ClosedBranches = len(tab.branches) - open
	tab.stats.DistinctNodes = len(distinct)
	tab.stats.Steps = tab.steps
	tab.stats.Duration = time.Since(tab.startedAt)
}

// Stats returns the tableau's current statistics; call after Finish for
// a final snapshot, or mid-build for a running one.
func (tab *Tableau) Stats() Stats {
	if !tab.finished {
		tab.fillStats()
	}
	return tab.stats
}

// History returns every rule application performed so far, in order.
func (tab *Tableau) History() []StepRecord {
	out := make([]StepRecord, len(tab.history))
	copy(out, tab.history)
	return out
}

// Models returns the countermodels built at Finish (empty unless
// WithBuildModels was set and the argument is invalid).
func (tab *Tableau) Models() []*Model { return tab.models }

// Closed reports whether every branch the tableau ever created is
// closed (no open branches remain).
func (tab *Tableau) Closed() bool { return tab.finished && len(tab.open) == 0 }

// Valid reports whether the tableau proves its argument: finished,
// not timed out, and every branch closed.
func (tab *Tableau) Valid() bool { return tab.finished && !tab.timedOut && len(tab.open) == 0 }

// Completed reports whether Build ran to natural completion (not cut
// short by a step limit or timeout).
func (tab *Tableau) Completed() bool { return tab.finished && !tab.premature }

// Premature reports whether Build stopped due to a step limit or
// timeout before the branches were exhausted.
func (tab *Tableau) Premature() bool { return tab.premature }

// TimedOut reports whether Build stopped due to WithBuildTimeout.
func (tab *Tableau) TimedOut() bool { return tab.timedOut }

// BuildTree renders the tableau's branches as a forest of pre-ordered,
// shared-prefix TreeNodes (§4.7): a root per trunk branch, with each
// fork contributing a child whose NewNodes holds only what it added
// after diverging from its parent.
func (tab *Tableau) BuildTree() []*TreeNode {
	var roots []*TreeNode
	for _, b := range tab.branches {
		if b.parent == nil {
			roots = append(roots, tab.buildTreeNode(b))
		}
	}
	return roots
}

func (tab *Tableau) buildTreeNode(b *Branch) *TreeNode {
	tn := &TreeNode{Branch: b, NewNodes: b.nodes, Closed: b.closed}
	for _, other := range tab.branches {
		if other.parent == b {
			child := tab.buildTreeNode(other)
			child.NewNodes = other.nodes[sharedPrefixLen(b, other):]
			tn.Children = append(tn.Children, child)
		}
	}
	return tn
}

func sharedPrefixLen(parent, child *Branch) int {
	n := 0
	for n < len(parent.nodes) && n < len(child.nodes) && parent.nodes[n] == child.nodes[n] {
		n++
	}
	return n
}
