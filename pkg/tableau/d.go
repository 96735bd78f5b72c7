package tableau

// d.go extends K with seriality: every world must access at least one
// world. This is the one frame-condition rule this package implements,
// grounded on the same NewAccessibilityRule shape patterns.go exposes
// for reflexive/transitive/symmetric conditions it does not itself wire
// up (a fuller modal-logic family is outside the demonstration scope
// here).

var dMeta = &Meta{
	Name:             "D",
	Modal:            true,
	Quantified:       false,
	Values:           []Mval{ValueCPL_F, ValueCPL_T},
	UnassignedValue:  ValueCPL_F,
	DesignatedValues: map[Mval]bool{ValueCPL_T: true},
	ModalOperators:   map[Operator]bool{Possibility: true, Necessity: true},
	TruthFn:          cplTruthFn,
}

// serialScan finds every world mentioned on branch with no outgoing
// access edge and proposes a fresh world for it to reach.
func serialScan(branch *Branch, wi *WorldIndex) [][2]int {
	worlds := make(map[int]struct{})
	for _, n := range branch.Nodes() {
		if n.HasWorld() {
			worlds[n.World] = struct{}{}
		}
		if n.HasAccess() {
			worlds[n.World1] = struct{}{}
			worlds[n.World2] = struct{}{}
		}
	}
	var out [][2]int
	for w := range worlds {
		if len(wi.Visible(branch, w)) == 0 {
			out = append(out, [2]int{w, branch.NewWorld()})
		}
	}
	return out
}

func dNewRules(tab *Tableau) *RulesRoot {
	wi := NewWorldIndex(tab)
	mw := NewMaxWorlds(tab)
	nonBranching, branching := propositionalRules(tab)
	nonBranching = append(nonBranching, modalReduceRules(tab)...)
	serial := NewAccessibilityRule(tab, "Serial", serialScan, wi, mw)
	groups := NewRuleGroups(
		NewRuleGroup("closure", NewNegationClosureRule(tab)),
		NewRuleGroup("non-branching", nonBranching...),
		NewRuleGroup("branching", branching...),
		NewRuleGroup("modal", modalRules(tab, wi, mw)...),
		NewRuleGroup("serial", serial),
	)
	return NewRulesRoot(groups)
}

// D is the modal logic of seriality: the accessibility relation is
// required to have no dead ends.
var D = &Logic{Meta: dMeta, BuildTrunk: modalBuildTrunk, NewRules: dNewRules}
