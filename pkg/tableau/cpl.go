package tableau

// cpl.go wires classical propositional logic: two values, no Designated
// tracking, negation-pair closure. This is the base every other
// single-sided logic in this package (K, D, CFOL) extends.

var cplMeta = &Meta{
	Name:             "CPL",
	Modal:            false,
	Quantified:       false,
	Values:           []Mval{ValueCPL_F, ValueCPL_T},
	UnassignedValue:  ValueCPL_F,
	DesignatedValues: map[Mval]bool{ValueCPL_T: true},
	ModalOperators:   map[Operator]bool{Possibility: true, Necessity: true},
	TruthFn:          cplTruthFn,
}

// cplBuildTrunk asserts every premise, then the negated conclusion --
// the standard refutation setup for a logic whose only falsity marker is
// syntactic negation: the argument is valid exactly when every resulting
// branch closes.
func cplBuildTrunk(tab *Tableau, arg Argument) error {
	branch := tab.OpenBranches()[0]
	for _, p := range arg.Premises {
		if err := branch.Append(SentenceNode(p)); err != nil {
			return err
		}
	}
	return branch.Append(SentenceNode(Negate(arg.Conclusion)))
}

func cplNewRules(tab *Tableau) *RulesRoot {
	nonBranching, branching := propositionalRules(tab)
	groups := NewRuleGroups(
		NewRuleGroup("closure", NewNegationClosureRule(tab)),
		NewRuleGroup("non-branching", nonBranching...),
		NewRuleGroup("branching", branching...),
	)
	return NewRulesRoot(groups)
}

// CPL is the classical propositional logic descriptor.
var CPL = &Logic{Meta: cplMeta, BuildTrunk: cplBuildTrunk, NewRules: cplNewRules}
