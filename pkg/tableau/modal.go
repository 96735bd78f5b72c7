package tableau

// modal.go builds the rule shapes shared by every modal logic in this
// package (K, D): the propositional base from propositional.go, plus the
// two De Morgan-style reduces that let a negated modal formula reach the
// Necessity/Possibility rules (NewNecessityRule/NewPossibilityRule only
// match the bare operator, not its negation), plus the modal rules
// themselves over an unrestricted accessibility relation. D differs from
// K only by adding a seriality rule on top of this set.

// modalReduceRules builds the negated-modal-to-positive-modal reduces:
// not-Necessity(s) -> Possibility(not-s), not-Possibility(s) ->
// Necessity(not-s).
func modalReduceRules(tab *Tableau) []Rule {
	negNecessity := NewOperatorRule(tab, "NegNecessityReduce", OperatorShape{
		Match:   matchNegatedOperator(Necessity),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			inner, _ := IsNegation(n.Sentence)
			o := inner.(Operated)
			return adds(group(nodeLike(NewOperated(Possibility, Negate(o.Operands[0])), n)))
		},
	}, 0)
	negPossibility := NewOperatorRule(tab, "NegPossibilityReduce", OperatorShape{
		Match:   matchNegatedOperator(Possibility),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			inner, _ := IsNegation(n.Sentence)
			o := inner.(Operated)
			return adds(group(nodeLike(NewOperated(Necessity, Negate(o.Operands[0])), n)))
		},
	}, 0)
	return []Rule{negNecessity, negPossibility}
}

// modalRules builds the Necessity/Possibility rules over wi/mw: no
// frame-condition rule is added here, so a logic wanting one (D's
// seriality) adds it as a further group sharing the same wi/mw.
func modalRules(tab *Tableau, wi *WorldIndex, mw *MaxWorlds) []Rule {
	necessityCount := NewNodeCount(tab)
	necessity := NewNecessityRule(tab, "Necessity", matchOperator(Necessity),
		func(n *Node) Sentence { return n.Sentence.(Operated).Operands[0] }, wi, necessityCount)
	possibility := NewPossibilityRule(tab, "Possibility", matchOperator(Possibility),
		func(n *Node) Sentence { return n.Sentence.(Operated).Operands[0] }, mw)
	return []Rule{necessity, possibility}
}

// modalBuildTrunk asserts every premise and the negated conclusion at
// world 0, the same refutation setup as cplBuildTrunk but with every
// node tagged to a world since modal rules key off it.
func modalBuildTrunk(tab *Tableau, arg Argument) error {
	branch := tab.OpenBranches()[0]
	for _, p := range arg.Premises {
		if err := branch.Append(WithSentenceWorldNode(p, 0)); err != nil {
			return err
		}
	}
	return branch.Append(WithSentenceWorldNode(Negate(arg.Conclusion), 0))
}

var kMeta = &Meta{
	Name:             "K",
	Modal:            true,
	Quantified:       false,
	Values:           []Mval{ValueCPL_F, ValueCPL_T},
	UnassignedValue:  ValueCPL_F,
	DesignatedValues: map[Mval]bool{ValueCPL_T: true},
	ModalOperators:   map[Operator]bool{Possibility: true, Necessity: true},
	TruthFn:          cplTruthFn,
}

func kNewRules(tab *Tableau) *RulesRoot {
	wi := NewWorldIndex(tab)
	mw := NewMaxWorlds(tab)
	nonBranching, branching := propositionalRules(tab)
	nonBranching = append(nonBranching, modalReduceRules(tab)...)
	groups := NewRuleGroups(
		NewRuleGroup("closure", NewNegationClosureRule(tab)),
		NewRuleGroup("non-branching", nonBranching...),
		NewRuleGroup("branching", branching...),
		NewRuleGroup("modal", modalRules(tab, wi, mw)...),
	)
	return NewRulesRoot(groups)
}

// K is the normal modal logic over an unrestricted accessibility
// relation (no frame condition).
var K = &Logic{Meta: kMeta, BuildTrunk: modalBuildTrunk, NewRules: kNewRules}
