package tableau

// cfol.go extends CPL with quantifiers: an unrestricted first-order
// domain, no modality. Negated quantifiers are reduced to the dual
// quantifier (De Morgan for quantifiers) before NewExtendedQuantifierRule
// / NewNarrowQuantifierRule ever see them, the same shape propositional
// negated-operator reduces take in propositional.go.

func matchQuantifier(q Quantifier) func(*Branch, *Node) bool {
	return func(_ *Branch, n *Node) bool {
		if !n.HasSentence() {
			return false
		}
		s, ok := n.Sentence.(Quantified)
		return ok && s.Quant == q
	}
}

func matchNegatedQuantifier(q Quantifier) func(*Branch, *Node) bool {
	return func(_ *Branch, n *Node) bool {
		if !n.HasSentence() {
			return false
		}
		inner, isNeg := IsNegation(n.Sentence)
		if !isNeg {
			return false
		}
		s, ok := inner.(Quantified)
		return ok && s.Quant == q
	}
}

func quantifierRules(tab *Tableau) (nonBranching []Rule, narrow []Rule) {
	negExistentialReduce := NewOperatorRule(tab, "NegExistentialReduce", OperatorShape{
		Match:   matchNegatedQuantifier(Existential),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			inner, _ := IsNegation(n.Sentence)
			q := inner.(Quantified)
			return adds(group(nodeLike(NewQuantified(Universal, q.Variable, Negate(q.Inner)), n)))
		},
	}, 0)
	negUniversalReduce := NewOperatorRule(tab, "NegUniversalReduce", OperatorShape{
		Match:   matchNegatedQuantifier(Universal),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			inner, _ := IsNegation(n.Sentence)
			q := inner.(Quantified)
			return adds(group(nodeLike(NewQuantified(Existential, q.Variable, Negate(q.Inner)), n)))
		},
	}, 0)

	mc := NewMaxConsts(tab)
	existential := NewNarrowQuantifierRule(tab, "Existential", matchQuantifier(Existential),
		func(_ *Branch, n *Node, c Parameter) []*Node {
			return []*Node{nodeLike(n.Sentence.(Quantified).Unquantify(c), n)}
		}, mc)

	nc := NewNodeConsts(tab)
	count := NewNodeCount(tab)
	universal := NewExtendedQuantifierRule(tab, "Universal", matchQuantifier(Universal),
		func(_ *Branch, n *Node, c Parameter) []*Node {
			return []*Node{nodeLike(n.Sentence.(Quantified).Unquantify(c), n)}
		}, nc, count, mc)

	return []Rule{negExistentialReduce, negUniversalReduce, universal}, []Rule{existential}
}

var cfolMeta = &Meta{
	Name:             "CFOL",
	Modal:            false,
	Quantified:       true,
	Values:           []Mval{ValueCPL_F, ValueCPL_T},
	UnassignedValue:  ValueCPL_F,
	DesignatedValues: map[Mval]bool{ValueCPL_T: true},
	ModalOperators:   map[Operator]bool{Possibility: true, Necessity: true},
	TruthFn:          cplTruthFn,
}

func cfolNewRules(tab *Tableau) *RulesRoot {
	nonBranching, branching := propositionalRules(tab)
	quantNonBranching, quantNarrow := quantifierRules(tab)
	nonBranching = append(nonBranching, quantNonBranching...)
	groups := NewRuleGroups(
		NewRuleGroup("closure", NewNegationClosureRule(tab)),
		NewRuleGroup("non-branching", nonBranching...),
		NewRuleGroup("branching", branching...),
		NewRuleGroup("quantifier", quantNarrow...),
	)
	return NewRulesRoot(groups)
}

// CFOL is classical first-order logic: CPL plus quantifiers over an
// unrestricted domain.
var CFOL = &Logic{Meta: cfolMeta, BuildTrunk: cplBuildTrunk, NewRules: cfolNewRules}
