package tableau

// fde.go wires First Degree Entailment: a 4-valued, designation-tracking
// logic with a genuine glut value (Both). Its rule set is deliberately
// minimal -- Conjunction/Disjunction decomposition by designation, plus
// DoubleNegation -- and never decomposes a bare negated atomic or
// predicated sentence. Belnap's negation is a fixed-point swap on the
// (pos, neg) bits behind a value (fdeDecompose/fdeCompose below); a
// literal node's own polarity together with
// markLiteral's pos/neg accumulation in model.go is what resolves the
// sentence's actual value once the branch is read, so no rule needs to
// case-split Belnap negation explicitly. That same omission is what lets
// an explosion argument ('a and not-a' therefore anything) stay open: the
// decomposition only ever adds designated literal nodes for 'a' and
// 'not a' side by side, never a sentence asserted with both polarities,
// so the designation closure below is never triggered by it.
//
// fdeDecompose/fdeCompose below are the same (pos, neg) bit pair
// markLiteral and PredicateInterpretation use in model.go, just inlined
// for evaluating a formula's overall value rather than accumulating one
// literal at a time.

func fdeDecompose(v Mval) (pos, neg bool) {
	switch v {
	case ValueFDE_T:
		return true, false
	case ValueFDE_F:
		return false, true
	case ValueFDE_B:
		return true, true
	default:
		return false, false
	}
}

func fdeCompose(pos, neg bool) Mval {
	switch {
	case pos && neg:
		return ValueFDE_B
	case pos:
		return ValueFDE_T
	case neg:
		return ValueFDE_F
	default:
		return ValueFDE_N
	}
}

// fdeTruthFn evaluates a sentence by combining operand positive/negative
// extensions -- the "American plan" definition of the FDE connectives --
// rather than by taking min/max over the four values directly, since
// Belnap's truth order has Neither and Both incomparable and an ordinary
// min/max over an arbitrary numeric encoding would not compute their
// meet/join correctly.
func fdeTruthFn(op Operator, vs ...Mval) Mval {
	switch op {
	case Assertion:
		return vs[0]
	case Negation:
		p, n := fdeDecompose(vs[0])
		return fdeCompose(n, p)
	case Conjunction:
		p0, n0 := fdeDecompose(vs[0])
		p1, n1 := fdeDecompose(vs[1])
		return fdeCompose(p0 && p1, n0 || n1)
	case Disjunction:
		p0, n0 := fdeDecompose(vs[0])
		p1, n1 := fdeDecompose(vs[1])
		return fdeCompose(p0 || p1, n0 && n1)
	case MaterialConditional, Conditional:
		na := fdeTruthFn(Negation, vs[0])
		return fdeTruthFn(Disjunction, na, vs[1])
	case MaterialBiconditional, Biconditional:
		ab := fdeTruthFn(MaterialConditional, vs[0], vs[1])
		ba := fdeTruthFn(MaterialConditional, vs[1], vs[0])
		return fdeTruthFn(Conjunction, ab, ba)
	}
	return ValueFDE_N
}

var fdeMeta = &Meta{
	Name:             "FDE",
	Modal:            false,
	Quantified:       false,
	Values:           []Mval{ValueFDE_F, ValueFDE_N, ValueFDE_B, ValueFDE_T},
	UnassignedValue:  ValueFDE_N,
	DesignatedValues: map[Mval]bool{ValueFDE_B: true, ValueFDE_T: true},
	ModalOperators:   map[Operator]bool{},
	TruthFn:          fdeTruthFn,
}

// fdeBuildTrunk asserts every premise designated, and the conclusion
// undesignated -- the standard many-valued refutation setup: an argument
// is valid exactly when no model can keep every premise designated while
// leaving the conclusion undesignated, i.e. every branch closes.
func fdeBuildTrunk(tab *Tableau, arg Argument) error {
	branch := tab.OpenBranches()[0]
	for _, p := range arg.Premises {
		if err := branch.Append(NewNode(WithSentence(p), WithDesignated(true))); err != nil {
			return err
		}
	}
	return branch.Append(NewNode(WithSentence(arg.Conclusion), WithDesignated(false)))
}

func matchOperatorDesignated(op Operator, designated bool) func(*Branch, *Node) bool {
	return func(_ *Branch, n *Node) bool {
		if !n.HasSentence() || !n.HasDesignated() || n.Designated != designated {
			return false
		}
		o, ok := n.Sentence.(Operated)
		return ok && o.Op == op
	}
}

func nodeLikeDesignated(s Sentence, n *Node) *Node {
	opts := []NodeOption{WithSentence(s), WithDesignated(n.Designated)}
	if n.HasWorld() {
		opts = append(opts, WithWorld(n.World))
	}
	return NewNode(opts...)
}

func fdeNewRules(tab *Tableau) *RulesRoot {
	operands := func(n *Node) (Sentence, Sentence) {
		o := n.Sentence.(Operated)
		return o.Operands[0], o.Operands[1]
	}

	conjunctionDesignated := NewOperatorRule(tab, "ConjunctionDesignated", OperatorShape{
		Match:   matchOperatorDesignated(Conjunction, true),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLikeDesignated(a, n), nodeLikeDesignated(b, n)))
		},
	}, 0)

	disjunctionUndesignated := NewOperatorRule(tab, "DisjunctionUndesignated", OperatorShape{
		Match:   matchOperatorDesignated(Disjunction, false),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLikeDesignated(a, n), nodeLikeDesignated(b, n)))
		},
	}, 0)

	doubleNegation := NewOperatorRule(tab, "FDEDoubleNegation", OperatorShape{
		Match:   matchDoubleNegation,
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			inner, _ := IsNegation(n.Sentence)
			inner2, _ := IsNegation(inner)
			return adds(group(nodeLikeDesignated(inner2, n)))
		},
	}, 0)

	conjunctionUndesignated := NewOperatorRule(tab, "ConjunctionUndesignated", OperatorShape{
		Match:   matchOperatorDesignated(Conjunction, false),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLikeDesignated(a, n)), group(nodeLikeDesignated(b, n)))
		},
	}, 1)

	disjunctionDesignated := NewOperatorRule(tab, "DisjunctionDesignated", OperatorShape{
		Match:   matchOperatorDesignated(Disjunction, true),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLikeDesignated(a, n)), group(nodeLikeDesignated(b, n)))
		},
	}, 1)

	groups := NewRuleGroups(
		NewRuleGroup("closure", NewDesignationClosureRule(tab)),
		NewRuleGroup("non-branching", conjunctionDesignated, disjunctionUndesignated, doubleNegation),
		NewRuleGroup("branching", conjunctionUndesignated, disjunctionDesignated),
	)
	return NewRulesRoot(groups)
}

// FDE is First Degree Entailment: a paraconsistent, paracomplete
// 4-valued logic.
var FDE = &Logic{Meta: fdeMeta, BuildTrunk: fdeBuildTrunk, NewRules: fdeNewRules}
