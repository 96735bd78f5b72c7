package tableau

// propositional.go builds the classical propositional rule set shared by
// every single-sided logic in this package (CPL, K, D, CFOL): these
// logics never set a node's Designated flag, so a sentence node's mere
// presence is its assertion and Negate(s) is the only way to assert its
// falsity. Modal logics reuse the same rules unchanged -- a node's World
// tag (if any) is simply carried forward onto whatever nodes a rule
// produces, since decomposing a connective never changes what world its
// parts are evaluated at.

// nodeLike builds a sentence node copying n's world tag, if any, so that
// propositional decomposition never loses track of which world a
// sub-sentence belongs to.
func nodeLike(s Sentence, n *Node) *Node {
	if n.HasWorld() {
		return WithSentenceWorldNode(s, n.World)
	}
	return SentenceNode(s)
}

func matchOperator(op Operator) func(*Branch, *Node) bool {
	return func(_ *Branch, n *Node) bool {
		if !n.HasSentence() {
			return false
		}
		o, ok := n.Sentence.(Operated)
		return ok && o.Op == op
	}
}

func matchNegatedOperator(op Operator) func(*Branch, *Node) bool {
	return func(_ *Branch, n *Node) bool {
		if !n.HasSentence() {
			return false
		}
		inner, isNeg := IsNegation(n.Sentence)
		if !isNeg {
			return false
		}
		o, ok := inner.(Operated)
		return ok && o.Op == op
	}
}

func matchDoubleNegation(_ *Branch, n *Node) bool {
	if !n.HasSentence() {
		return false
	}
	inner, isNeg := IsNegation(n.Sentence)
	if !isNeg {
		return false
	}
	_, isNeg2 := IsNegation(inner)
	return isNeg2
}

// propositionalRules builds the full classical operator rule set, split
// into a non-branching group and a branching group in the order §4.4
// recommends (cheap non-branching decompositions exhausted before any
// rule that forks a branch).
func propositionalRules(tab *Tableau) (nonBranching, branching []Rule) {
	operands := func(n *Node) (Sentence, Sentence) {
		o := n.Sentence.(Operated)
		return o.Operands[0], o.Operands[1]
	}
	negOperands := func(n *Node) (Sentence, Sentence) {
		inner, _ := IsNegation(n.Sentence)
		o := inner.(Operated)
		return o.Operands[0], o.Operands[1]
	}

	doubleNegation := NewOperatorRule(tab, "DoubleNegation", OperatorShape{
		Match:   matchDoubleNegation,
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			inner, _ := IsNegation(n.Sentence)
			inner2, _ := IsNegation(inner)
			return adds(group(nodeLike(inner2, n)))
		},
	}, 0)

	conjunction := NewOperatorRule(tab, "Conjunction", OperatorShape{
		Match:   matchOperator(Conjunction),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLike(a, n), nodeLike(b, n)))
		},
	}, 0)

	negDisjunction := NewOperatorRule(tab, "NegDisjunction", OperatorShape{
		Match:   matchNegatedOperator(Disjunction),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := negOperands(n)
			return adds(group(nodeLike(Negate(a), n), nodeLike(Negate(b), n)))
		},
	}, 0)

	negMaterialConditional := NewOperatorRule(tab, "NegMaterialConditional", OperatorShape{
		Match:   matchNegatedOperator(MaterialConditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := negOperands(n)
			return adds(group(nodeLike(a, n), nodeLike(Negate(b), n)))
		},
	}, 0)

	conditionalReduce := NewOperatorRule(tab, "ConditionalReduce", OperatorShape{
		Match:   matchOperator(Conditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLike(NewOperated(MaterialConditional, a, b), n)))
		},
	}, 0)

	negConditionalReduce := NewOperatorRule(tab, "NegConditionalReduce", OperatorShape{
		Match:   matchNegatedOperator(Conditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := negOperands(n)
			return adds(group(nodeLike(Negate(NewOperated(MaterialConditional, a, b)), n)))
		},
	}, 0)

	biconditionalReduce := NewOperatorRule(tab, "BiconditionalReduce", OperatorShape{
		Match:   matchOperator(Biconditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLike(NewOperated(MaterialBiconditional, a, b), n)))
		},
	}, 0)

	negBiconditionalReduce := NewOperatorRule(tab, "NegBiconditionalReduce", OperatorShape{
		Match:   matchNegatedOperator(Biconditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := negOperands(n)
			return adds(group(nodeLike(Negate(NewOperated(MaterialBiconditional, a, b)), n)))
		},
	}, 0)

	disjunction := NewOperatorRule(tab, "Disjunction", OperatorShape{
		Match:   matchOperator(Disjunction),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLike(a, n)), group(nodeLike(b, n)))
		},
	}, 1)

	negConjunction := NewOperatorRule(tab, "NegConjunction", OperatorShape{
		Match:   matchNegatedOperator(Conjunction),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := negOperands(n)
			return adds(group(nodeLike(Negate(a), n)), group(nodeLike(Negate(b), n)))
		},
	}, 1)

	materialConditional := NewOperatorRule(tab, "MaterialConditional", OperatorShape{
		Match:   matchOperator(MaterialConditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLike(Negate(a), n)), group(nodeLike(b, n)))
		},
	}, 1)

	materialBiconditional := NewOperatorRule(tab, "MaterialBiconditional", OperatorShape{
		Match:   matchOperator(MaterialBiconditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := operands(n)
			return adds(group(nodeLike(a, n), nodeLike(b, n)), group(nodeLike(Negate(a), n), nodeLike(Negate(b), n)))
		},
	}, 1)

	negMaterialBiconditional := NewOperatorRule(tab, "NegMaterialBiconditional", OperatorShape{
		Match:   matchNegatedOperator(MaterialBiconditional),
		Ticking: true,
		Build: func(_ *Branch, n *Node) [][]*Node {
			a, b := negOperands(n)
			return adds(group(nodeLike(a, n), nodeLike(Negate(b), n)), group(nodeLike(Negate(a), n), nodeLike(b, n)))
		},
	}, 1)

	nonBranching = []Rule{doubleNegation, conjunction, negDisjunction, negMaterialConditional,
		conditionalReduce, negConditionalReduce, biconditionalReduce, negBiconditionalReduce}
	branching = []Rule{disjunction, negConjunction, materialConditional, materialBiconditional, negMaterialBiconditional}
	return nonBranching, branching
}

// cplTruthFn is the two-valued classical truth function every
// propositional connective reduces to (Conditional/Biconditional are
// only ever reduced by rule, but a bare conclusion sentence can still
// reach TruthFn directly through ValueOf, so every operator needs a
// definition here too).
func cplTruthFn(op Operator, vs ...Mval) Mval {
	t := func(v Mval) bool { return v == ValueCPL_T }
	switch op {
	case Assertion:
		return vs[0]
	case Negation:
		if t(vs[0]) {
			return ValueCPL_F
		}
		return ValueCPL_T
	case Conjunction:
		if t(vs[0]) && t(vs[1]) {
			return ValueCPL_T
		}
		return ValueCPL_F
	case Disjunction:
		if t(vs[0]) || t(vs[1]) {
			return ValueCPL_T
		}
		return ValueCPL_F
	case MaterialConditional, Conditional:
		if !t(vs[0]) || t(vs[1]) {
			return ValueCPL_T
		}
		return ValueCPL_F
	case MaterialBiconditional, Biconditional:
		if t(vs[0]) == t(vs[1]) {
			return ValueCPL_T
		}
		return ValueCPL_F
	}
	return ValueCPL_F
}
