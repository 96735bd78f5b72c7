package tableau

// closures.go supplies the two shapes of closure condition the concrete
// logics in this package need. Single-sided logics (CPL, K, D, CFOL) use
// syntactic negation as their only vehicle for falsity and never need a
// node carrying Designated=false; many-valued logics (FDE) instead close
// on the same sentence appearing with both polarities at a world. Both
// are built from NewClosureRule (patterns.go); only the find function
// differs.

// NewNegationClosureRule builds a closure rule for logics that never use
// the Designated node flag: a branch closes once it carries both s and
// Negate(s) as plain sentence nodes at the same world (world comparison
// is skipped for non-modal logics, where every node is worldless).
func NewNegationClosureRule(tab *Tableau) Rule {
	example := func() []*Node {
		a := Atomic{}
		return []*Node{SentenceNode(a), SentenceNode(Negate(a))}
	}
	find := func(branch *Branch) *Node {
		for _, n := range branch.nodes {
			if !n.HasSentence() {
				continue
			}
			inner, isNeg := IsNegation(n.Sentence)
			if !isNeg {
				continue
			}
			q := SentenceNode(inner)
			if n.HasWorld() {
				q = WithSentenceWorldNode(inner, n.World)
			}
			if branch.Has(q) {
				return n
			}
		}
		return nil
	}
	return NewClosureRule(tab, "NegationClosure", example, find)
}

// NewDesignationClosureRule builds a closure rule for many-valued logics
// that track designation explicitly: a branch closes once the same
// sentence appears both designated and undesignated at the same world.
// A sound rule set for a logic with a genuine glut value (e.g. FDE) must
// never produce both polarities for the same sentence from a single
// literal, or this would wrongly collapse a paraconsistent model to
// closed.
func NewDesignationClosureRule(tab *Tableau) Rule {
	example := func() []*Node {
		a := Atomic{}
		return []*Node{
			NewNode(WithSentence(a), WithDesignated(true)),
			NewNode(WithSentence(a), WithDesignated(false)),
		}
	}
	find := func(branch *Branch) *Node {
		for _, n := range branch.nodes {
			if !n.HasSentence() || !n.HasDesignated() {
				continue
			}
			q := NewNode(WithSentence(n.Sentence), WithDesignated(!n.Designated))
			if n.HasWorld() {
				q = NewNode(WithSentence(n.Sentence), WithDesignated(!n.Designated), WithWorld(n.World))
			}
			if branch.Has(q) {
				return n
			}
		}
		return nil
	}
	return NewClosureRule(tab, "DesignationClosure", example, find)
}
