package tableau

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNodeConstsSurvivesOwnInstantiationAppend is a direct regression test
// for the fairness bug a universal-style quantifier rule used to hit: once
// a node's own instantiation has been MarkApplied for a constant, the
// Append of that very instantiation -- which mentions the same constant --
// must not undo the MarkApplied call by re-adding the constant back to the
// node's unapplied set. Before this was fixed, NodeConsts' AfterNodeAdd
// handler back-filled every tracked node unconditionally on every append,
// so a quantifier rule instantiating the only constant on the branch could
// never mark its own node exhausted and would loop forever.
func TestNodeConstsSurvivesOwnInstantiationAppend(t *testing.T) {
	fPred, err := NewPredicate(0, 0, 1)
	require.NoError(t, err)
	gPred, err := NewPredicate(1, 0, 1)
	require.NoError(t, err)
	x := VariableP(0, 0)
	c0 := Constant(0, 0)

	fOf := func(p Parameter) Predicated {
		pr, err := NewPredicated(fPred, p)
		require.NoError(t, err)
		return pr
	}
	gOf := func(p Parameter) Predicated {
		pr, err := NewPredicated(gPred, p)
		require.NoError(t, err)
		return pr
	}

	q := NewQuantified(Universal, x, fOf(x))
	tab, err := New(NewArgument(q), CPL)
	require.NoError(t, err)

	nc := NewNodeConsts(tab)
	branch := newBranch(tab, nil)

	qNode := NewNode(WithSentence(q))
	require.NoError(t, branch.Append(qNode))
	require.Empty(t, nc.Unapplied(branch, qNode), "no branch constant exists yet")

	// A sibling node introduces the branch's first constant: it must be
	// back-filled into qNode's unapplied set.
	require.NoError(t, branch.Append(NewNode(WithSentence(gOf(c0)))))
	require.Equal(t, []Parameter{c0}, nc.Unapplied(branch, qNode))

	// Simulate a rule instantiating qNode with c0: MarkApplied runs first,
	// then the instantiated node (which mentions c0) is appended -- exactly
	// the order NewExtendedQuantifierRule.apply uses.
	nc.MarkApplied(branch, qNode, c0)
	require.NoError(t, branch.Append(NewNode(WithSentence(fOf(c0)))))

	require.Empty(t, nc.Unapplied(branch, qNode),
		"appending qNode's own instantiation must not re-add the constant it was just marked applied for")
}

// TestNodeConstsBackfillsFreshConstantExceptToItsOwner covers the other
// half of the same fix: when a quantifier rule mints a brand-new witness
// constant (the branch had none at all), the node whose build produced it
// must not see that constant land back in its own unapplied set, even
// though the constant is new to the branch and would normally be
// back-filled into every other tracked node.
func TestNodeConstsBackfillsFreshConstantExceptToItsOwner(t *testing.T) {
	fPred, err := NewPredicate(0, 0, 1)
	require.NoError(t, err)
	x := VariableP(0, 0)
	c0 := Constant(0, 0)

	fOf := func(p Parameter) Predicated {
		pr, err := NewPredicated(fPred, p)
		require.NoError(t, err)
		return pr
	}

	q1 := NewQuantified(Universal, x, fOf(x))
	q2 := NewQuantified(Universal, x, fOf(x))
	tab, err := New(NewArgument(q1), CPL)
	require.NoError(t, err)

	nc := NewNodeConsts(tab)
	branch := newBranch(tab, nil)

	node1 := NewNode(WithSentence(q1))
	node2 := NewNode(WithSentence(q2))
	require.NoError(t, branch.Append(node1))
	require.NoError(t, branch.Append(node2))

	// node1's own instantiation mints the branch's first constant.
	nc.MarkApplied(branch, node1, c0)
	require.NoError(t, branch.Append(NewNode(WithSentence(fOf(c0)))))

	require.Empty(t, nc.Unapplied(branch, node1), "owner of the fresh constant must not see it come back")
	require.Equal(t, []Parameter{c0}, nc.Unapplied(branch, node2), "sibling node must still see the fresh constant")
}
