package tableau

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClosureRuleExampleTriggersClosure is the one shape of Rule.Test
// this package's rule constructors actually support end to end: a
// closure rule's own ExampleNodes(), appended to a fresh branch, must
// make that rule's find function report a match.
func TestClosureRuleExampleTriggersClosure(t *testing.T) {
	tab, err := New(NewArgument(atomA()), CPL)
	require.NoError(t, err)

	r := NewNegationClosureRule(tab)
	require.Equal(t, "NegationClosure", r.Name())
	require.False(t, r.Ticking())
	require.Equal(t, 0, r.Branching())

	branch := newBranch(tab, nil)
	for _, n := range r.ExampleNodes() {
		require.NoError(t, branch.Append(n))
	}
	targets := r.GetTargets(branch)
	require.NotEmpty(t, targets, "closure rule's own example nodes should trigger it")
}

func TestDesignationClosureRuleExampleTriggersClosure(t *testing.T) {
	tab, err := New(NewArgument(atomA()), FDE)
	require.NoError(t, err)

	r := NewDesignationClosureRule(tab)
	require.Equal(t, "DesignationClosure", r.Name())

	branch := newBranch(tab, nil)
	for _, n := range r.ExampleNodes() {
		require.NoError(t, branch.Append(n))
	}
	targets := r.GetTargets(branch)
	require.NotEmpty(t, targets, "closure rule's own example nodes should trigger it")
}
