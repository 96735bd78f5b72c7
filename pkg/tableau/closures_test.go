package tableau

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNegationClosureExplodes checks that CPL's negation-based closure
// rule closes a branch carrying both a and Na outright, making any
// conclusion trivially derivable from a direct contradiction.
func TestNegationClosureExplodes(t *testing.T) {
	a := atomA()
	b := atomB()
	arg := NewArgument(b, a, Negate(a))

	tab, err := New(arg, CPL)
	require.NoError(t, err)
	require.NoError(t, tab.Build())

	require.True(t, tab.Valid())
	require.Greater(t, tab.Stats().RulesApplied["NegationClosure"], 0)
}

// TestDesignationClosureOnIdentity checks FDE's designation-based
// closure rule closes a branch where the same sentence is asserted both
// designated and undesignated.
func TestDesignationClosureOnIdentity(t *testing.T) {
	a := atomA()
	arg := NewArgument(a, a)

	tab, err := New(arg, FDE)
	require.NoError(t, err)
	require.NoError(t, tab.Build())

	require.True(t, tab.Valid())
	require.Greater(t, tab.Stats().RulesApplied["DesignationClosure"], 0)
}

// TestDesignationClosureNeverFiresOnAGlut checks the defining property
// of FDE's paraconsistency: asserting a sentence and its negation both
// designated (a glut) must never trigger DesignationClosure, since the
// glut is a genuine value (B), not a contradiction.
func TestDesignationClosureNeverFiresOnAGlut(t *testing.T) {
	sc := mustScenario(t, "fde-explosion")
	tab, err := New(sc.Argument, sc.Logic)
	require.NoError(t, err)
	require.NoError(t, tab.Build())

	require.False(t, tab.Valid())
	require.Equal(t, 0, tab.Stats().RulesApplied["DesignationClosure"])
}
