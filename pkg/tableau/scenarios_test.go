package tableau

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarios runs every worked scenario from AllScenarios end to end
// and checks the validity result each is named for.
func TestScenarios(t *testing.T) {
	wantValid := map[string]bool{
		"modus-ponens":               true,
		"affirming-consequent":       false,
		"fde-explosion":              false,
		"k-necessity-distribution":   true,
		"existential-from-universal": true,
		"serial-box-to-diamond":      true,
	}

	for _, sc := range AllScenarios() {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			tab, err := New(sc.Argument, sc.Logic, WithBuildModels(true), WithMaxSteps(1000))
			require.NoError(t, err)
			require.NoError(t, tab.Build())
			require.Equal(t, wantValid[sc.Name], tab.Valid(), "scenario %s", sc.Name)
		})
	}
}

// TestAffirmingConsequentCountermodel pins down the exact countermodel
// spec.md's scenario 2 names: a=F, b=T.
func TestAffirmingConsequentCountermodel(t *testing.T) {
	sc := mustScenario(t, "affirming-consequent")
	tab, err := New(sc.Argument, sc.Logic, WithBuildModels(true))
	require.NoError(t, err)
	require.NoError(t, tab.Build())
	require.False(t, tab.Valid())
	require.NotEmpty(t, tab.Models())

	a, b := atomA(), atomB()
	foundCountermodel := false
	for _, m := range tab.Models() {
		ok, err := m.IsCountermodelTo(sc.Argument)
		require.NoError(t, err)
		if !ok {
			continue
		}
		va, err := m.ValueOf(a, 0)
		require.NoError(t, err)
		vb, err := m.ValueOf(b, 0)
		require.NoError(t, err)
		if va == ValueCPL_F && vb == ValueCPL_T {
			foundCountermodel = true
		}
	}
	require.True(t, foundCountermodel, "expected some model with a=F, b=T")
}

// TestFDEExplosionCountermodel pins down spec.md's scenario 3
// countermodel: a=B (glut), b=F.
func TestFDEExplosionCountermodel(t *testing.T) {
	sc := mustScenario(t, "fde-explosion")
	tab, err := New(sc.Argument, sc.Logic, WithBuildModels(true))
	require.NoError(t, err)
	require.NoError(t, tab.Build())
	require.False(t, tab.Valid())

	a, b := atomA(), atomB()
	foundCountermodel := false
	for _, m := range tab.Models() {
		ok, err := m.IsCountermodelTo(sc.Argument)
		require.NoError(t, err)
		if !ok {
			continue
		}
		va, err := m.ValueOf(a, 0)
		require.NoError(t, err)
		vb, err := m.ValueOf(b, 0)
		require.NoError(t, err)
		if va == ValueFDE_B && vb == ValueFDE_F {
			foundCountermodel = true
		}
	}
	require.True(t, foundCountermodel, "expected some model with a=B, b=F")
}

// TestSerialRuleFires checks the one scenario-specific invariant spec.md
// calls out for D: the Serial rule must actually fire at least once.
func TestSerialRuleFires(t *testing.T) {
	sc := mustScenario(t, "serial-box-to-diamond")
	tab, err := New(sc.Argument, sc.Logic)
	require.NoError(t, err)
	require.NoError(t, tab.Build())
	require.True(t, tab.Valid())
	require.Greater(t, tab.Stats().RulesApplied["Serial"], 0)
}

// TestWithMaxStepsZeroIsPremature checks spec.md's explicit boundary
// behavior: an explicit WithMaxSteps(0) must stop the tableau before it
// applies a single rule, distinct from never setting a limit at all.
func TestWithMaxStepsZeroIsPremature(t *testing.T) {
	sc := mustScenario(t, "modus-ponens")
	tab, err := New(sc.Argument, sc.Logic, WithMaxSteps(0))
	require.NoError(t, err)
	require.NoError(t, tab.Build())

	require.True(t, tab.Premature())
	require.False(t, tab.Completed())
	require.Equal(t, 0, tab.Stats().Steps)
	require.Empty(t, tab.Stats().RulesApplied)
}

func mustScenario(t *testing.T, name string) Scenario {
	t.Helper()
	for _, sc := range AllScenarios() {
		if sc.Name == name {
			return sc
		}
	}
	t.Fatalf("unknown scenario %q", name)
	return Scenario{}
}
