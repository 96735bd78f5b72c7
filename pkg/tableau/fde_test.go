package tableau

import "testing"

// TestFDETruthFnBeatsNaiveMinMax locks in the American-plan semantics:
// conjoining N (neither) with B (both) must come out false, not neither,
// which is the case a naive min/max over a numeric encoding gets wrong.
func TestFDETruthFnBeatsNaiveMinMax(t *testing.T) {
	got := fdeTruthFn(Conjunction, ValueFDE_N, ValueFDE_B)
	if got != ValueFDE_F {
		t.Fatalf("Conjunction(N, B) = %v, want F", got)
	}
}

func TestFDENegationIsSelfDualOnBAndN(t *testing.T) {
	for _, v := range []Mval{ValueFDE_B, ValueFDE_N} {
		got := fdeTruthFn(Negation, v)
		if got != v {
			t.Fatalf("Negation(%v) = %v, want %v (fixed point)", v, got, v)
		}
	}
}

func TestFDENegationSwapsTAndF(t *testing.T) {
	if got := fdeTruthFn(Negation, ValueFDE_T); got != ValueFDE_F {
		t.Fatalf("Negation(T) = %v, want F", got)
	}
	if got := fdeTruthFn(Negation, ValueFDE_F); got != ValueFDE_T {
		t.Fatalf("Negation(F) = %v, want T", got)
	}
}

func TestFDEDisjunctionOfNAndB(t *testing.T) {
	// pos: N=false, B=true -> OR -> true; neg: N=false, B=true -> AND -> false
	// so the result should be T, not B and not N.
	got := fdeTruthFn(Disjunction, ValueFDE_N, ValueFDE_B)
	if got != ValueFDE_T {
		t.Fatalf("Disjunction(N, B) = %v, want T", got)
	}
}

func TestFDEComposeDecomposeRoundTrip(t *testing.T) {
	for _, v := range []Mval{ValueFDE_T, ValueFDE_F, ValueFDE_B, ValueFDE_N} {
		pos, neg := fdeDecompose(v)
		if got := fdeCompose(pos, neg); got != v {
			t.Fatalf("fdeCompose(fdeDecompose(%v)) = %v, want %v", v, got, v)
		}
	}
}
