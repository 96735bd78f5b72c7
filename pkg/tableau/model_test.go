package tableau

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMarkLiteralGlut checks that marking a sentence designated and its
// negation designated on the same model produces a glut (B), not a
// conflict -- the defect an earlier scalar-value model design had.
func TestMarkLiteralGlut(t *testing.T) {
	m := NewModel(fdeMeta)
	a := atomA()

	require.NoError(t, m.markLiteral(a, true, 0))
	require.NoError(t, m.markLiteral(Negate(a), true, 0))
	require.NoError(t, m.Finish())

	v, err := m.ValueOf(a, 0)
	require.NoError(t, err)
	require.Equal(t, ValueFDE_B, v)
}

// TestMarkLiteralPlainTrueFalse checks the non-glut cases still resolve
// to ordinary T/F.
func TestMarkLiteralPlainTrueFalse(t *testing.T) {
	m := NewModel(fdeMeta)
	a, b := atomA(), atomB()

	require.NoError(t, m.markLiteral(a, true, 0))
	require.NoError(t, m.markLiteral(Negate(b), true, 0))
	require.NoError(t, m.Finish())

	va, err := m.ValueOf(a, 0)
	require.NoError(t, err)
	require.Equal(t, ValueFDE_T, va)

	vb, err := m.ValueOf(b, 0)
	require.NoError(t, err)
	require.Equal(t, ValueFDE_F, vb)
}

// TestMarkLiteralGap checks an atomic with no evidence at all resolves
// to the logic's UnassignedValue (N for FDE).
func TestMarkLiteralGap(t *testing.T) {
	m := NewModel(fdeMeta)
	a := atomA()
	require.NoError(t, m.Finish())

	v, err := m.ValueOf(a, 0)
	require.NoError(t, err)
	require.Equal(t, fdeMeta.UnassignedValue, v)
}

// TestCombineNilCell checks combine tolerates an absent cell (no
// evidence recorded yet) without panicking.
func TestCombineNilCell(t *testing.T) {
	require.Equal(t, cplMeta.UnassignedValue, combine(nil, cplMeta))
}

// TestGlutValueFallsBackToTrueForBivalentLogics checks glutValue never
// reports a B for a logic whose Values don't include one.
func TestGlutValueFallsBackToTrueForBivalentLogics(t *testing.T) {
	require.Equal(t, ValueCPL_T, glutValue(cplMeta))
	require.Equal(t, ValueFDE_B, glutValue(fdeMeta))
}
