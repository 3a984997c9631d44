package engine_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/pricinglib/engine"
)

func TestSolve_FindsRoot(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return x * x, nil }

	got, err := engine.Solve(f, 2.0, 0, 2, 1e-10, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, got, 1e-4)
}

func TestSolve_MonotoneDecreasing(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return math.Exp(-x), nil }

	got, err := engine.Solve(f, 0.5, 0, 5, 1e-12, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2, got, 1e-6)
}

func TestSolve_InputValidation(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return x, nil }

	_, err := engine.Solve(f, 0, 2, 1, 1e-8, 100)
	assert.ErrorIs(t, err, engine.ErrSolver, "inverted bracket")

	_, err = engine.Solve(f, 0, 0, 1, 0, 100)
	assert.ErrorIs(t, err, engine.ErrSolver, "non-positive accuracy")

	_, err = engine.Solve(f, 0, 0, 1, 1e-8, 1)
	assert.ErrorIs(t, err, engine.ErrSolver, "eval budget too small")
}

func TestSolve_RootNotBracketed(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return x * x, nil }

	_, err := engine.Solve(f, -1.0, 0.5, 2, 1e-8, 100)
	assert.ErrorIs(t, err, engine.ErrSolver)
}

func TestSolve_EvalBudgetExhausted(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return x, nil }

	// Absurdly tight accuracy with a tiny budget cannot converge.
	_, err := engine.Solve(f, 0.3333333, 0, 1, 1e-300, 5)
	assert.ErrorIs(t, err, engine.ErrSolver)
}

func TestSolve_PropagatesEvaluationError(t *testing.T) {
	t.Parallel()

	boom := fmt.Errorf("market data gone")
	f := func(x float64) (float64, error) { return 0, boom }

	_, err := engine.Solve(f, 1, 0, 1, 1e-8, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, engine.ErrSolver), "evaluation errors pass through untouched")
}
