// Package engine provides closed-form option pricing math and the bracketed
// root finder used for implied volatility.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrSolver is returned when the root finder cannot converge within its
// bracket and evaluation budget.
var ErrSolver = errors.New("solver failed")

// Solve finds x in [lo, hi] with f(x) = target by bisection.
//
// accuracy bounds the bracket width at acceptance; maxEvals caps the number
// of function evaluations, making the search deterministically bounded.
func Solve(f func(float64) (float64, error), target, lo, hi, accuracy float64, maxEvals int) (float64, error) {
	if !(lo < hi) {
		return 0, fmt.Errorf("%w: bad bracket [%g, %g]", ErrSolver, lo, hi)
	}
	if accuracy <= 0 {
		return 0, fmt.Errorf("%w: accuracy must be positive", ErrSolver)
	}
	if maxEvals < 2 {
		return 0, fmt.Errorf("%w: maxEvals %d too small", ErrSolver, maxEvals)
	}

	evals := 0
	eval := func(x float64) (float64, error) {
		evals++
		y, err := f(x)
		if err != nil {
			return 0, err
		}
		return y - target, nil
	}

	fLo, err := eval(lo)
	if err != nil {
		return 0, err
	}
	if math.Abs(fLo) < accuracy {
		return lo, nil
	}
	fHi, err := eval(hi)
	if err != nil {
		return 0, err
	}
	if math.Abs(fHi) < accuracy {
		return hi, nil
	}
	if fLo*fHi > 0 {
		return 0, fmt.Errorf("%w: root not bracketed by [%g, %g]", ErrSolver, lo, hi)
	}

	for evals < maxEvals {
		mid := 0.5 * (lo + hi)
		fMid, err := eval(mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(fMid) < accuracy || hi-lo < accuracy {
			return mid, nil
		}
		if fLo*fMid <= 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, fmt.Errorf("%w: no convergence after %d evaluations", ErrSolver, evals)
}
