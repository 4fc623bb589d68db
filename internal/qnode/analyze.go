package qnode

import (
	"github.com/quanta-ml/quanta/internal/circuit"
	"github.com/quanta-ml/quanta/internal/ops"
)

// assignMethods classifies every free parameter by the gradient method it
// admits. The classification is conservative: analytic is assigned only
// when the parameter-shift rule is provably exact for every occurrence;
// falling back to finite differences is never a correctness bug.
func assignMethods(c *circuit.Circuit) map[int]Method {
	methods := make(map[int]Method)
	for k := 0; k < c.NumParams; k++ {
		deps := c.Deps[k]
		if len(deps) == 0 {
			continue
		}
		methods[k] = classify(c, deps)
	}
	return methods
}

func classify(c *circuit.Circuit, deps []circuit.Dep) Method {
	best := Analytic
	for _, d := range deps {
		m := classifyOccurrence(c, d)
		if m == NoGrad {
			return NoGrad
		}
		if m == Finite {
			best = Finite
		}
	}
	return best
}

func classifyOccurrence(c *circuit.Circuit, d circuit.Dep) Method {
	info, ok := c.OperationInfo(d)
	if !ok {
		// Unknown to the registry; only finite differences can be trusted.
		return Finite
	}
	if info.Grad == ops.GradNone {
		return NoGrad
	}
	if d.Obs || info.Domain != ops.CV {
		return kindMethod(info.Grad)
	}
	// CV gate: the shift rule stays exact only while the parameter's
	// influence never crosses a non-Gaussian transformation on its way to a
	// measured observable, and the observable itself is first order in the
	// quadratures.
	if info.Grad != ops.GradAnalytic || !info.Gaussian {
		return Finite
	}
	if cvTainted(c, d.Idx) {
		return Finite
	}
	return Analytic
}

func kindMethod(k ops.GradKind) Method {
	switch k {
	case ops.GradAnalytic:
		return Analytic
	case ops.GradFinite:
		return Finite
	default:
		return NoGrad
	}
}

// cvTainted reports whether the shift rule stops being exact somewhere
// downstream of the given operation: a non-Gaussian gate applied to a wire
// its influence has reached, or an influenced wire measured through an
// observable without an exact first-order rule (second-order observables
// such as the mean photon number read covariances, which the first-order
// recipes do not track). Wire coupling is propagated conservatively: an
// operation touching an influenced wire extends the influence to every wire
// it touches, regardless of arity.
func cvTainted(c *circuit.Circuit, opIdx int) bool {
	influenced := make(map[int]struct{})
	for _, w := range c.Ops[opIdx].Wires {
		influenced[w] = struct{}{}
	}
	for _, op := range c.Ops[opIdx+1:] {
		if !touches(influenced, op.Wires) {
			continue
		}
		for _, w := range op.Wires {
			influenced[w] = struct{}{}
		}
		if info, ok := ops.LookupOperation(op.Name); ok && !info.Gaussian {
			return true
		}
	}
	for _, ob := range c.Observables {
		if !touches(influenced, ob.Wires) {
			continue
		}
		info, ok := ops.LookupObservable(ob.Name)
		if !ok || info.Grad != ops.GradAnalytic {
			return true
		}
	}
	return false
}

func touches(influenced map[int]struct{}, wires []int) bool {
	for _, w := range wires {
		if _, ok := influenced[w]; ok {
			return true
		}
	}
	return false
}
