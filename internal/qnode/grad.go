package qnode

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/quanta-ml/quanta/internal/parallel"
)

// defaultStep is the finite-difference step.
const defaultStep = 1e-7

type gradConfig struct {
	which  []int
	method Method
	order  int
	step   float64
}

// GradOption configures a gradient or Jacobian request.
type GradOption func(*gradConfig)

// Wrt restricts differentiation to the given flattened parameter indices.
func Wrt(indices ...int) GradOption {
	return func(c *gradConfig) { c.which = indices }
}

// WithMethod overrides the per-parameter method assignment.
func WithMethod(m Method) GradOption {
	return func(c *gradConfig) { c.method = m }
}

// WithOrder selects the finite-difference order: 1 (forward) or 2 (central).
func WithOrder(order int) GradOption {
	return func(c *gradConfig) { c.order = order }
}

// WithStep overrides the finite-difference step size.
func WithStep(h float64) GradOption {
	return func(c *gradConfig) { c.step = h }
}

// Gradient computes the partial derivatives of a single-expectation circuit
// with respect to the requested parameters, in request order.
func (q *QNode) Gradient(args []any, opts ...GradOption) ([]float64, error) {
	jac, err := q.JacobianContext(context.Background(), args, opts...)
	if err != nil {
		return nil, err
	}
	if len(jac) != 1 {
		return nil, fmt.Errorf("circuit returns %d expectation values; use Jacobian", len(jac))
	}
	return jac[0], nil
}

// Jacobian computes the full Jacobian: one row per measured expectation
// value, one column per requested parameter.
func (q *QNode) Jacobian(args []any, opts ...GradOption) ([][]float64, error) {
	return q.JacobianContext(context.Background(), args, opts...)
}

// JacobianContext is Jacobian with a caller-supplied context. All request
// validation happens before any device call; a validation failure returns
// no partial results.
func (q *QNode) JacobianContext(ctx context.Context, args []any, opts ...GradOption) ([][]float64, error) {
	cfg := gradConfig{method: Best, order: 1, step: defaultStep}
	for _, opt := range opts {
		opt(&cfg)
	}

	p, flat, err := q.construct(args)
	if err != nil {
		return nil, err
	}

	which := cfg.which
	if which == nil {
		which = make([]int, len(flat))
		for i := range which {
			which[i] = i
		}
	}
	plan, err := planMethods(p, flat, which, cfg)
	if err != nil {
		return nil, err
	}

	ctx, span := q.tracer.Start(ctx, "qnode.jacobian", trace.WithAttributes(
		attribute.String("quanta.device", q.dev.Name()),
		attribute.Int("quanta.num_params", len(which)),
	))
	defer span.End()

	// Forward differences share one unshifted evaluation.
	var f0 []float64
	if cfg.order == 1 {
		for _, m := range plan {
			if m == Finite {
				if f0, err = q.run(ctx, p, flat, nil); err != nil {
					span.RecordError(err)
					return nil, err
				}
				break
			}
		}
	}

	// Per-parameter derivative columns are independent; fan them out when
	// the device allows concurrent executions.
	cols := make([][]float64, len(which))
	errs := make([]error, len(which))
	cfgPar := parallel.Sequential()
	if q.dev.Capabilities().ThreadSafe {
		cfgPar = parallel.DefaultConfig()
	}
	parallel.For(len(which), func(i int) {
		k := which[i]
		switch plan[i] {
		case Analytic:
			cols[i], errs[i] = q.analyticColumn(ctx, p, flat, k)
		case Finite:
			cols[i], errs[i] = q.numericColumn(ctx, p, flat, k, cfg, f0)
		default:
			// Parameter feeds nothing; the derivative is identically zero.
			cols[i] = make([]float64, len(p.circ.Observables))
		}
	}, cfgPar)
	if err := multierr.Combine(errs...); err != nil {
		span.RecordError(err)
		return nil, err
	}

	jac := make([][]float64, len(p.circ.Observables))
	for r := range jac {
		jac[r] = make([]float64, len(which))
		for c := range which {
			jac[r][c] = cols[c][r]
		}
	}
	return jac, nil
}

// planMethods validates the request and fixes the effective method per
// requested parameter. A Best entry in the result marks an unused parameter
// whose derivative column is zero.
func planMethods(p *program, flat []float64, which []int, cfg gradConfig) ([]Method, error) {
	switch cfg.method {
	case Best, Analytic, Finite:
	default:
		return nil, fmt.Errorf("Unknown gradient method %q", cfg.method)
	}
	if cfg.order != 1 && cfg.order != 2 {
		return nil, fmt.Errorf("Order must be 1 or 2, got %d", cfg.order)
	}

	seen := make(map[int]struct{}, len(which))
	for _, k := range which {
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("differentiation indices must be unique, got %d twice", k)
		}
		seen[k] = struct{}{}
		if k < 0 || k >= len(flat) {
			return nil, fmt.Errorf("Tried to compute the gradient wrt non-existent parameter %d", k)
		}
	}

	plan := make([]Method, len(which))
	for i, k := range which {
		assigned, used := p.methods[k]
		if used && assigned == NoGrad {
			return nil, fmt.Errorf("Cannot differentiate wrt parameter %d: it feeds an operation with no defined derivative", k)
		}
		if !used {
			plan[i] = Best // zero column
			continue
		}
		switch cfg.method {
		case Analytic:
			if assigned != Analytic {
				return nil, fmt.Errorf("the analytic gradient method cannot be used with parameter %d", k)
			}
			plan[i] = Analytic
		case Finite:
			plan[i] = Finite
		default:
			plan[i] = assigned
		}
	}
	return plan, nil
}

// analyticColumn computes one parameter's derivatives by the shift rule.
// Each occurrence is shifted independently while the others stay fixed; the
// total derivative is the sum over occurrences (chain rule for reuse).
func (q *QNode) analyticColumn(ctx context.Context, p *program, flat []float64, k int) ([]float64, error) {
	col := make([]float64, len(p.circ.Observables))
	for _, d := range p.circ.Deps[k] {
		info, ok := p.circ.OperationInfo(d)
		if !ok {
			return nil, fmt.Errorf("no registry entry for occurrence of parameter %d", k)
		}
		rule := info.RuleFor(d.Slot)

		sh := operandShift{obs: d.Obs, idx: d.Idx, slot: d.Slot, delta: rule.Shift}
		plus, err := q.run(ctx, p, flat, &sh)
		if err != nil {
			return nil, err
		}
		sh.delta = -rule.Shift
		minus, err := q.run(ctx, p, flat, &sh)
		if err != nil {
			return nil, err
		}
		for r := range col {
			col[r] += d.Scale * rule.Coeff * (plus[r] - minus[r])
		}
	}
	return col, nil
}

// numericColumn computes one parameter's derivatives by finite differences
// on the flattened parameter vector.
func (q *QNode) numericColumn(ctx context.Context, p *program, flat []float64, k int, cfg gradConfig, f0 []float64) ([]float64, error) {
	shifted := make([]float64, len(flat))
	copy(shifted, flat)

	if cfg.order == 1 {
		shifted[k] += cfg.step
		fp, err := q.run(ctx, p, shifted, nil)
		if err != nil {
			return nil, err
		}
		col := make([]float64, len(fp))
		for r := range col {
			col[r] = (fp[r] - f0[r]) / cfg.step
		}
		return col, nil
	}

	shifted[k] = flat[k] + cfg.step/2
	fp, err := q.run(ctx, p, shifted, nil)
	if err != nil {
		return nil, err
	}
	shifted[k] = flat[k] - cfg.step/2
	fm, err := q.run(ctx, p, shifted, nil)
	if err != nil {
		return nil, err
	}
	col := make([]float64, len(fp))
	for r := range col {
		col[r] = (fp[r] - fm[r]) / cfg.step
	}
	return col, nil
}
