// Package qnode binds a quantum function to a device and makes the pair
// callable and differentiable.
//
// On the first call with a given argument shape the QNode records the
// function into a circuit, validates it against the device, and classifies
// every free parameter by the gradient method it admits. The constructed
// circuit is cached per shape signature; later calls only re-bind parameter
// values and evaluate on the device.
package qnode

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quanta-ml/quanta/internal/circuit"
	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/param"
)

// Method selects a gradient computation strategy.
type Method int

const (
	// Best uses the per-parameter method decided during construction.
	Best Method = iota
	// Analytic uses the parameter-shift rule.
	Analytic
	// Finite uses finite differences.
	Finite
	// NoGrad marks a parameter that provably cannot be differentiated.
	NoGrad
)

// String returns the short method tag.
func (m Method) String() string {
	switch m {
	case Analytic:
		return "A"
	case Finite:
		return "F"
	case NoGrad:
		return "none"
	default:
		return "best"
	}
}

// program is one constructed circuit plus its analysis, cached per argument
// shape signature.
type program struct {
	circ    *circuit.Circuit
	methods map[int]Method
}

// QNode wraps one quantum function and one device.
type QNode struct {
	fn  circuit.Func
	dev device.Device

	mu    sync.Mutex
	cache map[string]*program

	tracer trace.Tracer
}

// New binds a quantum function to a device. Construction is lazy: the
// circuit is recorded on the first call or on an explicit Construct.
func New(fn circuit.Func, dev device.Device) *QNode {
	return &QNode{
		fn:     fn,
		dev:    dev,
		cache:  make(map[string]*program),
		tracer: otel.Tracer("quanta/qnode"),
	}
}

// Device returns the bound device.
func (q *QNode) Device() device.Device { return q.dev }

// construct returns the cached program for the argument shape, building it
// if needed, together with the flattened parameter values.
func (q *QNode) construct(args []any) (*program, []float64, error) {
	flat, err := param.Flatten(args)
	if err != nil {
		return nil, nil, device.FunctionErrorf("invalid quantum function arguments: %v", err)
	}
	sig, err := param.Signature(args)
	if err != nil {
		return nil, nil, device.FunctionErrorf("invalid quantum function arguments: %v", err)
	}

	q.mu.Lock()
	p, ok := q.cache[sig]
	q.mu.Unlock()
	if ok {
		return p, flat, nil
	}

	placeholders, err := param.Placeholders(args)
	if err != nil {
		return nil, nil, device.FunctionErrorf("invalid quantum function arguments: %v", err)
	}
	circ, returned, err := circuit.Record(q.fn, placeholders, len(flat))
	if err != nil {
		return nil, nil, err
	}
	if err := circuit.Validate(circ, returned, q.dev); err != nil {
		return nil, nil, err
	}
	p = &program{circ: circ, methods: assignMethods(circ)}

	// Concurrent constructions of the same shape build structurally
	// identical programs; the last writer wins.
	q.mu.Lock()
	q.cache[sig] = p
	q.mu.Unlock()
	return p, flat, nil
}

// Construct records, validates, and analyzes the circuit for the given
// argument shape without touching the device.
func (q *QNode) Construct(args ...any) error {
	_, _, err := q.construct(args)
	return err
}

// Methods returns the per-parameter gradient method assignment for the
// given argument shape, constructing the circuit if needed. Parameters that
// feed no operation are absent from the map.
func (q *QNode) Methods(args ...any) (map[int]Method, error) {
	p, _, err := q.construct(args)
	if err != nil {
		return nil, err
	}
	out := make(map[int]Method, len(p.methods))
	for k, v := range p.methods {
		out[k] = v
	}
	return out, nil
}

// Evaluate executes the circuit with the given arguments and returns one
// expectation value per measured observable, in declaration order.
func (q *QNode) Evaluate(args ...any) ([]float64, error) {
	return q.EvaluateContext(context.Background(), args...)
}

// EvaluateContext is Evaluate with a caller-supplied context.
func (q *QNode) EvaluateContext(ctx context.Context, args ...any) ([]float64, error) {
	p, flat, err := q.construct(args)
	if err != nil {
		return nil, err
	}

	ctx, span := q.tracer.Start(ctx, "qnode.evaluate", trace.WithAttributes(
		attribute.String("quanta.device", q.dev.Name()),
		attribute.Int("quanta.num_params", len(flat)),
	))
	defer span.End()

	out, err := q.run(ctx, p, flat, nil)
	if err != nil {
		span.RecordError(err)
	}
	return out, err
}

// run binds the flattened parameter values into the circuit and performs
// one blocking device execution. A non-nil shift displaces a single operand
// occurrence, which is how the parameter-shift rule evaluates the circuit
// at shifted points.
func (q *QNode) run(ctx context.Context, p *program, flat []float64, sh *operandShift) ([]float64, error) {
	opsQ, obsQ, err := bind(p.circ, flat, sh)
	if err != nil {
		return nil, err
	}
	return q.dev.Execute(ctx, opsQ, obsQ)
}
