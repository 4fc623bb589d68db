// Package autodiff implements reverse-mode automatic differentiation over
// scalar graphs using a gradient tape.
//
// The tape records every operation during the forward pass; Backward walks
// the tape in reverse, applying the chain rule and accumulating gradients
// when a value is used more than once. Opaque computations with their own
// gradient rule participate through the Primitive interface: the tape calls
// their VJP during the backward pass instead of tracing inside them. This is
// how a QNode joins a host differentiation graph without the host tracing
// into the quantum simulator.
package autodiff

import (
	"context"
	"fmt"
	"math"
)

// Primitive is an opaque differentiable computation with a custom gradient
// rule.
type Primitive interface {
	// Forward evaluates the computation.
	Forward(ctx context.Context, inputs []float64) ([]float64, error)
	// VJP returns the vector-Jacobian product of the cotangents with the
	// computation's Jacobian at the given inputs.
	VJP(ctx context.Context, inputs, cotangents []float64) ([]float64, error)
}

// Value is a handle to one scalar node on a tape.
type Value struct {
	tape *Tape
	node int
}

// Float returns the node's forward value.
func (v Value) Float() float64 {
	return v.tape.values[v.node]
}

// operation is one recorded tape entry: the nodes it read, the nodes it
// wrote, and its backward rule.
type operation struct {
	inputs  []int
	outputs []int
	// vjp maps the outputs' cotangents to the inputs' cotangents.
	vjp func(cotangents []float64) ([]float64, error)
}

// Tape records operations during the forward pass and computes gradients
// during the backward pass.
type Tape struct {
	values []float64
	inputs []int
	ops    []operation
	adj    []float64
}

// NewTape creates an empty gradient tape.
func NewTape() *Tape {
	return &Tape{}
}

func (t *Tape) alloc(x float64) int {
	t.values = append(t.values, x)
	return len(t.values) - 1
}

// Input registers a differentiable input value.
func (t *Tape) Input(x float64) Value {
	n := t.alloc(x)
	t.inputs = append(t.inputs, n)
	return Value{tape: t, node: n}
}

// Const registers a constant; no gradient flows into it.
func (t *Tape) Const(x float64) Value {
	return Value{tape: t, node: t.alloc(x)}
}

func (t *Tape) record(inputs []int, outputs []int, vjp func([]float64) ([]float64, error)) {
	t.ops = append(t.ops, operation{inputs: inputs, outputs: outputs, vjp: vjp})
}

// unary records y = f(x) with derivative df.
func (t *Tape) unary(x Value, f func(float64) float64, df func(float64) float64) Value {
	xv := t.values[x.node]
	out := t.alloc(f(xv))
	t.record([]int{x.node}, []int{out}, func(cot []float64) ([]float64, error) {
		return []float64{cot[0] * df(xv)}, nil
	})
	return Value{tape: t, node: out}
}

// binary records y = f(a, b) with partial derivatives da and db.
func (t *Tape) binary(a, b Value, f func(x, y float64) float64, da, db func(x, y float64) float64) Value {
	av, bv := t.values[a.node], t.values[b.node]
	out := t.alloc(f(av, bv))
	t.record([]int{a.node, b.node}, []int{out}, func(cot []float64) ([]float64, error) {
		return []float64{cot[0] * da(av, bv), cot[0] * db(av, bv)}, nil
	})
	return Value{tape: t, node: out}
}

// Add returns a + b.
func (v Value) Add(o Value) Value {
	return v.tape.binary(v, o,
		func(x, y float64) float64 { return x + y },
		func(x, y float64) float64 { return 1 },
		func(x, y float64) float64 { return 1 })
}

// Sub returns a - b.
func (v Value) Sub(o Value) Value {
	return v.tape.binary(v, o,
		func(x, y float64) float64 { return x - y },
		func(x, y float64) float64 { return 1 },
		func(x, y float64) float64 { return -1 })
}

// Mul returns a * b.
func (v Value) Mul(o Value) Value {
	return v.tape.binary(v, o,
		func(x, y float64) float64 { return x * y },
		func(x, y float64) float64 { return y },
		func(x, y float64) float64 { return x })
}

// Div returns a / b.
func (v Value) Div(o Value) Value {
	return v.tape.binary(v, o,
		func(x, y float64) float64 { return x / y },
		func(x, y float64) float64 { return 1 / y },
		func(x, y float64) float64 { return -x / (y * y) })
}

// Neg returns -a.
func (v Value) Neg() Value {
	return v.tape.unary(v,
		func(x float64) float64 { return -x },
		func(x float64) float64 { return -1 })
}

// Sin returns sin(a).
func (v Value) Sin() Value {
	return v.tape.unary(v, math.Sin, math.Cos)
}

// Cos returns cos(a).
func (v Value) Cos() Value {
	return v.tape.unary(v, math.Cos, func(x float64) float64 { return -math.Sin(x) })
}

// Exp returns exp(a).
func (v Value) Exp() Value {
	return v.tape.unary(v, math.Exp, math.Exp)
}

// Scale returns k * a for a plain constant k.
func (v Value) Scale(k float64) Value {
	return v.tape.unary(v,
		func(x float64) float64 { return k * x },
		func(float64) float64 { return k })
}

// Call runs a Primitive on the tape. The forward pass executes immediately;
// the backward pass consults the primitive's VJP.
func (t *Tape) Call(ctx context.Context, p Primitive, inputs ...Value) ([]Value, error) {
	in := make([]float64, len(inputs))
	nodes := make([]int, len(inputs))
	for i, v := range inputs {
		in[i] = t.values[v.node]
		nodes[i] = v.node
	}
	out, err := p.Forward(ctx, in)
	if err != nil {
		return nil, err
	}
	outs := make([]Value, len(out))
	outNodes := make([]int, len(out))
	for i, x := range out {
		n := t.alloc(x)
		outs[i] = Value{tape: t, node: n}
		outNodes[i] = n
	}
	t.record(nodes, outNodes, func(cot []float64) ([]float64, error) {
		return p.VJP(ctx, in, cot)
	})
	return outs, nil
}

// Backward seeds the output with cotangent 1 and walks the tape in reverse,
// accumulating gradients into every node. Use Grad afterwards to read the
// gradient of any input.
func (t *Tape) Backward(out Value) error {
	if out.tape != t {
		return fmt.Errorf("output value belongs to a different tape")
	}
	t.adj = make([]float64, len(t.values))
	t.adj[out.node] = 1

	for i := len(t.ops) - 1; i >= 0; i-- {
		op := t.ops[i]
		cot := make([]float64, len(op.outputs))
		flows := false
		for j, n := range op.outputs {
			cot[j] = t.adj[n]
			if cot[j] != 0 {
				flows = true
			}
		}
		if !flows {
			continue
		}
		grads, err := op.vjp(cot)
		if err != nil {
			return err
		}
		for j, n := range op.inputs {
			t.adj[n] += grads[j]
		}
	}
	return nil
}

// Grad returns the accumulated gradient of a value after Backward.
func (t *Tape) Grad(v Value) float64 {
	if t.adj == nil || v.node >= len(t.adj) {
		return 0
	}
	return t.adj[v.node]
}
