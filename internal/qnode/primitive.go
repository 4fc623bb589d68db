package qnode

import (
	"context"
	"fmt"
)

// The QNode participates in a host automatic-differentiation graph as a
// custom-gradient node: the forward pass evaluates the circuit on the
// device, and the backward pass routes through the gradient engine instead
// of tracing into the simulator. The method set below satisfies
// autodiff.Primitive.

// Forward evaluates the circuit treating each input as one scalar argument.
func (q *QNode) Forward(ctx context.Context, inputs []float64) ([]float64, error) {
	return q.EvaluateContext(ctx, scalarArgs(inputs)...)
}

// VJP computes the vector-Jacobian product cotangent^T * J using the
// per-parameter gradient methods decided at construction.
func (q *QNode) VJP(ctx context.Context, inputs, cotangents []float64) ([]float64, error) {
	jac, err := q.JacobianContext(ctx, scalarArgs(inputs))
	if err != nil {
		return nil, err
	}
	if len(jac) != len(cotangents) {
		return nil, fmt.Errorf("cotangent has %d entries, circuit returns %d expectation values", len(cotangents), len(jac))
	}
	grads := make([]float64, len(inputs))
	for r, row := range jac {
		for c, dv := range row {
			grads[c] += cotangents[r] * dv
		}
	}
	return grads, nil
}

func scalarArgs(inputs []float64) []any {
	args := make([]any, len(inputs))
	for i, x := range inputs {
		args[i] = x
	}
	return args
}
