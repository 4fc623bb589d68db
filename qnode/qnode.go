// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package qnode provides the public entry point of the framework: a QNode
// binds a quantum function to a device and makes the pair callable and
// differentiable.
//
// Example:
//
//	dev := qubit.New(1)
//	qn := qnode.New(func(q *circuit.Builder, args []param.Arg) []*circuit.Observable {
//	    q.RX(args[0], 0)
//	    return []*circuit.Observable{q.PauliZ(0)}
//	}, dev)
//
//	value, _ := qn.Evaluate(0.5)
//	grad, _ := qn.Gradient([]any{0.5})
package qnode

import (
	"github.com/quanta-ml/quanta/internal/circuit"
	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/qnode"
)

// QNode wraps one quantum function and one device.
type QNode = qnode.QNode

// Method selects a gradient computation strategy.
type Method = qnode.Method

// Gradient methods.
const (
	// Best uses the per-parameter method decided during construction.
	Best = qnode.Best
	// Analytic uses the parameter-shift rule.
	Analytic = qnode.Analytic
	// Finite uses finite differences.
	Finite = qnode.Finite
	// NoGrad marks a parameter that cannot be differentiated.
	NoGrad = qnode.NoGrad
)

// GradOption configures a gradient or Jacobian request.
type GradOption = qnode.GradOption

// New binds a quantum function to a device. Construction is lazy: the
// circuit is recorded and validated on the first call with a new argument
// shape.
func New(fn circuit.Func, dev device.Device) *QNode {
	return qnode.New(fn, dev)
}

// Wrt restricts differentiation to the given flattened parameter indices.
func Wrt(indices ...int) GradOption { return qnode.Wrt(indices...) }

// WithMethod overrides the per-parameter gradient method assignment.
func WithMethod(m Method) GradOption { return qnode.WithMethod(m) }

// WithOrder selects the finite-difference order: 1 (forward) or 2 (central).
func WithOrder(order int) GradOption { return qnode.WithOrder(order) }

// WithStep overrides the finite-difference step size.
func WithStep(h float64) GradOption { return qnode.WithStep(h) }
