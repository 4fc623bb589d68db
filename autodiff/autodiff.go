// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation for
// scalar host computations surrounding quantum circuits.
//
// A Tape records ordinary arithmetic during the forward pass and computes
// gradients by walking the tape in reverse. QNodes participate through the
// Primitive interface: their backward rule is the circuit's Jacobian as
// computed by the parameter-shift or finite-difference engine, so host-level
// differentiation never traces into the simulator.
//
// Example:
//
//	tape := autodiff.NewTape()
//	x := tape.Input(0.5)
//	out, _ := tape.Call(ctx, qn, x)   // qn is a *qnode.QNode
//	loss := out[0].Sin()
//	_ = tape.Backward(loss)
//	dx := tape.Grad(x)
package autodiff

import "github.com/quanta-ml/quanta/internal/autodiff"

// Tape records operations for reverse-mode differentiation.
type Tape = autodiff.Tape

// Value is a handle to one scalar node on a tape.
type Value = autodiff.Value

// Primitive is an opaque differentiable computation with a custom gradient
// rule; *qnode.QNode satisfies it.
type Primitive = autodiff.Primitive

// NewTape creates an empty gradient tape.
func NewTape() *Tape {
	return autodiff.NewTape()
}
