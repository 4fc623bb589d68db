// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package param provides the public API for quantum function parameters.
//
// Arguments passed to a QNode may be scalars, slices, or nested structures
// of numbers. During circuit construction each leaf number is replaced by a
// symbolic placeholder carrying its index into the flattened argument list;
// quantum functions receive these placeholders as Arg values and pass them
// to gate helpers as operands.
//
// Example:
//
//	func circuit(q *circuit.Builder, args []param.Arg) []*circuit.Observable {
//	    q.RX(args[0], 0)
//	    q.RY(args[1].At(0), 0) // array argument, first entry
//	    return []*circuit.Observable{q.PauliZ(0)}
//	}
package param

import "github.com/quanta-ml/quanta/internal/param"

// Value is a symbolic gate operand: a literal constant, a free parameter
// reference, or a list of such.
type Value = param.Value

// Literal is a constant operand.
type Literal = param.Literal

// Ref is a free parameter occurrence with a linear scale factor.
type Ref = param.Ref

// List is an array-valued operand.
type List = param.List

// Arg mirrors one call argument: a scalar leaf or a nested list.
type Arg = param.Arg

// Flatten extracts every leaf number from the call arguments in
// left-to-right, depth-first order.
func Flatten(args []any) ([]float64, error) {
	return param.Flatten(args)
}

// Placeholders builds the symbolic mirror of args using the same depth-first
// numbering as Flatten.
func Placeholders(args []any) ([]Arg, error) {
	return param.Placeholders(args)
}

// Signature returns the shape signature of the call arguments; structurally
// identical calls share a signature.
func Signature(args []any) (string, error) {
	return param.Signature(args)
}
