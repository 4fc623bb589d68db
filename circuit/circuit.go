// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package circuit provides the public API for quantum circuit recording.
//
// A quantum function receives a Builder and records gates and measurements
// on it; the returned observables declare the circuit's outputs:
//
//	func bell(q *circuit.Builder, args []param.Arg) []*circuit.Observable {
//	    q.Hadamard(0)
//	    q.CNOT(0, 1)
//	    return []*circuit.Observable{q.PauliZ(0), q.PauliZ(1)}
//	}
package circuit

import "github.com/quanta-ml/quanta/internal/circuit"

// Builder records gate applications and measurement requests for one
// circuit construction.
type Builder = circuit.Builder

// Operation is one recorded gate application.
type Operation = circuit.Operation

// Observable is one recorded measurement request.
type Observable = circuit.Observable

// Circuit is the recorded program: the operation queue, the expectation
// queue, and the per-parameter reverse index.
type Circuit = circuit.Circuit

// Func is a quantum function: it records gates on the builder and returns
// the observables to measure, in declaration order.
type Func = circuit.Func
