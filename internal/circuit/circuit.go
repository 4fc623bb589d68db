// Package circuit turns one run of a user's quantum function into a
// validated operation sequence.
//
// A Builder owned by the construction call records every gate application
// and measurement request as the function executes; there is no global
// mutable queue. The recorded Circuit pairs the operation queue with the
// expectation queue and a reverse index mapping each free parameter to the
// instruction operands it feeds, which the gradient engine consumes.
package circuit

import (
	"github.com/quanta-ml/quanta/internal/ops"
	"github.com/quanta-ml/quanta/internal/param"
)

// Operation is one recorded gate application.
type Operation struct {
	Name   string
	Params []param.Value
	Wires  []int
	// Pos is the position in the shared recording order, spanning both the
	// operation queue and the expectation queue.
	Pos int
}

// Observable is one recorded measurement request. Identity matters: the
// function must return the very observables it recorded.
type Observable struct {
	Name   string
	Params []param.Value
	Wires  []int
	Pos    int
}

// Dep is one occurrence of a free parameter inside an instruction.
type Dep struct {
	// Obs selects the expectation queue; otherwise Idx points into the
	// operation queue.
	Obs  bool
	Idx  int
	Slot int
	// Scale is the linear factor applied to the parameter before it reaches
	// the operand (chain-rule factor for reused parameters).
	Scale float64
}

// Circuit is the recorded program: both queues plus the per-parameter
// reverse index.
type Circuit struct {
	Ops         []*Operation
	Observables []*Observable
	// NumParams is the length of the flattened free-parameter vector.
	NumParams int
	// Deps maps a parameter index to its occurrences in queue order.
	Deps map[int][]Dep
}

// buildDeps walks every instruction operand and records which free
// parameters feed it.
func (c *Circuit) buildDeps() {
	c.Deps = make(map[int][]Dep)
	for i, op := range c.Ops {
		idx := i
		param.Leaves(op.Params, func(slot int, v param.Value) {
			if r, ok := v.(param.Ref); ok {
				c.Deps[r.Index] = append(c.Deps[r.Index], Dep{Idx: idx, Slot: slot, Scale: r.Scale})
			}
		})
	}
	for i, ob := range c.Observables {
		idx := i
		param.Leaves(ob.Params, func(slot int, v param.Value) {
			if r, ok := v.(param.Ref); ok {
				c.Deps[r.Index] = append(c.Deps[r.Index], Dep{Obs: true, Idx: idx, Slot: slot, Scale: r.Scale})
			}
		})
	}
}

// OperationInfo returns the registry record for an operation occurrence.
func (c *Circuit) OperationInfo(d Dep) (ops.Info, bool) {
	if d.Obs {
		return ops.LookupObservable(c.Observables[d.Idx].Name)
	}
	return ops.LookupOperation(c.Ops[d.Idx].Name)
}

// Func is a quantum function. It records gates on the builder and returns
// the observables to measure, in declaration order. The returned observables
// must be exactly the ones recorded through the builder.
type Func func(q *Builder, args []param.Arg) []*Observable

// Record runs fn once against a fresh builder and assembles the circuit.
// Any structural error the builder caught during recording is returned as a
// QuantumFunctionError. The returned observable list is handed back for the
// validator's return-shape checks.
func Record(fn Func, args []param.Arg, numParams int) (*Circuit, []*Observable, error) {
	b := NewBuilder()
	returned := fn(b, args)
	if err := b.Err(); err != nil {
		return nil, nil, err
	}
	c := &Circuit{
		Ops:         b.ops,
		Observables: b.obs,
		NumParams:   numParams,
	}
	c.buildDeps()
	return c, returned, nil
}
