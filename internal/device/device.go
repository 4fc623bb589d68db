// Package device defines the capability interface every quantum backend
// implements, the resolved parameter values passed across it, and the error
// types surfaced at the library boundary.
//
// A device is the numeric authority: the circuit core validates against the
// declared capabilities up front, then delegates every evaluation to
// Execute. Devices receive fully resolved numeric instructions; nothing
// symbolic crosses this boundary.
package device

import (
	"context"
	"fmt"
)

// Value is a resolved instruction parameter. It is a closed variant:
// Scalar, Vector, or Matrix.
type Value interface {
	isValue()
}

// Scalar is a plain numeric parameter.
type Scalar float64

// Vector is an array parameter, e.g. a state vector or basis bit string.
type Vector []float64

// Matrix is a matrix parameter, e.g. a Hermitian observable.
type Matrix [][]float64

func (Scalar) isValue() {}
func (Vector) isValue() {}
func (Matrix) isValue() {}

// Instruction is one gate application or one measurement request, fully
// resolved to numbers.
type Instruction struct {
	Name   string
	Wires  []int
	Params []Value
}

// Capabilities declares what a device can run.
type Capabilities struct {
	Operations  map[string]struct{}
	Observables map[string]struct{}
	// ThreadSafe reports that Execute may be called concurrently. Devices
	// that share mutable state across calls must leave this false; callers
	// then serialize every evaluation.
	ThreadSafe bool
}

// SupportsOperation reports whether the device can apply the named gate.
func (c Capabilities) SupportsOperation(name string) bool {
	_, ok := c.Operations[name]
	return ok
}

// SupportsObservable reports whether the device can measure the named
// observable.
func (c Capabilities) SupportsObservable(name string) bool {
	_, ok := c.Observables[name]
	return ok
}

// Device is the capability interface consumed by the circuit core.
type Device interface {
	// Name identifies the device, e.g. "quanta.qubit".
	Name() string
	// NumWires is the size of the device register. Every wire index in a
	// circuit must be strictly below it.
	NumWires() int
	// Capabilities declares the supported gate and observable names.
	Capabilities() Capabilities
	// Execute applies the operation queue to a fresh state and returns one
	// expectation value per measurement instruction, in order.
	Execute(ctx context.Context, operations []Instruction, observables []Instruction) ([]float64, error)
}

// QuantumFunctionError reports a structurally invalid quantum function:
// wrong return shape, ordering violations, wire conflicts, domain mixing, or
// wire-count overrun. It is always raised during circuit construction.
type QuantumFunctionError struct {
	Msg string
}

func (e *QuantumFunctionError) Error() string { return e.Msg }

// FunctionErrorf builds a QuantumFunctionError from a format string.
func FunctionErrorf(format string, args ...any) *QuantumFunctionError {
	return &QuantumFunctionError{Msg: fmt.Sprintf(format, args...)}
}

// DeviceError reports that a circuit requests a gate or observable the
// device does not declare. It is raised at construction time by consulting
// the capability sets; the device itself remains the execution authority.
type DeviceError struct {
	// Kind is "Gate" or "Observable".
	Kind   string
	Name   string
	Device string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s %s not supported on device %s", e.Kind, e.Name, e.Device)
}
