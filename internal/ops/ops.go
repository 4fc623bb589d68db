// Package ops is the static registry of gate and observable metadata.
//
// The circuit core never hard-codes knowledge about individual gates; it asks
// the registry which domain a gate belongs to, how many parameters and wires
// it takes, whether it is Gaussian, and which gradient recipe applies. The
// tables are closed: the set of names is fixed at build time, and validation
// can match exhaustively over the two domains.
package ops

import (
	"math"
	"slices"
)

// Domain classifies an operation as discrete (qubit) or continuous-variable.
type Domain int

const (
	Qubit Domain = iota
	CV
)

// String returns a readable domain name.
func (d Domain) String() string {
	if d == CV {
		return "continuous"
	}
	return "discrete"
}

// GradKind is the gradient capability of a gate or observable parameter.
type GradKind int

const (
	// GradAnalytic marks parameters differentiable by the parameter-shift rule.
	GradAnalytic GradKind = iota
	// GradFinite marks parameters that only admit finite differences.
	GradFinite
	// GradNone marks parameters with no defined derivative, such as
	// classical data fed to a state preparation.
	GradNone
)

// ShiftRule is one analytic gradient recipe term: the derivative with respect
// to a parameter x is Coeff * (f(x+Shift) - f(x-Shift)).
type ShiftRule struct {
	Coeff float64
	Shift float64
}

// cvShift is the finite shift used by first-order CV recipes. Any value
// works; the rule is exact because first-order CV expectations are polynomial
// in the shifted parameter.
const cvShift = 0.1

// DefaultShift is the two-term rule for standard rotation-like gates,
// (f(x+pi/2) - f(x-pi/2)) / 2.
func DefaultShift() ShiftRule {
	return ShiftRule{Coeff: 0.5, Shift: math.Pi / 2}
}

// Info is the registry record for one gate or observable.
type Info struct {
	Name      string
	Domain    Domain
	NumParams int
	// NumWires is the exact wire count the operation acts on; 0 means the
	// operation addresses a caller-chosen register (state preparations).
	NumWires int
	// Gaussian is meaningful for CV operations only.
	Gaussian bool
	Grad     GradKind
	// Recipe holds one rule per parameter; nil means DefaultShift for every
	// parameter.
	Recipe []ShiftRule
}

// RuleFor returns the shift rule for the given parameter slot.
func (in Info) RuleFor(slot int) ShiftRule {
	if slot < len(in.Recipe) {
		return in.Recipe[slot]
	}
	return DefaultShift()
}

var operations = map[string]Info{
	// Discrete gates.
	"RX":         {Name: "RX", Domain: Qubit, NumParams: 1, NumWires: 1, Grad: GradAnalytic},
	"RY":         {Name: "RY", Domain: Qubit, NumParams: 1, NumWires: 1, Grad: GradAnalytic},
	"RZ":         {Name: "RZ", Domain: Qubit, NumParams: 1, NumWires: 1, Grad: GradAnalytic},
	"Rot":        {Name: "Rot", Domain: Qubit, NumParams: 3, NumWires: 1, Grad: GradAnalytic},
	"PhaseShift": {Name: "PhaseShift", Domain: Qubit, NumParams: 1, NumWires: 1, Grad: GradAnalytic},
	"Hadamard":   {Name: "Hadamard", Domain: Qubit, NumParams: 0, NumWires: 1},
	"PauliX":     {Name: "PauliX", Domain: Qubit, NumParams: 0, NumWires: 1},
	"PauliY":     {Name: "PauliY", Domain: Qubit, NumParams: 0, NumWires: 1},
	"PauliZ":     {Name: "PauliZ", Domain: Qubit, NumParams: 0, NumWires: 1},
	"CNOT":       {Name: "CNOT", Domain: Qubit, NumParams: 0, NumWires: 2},
	"SWAP":       {Name: "SWAP", Domain: Qubit, NumParams: 0, NumWires: 2},

	// State preparations carry classical data with no defined derivative.
	"QubitStateVector": {Name: "QubitStateVector", Domain: Qubit, NumParams: 1, Grad: GradNone},
	"BasisState":       {Name: "BasisState", Domain: Qubit, NumParams: 1, Grad: GradNone},

	// Continuous-variable gates.
	"Displacement": {
		Name: "Displacement", Domain: CV, NumParams: 2, NumWires: 1, Gaussian: true,
		Grad:   GradAnalytic,
		Recipe: []ShiftRule{{Coeff: 0.5 / cvShift, Shift: cvShift}, DefaultShift()},
	},
	"Squeezing": {
		Name: "Squeezing", Domain: CV, NumParams: 2, NumWires: 1, Gaussian: true,
		Grad:   GradAnalytic,
		Recipe: []ShiftRule{{Coeff: 0.5 / math.Sinh(cvShift), Shift: cvShift}, DefaultShift()},
	},
	"Rotation": {
		Name: "Rotation", Domain: CV, NumParams: 1, NumWires: 1, Gaussian: true,
		Grad: GradAnalytic,
	},
	"Beamsplitter": {
		Name: "Beamsplitter", Domain: CV, NumParams: 2, NumWires: 2, Gaussian: true,
		Grad: GradAnalytic,
	},
	"QuadraticPhase": {
		Name: "QuadraticPhase", Domain: CV, NumParams: 1, NumWires: 1, Gaussian: true,
		Grad:   GradAnalytic,
		Recipe: []ShiftRule{{Coeff: 0.5 / cvShift, Shift: cvShift}},
	},
	"Kerr":       {Name: "Kerr", Domain: CV, NumParams: 1, NumWires: 1, Grad: GradFinite},
	"CubicPhase": {Name: "CubicPhase", Domain: CV, NumParams: 1, NumWires: 1, Grad: GradFinite},
}

var observables = map[string]Info{
	"PauliX": {Name: "PauliX", Domain: Qubit, NumParams: 0, NumWires: 1, Grad: GradAnalytic},
	"PauliY": {Name: "PauliY", Domain: Qubit, NumParams: 0, NumWires: 1, Grad: GradAnalytic},
	"PauliZ": {Name: "PauliZ", Domain: Qubit, NumParams: 0, NumWires: 1, Grad: GradAnalytic},
	// Hermitian takes a caller-supplied matrix; a free parameter inside the
	// matrix has no shift rule.
	"Hermitian": {Name: "Hermitian", Domain: Qubit, NumParams: 1, NumWires: 1, Grad: GradFinite},

	"X":          {Name: "X", Domain: CV, NumParams: 0, NumWires: 1, Grad: GradAnalytic},
	"P":          {Name: "P", Domain: CV, NumParams: 0, NumWires: 1, Grad: GradAnalytic},
	"MeanPhoton": {Name: "MeanPhoton", Domain: CV, NumParams: 0, NumWires: 1, Grad: GradFinite},
}

// LookupOperation returns the registry record for a gate name.
func LookupOperation(name string) (Info, bool) {
	in, ok := operations[name]
	return in, ok
}

// LookupObservable returns the registry record for an observable name.
func LookupObservable(name string) (Info, bool) {
	in, ok := observables[name]
	return in, ok
}

// OperationNames returns the sorted names of all registered gates.
func OperationNames() []string {
	return sortedKeys(operations)
}

// ObservableNames returns the sorted names of all registered observables.
func ObservableNames() []string {
	return sortedKeys(observables)
}

func sortedKeys(m map[string]Info) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
