package circuit

import (
	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/ops"
	"github.com/quanta-ml/quanta/internal/param"
)

// Builder records gate applications and measurement requests for one
// construction call. It replaces a module-global queue with an explicit
// context: every quantum function receives its own builder, so concurrent
// constructions cannot interleave.
//
// The builder is sticky on errors: the first structural mistake (unknown
// gate, wrong operand count, bad wire list) is kept and surfaced when the
// circuit is assembled, so quantum functions stay free of error plumbing.
type Builder struct {
	ops []*Operation
	obs []*Observable
	pos int
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Err returns the first structural error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = device.FunctionErrorf(format, args...)
	}
}

// toValue normalizes a user-supplied operand.
func (b *Builder) toValue(operand any) (param.Value, bool) {
	switch v := operand.(type) {
	case float64:
		return param.Literal(v), true
	case int:
		return param.Literal(v), true
	case param.Literal:
		return v, true
	case param.Ref:
		return v, true
	case param.List:
		return v, true
	case param.Arg:
		return b.argValue(v)
	case []float64:
		list := make(param.List, len(v))
		for i, x := range v {
			list[i] = param.Literal(x)
		}
		return list, true
	case []any:
		list := make(param.List, len(v))
		for i, e := range v {
			val, ok := b.toValue(e)
			if !ok {
				return nil, false
			}
			list[i] = val
		}
		return list, true
	case [][]any:
		list := make(param.List, len(v))
		for i, row := range v {
			val, ok := b.toValue(row)
			if !ok {
				return nil, false
			}
			list[i] = val
		}
		return list, true
	}
	return nil, false
}

func (b *Builder) argValue(a param.Arg) (param.Value, bool) {
	if !a.IsList() {
		return a.Value(), true
	}
	list := make(param.List, a.Len())
	for i := 0; i < a.Len(); i++ {
		val, ok := b.argValue(a.At(i))
		if !ok {
			return nil, false
		}
		list[i] = val
	}
	return list, true
}

func (b *Builder) normalize(name string, operands []any) ([]param.Value, bool) {
	vals := make([]param.Value, len(operands))
	for i, o := range operands {
		v, ok := b.toValue(o)
		if !ok {
			b.fail("operation %s: unsupported operand type %T", name, o)
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func validWires(wires []int) bool {
	seen := make(map[int]struct{}, len(wires))
	for _, w := range wires {
		if w < 0 {
			return false
		}
		if _, dup := seen[w]; dup {
			return false
		}
		seen[w] = struct{}{}
	}
	return len(wires) > 0
}

// Apply records a gate application. Operands may be numbers, symbolic
// parameter values, or (possibly nested) argument structures.
func (b *Builder) Apply(name string, wires []int, operands ...any) {
	if b.err != nil {
		return
	}
	info, ok := ops.LookupOperation(name)
	if !ok {
		b.fail("unknown operation %s", name)
		return
	}
	if len(operands) != info.NumParams {
		b.fail("operation %s takes %d parameters, got %d", name, info.NumParams, len(operands))
		return
	}
	if !validWires(wires) || (info.NumWires > 0 && len(wires) != info.NumWires) {
		b.fail("operation %s applied to invalid wire list %v", name, wires)
		return
	}
	vals, ok := b.normalize(name, operands)
	if !ok {
		return
	}
	b.ops = append(b.ops, &Operation{Name: name, Params: vals, Wires: wires, Pos: b.pos})
	b.pos++
}

// Expect records a measurement request and returns it. The quantum function
// must return every observable it records, in recording order.
func (b *Builder) Expect(name string, wires []int, operands ...any) *Observable {
	if b.err != nil {
		return nil
	}
	info, ok := ops.LookupObservable(name)
	if !ok {
		b.fail("unknown observable %s", name)
		return nil
	}
	if len(operands) != info.NumParams {
		b.fail("observable %s takes %d parameters, got %d", name, info.NumParams, len(operands))
		return nil
	}
	if !validWires(wires) || (info.NumWires > 0 && len(wires) != info.NumWires) {
		b.fail("observable %s applied to invalid wire list %v", name, wires)
		return nil
	}
	vals, ok := b.normalize(name, operands)
	if !ok {
		return nil
	}
	ob := &Observable{Name: name, Params: vals, Wires: wires, Pos: b.pos}
	b.pos++
	b.obs = append(b.obs, ob)
	return ob
}

// Discrete gate helpers.

// RX applies a rotation about the x axis.
func (b *Builder) RX(theta any, wire int) { b.Apply("RX", []int{wire}, theta) }

// RY applies a rotation about the y axis.
func (b *Builder) RY(theta any, wire int) { b.Apply("RY", []int{wire}, theta) }

// RZ applies a rotation about the z axis.
func (b *Builder) RZ(theta any, wire int) { b.Apply("RZ", []int{wire}, theta) }

// Rot applies the general single-qubit rotation Rz(c)·Ry(b)·Rz(a).
func (b *Builder) Rot(a, bb, c any, wire int) { b.Apply("Rot", []int{wire}, a, bb, c) }

// PhaseShift applies a phase rotation.
func (b *Builder) PhaseShift(phi any, wire int) { b.Apply("PhaseShift", []int{wire}, phi) }

// Hadamard applies the Hadamard gate.
func (b *Builder) Hadamard(wire int) { b.Apply("Hadamard", []int{wire}) }

// CNOT applies a controlled NOT with the given control and target.
func (b *Builder) CNOT(control, target int) { b.Apply("CNOT", []int{control, target}) }

// SWAP exchanges two wires.
func (b *Builder) SWAP(w0, w1 int) { b.Apply("SWAP", []int{w0, w1}) }

// QubitStateVector prepares the register in the given state.
func (b *Builder) QubitStateVector(state any, wires ...int) {
	b.Apply("QubitStateVector", wires, state)
}

// BasisState prepares the register in a computational basis state.
func (b *Builder) BasisState(bits any, wires ...int) {
	b.Apply("BasisState", wires, bits)
}

// Continuous-variable gate helpers.

// Displacement displaces a mode by amplitude r and phase phi.
func (b *Builder) Displacement(r, phi any, wire int) {
	b.Apply("Displacement", []int{wire}, r, phi)
}

// Squeezing squeezes a mode by magnitude r and angle phi.
func (b *Builder) Squeezing(r, phi any, wire int) {
	b.Apply("Squeezing", []int{wire}, r, phi)
}

// Rotation rotates a mode in phase space.
func (b *Builder) Rotation(phi any, wire int) { b.Apply("Rotation", []int{wire}, phi) }

// Beamsplitter couples two modes.
func (b *Builder) Beamsplitter(theta, phi any, w0, w1 int) {
	b.Apply("Beamsplitter", []int{w0, w1}, theta, phi)
}

// QuadraticPhase applies the quadratic phase gate.
func (b *Builder) QuadraticPhase(s any, wire int) { b.Apply("QuadraticPhase", []int{wire}, s) }

// Kerr applies the (non-Gaussian) Kerr interaction.
func (b *Builder) Kerr(kappa any, wire int) { b.Apply("Kerr", []int{wire}, kappa) }

// CubicPhase applies the (non-Gaussian) cubic phase gate.
func (b *Builder) CubicPhase(gamma any, wire int) { b.Apply("CubicPhase", []int{wire}, gamma) }

// Observable helpers.

// PauliX measures the Pauli X expectation on a wire.
func (b *Builder) PauliX(wire int) *Observable { return b.Expect("PauliX", []int{wire}) }

// PauliY measures the Pauli Y expectation on a wire.
func (b *Builder) PauliY(wire int) *Observable { return b.Expect("PauliY", []int{wire}) }

// PauliZ measures the Pauli Z expectation on a wire.
func (b *Builder) PauliZ(wire int) *Observable { return b.Expect("PauliZ", []int{wire}) }

// Hermitian measures an arbitrary Hermitian observable given by a matrix
// whose entries may contain free parameters.
func (b *Builder) Hermitian(matrix [][]any, wire int) *Observable {
	return b.Expect("Hermitian", []int{wire}, matrix)
}

// X measures the position quadrature of a mode.
func (b *Builder) X(wire int) *Observable { return b.Expect("X", []int{wire}) }

// P measures the momentum quadrature of a mode.
func (b *Builder) P(wire int) *Observable { return b.Expect("P", []int{wire}) }

// MeanPhoton measures the mean photon number of a mode.
func (b *Builder) MeanPhoton(wire int) *Observable { return b.Expect("MeanPhoton", []int{wire}) }
