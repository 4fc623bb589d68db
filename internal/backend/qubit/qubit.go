// Package qubit implements the reference discrete-variable device: a pure-Go
// state-vector simulator.
//
// The simulator allocates a fresh state per Execute call, so the device is
// safe for concurrent evaluations and declares itself thread-safe.
//
// Conventions: wire 0 is the most significant bit of the computational basis
// index, RX(theta) = cos(theta/2) I - i sin(theta/2) X, and
// Rot(a, b, c) = RZ(c) RY(b) RZ(a).
package qubit

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"github.com/quanta-ml/quanta/internal/device"
)

type matrix2 [2][2]complex128

// Device is a state-vector qubit simulator.
type Device struct {
	wires int
}

// New creates a qubit simulator with the given register size.
func New(wires int) *Device {
	return &Device{wires: wires}
}

// Name identifies the device.
func (d *Device) Name() string { return "quanta.qubit" }

// NumWires returns the register size.
func (d *Device) NumWires() int { return d.wires }

// Capabilities declares the supported gate and observable names.
func (d *Device) Capabilities() device.Capabilities {
	return device.Capabilities{
		Operations: set(
			"RX", "RY", "RZ", "Rot", "PhaseShift", "Hadamard",
			"PauliX", "PauliY", "PauliZ", "CNOT", "SWAP",
			"QubitStateVector", "BasisState",
		),
		Observables: set("PauliX", "PauliY", "PauliZ", "Hermitian"),
		ThreadSafe:  true,
	}
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Execute applies the operation queue to |0...0> and returns one expectation
// value per observable instruction.
func (d *Device) Execute(ctx context.Context, operations, observables []device.Instruction) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := make([]complex128, 1<<d.wires)
	state[0] = 1

	for _, op := range operations {
		if err := d.apply(state, op); err != nil {
			return nil, errors.Wrapf(err, "applying %s", op.Name)
		}
	}

	results := make([]float64, len(observables))
	for i, ob := range observables {
		v, err := d.expectation(state, ob)
		if err != nil {
			return nil, errors.Wrapf(err, "measuring %s", ob.Name)
		}
		results[i] = v
	}
	return results, nil
}

func scalar(inst device.Instruction, i int) (float64, error) {
	if i >= len(inst.Params) {
		return 0, errors.Errorf("missing parameter %d", i)
	}
	s, ok := inst.Params[i].(device.Scalar)
	if !ok {
		return 0, errors.Errorf("parameter %d is not a scalar", i)
	}
	return float64(s), nil
}

func (d *Device) apply(state []complex128, op device.Instruction) error {
	switch op.Name {
	case "RX", "RY", "RZ", "PhaseShift":
		theta, err := scalar(op, 0)
		if err != nil {
			return err
		}
		return d.applySingle(state, rotation(op.Name, theta), op.Wires)
	case "Rot":
		a, err := scalar(op, 0)
		if err != nil {
			return err
		}
		b, err := scalar(op, 1)
		if err != nil {
			return err
		}
		c, err := scalar(op, 2)
		if err != nil {
			return err
		}
		m := matmul(rotation("RZ", c), matmul(rotation("RY", b), rotation("RZ", a)))
		return d.applySingle(state, m, op.Wires)
	case "Hadamard":
		s := complex(1/math.Sqrt2, 0)
		return d.applySingle(state, matrix2{{s, s}, {s, -s}}, op.Wires)
	case "PauliX":
		return d.applySingle(state, matrix2{{0, 1}, {1, 0}}, op.Wires)
	case "PauliY":
		return d.applySingle(state, matrix2{{0, -1i}, {1i, 0}}, op.Wires)
	case "PauliZ":
		return d.applySingle(state, matrix2{{1, 0}, {0, -1}}, op.Wires)
	case "CNOT":
		return d.applyCNOT(state, op.Wires)
	case "SWAP":
		return d.applySWAP(state, op.Wires)
	case "QubitStateVector":
		return d.prepareState(state, op)
	case "BasisState":
		return d.prepareBasis(state, op)
	}
	return errors.Errorf("gate %s not implemented", op.Name)
}

func rotation(name string, theta float64) matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	switch name {
	case "RX":
		return matrix2{{c, -1i * s}, {-1i * s, c}}
	case "RY":
		return matrix2{{c, -s}, {s, c}}
	case "RZ":
		return matrix2{{cmplx.Exp(complex(0, -theta / 2)), 0}, {0, cmplx.Exp(complex(0, theta / 2))}}
	default: // PhaseShift
		return matrix2{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}
	}
}

func matmul(a, b matrix2) matrix2 {
	var out matrix2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j]
		}
	}
	return out
}

// bitmask returns the state-index mask of a wire: wire 0 is the most
// significant bit.
func (d *Device) bitmask(wire int) int {
	return 1 << (d.wires - 1 - wire)
}

func (d *Device) applySingle(state []complex128, m matrix2, wires []int) error {
	if len(wires) != 1 {
		return errors.Errorf("single-qubit gate on %d wires", len(wires))
	}
	mask := d.bitmask(wires[0])
	for i := range state {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a, b := state[i], state[j]
		state[i] = m[0][0]*a + m[0][1]*b
		state[j] = m[1][0]*a + m[1][1]*b
	}
	return nil
}

func (d *Device) applyCNOT(state []complex128, wires []int) error {
	if len(wires) != 2 {
		return errors.Errorf("CNOT needs 2 wires, got %d", len(wires))
	}
	cmask, tmask := d.bitmask(wires[0]), d.bitmask(wires[1])
	for i := range state {
		if i&cmask != 0 && i&tmask == 0 {
			j := i | tmask
			state[i], state[j] = state[j], state[i]
		}
	}
	return nil
}

func (d *Device) applySWAP(state []complex128, wires []int) error {
	if len(wires) != 2 {
		return errors.Errorf("SWAP needs 2 wires, got %d", len(wires))
	}
	m0, m1 := d.bitmask(wires[0]), d.bitmask(wires[1])
	for i := range state {
		if i&m0 != 0 && i&m1 == 0 {
			j := (i &^ m0) | m1
			state[i], state[j] = state[j], state[i]
		}
	}
	return nil
}

func (d *Device) prepareState(state []complex128, op device.Instruction) error {
	vec, ok := op.Params[0].(device.Vector)
	if !ok {
		return errors.New("QubitStateVector takes a state vector parameter")
	}
	if err := d.fullRegister(op.Wires); err != nil {
		return err
	}
	if len(vec) != len(state) {
		return errors.Errorf("state vector has %d amplitudes, register needs %d", len(vec), len(state))
	}
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm == 0 {
		return errors.New("state vector has zero norm")
	}
	norm = math.Sqrt(norm)
	for i, x := range vec {
		state[i] = complex(x/norm, 0)
	}
	return nil
}

func (d *Device) prepareBasis(state []complex128, op device.Instruction) error {
	bits, ok := op.Params[0].(device.Vector)
	if !ok {
		return errors.New("BasisState takes a bit string parameter")
	}
	if err := d.fullRegister(op.Wires); err != nil {
		return err
	}
	if len(bits) != d.wires {
		return errors.Errorf("basis state has %d bits, register needs %d", len(bits), d.wires)
	}
	idx := 0
	for w, b := range bits {
		switch b {
		case 0:
		case 1:
			idx |= d.bitmask(w)
		default:
			return errors.Errorf("basis state entry %d is not a bit: %v", w, b)
		}
	}
	for i := range state {
		state[i] = 0
	}
	state[idx] = 1
	return nil
}

// fullRegister requires the wire list to address the whole register in
// ascending order; state preparations on sub-registers are not supported.
func (d *Device) fullRegister(wires []int) error {
	if len(wires) != d.wires {
		return errors.Errorf("state preparation must address the full register of %d wires", d.wires)
	}
	for i, w := range wires {
		if w != i {
			return errors.New("state preparation wires must be 0..n-1 in order")
		}
	}
	return nil
}

func (d *Device) expectation(state []complex128, ob device.Instruction) (float64, error) {
	var m matrix2
	switch ob.Name {
	case "PauliX":
		m = matrix2{{0, 1}, {1, 0}}
	case "PauliY":
		m = matrix2{{0, -1i}, {1i, 0}}
	case "PauliZ":
		m = matrix2{{1, 0}, {0, -1}}
	case "Hermitian":
		h, ok := ob.Params[0].(device.Matrix)
		if !ok {
			return 0, errors.New("Hermitian takes a matrix parameter")
		}
		if len(h) != 2 || len(h[0]) != 2 || len(h[1]) != 2 {
			return 0, errors.New("Hermitian supports 2x2 single-wire matrices")
		}
		if h[0][1] != h[1][0] {
			return 0, errors.New("Hermitian matrix must be symmetric")
		}
		m = matrix2{
			{complex(h[0][0], 0), complex(h[0][1], 0)},
			{complex(h[1][0], 0), complex(h[1][1], 0)},
		}
	default:
		return 0, errors.Errorf("observable %s not implemented", ob.Name)
	}
	if len(ob.Wires) != 1 {
		return 0, errors.Errorf("single-qubit observable on %d wires", len(ob.Wires))
	}

	mask := d.bitmask(ob.Wires[0])
	var ev complex128
	for i := range state {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a, b := state[i], state[j]
		ev += cmplx.Conj(a)*(m[0][0]*a+m[0][1]*b) + cmplx.Conj(b)*(m[1][0]*a+m[1][1]*b)
	}
	return real(ev), nil
}
