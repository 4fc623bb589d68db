package qubit

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/quanta-ml/quanta/internal/device"
)

const tol = 1e-10

func gate(name string, wires []int, params ...float64) device.Instruction {
	vals := make([]device.Value, len(params))
	for i, p := range params {
		vals[i] = device.Scalar(p)
	}
	return device.Instruction{Name: name, Wires: wires, Params: vals}
}

func measure(name string, wire int) device.Instruction {
	return device.Instruction{Name: name, Wires: []int{wire}}
}

func execute(t *testing.T, d *Device, ops []device.Instruction, obs []device.Instruction) []float64 {
	t.Helper()
	out, err := d.Execute(context.Background(), ops, obs)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return out
}

func TestExecute_GroundState(t *testing.T) {
	d := New(1)
	out := execute(t, d, nil, []device.Instruction{measure("PauliZ", 0)})
	if math.Abs(out[0]-1) > tol {
		t.Errorf("<Z> on |0> = %v, want 1", out[0])
	}
}

func TestExecute_SingleQubitExpectations(t *testing.T) {
	theta := 0.543
	tests := []struct {
		name string
		ops  []device.Instruction
		obs  device.Instruction
		want float64
	}{
		{"RX rotates Z", []device.Instruction{gate("RX", []int{0}, theta)}, measure("PauliZ", 0), math.Cos(theta)},
		{"RX tilts Y", []device.Instruction{gate("RX", []int{0}, theta)}, measure("PauliY", 0), -math.Sin(theta)},
		{"RY rotates Z", []device.Instruction{gate("RY", []int{0}, theta)}, measure("PauliZ", 0), math.Cos(theta)},
		{"RY tilts X", []device.Instruction{gate("RY", []int{0}, theta)}, measure("PauliX", 0), math.Sin(theta)},
		{"Hadamard aligns X", []device.Instruction{gate("Hadamard", []int{0})}, measure("PauliX", 0), 1},
		{"Hadamard kills Z", []device.Instruction{gate("Hadamard", []int{0})}, measure("PauliZ", 0), 0},
		{"PauliX flips", []device.Instruction{gate("PauliX", []int{0})}, measure("PauliZ", 0), -1},
		{"RZ leaves Z", []device.Instruction{gate("RZ", []int{0}, theta)}, measure("PauliZ", 0), 1},
		{
			"PhaseShift rotates equator",
			[]device.Instruction{gate("Hadamard", []int{0}), gate("PhaseShift", []int{0}, theta)},
			measure("PauliX", 0),
			math.Cos(theta),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(1)
			out := execute(t, d, tt.ops, []device.Instruction{tt.obs})
			if math.Abs(out[0]-tt.want) > tol {
				t.Errorf("expectation = %v, want %v", out[0], tt.want)
			}
		})
	}
}

func TestExecute_RotMatchesRZRYRZ(t *testing.T) {
	a, b, c := 0.4, -0.3, 1.2
	composed := []device.Instruction{
		gate("Hadamard", []int{0}),
		gate("RZ", []int{0}, a),
		gate("RY", []int{0}, b),
		gate("RZ", []int{0}, c),
	}
	fused := []device.Instruction{
		gate("Hadamard", []int{0}),
		gate("Rot", []int{0}, a, b, c),
	}
	obs := []device.Instruction{measure("PauliX", 0)}

	d := New(1)
	want := execute(t, d, composed, obs)
	got := execute(t, d, fused, obs)
	if math.Abs(got[0]-want[0]) > tol {
		t.Errorf("Rot = %v, composition = %v", got[0], want[0])
	}
}

func TestExecute_CNOTEntangles(t *testing.T) {
	d := New(2)
	ops := []device.Instruction{
		gate("PauliX", []int{0}),
		gate("CNOT", []int{0, 1}),
	}
	out := execute(t, d, ops, []device.Instruction{measure("PauliZ", 0), measure("PauliZ", 1)})
	if math.Abs(out[0]+1) > tol || math.Abs(out[1]+1) > tol {
		t.Errorf("CNOT on |10> gave <Z> = %v, want [-1 -1]", out)
	}
}

func TestExecute_CNOTControlIsFirstWire(t *testing.T) {
	d := New(2)
	// Control on wire 1 is still |0>, so the target must not flip.
	ops := []device.Instruction{
		gate("PauliX", []int{0}),
		gate("CNOT", []int{1, 0}),
	}
	out := execute(t, d, ops, []device.Instruction{measure("PauliZ", 0), measure("PauliZ", 1)})
	if math.Abs(out[0]+1) > tol || math.Abs(out[1]-1) > tol {
		t.Errorf("<Z> = %v, want [-1 1]", out)
	}
}

func TestExecute_SWAP(t *testing.T) {
	d := New(2)
	ops := []device.Instruction{
		gate("PauliX", []int{0}),
		gate("SWAP", []int{0, 1}),
	}
	out := execute(t, d, ops, []device.Instruction{measure("PauliZ", 0), measure("PauliZ", 1)})
	if math.Abs(out[0]-1) > tol || math.Abs(out[1]+1) > tol {
		t.Errorf("SWAP moved |10> to <Z> = %v, want [1 -1]", out)
	}
}

func TestExecute_QubitStateVector(t *testing.T) {
	d := New(2)
	// Unnormalized input is normalized by the device.
	prep := device.Instruction{
		Name:   "QubitStateVector",
		Wires:  []int{0, 1},
		Params: []device.Value{device.Vector{1, 0, 1, 1}},
	}
	out := execute(t, d, []device.Instruction{prep},
		[]device.Instruction{measure("PauliZ", 0), measure("PauliZ", 1)})

	// |psi> = (|00> + |10> + |11>)/sqrt(3): <Z0> = 1/3 - 2/3, <Z1> = same.
	if math.Abs(out[0]+1.0/3) > tol {
		t.Errorf("<Z0> = %v, want -1/3", out[0])
	}
	if math.Abs(out[1]-1.0/3) > tol {
		t.Errorf("<Z1> = %v, want 1/3", out[1])
	}
}

func TestExecute_BasisState(t *testing.T) {
	d := New(3)
	prep := device.Instruction{
		Name:   "BasisState",
		Wires:  []int{0, 1, 2},
		Params: []device.Value{device.Vector{1, 0, 1}},
	}
	out := execute(t, d, []device.Instruction{prep}, []device.Instruction{
		measure("PauliZ", 0), measure("PauliZ", 1), measure("PauliZ", 2),
	})
	want := []float64{-1, 1, -1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > tol {
			t.Errorf("<Z%d> = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestExecute_Hermitian(t *testing.T) {
	d := New(1)
	h := device.Matrix{{1, 1}, {1, -1}}
	obs := device.Instruction{Name: "Hermitian", Wires: []int{0}, Params: []device.Value{h}}

	// On |0> the expectation is the top-left entry.
	out := execute(t, d, nil, []device.Instruction{obs})
	if math.Abs(out[0]-1) > tol {
		t.Errorf("<H> on |0> = %v, want 1", out[0])
	}

	// On |+> the expectation is the mean of all entries.
	out = execute(t, d, []device.Instruction{gate("Hadamard", []int{0})}, []device.Instruction{obs})
	if math.Abs(out[0]-1) > tol {
		t.Errorf("<H> on |+> = %v, want 1", out[0])
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ops     []device.Instruction
		obs     []device.Instruction
		wantSub string
	}{
		{
			"unknown gate",
			[]device.Instruction{gate("Ising", []int{0})},
			nil,
			"not implemented",
		},
		{
			"asymmetric hermitian",
			nil,
			[]device.Instruction{{Name: "Hermitian", Wires: []int{0}, Params: []device.Value{device.Matrix{{1, 2}, {3, 1}}}}},
			"must be symmetric",
		},
		{
			"state vector wrong length",
			[]device.Instruction{{Name: "QubitStateVector", Wires: []int{0}, Params: []device.Value{device.Vector{1, 0, 0, 0}}}},
			nil,
			"amplitudes",
		},
		{
			"basis state non-bit",
			[]device.Instruction{{Name: "BasisState", Wires: []int{0}, Params: []device.Value{device.Vector{2}}}},
			nil,
			"not a bit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(1)
			_, err := d.Execute(context.Background(), tt.ops, tt.obs)
			if err == nil {
				t.Fatal("expected an execution error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	d := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Execute(ctx, nil, []device.Instruction{measure("PauliZ", 0)}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestCapabilities(t *testing.T) {
	caps := New(2).Capabilities()
	if !caps.SupportsOperation("CNOT") || !caps.SupportsObservable("Hermitian") {
		t.Error("declared capabilities incomplete")
	}
	if caps.SupportsOperation("Displacement") {
		t.Error("qubit device claims a CV gate")
	}
	if !caps.ThreadSafe {
		t.Error("fresh-state simulator must be thread safe")
	}
}
