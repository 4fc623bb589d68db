package circuit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/param"
)

// fakeDevice declares capabilities without being able to execute anything;
// validation never calls Execute.
type fakeDevice struct {
	name  string
	wires int
	ops   []string
	obs   []string
}

func (d *fakeDevice) Name() string  { return d.name }
func (d *fakeDevice) NumWires() int { return d.wires }

func (d *fakeDevice) Capabilities() device.Capabilities {
	caps := device.Capabilities{
		Operations:  make(map[string]struct{}),
		Observables: make(map[string]struct{}),
	}
	for _, n := range d.ops {
		caps.Operations[n] = struct{}{}
	}
	for _, n := range d.obs {
		caps.Observables[n] = struct{}{}
	}
	return caps
}

func (d *fakeDevice) Execute(ctx context.Context, operations, observables []device.Instruction) ([]float64, error) {
	return nil, errors.New("fake device cannot execute")
}

func qubitFake() *fakeDevice {
	return &fakeDevice{
		name:  "fake.qubit",
		wires: 2,
		ops:   []string{"RX", "RY", "RZ", "Rot", "Hadamard", "CNOT", "SWAP"},
		obs:   []string{"PauliX", "PauliY", "PauliZ"},
	}
}

func validateFunc(t *testing.T, fn Func, dev device.Device, args ...any) error {
	t.Helper()
	phs, err := param.Placeholders(args)
	if err != nil {
		t.Fatalf("Placeholders: %v", err)
	}
	flat, err := param.Flatten(args)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	c, returned, err := Record(fn, phs, len(flat))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	return Validate(c, returned, dev)
}

func TestValidate_OK(t *testing.T) {
	err := validateFunc(t, func(q *Builder, args []param.Arg) []*Observable {
		q.RX(args[0], 0)
		q.CNOT(0, 1)
		return []*Observable{q.PauliZ(0), q.PauliZ(1)}
	}, qubitFake(), 0.5)
	if err != nil {
		t.Fatalf("valid circuit rejected: %v", err)
	}
}

func TestValidate_FunctionErrors(t *testing.T) {
	tests := []struct {
		name    string
		fn      Func
		wantSub string
	}{
		{
			"no return",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], 0)
				q.PauliZ(0)
				return nil
			},
			"must return either a single expectation value or a nonempty tuple",
		},
		{
			"partial return",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], 0)
				q.PauliZ(0)
				return []*Observable{q.PauliZ(1)}
			},
			"must be returned in the order they are measured",
		},
		{
			"shuffled return",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], 0)
				a := q.PauliZ(0)
				b := q.PauliZ(1)
				return []*Observable{b, a}
			},
			"must be returned in the order they are measured",
		},
		{
			"gate after measurement",
			func(q *Builder, args []param.Arg) []*Observable {
				ob := q.PauliZ(0)
				q.RX(args[0], 0)
				return []*Observable{ob}
			},
			"gates must precede measured expectation values",
		},
		{
			"wire measured twice",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], 0)
				return []*Observable{q.PauliZ(0), q.PauliX(0)}
			},
			"each wire can only be measured once",
		},
		{
			"wire out of range",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], 4)
				return []*Observable{q.PauliZ(4)}
			},
			"device only has 2 wires",
		},
		{
			"mixed domains",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], 0)
				q.Displacement(args[0], 0.0, 1)
				return []*Observable{q.PauliZ(0)}
			},
			"Continuous and discrete operations are not allowed in the same quantum circuit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFunc(t, tt.fn, qubitFake(), 0.5)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var qfe *device.QuantumFunctionError
			if !errors.As(err, &qfe) {
				t.Fatalf("error type %T, want QuantumFunctionError", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate_Capabilities(t *testing.T) {
	err := validateFunc(t, func(q *Builder, args []param.Arg) []*Observable {
		q.RX(args[0], 0)
		q.PhaseShift(args[0], 0) // not declared by the fake
		return []*Observable{q.Hermitian([][]any{{1.0, 0.0}, {0.0, -1.0}}, 0)}
	}, qubitFake(), 0.5)
	if err == nil {
		t.Fatal("expected capability errors")
	}

	var devErr *device.DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("error type %T, want DeviceError", err)
	}

	// Both violations surface in one aggregate.
	all := multierr.Errors(err)
	if len(all) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(all), err)
	}
	if !strings.Contains(err.Error(), "Gate PhaseShift not supported on device fake.qubit") {
		t.Errorf("missing gate error: %v", err)
	}
	if !strings.Contains(err.Error(), "Observable Hermitian not supported on device fake.qubit") {
		t.Errorf("missing observable error: %v", err)
	}
}
