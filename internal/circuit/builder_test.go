package circuit

import (
	"errors"
	"strings"
	"testing"

	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/param"
)

func record(t *testing.T, fn Func, args ...any) (*Circuit, []*Observable, error) {
	t.Helper()
	phs, err := param.Placeholders(args)
	if err != nil {
		t.Fatalf("Placeholders: %v", err)
	}
	flat, err := param.Flatten(args)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	return Record(fn, phs, len(flat))
}

func TestRecord(t *testing.T) {
	c, returned, err := record(t, func(q *Builder, args []param.Arg) []*Observable {
		q.RX(args[0], 0)
		q.CNOT(0, 1)
		return []*Observable{q.PauliZ(0), q.PauliZ(1)}
	}, 0.5)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(c.Ops) != 2 {
		t.Fatalf("recorded %d operations, want 2", len(c.Ops))
	}
	if c.Ops[0].Name != "RX" || c.Ops[1].Name != "CNOT" {
		t.Errorf("operation queue = %s, %s", c.Ops[0].Name, c.Ops[1].Name)
	}
	if len(returned) != 2 || returned[0] != c.Observables[0] {
		t.Error("returned observables do not match the recorded queue")
	}
	// Ordering positions span both queues.
	if !(c.Ops[0].Pos < c.Ops[1].Pos && c.Ops[1].Pos < c.Observables[0].Pos) {
		t.Error("recording positions out of order")
	}
}

func TestRecord_DepIndex(t *testing.T) {
	c, _, err := record(t, func(q *Builder, args []param.Arg) []*Observable {
		q.RX(args[0], 0)
		q.Rot(args[1], args[0], args[0].Mul(2), 0)
		return []*Observable{q.PauliZ(0)}
	}, 0.5, 0.3)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Parameter 0 appears three times: RX slot 0, Rot slots 1 and 2.
	deps := c.Deps[0]
	if len(deps) != 3 {
		t.Fatalf("parameter 0 has %d occurrences, want 3", len(deps))
	}
	if deps[0].Idx != 0 || deps[0].Slot != 0 || deps[0].Scale != 1 {
		t.Errorf("occurrence 0 = %+v", deps[0])
	}
	if deps[1].Idx != 1 || deps[1].Slot != 1 || deps[1].Scale != 1 {
		t.Errorf("occurrence 1 = %+v", deps[1])
	}
	if deps[2].Idx != 1 || deps[2].Slot != 2 || deps[2].Scale != 2 {
		t.Errorf("occurrence 2 = %+v", deps[2])
	}

	if len(c.Deps[1]) != 1 || c.Deps[1][0].Slot != 0 {
		t.Errorf("parameter 1 deps = %+v", c.Deps[1])
	}
}

func TestRecord_ObservableDeps(t *testing.T) {
	c, _, err := record(t, func(q *Builder, args []param.Arg) []*Observable {
		q.RX(args[0], 0)
		return []*Observable{q.Hermitian([][]any{
			{args[1].Value(), 0.0},
			{0.0, 1.0},
		}, 0)}
	}, 0.5, 0.3)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	deps := c.Deps[1]
	if len(deps) != 1 || !deps[0].Obs || deps[0].Idx != 0 || deps[0].Slot != 0 {
		t.Errorf("matrix parameter deps = %+v", deps)
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fn      Func
		wantSub string
	}{
		{
			"unknown operation",
			func(q *Builder, args []param.Arg) []*Observable {
				q.Apply("Toffoli", []int{0, 1, 2})
				return []*Observable{q.PauliZ(0)}
			},
			"unknown operation Toffoli",
		},
		{
			"wrong parameter count",
			func(q *Builder, args []param.Arg) []*Observable {
				q.Apply("RX", []int{0})
				return []*Observable{q.PauliZ(0)}
			},
			"takes 1 parameters, got 0",
		},
		{
			"duplicate wires",
			func(q *Builder, args []param.Arg) []*Observable {
				q.Apply("CNOT", []int{0, 0})
				return []*Observable{q.PauliZ(0)}
			},
			"invalid wire list",
		},
		{
			"negative wire",
			func(q *Builder, args []param.Arg) []*Observable {
				q.RX(args[0], -1)
				return []*Observable{q.PauliZ(0)}
			},
			"invalid wire list",
		},
		{
			"wrong wire count",
			func(q *Builder, args []param.Arg) []*Observable {
				q.Apply("CNOT", []int{0})
				return []*Observable{q.PauliZ(0)}
			},
			"invalid wire list",
		},
		{
			"unsupported operand",
			func(q *Builder, args []param.Arg) []*Observable {
				q.Apply("RX", []int{0}, "angle")
				return []*Observable{q.PauliZ(0)}
			},
			"unsupported operand type",
		},
		{
			"unknown observable",
			func(q *Builder, args []param.Arg) []*Observable {
				return []*Observable{q.Expect("Energy", []int{0})}
			},
			"unknown observable Energy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := record(t, tt.fn, 0.5)
			if err == nil {
				t.Fatal("expected a recording error")
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

func TestBuilder_StickyError(t *testing.T) {
	_, _, err := record(t, func(q *Builder, args []param.Arg) []*Observable {
		q.Apply("Toffoli", []int{0, 1, 2}) // first error is kept
		q.Apply("Bogus", []int{0})
		q.RX(args[0], 0)
		return []*Observable{q.PauliZ(0)}
	}, 0.5)
	if err == nil || !strings.Contains(err.Error(), "Toffoli") {
		t.Fatalf("err = %v, want the first recorded error", err)
	}
}
