// Package gaussian implements the reference continuous-variable device: a
// Gaussian-state simulator tracking quadrature means and covariances.
//
// States live in the (x, p) quadrature representation with the hbar = 2
// convention, so the vacuum covariance is the identity. Gates act as
// symplectic maps on the means vector and covariance matrix.
//
// The device declares the non-Gaussian gate names (Kerr, CubicPhase) in its
// capabilities so circuits containing them can be constructed and analyzed,
// but refuses them at execution time: a Gaussian simulator cannot propagate
// a state through them. The device is the execution authority.
package gaussian

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/quanta-ml/quanta/internal/device"
)

// hbar fixes the quadrature scale; vacuum variance is hbar/2 = 1.
const hbar = 2.0

// Device is a Gaussian-state simulator.
type Device struct {
	wires int
}

// New creates a Gaussian simulator with the given number of modes.
func New(wires int) *Device {
	return &Device{wires: wires}
}

// Name identifies the device.
func (d *Device) Name() string { return "quanta.gaussian" }

// NumWires returns the number of modes.
func (d *Device) NumWires() int { return d.wires }

// Capabilities declares the supported gate and observable names. The
// non-Gaussian gates are constructible but not executable.
func (d *Device) Capabilities() device.Capabilities {
	return device.Capabilities{
		Operations: set(
			"Displacement", "Squeezing", "Rotation", "Beamsplitter",
			"QuadraticPhase", "Kerr", "CubicPhase",
		),
		Observables: set("X", "P", "MeanPhoton"),
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

// state is the Gaussian state: means indexed (x_0, p_0, x_1, p_1, ...) and
// the matching covariance matrix.
type state struct {
	means []float64
	cov   [][]float64
}

func vacuum(wires int) *state {
	n := 2 * wires
	s := &state{
		means: make([]float64, n),
		cov:   make([][]float64, n),
	}
	for i := range s.cov {
		s.cov[i] = make([]float64, n)
		s.cov[i][i] = hbar / 2
	}
	return s
}

// Execute applies the operation queue to the vacuum and returns one
// expectation value per observable instruction.
func (d *Device) Execute(ctx context.Context, operations, observables []device.Instruction) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := vacuum(d.wires)

	for _, op := range operations {
		if err := d.apply(s, op); err != nil {
			return nil, errors.Wrapf(err, "applying %s", op.Name)
		}
	}

	results := make([]float64, len(observables))
	for i, ob := range observables {
		v, err := d.expectation(s, ob)
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

func (d *Device) apply(s *state, op device.Instruction) error {
	switch op.Name {
	case "Displacement":
		r, err := scalar(op, 0)
		if err != nil {
			return err
		}
		phi, err := scalar(op, 1)
		if err != nil {
			return err
		}
		w := op.Wires[0]
		s.means[2*w] += math.Sqrt(2*hbar) * r * math.Cos(phi)
		s.means[2*w+1] += math.Sqrt(2*hbar) * r * math.Sin(phi)
		return nil
	case "Rotation":
		phi, err := scalar(op, 0)
		if err != nil {
			return err
		}
		c, sn := math.Cos(phi), math.Sin(phi)
		return s.symplectic(op.Wires, [][]float64{{c, -sn}, {sn, c}})
	case "Squeezing":
		r, err := scalar(op, 0)
		if err != nil {
			return err
		}
		phi, err := scalar(op, 1)
		if err != nil {
			return err
		}
		ch, sh := math.Cosh(r), math.Sinh(r)
		c, sn := math.Cos(phi), math.Sin(phi)
		m := [][]float64{
			{ch - sh*c, -sh * sn},
			{-sh * sn, ch + sh*c},
		}
		return s.symplectic(op.Wires, m)
	case "QuadraticPhase":
		sp, err := scalar(op, 0)
		if err != nil {
			return err
		}
		return s.symplectic(op.Wires, [][]float64{{1, 0}, {sp, 1}})
	case "Beamsplitter":
		theta, err := scalar(op, 0)
		if err != nil {
			return err
		}
		phi, err := scalar(op, 1)
		if err != nil {
			return err
		}
		ct, st := math.Cos(theta), math.Sin(theta)
		cp, sp := math.Cos(phi), math.Sin(phi)
		m := [][]float64{
			{ct, 0, -st * cp, -st * sp},
			{0, ct, st * sp, -st * cp},
			{st * cp, -st * sp, ct, 0},
			{st * sp, st * cp, 0, ct},
		}
		return s.symplectic(op.Wires, m)
	case "Kerr", "CubicPhase":
		return errors.Errorf("non-Gaussian gate %s cannot be executed on a Gaussian simulator", op.Name)
	}
	return errors.Errorf("gate %s not implemented", op.Name)
}

// symplectic applies a transform given in per-mode quadrature block order
// (x_a, p_a[, x_b, p_b]) to the state.
func (s *state) symplectic(wires []int, m [][]float64) error {
	if len(m) != 2*len(wires) {
		return errors.Errorf("symplectic block is %dx%d for %d wires", len(m), len(m), len(wires))
	}
	idx := make([]int, 0, 2*len(wires))
	for _, w := range wires {
		idx = append(idx, 2*w, 2*w+1)
	}

	// means' = M means
	old := make([]float64, len(idx))
	for i, gi := range idx {
		old[i] = s.means[gi]
	}
	for i, gi := range idx {
		var sum float64
		for j := range idx {
			sum += m[i][j] * old[j]
		}
		s.means[gi] = sum
	}

	// cov' = M cov M^T, applied on the touched rows/columns.
	n := len(s.cov)
	tmp := make([][]float64, len(idx))
	for i := range tmp {
		tmp[i] = make([]float64, n)
		for c := 0; c < n; c++ {
			var sum float64
			for j, gj := range idx {
				sum += m[i][j] * s.cov[gj][c]
			}
			tmp[i][c] = sum
		}
	}
	for i, gi := range idx {
		copy(s.cov[gi], tmp[i])
	}
	for i := range tmp {
		for r := 0; r < n; r++ {
			var sum float64
			for j, gj := range idx {
				sum += s.cov[r][gj] * m[i][j]
			}
			tmp[i][r] = sum
		}
	}
	for i, gi := range idx {
		for r := 0; r < n; r++ {
			s.cov[r][gi] = tmp[i][r]
		}
	}
	return nil
}

func (d *Device) expectation(s *state, ob device.Instruction) (float64, error) {
	w := ob.Wires[0]
	switch ob.Name {
	case "X":
		return s.means[2*w], nil
	case "P":
		return s.means[2*w+1], nil
	case "MeanPhoton":
		x, p := s.means[2*w], s.means[2*w+1]
		vx, vp := s.cov[2*w][2*w], s.cov[2*w+1][2*w+1]
		return (vx+vp+x*x+p*p)/(2*hbar) - 0.5, nil
	}
	return 0, errors.Errorf("observable %s not implemented", ob.Name)
}
