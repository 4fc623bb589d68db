package qnode

import (
	"github.com/pkg/errors"

	"github.com/quanta-ml/quanta/internal/circuit"
	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/param"
)

// operandShift displaces one operand occurrence after binding. The slot
// numbering matches param.Leaves, so the analytic engine can shift exactly
// one occurrence of a fanned-out parameter while holding the others fixed.
type operandShift struct {
	obs   bool
	idx   int
	slot  int
	delta float64
}

// bind resolves the circuit's symbolic operands against the flattened
// parameter vector and produces the numeric instruction queues.
func bind(c *circuit.Circuit, flat []float64, sh *operandShift) ([]device.Instruction, []device.Instruction, error) {
	opsQ := make([]device.Instruction, len(c.Ops))
	for i, op := range c.Ops {
		var s *operandShift
		if sh != nil && !sh.obs && sh.idx == i {
			s = sh
		}
		params, err := resolveParams(op.Params, flat, s)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "binding %s", op.Name)
		}
		opsQ[i] = device.Instruction{Name: op.Name, Wires: op.Wires, Params: params}
	}
	obsQ := make([]device.Instruction, len(c.Observables))
	for i, ob := range c.Observables {
		var s *operandShift
		if sh != nil && sh.obs && sh.idx == i {
			s = sh
		}
		params, err := resolveParams(ob.Params, flat, s)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "binding %s", ob.Name)
		}
		obsQ[i] = device.Instruction{Name: ob.Name, Wires: ob.Wires, Params: params}
	}
	return opsQ, obsQ, nil
}

// resolveParams resolves one instruction's operand list. Leaf slots are
// numbered exactly as param.Leaves numbers them.
func resolveParams(vals []param.Value, flat []float64, sh *operandShift) ([]device.Value, error) {
	slot := 0
	out := make([]device.Value, len(vals))
	for i, v := range vals {
		r, err := resolveValue(v, flat, sh, &slot)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func resolveLeaf(v param.Value, flat []float64, sh *operandShift, slot *int) (float64, error) {
	var x float64
	switch leaf := v.(type) {
	case param.Literal:
		x = float64(leaf)
	case param.Ref:
		if leaf.Index < 0 || leaf.Index >= len(flat) {
			return 0, errors.Errorf("parameter index %d out of range", leaf.Index)
		}
		x = leaf.Scale * flat[leaf.Index]
	default:
		return 0, errors.Errorf("nested list where a number was expected")
	}
	if sh != nil && *slot == sh.slot {
		x += sh.delta
	}
	*slot++
	return x, nil
}

func resolveValue(v param.Value, flat []float64, sh *operandShift, slot *int) (device.Value, error) {
	list, ok := v.(param.List)
	if !ok {
		x, err := resolveLeaf(v, flat, sh, slot)
		return device.Scalar(x), err
	}
	if len(list) == 0 {
		return device.Vector(nil), nil
	}
	if _, nested := list[0].(param.List); nested {
		m := make(device.Matrix, len(list))
		for i, row := range list {
			inner, ok := row.(param.List)
			if !ok {
				return nil, errors.New("ragged matrix operand")
			}
			m[i] = make([]float64, len(inner))
			for j, e := range inner {
				x, err := resolveLeaf(e, flat, sh, slot)
				if err != nil {
					return nil, err
				}
				m[i][j] = x
			}
		}
		return m, nil
	}
	vec := make(device.Vector, len(list))
	for i, e := range list {
		x, err := resolveLeaf(e, flat, sh, slot)
		if err != nil {
			return nil, err
		}
		vec[i] = x
	}
	return vec, nil
}
