// Package param models quantum function parameters.
//
// During circuit construction the orchestrator runs the user's quantum
// function once with symbolic placeholders instead of real numbers. Every
// operand a gate receives is a Value: either a Literal (a constant baked into
// the circuit), a Ref (a free parameter identified by its index into the
// flattened argument list, with a linear scale factor), or a List of such
// values (array-valued operands, e.g. a state vector or an observable
// matrix).
//
// Call arguments may be scalars, slices, or arbitrarily nested structures of
// such. Flatten assigns each leaf number a unique index in left-to-right,
// depth-first order; Placeholders builds the mirrored symbolic structure with
// the same numbering. The two are mutual inverses and stable across calls
// with structurally identical arguments.
package param

import (
	"fmt"
	"strings"
)

// Value is an operand of a gate or observable during circuit construction.
// It is a closed variant: Literal, Ref, or List.
type Value interface {
	isValue()
}

// Literal is a constant operand.
type Literal float64

// Ref is a free parameter occurrence: Scale * args[Index].
type Ref struct {
	Index int
	Scale float64
}

// List is an array-valued operand with possibly symbolic entries.
type List []Value

func (Literal) isValue() {}
func (Ref) isValue()     {}
func (List) isValue()    {}

// Mul returns the ref scaled by k. The provenance (Index) is preserved so
// the gradient engine can apply the chain rule for reused parameters.
func (r Ref) Mul(k float64) Ref {
	return Ref{Index: r.Index, Scale: r.Scale * k}
}

// Arg mirrors one call argument: a scalar leaf or a nested list.
type Arg struct {
	leaf  Value
	items []Arg
}

// IsList reports whether the argument is array-valued.
func (a Arg) IsList() bool { return a.items != nil }

// Len returns the number of entries of an array-valued argument.
func (a Arg) Len() int { return len(a.items) }

// At returns the i-th entry of an array-valued argument.
func (a Arg) At(i int) Arg { return a.items[i] }

// Value returns the scalar operand of a leaf argument.
func (a Arg) Value() Value { return a.leaf }

// Mul returns the leaf operand scaled by k. Literals fold; refs keep their
// provenance.
func (a Arg) Mul(k float64) Value {
	switch v := a.leaf.(type) {
	case Literal:
		return Literal(float64(v) * k)
	case Ref:
		return v.Mul(k)
	default:
		return a.leaf
	}
}

// scalarLeaf converts a supported numeric leaf to float64.
func scalarLeaf(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

// walk visits every leaf of args depth-first, left to right.
func walk(args []any, f func(x float64)) error {
	for _, a := range args {
		if err := walkOne(a, f); err != nil {
			return err
		}
	}
	return nil
}

func walkOne(a any, f func(x float64)) error {
	if x, ok := scalarLeaf(a); ok {
		f(x)
		return nil
	}
	switch v := a.(type) {
	case []float64:
		for _, x := range v {
			f(x)
		}
		return nil
	case [][]float64:
		for _, row := range v {
			for _, x := range row {
				f(x)
			}
		}
		return nil
	case []any:
		return walk(v, f)
	}
	return fmt.Errorf("unsupported argument type %T", a)
}

// Flatten extracts every leaf number from the call arguments in
// left-to-right, depth-first order.
func Flatten(args []any) ([]float64, error) {
	var flat []float64
	if err := walk(args, func(x float64) { flat = append(flat, x) }); err != nil {
		return nil, err
	}
	return flat, nil
}

// Placeholders builds the symbolic mirror of args: leaf i becomes
// Ref{Index: i, Scale: 1}, using the same depth-first numbering as Flatten.
func Placeholders(args []any) ([]Arg, error) {
	next := 0
	out := make([]Arg, len(args))
	for i, a := range args {
		arg, err := placeholderOne(a, &next)
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return out, nil
}

func placeholderOne(a any, next *int) (Arg, error) {
	if _, ok := scalarLeaf(a); ok {
		r := Ref{Index: *next, Scale: 1}
		*next++
		return Arg{leaf: r}, nil
	}
	switch v := a.(type) {
	case []float64:
		items := make([]Arg, len(v))
		for i := range v {
			items[i] = Arg{leaf: Ref{Index: *next, Scale: 1}}
			*next++
		}
		return Arg{items: items}, nil
	case [][]float64:
		items := make([]Arg, len(v))
		for i, row := range v {
			inner := make([]Arg, len(row))
			for j := range row {
				inner[j] = Arg{leaf: Ref{Index: *next, Scale: 1}}
				*next++
			}
			items[i] = Arg{items: inner}
		}
		return Arg{items: items}, nil
	case []any:
		items := make([]Arg, len(v))
		for i, e := range v {
			arg, err := placeholderOne(e, next)
			if err != nil {
				return Arg{}, err
			}
			items[i] = arg
		}
		return Arg{items: items}, nil
	}
	return Arg{}, fmt.Errorf("unsupported argument type %T", a)
}

// Signature returns the shape signature of the call arguments. Two calls
// share a signature exactly when their arguments have identical structure,
// so the signature doubles as the circuit cache key.
func Signature(args []any) (string, error) {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(';')
		}
		if err := signatureOne(a, &sb); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func signatureOne(a any, sb *strings.Builder) error {
	if _, ok := scalarLeaf(a); ok {
		sb.WriteByte('f')
		return nil
	}
	switch v := a.(type) {
	case []float64:
		fmt.Fprintf(sb, "[%d]", len(v))
		return nil
	case [][]float64:
		sb.WriteByte('[')
		for i, row := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "[%d]", len(row))
		}
		sb.WriteByte(']')
		return nil
	case []any:
		sb.WriteByte('(')
		for i, e := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := signatureOne(e, sb); err != nil {
				return err
			}
		}
		sb.WriteByte(')')
		return nil
	}
	return fmt.Errorf("unsupported argument type %T", a)
}

// Leaves enumerates the leaves of an instruction's operand list depth-first,
// calling f with the running slot number and the leaf value. The slot
// numbering is what the gradient engine uses to address a single occurrence
// of a free parameter when shifting it, so binding and dependency analysis
// must enumerate identically; both go through this function.
func Leaves(vals []Value, f func(slot int, v Value)) {
	slot := 0
	for _, v := range vals {
		leavesOne(v, &slot, f)
	}
}

func leavesOne(v Value, slot *int, f func(slot int, v Value)) {
	switch x := v.(type) {
	case List:
		for _, e := range x {
			leavesOne(e, slot, f)
		}
	default:
		f(*slot, x)
		*slot++
	}
}
