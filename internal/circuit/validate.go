package circuit

import (
	"go.uber.org/multierr"

	"github.com/quanta-ml/quanta/internal/device"
	"github.com/quanta-ml/quanta/internal/ops"
)

// Validate enforces the structural legality of a recorded circuit against
// the target device. Every violation is reported as a QuantumFunctionError
// naming the broken rule, except capability violations, which surface as
// DeviceErrors. Validation runs once per construction, before any device
// call.
func Validate(c *Circuit, returned []*Observable, dev device.Device) error {
	if err := checkReturned(c, returned); err != nil {
		return err
	}
	if err := checkOrdering(c); err != nil {
		return err
	}
	if err := checkMeasuredOnce(c); err != nil {
		return err
	}
	if err := checkWireRange(c, dev); err != nil {
		return err
	}
	if err := checkDomains(c); err != nil {
		return err
	}
	return checkCapabilities(c, dev)
}

// checkReturned verifies the function returned exactly the observables it
// recorded, in recording order.
func checkReturned(c *Circuit, returned []*Observable) error {
	if len(returned) == 0 {
		return device.FunctionErrorf("a quantum function must return either a single expectation value or a nonempty tuple of expectation values")
	}
	for _, ob := range returned {
		if ob == nil {
			return device.FunctionErrorf("a quantum function must return either a single expectation value or a nonempty tuple of expectation values")
		}
	}
	if len(returned) != len(c.Observables) {
		return device.FunctionErrorf("all measured expectation values must be returned in the order they are measured")
	}
	for i, ob := range returned {
		if c.Observables[i] != ob {
			return device.FunctionErrorf("all measured expectation values must be returned in the order they are measured")
		}
	}
	return nil
}

// checkOrdering verifies no gate was recorded after the first measurement.
func checkOrdering(c *Circuit) error {
	if len(c.Observables) == 0 {
		return nil
	}
	first := c.Observables[0].Pos
	for _, op := range c.Ops {
		if op.Pos > first {
			return device.FunctionErrorf("gates must precede measured expectation values: %s recorded after a measurement", op.Name)
		}
	}
	return nil
}

// checkMeasuredOnce verifies no wire is targeted by two measurements.
func checkMeasuredOnce(c *Circuit) error {
	seen := make(map[int]string)
	for _, ob := range c.Observables {
		for _, w := range ob.Wires {
			if prev, dup := seen[w]; dup {
				return device.FunctionErrorf("each wire can only be measured once: wire %d measured by both %s and %s", w, prev, ob.Name)
			}
			seen[w] = ob.Name
		}
	}
	return nil
}

// checkWireRange verifies every referenced wire exists on the device.
func checkWireRange(c *Circuit, dev device.Device) error {
	n := dev.NumWires()
	check := func(name string, wires []int) error {
		for _, w := range wires {
			if w >= n {
				return device.FunctionErrorf("%s applied to wire %d: device only has %d wires", name, w, n)
			}
		}
		return nil
	}
	for _, op := range c.Ops {
		if err := check(op.Name, op.Wires); err != nil {
			return err
		}
	}
	for _, ob := range c.Observables {
		if err := check(ob.Name, ob.Wires); err != nil {
			return err
		}
	}
	return nil
}

// checkDomains verifies the circuit does not mix continuous-variable and
// discrete instructions.
func checkDomains(c *Circuit) error {
	var (
		domain ops.Domain
		named  string
	)
	note := func(in ops.Info) error {
		if named == "" {
			domain, named = in.Domain, in.Name
			return nil
		}
		if in.Domain != domain {
			return device.FunctionErrorf("Continuous and discrete operations are not allowed in the same quantum circuit (%s is %s, %s is %s)",
				named, domain, in.Name, in.Domain)
		}
		return nil
	}
	for _, op := range c.Ops {
		if in, ok := ops.LookupOperation(op.Name); ok {
			if err := note(in); err != nil {
				return err
			}
		}
	}
	for _, ob := range c.Observables {
		if in, ok := ops.LookupObservable(ob.Name); ok {
			if err := note(in); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkCapabilities verifies every instruction name against the device's
// declared sets. All unsupported names are reported together.
func checkCapabilities(c *Circuit, dev device.Device) error {
	caps := dev.Capabilities()
	var err error
	for _, op := range c.Ops {
		if !caps.SupportsOperation(op.Name) {
			err = multierr.Append(err, &device.DeviceError{Kind: "Gate", Name: op.Name, Device: dev.Name()})
		}
	}
	for _, ob := range c.Observables {
		if !caps.SupportsObservable(ob.Name) {
			err = multierr.Append(err, &device.DeviceError{Kind: "Observable", Name: ob.Name, Device: dev.Name()})
		}
	}
	return err
}
