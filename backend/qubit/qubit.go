// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package qubit provides the reference discrete-variable device: a pure-Go
// state-vector simulator.
//
// Example:
//
//	dev := qubit.New(2)
//	qn := qnode.New(circuitFunc, dev)
package qubit

import (
	internalqubit "github.com/quanta-ml/quanta/internal/backend/qubit"
)

// Device is a state-vector qubit simulator.
type Device = internalqubit.Device

// New creates a qubit simulator with the given register size.
func New(wires int) *Device {
	return internalqubit.New(wires)
}
