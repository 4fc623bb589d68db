// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gaussian provides the reference continuous-variable device: a
// pure-Go Gaussian-state simulator.
//
// The non-Gaussian gate names are constructible (circuits containing them
// can be recorded and analyzed) but refused at execution time.
package gaussian

import (
	internalgaussian "github.com/quanta-ml/quanta/internal/backend/gaussian"
)

// Device is a Gaussian-state simulator.
type Device = internalgaussian.Device

// New creates a Gaussian simulator with the given number of modes.
func New(wires int) *Device {
	return internalgaussian.New(wires)
}
