// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device defines the interface quantum backends implement and the
// error types surfaced at the library boundary.
//
// Implementations:
//   - backend/qubit: pure-Go state-vector qubit simulator
//   - backend/gaussian: pure-Go Gaussian continuous-variable simulator
//
// Any type satisfying Device can be bound to a QNode, including adapters
// for remote hardware.
package device

import "github.com/quanta-ml/quanta/internal/device"

// Device is the capability interface consumed by the circuit core.
type Device = device.Device

// Capabilities declares what a device can run.
type Capabilities = device.Capabilities

// Instruction is one fully resolved gate application or measurement.
type Instruction = device.Instruction

// Value is a resolved instruction parameter: Scalar, Vector, or Matrix.
type Value = device.Value

// Scalar is a plain numeric parameter.
type Scalar = device.Scalar

// Vector is an array parameter.
type Vector = device.Vector

// Matrix is a matrix parameter.
type Matrix = device.Matrix

// QuantumFunctionError reports a structurally invalid quantum function,
// raised during circuit construction.
type QuantumFunctionError = device.QuantumFunctionError

// DeviceError reports a gate or observable the device does not support.
type DeviceError = device.DeviceError
