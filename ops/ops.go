// Copyright 2026 Quanta QML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops exposes the static registry of gate and observable metadata.
//
// The registry is closed: the set of names is fixed at build time. The
// circuit core consults it for parameter counts, domains (discrete vs
// continuous-variable), Gaussian classification, and gradient recipes.
package ops

import "github.com/quanta-ml/quanta/internal/ops"

// Domain classifies an operation as discrete (qubit) or continuous-variable.
type Domain = ops.Domain

// Domains.
const (
	Qubit = ops.Qubit
	CV    = ops.CV
)

// GradKind is the gradient capability of a gate or observable parameter.
type GradKind = ops.GradKind

// Gradient capabilities.
const (
	GradAnalytic = ops.GradAnalytic
	GradFinite   = ops.GradFinite
	GradNone     = ops.GradNone
)

// ShiftRule is one analytic gradient recipe term.
type ShiftRule = ops.ShiftRule

// Info is the registry record for one gate or observable.
type Info = ops.Info

// LookupOperation returns the registry record for a gate name.
func LookupOperation(name string) (Info, bool) {
	return ops.LookupOperation(name)
}

// LookupObservable returns the registry record for an observable name.
func LookupObservable(name string) (Info, bool) {
	return ops.LookupObservable(name)
}

// OperationNames returns the sorted names of all registered gates.
func OperationNames() []string { return ops.OperationNames() }

// ObservableNames returns the sorted names of all registered observables.
func ObservableNames() []string { return ops.ObservableNames() }
