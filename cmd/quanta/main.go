// Package main provides the Quanta QML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/quanta-ml/quanta/internal/ops"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Quanta QML Framework %s\n", version)
			return
		case "ops":
			printRegistry()
			return
		}
	}

	fmt.Println("Quanta QML Framework - Differentiable Quantum Circuits for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  ops        List registered operations and observables")
	fmt.Println("")
	fmt.Println("Coming soon: run, bench")
}

func printRegistry() {
	names := ops.OperationNames()
	fmt.Println("Operations:")
	for _, name := range names {
		info, _ := ops.LookupOperation(name)
		wires := fmt.Sprintf("%d", info.NumWires)
		if info.NumWires == 0 {
			wires = "any"
		}
		fmt.Printf("  %-18s %-10s params=%d wires=%s\n",
			name, info.Domain.String(), info.NumParams, wires)
	}

	names = ops.ObservableNames()
	fmt.Println("\nObservables:")
	for _, name := range names {
		info, _ := ops.LookupObservable(name)
		fmt.Printf("  %-18s %s\n", name, info.Domain.String())
	}
}
