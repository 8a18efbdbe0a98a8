// Package ssa is a library to build and work with SSA.
// For most part the package contains helper or wrapper functions to use the
// packages in Go project's extra tools.
//
// In particular, the SSA IR is from golang.org/x/tools/go/ssa, and the
// control-flow graphs the dataflow engine runs on are built from its
// functions.
//
package ssa

import (
	"go/token"
	"io"
	"log"

	"golang.org/x/tools/go/ssa"
)

// Info holds the results of a SSA build for analysis.
// To populate this structure, the 'build' subpackage should be used.
//
type Info struct {
	FSet *token.FileSet  // FileSet for parsed source files.
	Prog *ssa.Program    // SSA IR for whole program.
	Pkgs []*ssa.Package  // Packages built from the source files.
	Mode ssa.BuilderMode // Mode the packages were built with.

	BldLog io.Writer   // Build log.
	Logger *log.Logger // Build logger.
}

// built returns true if pkg was built from the source files.
func (info *Info) built(pkg *ssa.Package) bool {
	for _, p := range info.Pkgs {
		if p == pkg {
			return true
		}
	}
	return false
}
