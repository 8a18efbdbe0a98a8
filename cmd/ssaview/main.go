// Command ssaview prints the SSA IR and block graph of Go source code as the
// dataflow analyses see it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	gossa "golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/cfg"
	"github.com/nickng/dataflow/ssa"
	"github.com/nickng/dataflow/ssa/build"
)

const (
	Usage = `ssaview is a tool for printing SSA IR of Go source code.

Usage:

  ssaview [options] file.go [files.go...]

Options:

`
)

var (
	buildlogPath string
	naive        bool
	outPath      string
	viewFunc     string
	showGraph    bool

	out io.Writer
)

func init() {
	flag.BoolVar(&naive, "naive", true, "Build in naive form (locals kept in memory, as analysed)")
	flag.StringVar(&buildlogPath, "log", "", "Specify build log file (use '-' for stdout)")
	flag.StringVar(&outPath, "out", "", "Specify output file (default: stdout)")
	flag.StringVar(&viewFunc, "func", "", `Specify the function to view (format: (import/path).FuncName, default: all)`)
	flag.BoolVar(&showGraph, "cfg", false, "Also print the block graph and loops")
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprint(os.Stderr, Usage)
		flag.PrintDefaults()
		os.Exit(0)
	}

	conf := build.FromFiles(flag.Args()).Default()
	if naive {
		conf = conf.Naive()
	}

	switch buildlogPath {
	case "":
	case "-":
		conf = conf.WithBuildLog(os.Stdout, log.LstdFlags)
	default:
		f, err := os.Create(buildlogPath)
		if err != nil {
			log.Fatalf("Cannot create log %s: %v", buildlogPath, err)
		}
		defer f.Close()
		conf = conf.WithBuildLog(f, log.LstdFlags)
	}

	switch outPath {
	case "":
		out = os.Stdout
	default:
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("Cannot create output file %s: %v", outPath, err)
		}
		defer f.Close()
		out = f
	}

	info, err := conf.Build()
	if err != nil {
		log.Fatal("Cannot build SSA from files:", err)
	}
	if err := view(out, info, viewFunc, showGraph); err != nil {
		log.Fatal("Cannot write SSA:", err)
	}
}

// view writes function path of info, or all functions if path is empty.
func view(w io.Writer, info *ssa.Info, path string, graph bool) error {
	if path == "" {
		if _, err := info.WriteTo(w); err != nil {
			return err
		}
		if graph {
			for _, fn := range info.Funcs() {
				if err := writeGraph(w, fn.String(), fn); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if _, err := info.WriteFunc(w, path); err != nil {
		return err
	}
	if graph {
		fn, err := info.FindFunc(path)
		if err != nil {
			return err
		}
		return writeGraph(w, path, fn)
	}
	return nil
}

func writeGraph(w io.Writer, name string, fn *gossa.Function) error {
	g, err := cfg.FromFunction(fn)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# %s\n%s", name, g); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "reachable %v\nloops %v\n", g.Reachable(), g.Loops())
	return err
}
