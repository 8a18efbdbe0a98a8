// Command dataflow runs a forward dataflow analysis over the functions of Go
// source files and prints the facts at the exit of every reachable block.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	gossa "golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/analysis/constprop"
	"github.com/nickng/dataflow/analysis/definedness"
	"github.com/nickng/dataflow/fixpoint"
	"github.com/nickng/dataflow/ident"
	"github.com/nickng/dataflow/internal/logger"
	"github.com/nickng/dataflow/ssa"
	"github.com/nickng/dataflow/ssa/build"
)

const (
	Usage = `dataflow is a tool for running dataflow analyses on Go source code.

Usage:

  dataflow [options] file.go [files.go...]

Options:

`
)

func main() {
	conf, files, err := parseArgs(os.Args[1:], os.Stderr)
	switch {
	case err == flag.ErrHelp:
		os.Exit(0)
	case err == ErrNoFiles:
		fmt.Fprint(os.Stderr, Usage)
		os.Exit(0)
	case err != nil:
		log.Fatal(err)
	}
	setColor(conf.Color, os.Stdout)
	if err := runFiles(os.Stdout, conf, files); err != nil {
		log.Fatal(err)
	}
}

// runFiles builds files and writes the analysis reports to w. The logs are
// flushed and closed before it returns.
func runFiles(w io.Writer, conf *Config, files []string) error {
	bld := build.FromFiles(files).Default().Naive()
	l, closeLog, err := openLog(conf, bld)
	if err != nil {
		return errors.Wrap(err, "cannot create logger")
	}
	defer closeLog()
	defer l.Sync()

	info, err := bld.Build()
	if err != nil {
		l.Errorf("build failed: %v", err)
		return errors.Wrap(err, "build failed")
	}
	fns, err := selectFuncs(info, conf.Funcs)
	if err != nil {
		return err
	}
	tracer := fixpoint.NewLogTracer(l.With("fixpoint").SugaredLogger, conf.Verbosity)
	return analyse(w, conf, fns, tracer, l.With(conf.Analysis))
}

// openLog sets up the analysis and build logs of conf.
// Tracing with no log file given goes to stderr.
func openLog(conf *Config, bld build.Configurer) (*logger.Logger, func(), error) {
	nop := func() {}
	switch {
	case conf.Log == "-" || (conf.Log == "" && conf.Verbosity > 0):
		bld.WithBuildLog(os.Stderr, log.LstdFlags)
		l, err := logger.New()
		return l, nop, err
	case conf.Log == "":
		return logger.Nop(), nop, nil
	}
	// Appending, as the logger opens the file separately.
	f, err := os.OpenFile(conf.Log, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nop, errors.Wrapf(err, "cannot create log %s", conf.Log)
	}
	bld.WithBuildLog(f, log.LstdFlags)
	l, err := logger.NewFile(f.Name())
	if err != nil {
		f.Close()
		return nil, nop, err
	}
	return l, func() { f.Close() }, nil
}

// selectFuncs returns the functions named by paths, or every source
// function of info if there are none.
func selectFuncs(info *ssa.Info, paths []string) ([]*gossa.Function, error) {
	if len(paths) == 0 {
		return info.Funcs(), nil
	}
	fns := make([]*gossa.Function, 0, len(paths))
	for _, path := range paths {
		fn, err := info.FindFunc(path)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// analyse runs the analysis of conf on each of fns and writes the reports
// to w.
func analyse(w io.Writer, conf *Config, fns []*gossa.Function, tracer fixpoint.Tracer, l *logger.Logger) error {
	names := ident.NewInterner()
	for _, fn := range fns {
		l.Debugf("%s: analysing %s", l.Module(), fn.String())
		if conf.ShowSSA {
			if _, err := fn.WriteTo(w); err != nil {
				return err
			}
		}
		r, err := run(conf.Analysis, fn, names, tracer)
		if err != nil {
			return err
		}
		if conf.ShowCFG {
			if err := writeGraph(w, r.Graph); err != nil {
				return err
			}
		}
		if _, err := r.WriteTo(w); err != nil {
			return err
		}
	}
	l.Infof("%s: %d functions, %d variables", l.Module(), len(fns), names.Len())
	return nil
}

func run(analysis string, fn *gossa.Function, names *ident.Interner, tracer fixpoint.Tracer) (*funcReport, error) {
	switch analysis {
	case analysisDefined:
		res, err := definedness.Run(fn, names, tracer)
		if err != nil {
			return nil, err
		}
		return &funcReport{
			Fn:          fn,
			Graph:       res.Graph,
			Reached:     res.Reached(),
			Facts:       res.Facts,
			Evaluations: res.Evaluations,
			PerBlock:    res.PerBlock(),
		}, nil
	case analysisConst:
		res, err := constprop.Run(fn, names, tracer)
		if err != nil {
			return nil, err
		}
		return &funcReport{
			Fn:          fn,
			Graph:       res.Graph,
			Reached:     res.Reached(),
			Facts:       res.Facts,
			Evaluations: res.Evaluations,
			PerBlock:    res.PerBlock(),
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownAnalysis, "%q", analysis)
}
