package build

import (
	"go/ast"
	"go/importer"
	"go/token"
	"go/types"
	"io"
	"io/ioutil"
	"log"

	"github.com/pkg/errors"
	gossa "golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/nickng/dataflow/ssa"
)

// srcParser is a wrapper for source code which can be parsed into files.
type srcParser interface {
	parse(fset *token.FileSet) ([]*ast.File, error)
}

type Configurer interface {
	Builder
	Default() Configurer
	Naive() Configurer
	WithBuildLog(l io.Writer, flags int) Configurer
}

// Config represents a build configuration.
type Config struct {
	mode gossa.BuilderMode // SSA builder mode.

	bldLog    io.Writer // Build log.
	bldLFlags int       // Build log flags.

	src srcParser // src points to the program source.
}

func newConfig(src srcParser) *Config {
	return &Config{
		mode:      gossa.BareInits,
		bldLog:    ioutil.Discard,
		bldLFlags: log.LstdFlags,
		src:       src,
	}
}

// WithBuildLog adds build log to config.
func (c *Config) WithBuildLog(l io.Writer, flags int) Configurer {
	c.bldLog = l
	c.bldLFlags = flags
	return c
}

// Naive builds functions in naive form: local variables are not lifted to
// registers, so every named local is an Alloc accessed by Load and Store.
// The analyses over local variables need this form.
func (c *Config) Naive() Configurer {
	c.mode |= gossa.NaiveForm
	return c
}

func (c *Config) Build() (*ssa.Info, error) {
	bldLog := log.New(c.bldLog, "ssabuild: ", c.bldLFlags)

	fset := token.NewFileSet()
	files, err := c.src.parse(fset)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	name := files[0].Name.Name
	for _, f := range files[1:] {
		if f.Name.Name != name {
			return nil, errors.Errorf("files from different packages: %s and %s", name, f.Name.Name)
		}
	}
	bldLog.Printf("Parsed %d files of package %s", len(files), name)

	// Load, parse and type-check program
	tc := &types.Config{Importer: importer.Default()}
	pkg, _, err := ssautil.BuildPackage(tc, fset, types.NewPackage(name, name), files, c.mode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build package")
	}
	bldLog.Print("Program loaded and type checked")

	return &ssa.Info{
		FSet:   fset,
		Prog:   pkg.Prog,
		Pkgs:   []*gossa.Package{pkg},
		Mode:   c.mode,
		BldLog: c.bldLog,
		Logger: bldLog,
	}, nil
}

// Default returns a default configuration for static analysis.
func (c *Config) Default() Configurer {
	c.mode |= gossa.GlobalDebug
	return c
}
