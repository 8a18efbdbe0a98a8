package build

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/ioutil"
	"log"

	"github.com/pkg/errors"

	"github.com/nickng/dataflow/ssa"
)

// ErrNoFiles is returned when building without any source file.
var ErrNoFiles = errors.New("no source files")

// Builder builds SSA IR and metainfo.
type Builder interface {
	Build() (*ssa.Info, error)
}

// FileSrc is a set of filenames.
type FileSrc struct {
	Files []string
}

// FromFiles returns a non-nil Builder from a slice of filenames.
func FromFiles(files []string) Configurer {
	return newConfig(&FileSrc{Files: files})
}

// parse parses all files in fset.
func (s *FileSrc) parse(fset *token.FileSet) ([]*ast.File, error) {
	var files []*ast.File
	for _, name := range s.Files {
		f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse file: %s", name)
		}
		files = append(files, f)
	}
	return files, nil
}

// CachedSrc is source file from a reader.
type CachedSrc struct {
	cached []byte
}

// FromReader returns a non-nil Builder for a reader.
// This is typically used for testing or building a temporary file.
func FromReader(r io.Reader) Configurer {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to read from reader"))
	}
	return newConfig(&CachedSrc{cached: b})
}

// parse parses the cached content as a single file.
func (s *CachedSrc) parse(fset *token.FileSet) ([]*ast.File, error) {
	f, err := parser.ParseFile(fset, "tmp.go", bytes.NewReader(s.cached), parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse source")
	}
	return []*ast.File{f}, nil
}
