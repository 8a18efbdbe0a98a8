package ssa

import (
	"io"
)

// WriteTo writes the Functions of the built packages to w in human readable
// SSA IR instruction format.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, fn := range info.Funcs() {
		written, err := fn.WriteTo(w)
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteFunc writes the Function at path to w in human readable SSA IR
// instruction format.
func (info *Info) WriteFunc(w io.Writer, path string) (int64, error) {
	fn, err := info.FindFunc(path)
	if err != nil {
		return 0, err
	}
	return fn.WriteTo(w)
}
