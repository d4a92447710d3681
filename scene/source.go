package scene

import (
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/devblok/sxs/utility/kar"
	"github.com/gobuffalo/packr"
)

// Source resolves asset names (the scene file itself, texture files)
// relative to some root
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// ReadAll reads a whole asset from src
func ReadAll(src Source, name string) ([]byte, error) {
	r, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

// DirSource serves assets from a directory on disk
type DirSource string

// Open implements interface
func (d DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

// BoxSource serves assets bundled into the binary with packr
type BoxSource struct {
	Box packr.Box
}

// Open implements interface
func (b BoxSource) Open(name string) (io.ReadCloser, error) {
	return b.Box.Open(path.Clean(name))
}

// ArchiveSource serves assets from a kar archive
type ArchiveSource struct {
	Archive *kar.Archive
}

// Open implements interface
func (a ArchiveSource) Open(name string) (io.ReadCloser, error) {
	r, err := a.Archive.Open(path.Clean(name))
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SubSource resolves names relative to a directory inside another source
type SubSource struct {
	Parent Source
	Dir    string
}

// Open implements interface
func (s SubSource) Open(name string) (io.ReadCloser, error) {
	if path.IsAbs(name) {
		return s.Parent.Open(name)
	}
	return s.Parent.Open(path.Join(s.Dir, name))
}
