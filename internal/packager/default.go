package packager

import "github.com/msys2pack/msys2pack/internal/peimport"

// defaultPEReaderNames backs PEReader when no stub is configured via
// SetPEReader.
func defaultPEReaderNames(path string) ([]string, error) {
	return peimport.Names(path)
}
