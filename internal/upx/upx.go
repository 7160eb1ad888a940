// Package upx invokes the UPX executable packer to compress a staged
// file in place.
package upx

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Compressor compresses a file at path in place.
//
// It is an interface, not a concrete UPX dependency, so the packager
// core can be exercised against a stub in tests without shelling out
// to a real upx binary.
type Compressor interface {
	Compress(path string) error
}

// UPX invokes the upx binary with --lzma, the mode the original MSYS2
// packager always requested.
type UPX struct {
	// Bin is the path to the upx executable. If empty, "upx" is
	// resolved from PATH.
	Bin string
}

// Compress runs "upx <path> --lzma". A non-zero exit status is
// reported as an error including upx's stderr.
func (u UPX) Compress(path string) error {
	bin := u.Bin
	if bin == "" {
		bin = "upx"
	}

	cmd := exec.Command(bin, path, "--lzma")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("upx %q --lzma failed: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
