// Package winpath translates POSIX-style paths inside an MSYS2
// installation (e.g. "/ucrt64/bin/foo.dll") to native Windows paths
// (e.g. "C:\msys64\ucrt64\bin\foo.dll"), by shelling out to cygpath.
package winpath

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// Translator converts a POSIX path into its native Windows equivalent.
// It is an interface, not a concrete cygpath dependency, so callers
// that drive an MSYS2 installation (internal/packager in particular)
// can be exercised against a stub in tests without shelling out.
type Translator interface {
	Translate(posixPath string) (string, error)
}

// Cygpath invokes the cygpath binary found in an MSYS2 installation to
// perform path translation.
type Cygpath struct {
	// Bin is the path to the cygpath executable. If empty, "cygpath" is
	// resolved from PATH.
	Bin string
}

// Translate runs "cygpath -wa <posixPath>" and returns its trimmed
// stdout. The command is expected to print exactly one absolute
// Windows path followed by a newline.
func (c Cygpath) Translate(posixPath string) (string, error) {
	bin := c.Bin
	if bin == "" {
		bin = "cygpath"
	}

	cmd := exec.Command(bin, "-wa", posixPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("cygpath -wa %q failed: %w: %s", posixPath, err, strings.TrimSpace(stderr.String()))
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", fmt.Errorf("cygpath -wa %q returned non-UTF-8 output", posixPath)
	}

	translated := strings.TrimRight(string(out), "\r\n")
	if translated == "" {
		return "", fmt.Errorf("cygpath -wa %q returned an empty path", posixPath)
	}
	return translated, nil
}
