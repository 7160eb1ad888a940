// Package sysroot locates a bare file name within an MSYS2 environment's
// sysroot, probing lib/ and bin/ with extension fallback.
package sysroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/msys2pack/msys2pack/internal/msys2env"
)

// ErrNotFound is wrapped into the error Resolver.Lookup returns when a
// name cannot be located anywhere in the sysroot.
var ErrNotFound = errors.New("not found in sysroot")

// subdirs and exts define the probe order. This ordering is an
// observable contract: resolving "foo.dll" when both
// "<root>/lib/foo.dll" and "<root>/bin/foo.dll" exist must return the
// lib/ one, and the bare name is always tried before any extension is
// appended within a given subdirectory.
var (
	subdirs = []string{"lib", "bin"}
	exts    = []string{"dll", "exe"}
)

// Resolver locates files within one MSYS2 installation's chosen
// environment.
type Resolver struct {
	// InstallRoot is the MSYS2 installation root on disk.
	InstallRoot string
	// Env is the chosen MSYS2 environment, gating which sysroot prefix
	// is consulted.
	Env msys2env.Environment
}

// New constructs a Resolver for the given installation root and
// environment.
func New(installRoot string, env msys2env.Environment) *Resolver {
	return &Resolver{InstallRoot: installRoot, Env: env}
}

// Root returns InstallRoot joined with the environment's POSIX prefix
// (its leading slash stripped), i.e. the directory under which lib/ and
// bin/ live.
func (r *Resolver) Root() (string, error) {
	prefix, err := r.Env.Prefix()
	if err != nil {
		return "", err
	}
	return filepath.Join(r.InstallRoot, strings.TrimPrefix(prefix, "/")), nil
}

// Lookup locates a bare file name n within the sysroot, probing
// ["lib","bin"] in order, and within each, the bare name followed by
// ".dll" and ".exe". It returns the first hit.
func (r *Resolver) Lookup(name string) (string, error) {
	root, err := r.Root()
	if err != nil {
		return "", fmt.Errorf("failed to resolve sysroot for %q: %w", name, err)
	}

	for _, subdir := range subdirs {
		base := filepath.Join(root, subdir, name)

		if exists, err := fileExists(base); err != nil {
			return "", fmt.Errorf("failed to check if %q exists: %w", base, err)
		} else if exists {
			return base, nil
		}

		for _, ext := range exts {
			candidate := base + "." + ext
			if exists, err := fileExists(candidate); err != nil {
				return "", fmt.Errorf("failed to check if %q exists: %w", candidate, err)
			} else if exists {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%q: %w", name, ErrNotFound)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
