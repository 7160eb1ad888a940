// Package msys2env models the fixed set of MSYS2 environments (MinGW,
// UCRT, Clang variants) and the target-triple-to-environment mapping
// that gates which one a build uses.
package msys2env

import "fmt"

// Environment is one of the closed set of MSYS2 sysroot variants.
type Environment string

// The full set of MSYS2 environments. Each has a fixed POSIX prefix
// (see Prefix) and a derived architecture (see Arch).
const (
	Msys       Environment = "msys"
	Mingw64    Environment = "mingw64"
	Ucrt64     Environment = "ucrt64"
	Clang64    Environment = "clang64"
	Mingw32    Environment = "mingw32"
	Clang32    Environment = "clang32"
	ClangArm64 Environment = "clangarm64"
)

// Arch is the architecture of an MSYS2 environment.
type Arch string

const (
	X86_64  Arch = "x86_64"
	I686    Arch = "i686"
	AArch64 Arch = "aarch64"
)

// Prefix returns the POSIX path prefix this environment shadows, e.g.
// "/ucrt64". This table is a frozen external contract.
func (e Environment) Prefix() (string, error) {
	switch e {
	case Msys:
		return "/usr", nil
	case Mingw64:
		return "/mingw64", nil
	case Ucrt64:
		return "/ucrt64", nil
	case Clang64:
		return "/clang64", nil
	case Mingw32:
		return "/mingw32", nil
	case Clang32:
		return "/clang32", nil
	case ClangArm64:
		return "/clangarm64", nil
	default:
		return "", fmt.Errorf("%q is not a recognized MSYS2 environment", e)
	}
}

// Arch returns the architecture of this environment.
func (e Environment) Arch() (Arch, error) {
	switch e {
	case Msys, Mingw64, Ucrt64, Clang64:
		return X86_64, nil
	case Mingw32, Clang32:
		return I686, nil
	case ClangArm64:
		return AArch64, nil
	default:
		return "", fmt.Errorf("%q is not a recognized MSYS2 environment", e)
	}
}

// ErrUnsupportedTriple is wrapped into the error FromTriple returns when
// a target triple cannot be mapped to any MSYS2 environment: MSYS2 does
// not ship import libraries compatible with the MSVC ABI, and some
// sub-architectures lack upstream packages.
type ErrUnsupportedTriple struct {
	Triple string
}

func (e *ErrUnsupportedTriple) Error() string {
	return fmt.Sprintf("target triple %q has no supported MSYS2 environment", e.Triple)
}

// FromTriple maps a Rust-style target triple to the MSYS2 environment
// that can build and host it. The mapping is fixed:
//
//	aarch64-pc-windows-gnullvm -> ClangArm64
//	i686-pc-windows-gnu        -> Mingw32
//	x86_64-pc-windows-gnu      -> Mingw64
//	x86_64-pc-windows-gnullvm  -> Clang64
//	x86_64-uwp-windows-gnu     -> Ucrt64
//
// Every other triple, including all *-msvc triples, every UWP triple
// except x86_64-uwp-windows-gnu, i586-* triples, and thumb* triples, is
// unsupported.
func FromTriple(triple string) (Environment, error) {
	switch triple {
	case "aarch64-pc-windows-gnullvm":
		return ClangArm64, nil
	case "i686-pc-windows-gnu":
		return Mingw32, nil
	case "x86_64-pc-windows-gnu":
		return Mingw64, nil
	case "x86_64-pc-windows-gnullvm":
		return Clang64, nil
	case "x86_64-uwp-windows-gnu":
		return Ucrt64, nil
	default:
		return "", &ErrUnsupportedTriple{Triple: triple}
	}
}
