// Package flagset implements FileFlags as a small named-bit set, the
// Go replacement for the original Rust implementation's
// `bitflags::bitflags! { pub struct FileFlags: u32 { ... } }` macro. No
// exported function or field ever hands back the underlying numeric
// representation; callers interact only through the named values and
// the predicate/combinator methods below.
package flagset

import "github.com/bits-and-blooms/bitset"

// bit positions backing the four FileFlags members.
const (
	bitLib = iota
	bitEXE
	bitUPX
	bitAddDeps
)

// Set is a small bit set over the FileFlags members: LIB, EXE, UPX, and
// AddDeps. The zero Set is empty.
type Set struct {
	bits *bitset.BitSet
}

func newSet(positions ...uint) Set {
	bs := bitset.New(4)
	for _, pos := range positions {
		bs.Set(pos)
	}
	return Set{bits: bs}
}

// Named single-bit FileFlags values.
var (
	// LIB marks a dynamic-library type file.
	LIB = newSet(bitLib)
	// EXE marks an executable type file.
	EXE = newSet(bitEXE)
	// UPX marks a file as eligible for post-compression.
	UPX = newSet(bitUPX)
	// AddDeps marks a file as eligible for transitive import scanning.
	AddDeps = newSet(bitAddDeps)
)

// Empty is the empty FileFlags set.
func Empty() Set {
	return Set{bits: bitset.New(4)}
}

// Union returns the set containing every bit set in s or in other.
func (s Set) Union(other Set) Set {
	if s.bits == nil {
		return other.clone()
	}
	if other.bits == nil {
		return s.clone()
	}
	return Set{bits: s.bits.Union(other.bits)}
}

// With returns s with other's bits also set, leaving s unmodified.
func (s Set) With(other Set) Set {
	return s.Union(other)
}

// Has reports whether every bit set in other is also set in s.
func (s Set) Has(other Set) bool {
	if other.bits == nil || other.bits.None() {
		return true
	}
	if s.bits == nil {
		return false
	}
	return s.bits.IsSuperSet(other.bits)
}

// IsEmpty reports whether no bit is set.
func (s Set) IsEmpty() bool {
	return s.bits == nil || s.bits.None()
}

func (s Set) clone() Set {
	if s.bits == nil {
		return Empty()
	}
	return Set{bits: s.bits.Clone()}
}

// String renders the set as a comma-separated list of its member names,
// for diagnostics only; it is not a parseable representation.
func (s Set) String() string {
	if s.IsEmpty() {
		return "none"
	}

	out := ""
	for _, m := range []struct {
		name string
		set  Set
	}{
		{"lib", LIB},
		{"exe", EXE},
		{"upx", UPX},
		{"add_deps", AddDeps},
	} {
		if s.Has(m.set) {
			if out != "" {
				out += ","
			}
			out += m.name
		}
	}
	return out
}
