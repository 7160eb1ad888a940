package msys2env

import (
	"errors"
	"testing"
)

func TestFromTriple(t *testing.T) {
	tests := []struct {
		triple  string
		want    Environment
		wantErr bool
	}{
		{"x86_64-pc-windows-gnu", Mingw64, false},
		{"i686-pc-windows-gnu", Mingw32, false},
		{"aarch64-pc-windows-gnullvm", ClangArm64, false},
		{"x86_64-pc-windows-gnullvm", Clang64, false},
		{"x86_64-uwp-windows-gnu", Ucrt64, false},
		{"x86_64-pc-windows-msvc", "", true},
		{"i586-pc-windows-gnu", "", true},
		{"thumbv7a-pc-windows-msvc", "", true},
		{"aarch64-uwp-windows-msvc", "", true},
		{"totally-unknown-triple", "", true},
	}

	for _, tt := range tests {
		got, err := FromTriple(tt.triple)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FromTriple(%q): expected error, got %v", tt.triple, got)
				continue
			}
			var unsupported *ErrUnsupportedTriple
			if !errors.As(err, &unsupported) {
				t.Errorf("FromTriple(%q): error %v is not ErrUnsupportedTriple", tt.triple, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FromTriple(%q): unexpected error: %v", tt.triple, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FromTriple(%q) = %v, want %v", tt.triple, got, tt.want)
		}
	}
}

// TestPrefixRoundTrip checks spec.md's invariant: env.prefix, with its
// leading '/' stripped, equals the environment's directory name under
// the MSYS2 root (the directory the sysroot resolver looks under). This
// directory name is not always the same as the Go enum's string value
// (Msys is the one exception: its directory is "usr", for historical
// reasons, even though the environment itself is named "msys").
func TestPrefixRoundTrip(t *testing.T) {
	tests := []struct {
		env     Environment
		prefix  string
		dirName string
	}{
		{Msys, "/usr", "usr"},
		{Mingw64, "/mingw64", "mingw64"},
		{Ucrt64, "/ucrt64", "ucrt64"},
		{Clang64, "/clang64", "clang64"},
		{Mingw32, "/mingw32", "mingw32"},
		{Clang32, "/clang32", "clang32"},
		{ClangArm64, "/clangarm64", "clangarm64"},
	}

	for _, tt := range tests {
		prefix, err := tt.env.Prefix()
		if err != nil {
			t.Fatalf("Prefix(%v): %v", tt.env, err)
		}
		if prefix != tt.prefix {
			t.Errorf("Prefix(%v) = %q, want %q", tt.env, prefix, tt.prefix)
		}
		if prefix[0] != '/' {
			t.Fatalf("prefix %q does not start with '/'", prefix)
		}
		if stripped := prefix[1:]; stripped != tt.dirName {
			t.Errorf("stripped prefix %q does not equal directory name %q", stripped, tt.dirName)
		}
	}
}

func TestArch(t *testing.T) {
	tests := []struct {
		env  Environment
		want Arch
	}{
		{Msys, X86_64},
		{Mingw64, X86_64},
		{Ucrt64, X86_64},
		{Clang64, X86_64},
		{Mingw32, I686},
		{Clang32, I686},
		{ClangArm64, AArch64},
	}
	for _, tt := range tests {
		got, err := tt.env.Arch()
		if err != nil {
			t.Fatalf("Arch(%v): %v", tt.env, err)
		}
		if got != tt.want {
			t.Errorf("Arch(%v) = %v, want %v", tt.env, got, tt.want)
		}
	}
}
