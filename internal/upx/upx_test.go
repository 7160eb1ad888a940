package upx

import (
	"fmt"
	"os"
	"testing"
)

type fakeCompressor struct {
	err error
}

func (f fakeCompressor) Compress(string) error {
	return f.err
}

func TestCompressorInterfaceSatisfiedByStub(t *testing.T) {
	var c Compressor = fakeCompressor{}
	if err := c.Compress("/tmp/whatever.dll"); err != nil {
		t.Fatalf("Compress: %v", err)
	}
}

// TestMain re-execs this same test binary as a fake upx process when
// UPX_WANT_HELPER_PROCESS is set, the technique os/exec's own tests
// use to fake an external command without a real one installed. The
// helper branch exits before testing.M ever parses flags, so the
// "<path> --lzma" arguments Compress appends to the child's argv are
// never examined.
func TestMain(m *testing.M) {
	if os.Getenv("UPX_WANT_HELPER_PROCESS") == "1" {
		fmt.Fprint(os.Stderr, os.Getenv("UPX_HELPER_STDERR"))
		code := 0
		fmt.Sscanf(os.Getenv("UPX_HELPER_EXIT"), "%d", &code)
		os.Exit(code)
	}
	os.Exit(m.Run())
}

// realUPX builds a UPX whose Bin is this test binary re-exec'd in
// helper-process mode, so Compress's own exec/flag-construction and
// error-handling logic run for real.
func realUPX(t *testing.T, stderr string, exitCode int) UPX {
	t.Helper()
	t.Setenv("UPX_WANT_HELPER_PROCESS", "1")
	t.Setenv("UPX_HELPER_STDERR", stderr)
	t.Setenv("UPX_HELPER_EXIT", fmt.Sprintf("%d", exitCode))
	return UPX{Bin: os.Args[0]}
}

func TestCompressSuccess(t *testing.T) {
	u := realUPX(t, "", 0)

	if err := u.Compress("/tmp/lib.dll"); err != nil {
		t.Fatalf("Compress: %v", err)
	}
}

func TestCompressNonZeroExit(t *testing.T) {
	u := realUPX(t, "CantPackException: already packed", 1)

	err := u.Compress("/tmp/lib.dll")
	if err == nil {
		t.Fatalf("Compress: expected error on non-zero exit, got nil")
	}
}
