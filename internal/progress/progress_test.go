package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNoopDiscardsEverything(t *testing.T) {
	var r Reporter = Noop{}
	r.Status("copying %s", "foo.dll")
	r.Warnf("skipping %s", "bar.dll")
}

func TestColorStatusWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	r := Color{Out: &buf}
	r.Status("copying %s", "foo.dll")

	if !strings.Contains(buf.String(), "copying foo.dll") {
		t.Errorf("Status output = %q, want it to contain %q", buf.String(), "copying foo.dll")
	}
}

func TestColorWarnfPrefixesWarning(t *testing.T) {
	var buf bytes.Buffer
	r := Color{Out: &buf}
	r.Warnf("collision on %s", "bar.dll")

	if !strings.Contains(buf.String(), "warning: collision on bar.dll") {
		t.Errorf("Warnf output = %q, want it to contain the warning prefix and message", buf.String())
	}
}
