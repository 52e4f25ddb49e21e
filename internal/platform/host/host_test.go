package host

import (
	"os"
	"testing"
)

func TestNameMatchesOSHostname(t *testing.T) {
	want, err := os.Hostname()
	if err != nil || want == "" {
		want = unknownHostname
	}
	if got := Name(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if Name() != Name() {
		t.Fatal("expected stable hostname")
	}
}
