package logfields

import (
	"errors"
	"testing"
)

func TestAttrs(t *testing.T) {
	if a := Version("v1.0.0"); a.Key != KeyVersion || a.Value.String() != "v1.0.0" {
		t.Fatalf("unexpected version attr: %v", a)
	}
	if a := Port(6006); a.Key != KeyPort || a.Value.Int64() != 6006 {
		t.Fatalf("unexpected port attr: %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", a)
	}
}
