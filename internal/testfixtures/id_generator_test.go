package testfixtures

import "testing"

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator("emp")
	if got := gen.Next(); got != "emp-1" {
		t.Fatalf("Next() = %q, want emp-1", got)
	}
	if got := gen.Next(); got != "emp-2" {
		t.Fatalf("Next() = %q, want emp-2", got)
	}

	gen.Reset()
	if got := gen.Next(); got != "emp-1" {
		t.Fatalf("Next() after Reset = %q, want emp-1", got)
	}

	if got := NewIDGenerator("").Next(); got != "id-1" {
		t.Fatalf("default prefix Next() = %q, want id-1", got)
	}

	var nilGen *IDGenerator
	if got := nilGen.NextFunc()(); got != "" {
		t.Fatalf("nil generator Next() = %q, want empty", got)
	}
}
