package testfixtures

import "testing"

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	generator := NewIDGenerator("office")
	if got := generator.Next(); got != "office-1" {
		t.Fatalf("expected office-1, got %q", got)
	}
	if got := generator.Next(); got != "office-2" {
		t.Fatalf("expected office-2, got %q", got)
	}

	generator.SetCounter(0)
	if got := generator.Next(); got != "office-1" {
		t.Fatalf("expected counter reset, got %q", got)
	}

	fallback := NewIDGenerator("")
	if got := fallback.Next(); got != "id-1" {
		t.Fatalf("expected default prefix, got %q", got)
	}

	var nilGen *IDGenerator
	if got := nilGen.NextFunc()(); got != "" {
		t.Fatalf("expected empty id from nil generator, got %q", got)
	}
}
