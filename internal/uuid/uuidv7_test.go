package uuid

import (
	"strings"
	"testing"
)

func TestNew_IsVersion7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	// Version nibble is the first character of the third group.
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}
}

func TestNew_TimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		if strings.Compare(next, prev) <= 0 {
			t.Fatalf("expected %q > %q", next, prev)
		}
		prev = next
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190A5B4-1C2D-7E8F-9A0B-1C2D3E4F5A6B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a5b4-1c2d-7e8f-9a0b-1c2d3e4f5a6b" {
		t.Errorf("expected lower-cased canonical form, got %q", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
	if IsValid("default-expense-0") {
		t.Error("built-in category ids are not uuids")
	}
}
