package main

import (
	"testing"
)

func TestNormalizeDescriptionsPositional(t *testing.T) {
	got, err := normalizeDescriptions(`["first","second"]`, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestNormalizeDescriptionsPadsShortList(t *testing.T) {
	got, err := normalizeDescriptions(`["first"]`, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != "first" || got[1] != "" || got[2] != "" {
		t.Fatalf("expected padding with empty strings, got %v", got)
	}
}

func TestNormalizeDescriptionsTruncatesLongList(t *testing.T) {
	got, err := normalizeDescriptions(`["a","b","c","d"]`, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected truncation to 2, got %v", got)
	}
}

func TestNormalizeDescriptionsWrapsScalar(t *testing.T) {
	got, err := normalizeDescriptions(`"only one"`, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != "only one" || got[1] != "" {
		t.Fatalf("expected scalar wrapped as single element, got %v", got)
	}
}

func TestNormalizeDescriptionsAbsentPayload(t *testing.T) {
	got, err := normalizeDescriptions("", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != "" || got[1] != "" {
		t.Fatalf("expected empty descriptions, got %v", got)
	}
}

func TestNormalizeDescriptionsInvalidJSON(t *testing.T) {
	if _, err := normalizeDescriptions(`[broken`, 1); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNormalizeDescriptionsNonStringElements(t *testing.T) {
	got, err := normalizeDescriptions(`[42, null, {"k":"v"}]`, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != "42" {
		t.Fatalf("expected number re-encoded, got %q", got[0])
	}
	if got[1] != "" {
		t.Fatalf("expected null mapped to empty string, got %q", got[1])
	}
	if got[2] != `{"k":"v"}` {
		t.Fatalf("expected object re-encoded as compact JSON, got %q", got[2])
	}
}
