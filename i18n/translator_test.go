package i18n

import "testing"

func TestEnglish_ExpandsParams(t *testing.T) {
	if msg := English.Message("too_short", map[string]any{"min": 6}); msg != "must be at least 6 characters" {
		t.Fatalf("unexpected message %q", msg)
	}
	// unknown codes fall back to the code itself
	if msg := English.Message("nope", nil); msg != "nope" {
		t.Fatalf("want code echoed, got %q", msg)
	}
}

func TestMap_FallsBackToEnglish(t *testing.T) {
	c := Map(map[string]string{"required": "O campo é obrigatório"})
	if msg := c.Message("required", nil); msg != "O campo é obrigatório" {
		t.Fatalf("override not used: %q", msg)
	}
	if msg := c.Message("too_big", map[string]any{"max": 100}); msg != "must be at most 100" {
		t.Fatalf("fallback not used: %q", msg)
	}
}
