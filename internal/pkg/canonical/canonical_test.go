package canonical

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("Hello World")
	b := Fingerprint("Hello World")
	if a != b {
		t.Fatalf("same text must yield same fingerprint: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a != strings.ToLower(a) {
		t.Fatalf("fingerprint must be lowercase hex: %s", a)
	}
}

func TestFingerprint_NormalizationFoldsEquivalentForms(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	if Fingerprint(composed) != Fingerprint(decomposed) {
		t.Fatalf("NFC-equivalent texts must share a fingerprint")
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []string{
		"plain ascii",
		"café mañana",
		"line\nbreaks\tand spaces",
		string([]byte{0x48, 0x69, 0xff, 0xfe}), // invalid UTF-8 tail
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Errorf("canonicalization not idempotent for %q", in)
		}
		if !utf8.ValidString(once) {
			t.Errorf("canonicalized text must be valid UTF-8 for %q", in)
		}
	}
}

func TestFingerprint_InvalidUTF8IsStable(t *testing.T) {
	raw := string([]byte{0x41, 0xc3, 0x28, 0x42}) // A, bad sequence, B
	if Fingerprint(raw) != Fingerprint(raw) {
		t.Fatal("fingerprint of repaired text must be stable")
	}
	if Fingerprint(raw) != Fingerprint(Canonicalize(raw)) {
		t.Fatal("hashing must operate on the canonical form")
	}
}
