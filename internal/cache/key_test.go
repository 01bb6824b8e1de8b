package cache

import (
	"errors"
	"testing"
)

func TestInputKey_Derivation(t *testing.T) {
	in := Input{Verb: "Dance", Adjective: "Ethereal", Noun: "Moonlight"}

	key, err := in.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key != "dance_ethereal_moonlight" {
		t.Errorf("unexpected key: got %q, want %q", key, "dance_ethereal_moonlight")
	}
}

func TestInputKey_CaseInsensitive(t *testing.T) {
	upper := Input{Verb: "Dance", Adjective: "Ethereal", Noun: "Moonlight"}
	lower := Input{Verb: "dance", Adjective: "ethereal", Noun: "moonlight"}

	k1, err := upper.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	k2, err := lower.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if k1 != k2 {
		t.Errorf("case variants derived different keys: %q vs %q", k1, k2)
	}
}

func TestInputKey_Deterministic(t *testing.T) {
	in := Input{Verb: "whisper", Adjective: "golden", Noun: "river"}

	first, err := in.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := in.Key()
		if err != nil {
			t.Fatalf("Key failed: %v", err)
		}
		if again != first {
			t.Fatalf("derivation not stable: got %q, want %q", again, first)
		}
	}
}

func TestInputKey_RejectsSeparator(t *testing.T) {
	in := Input{Verb: "slow_dance", Adjective: "ethereal", Noun: "moonlight"}

	if _, err := in.Key(); !errors.Is(err, ErrSeparatorInField) {
		t.Errorf("expected ErrSeparatorInField, got %v", err)
	}
}

func TestInputKey_RejectsEmptyField(t *testing.T) {
	in := Input{Verb: "dance", Adjective: "", Noun: "moonlight"}

	if _, err := in.Key(); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("expected ErrMalformedKey, got %v", err)
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	in := Input{Verb: "Dance", Adjective: "Ethereal", Noun: "Moonlight"}

	key, err := in.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	parsed, err := ParseKey(key)
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}

	want := Input{Verb: "dance", Adjective: "ethereal", Noun: "moonlight"}
	if parsed != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, want)
	}
}

func TestParseKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "dance", "dance_ethereal", "a_b_c_d", "__", "dance__moonlight"} {
		if _, err := ParseKey(key); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("ParseKey(%q): expected ErrMalformedKey, got %v", key, err)
		}
	}
}
