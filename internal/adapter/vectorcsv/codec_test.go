package vectorcsv

import (
	"math"
	"strings"
	"testing"
)

func TestEncodeVector(t *testing.T) {
	got := EncodeVector([]float32{0.1, -2.5})
	if got != "0.1,-2.5" {
		t.Errorf("expected '0.1,-2.5', got %q", got)
	}
}

func TestEncodeVectorNoBrackets(t *testing.T) {
	got := EncodeVector([]float32{1.5, 2.25, -3.75})
	if strings.ContainsAny(got, "[]{}() \"") {
		t.Errorf("encoded form must be bare comma-joined numbers, got %q", got)
	}
}

func TestEncodeVectorEmpty(t *testing.T) {
	if got := EncodeVector(nil); got != "" {
		t.Errorf("expected empty field for empty vector, got %q", got)
	}
}

func TestDecodeVector(t *testing.T) {
	vec, err := DecodeVector("0.1,-2.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("expected 2 components, got %d", len(vec))
	}
	if vec[0] != 0.1 || vec[1] != -2.5 {
		t.Errorf("unexpected components: %v", vec)
	}
}

func TestDecodeVectorScientificNotation(t *testing.T) {
	vec, err := DecodeVector("1e-07,2.5E3,-1.25e+2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 components, got %d", len(vec))
	}
	if vec[1] != 2500 {
		t.Errorf("expected 2500, got %v", vec[1])
	}
}

func TestDecodeVectorEmpty(t *testing.T) {
	vec, err := DecodeVector("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 0 {
		t.Errorf("expected empty vector, got %v", vec)
	}
}

func TestDecodeVectorMalformed(t *testing.T) {
	cases := []string{"abc", "0.1,oops", "0.1,,0.2", "0.1;0.2"}
	for _, in := range cases {
		if _, err := DecodeVector(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

// Shortest-form float32 rendering makes the codec an exact inverse pair,
// which is stronger than the 1e-6 relative tolerance the format promises.
func TestCodecRoundTripExact(t *testing.T) {
	vec := make([]float32, 256)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(i)*0.7)) * float32(i%13+1)
	}
	vec[0] = 0
	vec[1] = float32(1) / 3
	vec[2] = -1e-8
	vec[3] = 123456.78

	decoded, err := DecodeVector(EncodeVector(vec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("length mismatch: %d vs %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("component %d: %v != %v", i, decoded[i], vec[i])
		}
	}
}
