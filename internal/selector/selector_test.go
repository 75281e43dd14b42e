package selector

import (
	"math"
	"testing"
)

func testKeys() []string {
	return []string{
		"2022-01-01_00-00-00_UTC.jpg",
		"2023-06-15_12-30-00_UTC.jpg",
		"2024-01-01_00-00-00_UTC.jpg",
		"2024-06-15_12-30-00_UTC.jpg",
		"2025-01-01_00-00-00_UTC.jpg",
	}
}

func contains(keys []string, k string) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

func TestUniform_Empty(t *testing.T) {
	if k, ok := Uniform(nil); ok {
		t.Errorf("Uniform(nil): got %q, want none", k)
	}
	if k, ok := Uniform([]string{}); ok {
		t.Errorf("Uniform([]): got %q, want none", k)
	}
}

func TestBiased_Empty(t *testing.T) {
	if k, ok := Biased(nil); ok {
		t.Errorf("Biased(nil): got %q, want none", k)
	}
}

func TestSelectors_ReturnMember(t *testing.T) {
	keys := testKeys()
	for _, mode := range []Mode{ModeUniform, ModeBiased} {
		for i := 0; i < 1000; i++ {
			k, ok := Pick(mode, keys)
			if !ok {
				t.Fatalf("%s: no key selected", mode)
			}
			if !contains(keys, k) {
				t.Fatalf("%s: %q is not one of the input keys", mode, k)
			}
		}
	}
}

func TestSelectors_SmallSlices(t *testing.T) {
	one := []string{"only"}
	two := []string{"a", "b"}
	for i := 0; i < 200; i++ {
		if k, ok := Biased(one); !ok || k != "only" {
			t.Fatalf("Biased(one): got (%q, %v)", k, ok)
		}
		if k, ok := Uniform(one); !ok || k != "only" {
			t.Fatalf("Uniform(one): got (%q, %v)", k, ok)
		}
		if k, ok := Biased(two); !ok || !contains(two, k) {
			t.Fatalf("Biased(two): got (%q, %v)", k, ok)
		}
	}
}

func TestSelectors_DoNotMutate(t *testing.T) {
	keys := testKeys()
	want := testKeys()
	for i := 0; i < 100; i++ {
		Uniform(keys)
		Biased(keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d]: got %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestUniform_CoversAllPositions(t *testing.T) {
	keys := testKeys()
	seen := make(map[string]int)
	for i := 0; i < 5000; i++ {
		k, _ := Uniform(keys)
		seen[k]++
	}
	for _, k := range keys {
		// Expected ~1000 each.
		if seen[k] < 700 {
			t.Errorf("Uniform picked %q %d/5000 times", k, seen[k])
		}
	}
}

func TestBiasedIndex_Bounds(t *testing.T) {
	for _, n := range []int{1, 2, 5, 100} {
		if got := biasedIndex(n, 0); got != n-1 {
			t.Errorf("biasedIndex(%d, 0): got %d, want %d", n, got, n-1)
		}
		if got := biasedIndex(n, math.Nextafter(1, 0)); got != 0 {
			t.Errorf("biasedIndex(%d, ~1): got %d, want 0", n, got)
		}
	}
}

// TestBiasedIndex_Distribution sweeps u over an even grid and checks the
// share of the grid landing on each index against exp(i*Decay)/sum.
func TestBiasedIndex_Distribution(t *testing.T) {
	for _, n := range []int{2, 5, 40} {
		var total float64
		want := make([]float64, n)
		for i := range want {
			want[i] = math.Exp(float64(i) * Decay)
			total += want[i]
		}

		const steps = 200000
		got := make([]float64, n)
		for s := 0; s < steps; s++ {
			u := (float64(s) + 0.5) / steps
			got[biasedIndex(n, u)]++
		}
		for i := range want {
			p := want[i] / total
			q := got[i] / steps
			if math.Abs(p-q) > 1e-3 {
				t.Errorf("n=%d index %d: got share %.5f, want %.5f", n, i, q, p)
			}
		}
	}
}

func TestBiased_FavoursLaterKeys(t *testing.T) {
	keys := make([]string, 60)
	for i := range keys {
		keys[i] = string(rune('A' + i))
	}
	var first, last int
	for i := 0; i < 20000; i++ {
		k, _ := Biased(keys)
		switch k {
		case keys[0]:
			first++
		case keys[len(keys)-1]:
			last++
		}
	}
	// exp(59*0.05) ≈ 19: the last key should be drawn far more often.
	if last <= first*5 {
		t.Errorf("last key drawn %d times, first %d: expected strong bias", last, first)
	}
}
