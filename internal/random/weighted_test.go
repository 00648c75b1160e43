package random

import (
	"math"
	"math/rand/v2"
	"testing"
)

type entry struct {
	name   string
	weight float64
}

func TestPickMatchesWeights(t *testing.T) {
	src := rand.New(rand.NewPCG(42, 1024))
	items := []entry{
		{"kelp", 40},
		{"pearl", 25},
		{"anchor", 20},
		{"shark", 10},
		{"treasure", 5},
	}
	total := 0.0
	for _, it := range items {
		total += it.weight
	}

	const draws = 100_000
	counts := make([]int, len(items))
	for i := 0; i < draws; i++ {
		idx, ok := Pick(src, items, func(e entry) float64 { return e.weight })
		if !ok {
			t.Fatalf("pick failed on non-empty list")
		}
		counts[idx]++
	}

	for i, it := range items {
		want := it.weight / total
		got := float64(counts[i]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("frequency out of tolerance for %s: got=%.4f want=%.4f", it.name, got, want)
		}
	}
}

func TestPickFloorsNonPositiveWeights(t *testing.T) {
	src := rand.New(rand.NewPCG(7, 7))
	items := []entry{{"zero", 0}, {"negative", -5}, {"one", 1}}

	const draws = 100_000
	counts := make([]int, len(items))
	for i := 0; i < draws; i++ {
		idx, _ := Pick(src, items, func(e entry) float64 { return e.weight })
		counts[idx]++
	}

	// 0.01 / 1.02 ≈ 0.98%
	for i := 0; i < 2; i++ {
		share := float64(counts[i]) / draws
		if share == 0 || share > 0.02 {
			t.Fatalf("floored weight share unexpected for %s: got=%.4f", items[i].name, share)
		}
	}
}

func TestPickEmpty(t *testing.T) {
	if _, ok := Pick(Default, []entry(nil), func(e entry) float64 { return e.weight }); ok {
		t.Fatalf("empty list should not pick")
	}
}

func TestPickScriptedBoundaries(t *testing.T) {
	items := []entry{{"a", 1}, {"b", 1}, {"c", 2}}
	weight := func(e entry) float64 { return e.weight }

	tests := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{0.24, 0},
		{0.25, 1},
		{0.49, 1},
		{0.5, 2},
		{0.999999, 2},
	}
	for _, tt := range tests {
		idx, _ := Pick(&Scripted{Values: []float64{tt.value}}, items, weight)
		if idx != tt.want {
			t.Fatalf("unexpected index for %.6f: got=%d want=%d", tt.value, idx, tt.want)
		}
	}
}

func TestChance(t *testing.T) {
	if Chance(&Scripted{Values: []float64{0}}, 0) {
		t.Fatalf("zero probability must never fire")
	}
	if !Chance(&Scripted{Values: []float64{0.1}}, 0.2) {
		t.Fatalf("0.1 < 0.2 should fire")
	}
	if Chance(&Scripted{Values: []float64{0.3}}, 0.2) {
		t.Fatalf("0.3 >= 0.2 should not fire")
	}
}
