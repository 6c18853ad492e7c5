package config

import (
	"math"
	"testing"

	"github.com/theirongolddev/codeassist/internal/model"
)

func ptr(f float64) *float64 { return &f }

func TestEstimateCost_ZeroUsageIsZeroForAnyModel(t *testing.T) {
	table := NewPricingTable(nil)
	for _, m := range append(table.Models(), "made-up-model", "") {
		if got := table.EstimateCost(m, nil); got != 0 {
			t.Fatalf("EstimateCost(%q, nil) = %v, want 0", m, got)
		}
		if got := table.EstimateCost(m, model.NewUsage(0, 0)); got != 0 {
			t.Fatalf("EstimateCost(%q, zero usage) = %v, want 0", m, got)
		}
	}
}

func TestEstimateCost_UnknownModelIsFree(t *testing.T) {
	table := NewPricingTable(nil)
	got := table.EstimateCost("claude-imaginary-9", model.NewUsage(5_000_000, 7_000_000))
	if got != 0 {
		t.Fatalf("unknown model cost = %v, want 0", got)
	}
	if _, ok := table.Lookup("claude-imaginary-9"); ok {
		t.Fatal("Lookup reported an unknown model as priced")
	}
}

func TestEstimateCost_OneMillionEachIsSumOfRates(t *testing.T) {
	table := NewPricingTable(nil)
	for id, p := range DefaultPricing {
		got := table.EstimateCost(id, model.NewUsage(1_000_000, 1_000_000))
		if want := p.InputPerMTok + p.OutputPerMTok; got != want {
			t.Fatalf("%s: cost = %v, want %v", id, got, want)
		}
	}
}

func TestEstimateCost_MiniScenario(t *testing.T) {
	table := NewPricingTable(nil)
	got := table.EstimateCost("gpt-4.1-mini", model.NewUsage(10_000, 2_000))
	if math.Abs(got-0.0072) > 1e-15 {
		t.Fatalf("cost = %.18f, want 0.0072", got)
	}
	if r := model.RoundUSD(got); r != 0.0072 {
		t.Fatalf("rounded cost = %v, want 0.0072", r)
	}
}

func TestNormalizeModelName(t *testing.T) {
	table := NewPricingTable(nil)
	cases := map[string]string{
		"gpt-4.1":             "gpt-4.1",
		"gpt-4.1-2025-04-14":  "gpt-4.1",
		"gpt-5-mini-20250807": "gpt-5-mini",
		"gpt-9-2025-04-14":    "gpt-9-2025-04-14",
		"gpt-5-2025":          "gpt-5-2025",
	}
	for in, want := range cases {
		if got := table.NormalizeModelName(in); got != want {
			t.Errorf("NormalizeModelName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEstimateCost_SnapshotIdIsUnpriced(t *testing.T) {
	table := NewPricingTable(nil)
	if got := table.EstimateCost("gpt-4.1-2025-04-14", model.NewUsage(1_000_000, 1_000_000)); got != 0 {
		t.Fatalf("snapshot cost = %v, want 0", got)
	}
	if table.Has("gpt-4.1-2025-04-14") {
		t.Fatal("Has reported a snapshot id as priced")
	}

	priced := NewPricingTable(map[string]ModelPricingOverride{
		"gpt-4.1-2025-04-14": {InputPerMTok: ptr(2), OutputPerMTok: ptr(8)},
	})
	if got := priced.EstimateCost("gpt-4.1-2025-04-14", model.NewUsage(1_000_000, 1_000_000)); got != 10 {
		t.Fatalf("overridden snapshot cost = %v, want 10", got)
	}
}

func TestNewPricingTable_Overrides(t *testing.T) {
	table := NewPricingTable(map[string]ModelPricingOverride{
		"gpt-5":       {OutputPerMTok: ptr(12)},
		"local-llama": {InputPerMTok: ptr(0.1), OutputPerMTok: ptr(0.2)},
	})

	p, ok := table.Lookup("gpt-5")
	if !ok {
		t.Fatal("gpt-5 missing after override")
	}
	if p.InputPerMTok != 1.25 || p.OutputPerMTok != 12 {
		t.Fatalf("gpt-5 pricing = %+v, want input 1.25 output 12", p)
	}
	if !table.Has("local-llama") {
		t.Fatal("override did not add local-llama")
	}
	if DefaultPricing["gpt-5"].OutputPerMTok != 10 {
		t.Fatal("override mutated DefaultPricing")
	}
}

func TestPricingTable_ModelsSorted(t *testing.T) {
	got := NewPricingTable(nil).Models()
	want := []string{"gpt-4.1", "gpt-4.1-mini", "gpt-5", "gpt-5-mini"}
	if len(got) != len(want) {
		t.Fatalf("Models() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Models() = %v, want %v", got, want)
		}
	}
}
