package config

import (
	"sort"
	"strings"

	"github.com/theirongolddev/codeassist/internal/model"
)

// ModelPricing holds per-million-token prices for a model.
type ModelPricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// DefaultPricing maps model ids to their USD pricing. Read-only.
var DefaultPricing = map[string]ModelPricing{
	"gpt-4.1":      {InputPerMTok: 2.00, OutputPerMTok: 8.00},
	"gpt-4.1-mini": {InputPerMTok: 0.40, OutputPerMTok: 1.60},
	"gpt-5-mini":   {InputPerMTok: 0.25, OutputPerMTok: 2.00},
	"gpt-5":        {InputPerMTok: 1.25, OutputPerMTok: 10.00},
}

// PricingTable is the immutable set of model prices in effect for a run.
type PricingTable struct {
	prices map[string]ModelPricing
}

// NewPricingTable copies DefaultPricing and applies user overrides.
// An override for an unknown model adds it; nil fields keep the default rate.
func NewPricingTable(overrides map[string]ModelPricingOverride) PricingTable {
	prices := make(map[string]ModelPricing, len(DefaultPricing)+len(overrides))
	for id, p := range DefaultPricing {
		prices[id] = p
	}
	for id, o := range overrides {
		p := prices[id]
		if o.InputPerMTok != nil {
			p.InputPerMTok = *o.InputPerMTok
		}
		if o.OutputPerMTok != nil {
			p.OutputPerMTok = *o.OutputPerMTok
		}
		prices[id] = p
	}
	return PricingTable{prices: prices}
}

// Models returns the known model ids, sorted.
func (t PricingTable) Models() []string {
	ids := make([]string, 0, len(t.prices))
	for id := range t.prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether modelID has a price of its own. Snapshot ids are
// not folded into their base model.
func (t PricingTable) Has(modelID string) bool {
	_, ok := t.prices[modelID]
	return ok
}

// NormalizeModelName strips a snapshot date suffix when the base id is priced.
// e.g., "gpt-4.1-2025-04-14" -> "gpt-4.1", "gpt-5-mini-20250807" -> "gpt-5-mini"
// It is only used to point users at the override they probably want; billing
// always looks up the exact id.
func (t PricingTable) NormalizeModelName(raw string) string {
	if _, ok := t.prices[raw]; ok {
		return raw
	}

	parts := strings.Split(raw, "-")
	// -YYYY-MM-DD
	if n := len(parts); n > 3 && isAllDigits(parts[n-3]) && len(parts[n-3]) == 4 &&
		isAllDigits(parts[n-2]) && isAllDigits(parts[n-1]) {
		candidate := strings.Join(parts[:n-3], "-")
		if _, ok := t.prices[candidate]; ok {
			return candidate
		}
	}
	// -YYYYMMDD
	if n := len(parts); n > 1 && isAllDigits(parts[n-1]) && len(parts[n-1]) >= 8 {
		candidate := strings.Join(parts[:n-1], "-")
		if _, ok := t.prices[candidate]; ok {
			return candidate
		}
	}

	return raw
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Lookup returns the pricing for an exact model id.
// Unknown models, including unpriced snapshots, get zero pricing and false.
func (t PricingTable) Lookup(modelID string) (ModelPricing, bool) {
	p, ok := t.prices[modelID]
	return p, ok
}

// EstimateCost computes the unrounded USD cost of one call.
// Absent usage and unknown models cost exactly 0.
func (t PricingTable) EstimateCost(modelID string, usage *model.Usage) float64 {
	if usage == nil {
		return 0
	}
	pricing, _ := t.Lookup(modelID)

	// explicit conversions keep the two products from being fused
	inputCost := float64(float64(usage.InputTokens) / 1_000_000 * pricing.InputPerMTok)
	outputCost := float64(float64(usage.OutputTokens) / 1_000_000 * pricing.OutputPerMTok)
	return inputCost + outputCost
}

// EstimateInputCost prices inputTokens alone, as used for dry runs.
func (t PricingTable) EstimateInputCost(modelID string, inputTokens int64) float64 {
	return t.EstimateCost(modelID, model.NewUsage(inputTokens, 0))
}
