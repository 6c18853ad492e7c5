package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// usdPlaces is the precision every ledger amount is rounded to.
const usdPlaces = 6

// BillingEntry is one priced completion call.
type BillingEntry struct {
	TS           Timestamp `json:"ts"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
}

// Ledger is the running spend of a project.
type Ledger struct {
	TotalUSD float64        `json:"total_usd"`
	Entries  []BillingEntry `json:"turns"`
}

// RoundUSD rounds v to 6 decimal places, half away from zero.
func RoundUSD(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(usdPlaces).Float64()
	return f
}

// Record appends an entry for one call and advances the total.
// The per-call cost is rounded first, then the new total is rounded again,
// so every partial sum is itself a 6-place value.
func (l *Ledger) Record(at time.Time, modelID string, usage *Usage, cost float64) BillingEntry {
	rounded := RoundUSD(cost)
	l.TotalUSD = RoundUSD(l.TotalUSD + rounded)

	entry := BillingEntry{
		TS:           NewTimestamp(at),
		Model:        modelID,
		InputTokens:  usage.Input(),
		OutputTokens: usage.Output(),
		CostUSD:      rounded,
	}
	l.Entries = append(l.Entries, entry)
	return entry
}

// ModelUsage tracks per-model calls and spend within a ledger.
type ModelUsage struct {
	Calls        int
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// ByModel groups the ledger's entries by model.
func (l Ledger) ByModel() map[string]*ModelUsage {
	out := make(map[string]*ModelUsage)
	for _, e := range l.Entries {
		mu, ok := out[e.Model]
		if !ok {
			mu = &ModelUsage{}
			out[e.Model] = mu
		}
		mu.Calls++
		mu.InputTokens += e.InputTokens
		mu.OutputTokens += e.OutputTokens
		mu.CostUSD = RoundUSD(mu.CostUSD + e.CostUSD)
	}
	return out
}

// ProjectStats is the summary of one persisted session, as indexed for listings.
type ProjectStats struct {
	ProjectID    string
	FilePath     string
	CreatedAt    time.Time
	Model        string
	Turns        int
	Calls        int
	InputTokens  int64
	OutputTokens int64
	TotalUSD     float64
	LastCallAt   time.Time

	Models map[string]*ModelUsage
}

// Summarize builds the listing summary for s stored at path.
func Summarize(path string, s *Session) ProjectStats {
	ps := ProjectStats{
		ProjectID: s.ProjectID,
		FilePath:  path,
		CreatedAt: s.CreatedAt.Time,
		Model:     s.SelectedModel(),
		Turns:     len(s.Turns),
		Calls:     len(s.Billing.Entries),
		TotalUSD:  s.Billing.TotalUSD,
		Models:    s.Billing.ByModel(),
	}
	for _, e := range s.Billing.Entries {
		ps.InputTokens += e.InputTokens
		ps.OutputTokens += e.OutputTokens
		if e.TS.After(ps.LastCallAt) {
			ps.LastCallAt = e.TS.Time
		}
	}
	return ps
}
