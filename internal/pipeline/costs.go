package pipeline

import (
	"sort"

	"github.com/theirongolddev/codeassist/internal/model"
)

// ModelCostRow is the spend of one model, within a project or across several.
type ModelCostRow struct {
	Model        string
	Calls        int
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// ModelBreakdown flattens per-model usage into rows sorted by cost, highest first.
func ModelBreakdown(models map[string]*model.ModelUsage) []ModelCostRow {
	rows := make([]ModelCostRow, 0, len(models))
	for name, mu := range models {
		rows = append(rows, ModelCostRow{
			Model:        name,
			Calls:        mu.Calls,
			InputTokens:  mu.InputTokens,
			OutputTokens: mu.OutputTokens,
			CostUSD:      mu.CostUSD,
		})
	}
	sortRows(rows)
	return rows
}

// MergeModels combines the per-model usage of several projects.
func MergeModels(projects []model.ProjectStats) []ModelCostRow {
	merged := make(map[string]*model.ModelUsage)
	for _, p := range projects {
		for name, mu := range p.Models {
			row, ok := merged[name]
			if !ok {
				row = &model.ModelUsage{}
				merged[name] = row
			}
			row.Calls += mu.Calls
			row.InputTokens += mu.InputTokens
			row.OutputTokens += mu.OutputTokens
			row.CostUSD = model.RoundUSD(row.CostUSD + mu.CostUSD)
		}
	}
	return ModelBreakdown(merged)
}

func sortRows(rows []ModelCostRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CostUSD != rows[j].CostUSD {
			return rows[i].CostUSD > rows[j].CostUSD
		}
		return rows[i].Model < rows[j].Model
	})
}
