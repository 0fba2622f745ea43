package aggregating

import "github.com/vfg2006/campaign-metrics-api/internal/domain"

// Faixas usadas para classificar números soltos em abas sem cabeçalho.
// A primeira faixa que contém o valor vence.
var (
	SpendRange = ValueRange{Min: 1000, Max: 50000}
	LeadsRange = ValueRange{Min: 10, Max: 1000}
	CPLRange   = ValueRange{Min: 1, Max: 100}
)

type ValueRange struct {
	Min float64
	Max float64
}

func (r ValueRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// EstimateByMagnitude é uma estimativa, não um parser: percorre todas as
// linhas que mencionam a entidade e distribui cada número entre investimento,
// leads e CPL conforme a faixa de valor. Serve apenas para exportações sem
// cabeçalho reconhecível e não tem garantia de correção.
func EstimateByMagnitude(rows []domain.Row, entity string) domain.AggregateResult {
	var result domain.AggregateResult

	for _, row := range rows {
		if row.IsEmpty() || !row.Contains(entity) {
			continue
		}

		var leads, spend, cplSum float64
		var cplCount int
		for _, cell := range row {
			value, ok := cell.Numeric()
			if !ok || value <= 0 {
				continue
			}

			switch {
			case SpendRange.Contains(value):
				spend += value
			case LeadsRange.Contains(value):
				leads += value
			case CPLRange.Contains(value):
				cplSum += value
				cplCount++
			}
		}

		if leads <= 0 && spend <= 0 {
			continue
		}

		result.Leads += leads
		result.AdSpend += spend
		result.CPLSum += cplSum
		result.CPLCount += cplCount
		result.RowsProcessed++
	}

	return result
}
