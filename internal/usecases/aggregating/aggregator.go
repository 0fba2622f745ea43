package aggregating

import (
	"strings"

	"github.com/vfg2006/campaign-metrics-api/internal/domain"
)

// Options controla as tabelas de regras e as premissas usadas na agregação
type Options struct {
	HeaderKeywords []string
	Rules          []ColumnRule
	Assumptions    domain.Assumptions

	// DisableMagnitudeFallback desliga a estimativa por faixa de valores
	// para abas sem cabeçalho reconhecido
	DisableMagnitudeFallback bool
}

func DefaultOptions() Options {
	return Options{
		HeaderKeywords: CampaignHeaderKeywords,
		Rules:          CampaignColumnRules,
		Assumptions:    domain.DefaultAssumptions(),
	}
}

func (o Options) withDefaults() Options {
	if len(o.HeaderKeywords) == 0 {
		o.HeaderKeywords = CampaignHeaderKeywords
	}
	if len(o.Rules) == 0 {
		o.Rules = CampaignColumnRules
	}
	if o.Assumptions == (domain.Assumptions{}) {
		o.Assumptions = domain.DefaultAssumptions()
	}
	return o
}

// AggregateTab acumula as linhas de uma aba que passam pelos filtros.
// Sem cabeçalho detectado a aba cai na estimativa por magnitude.
func AggregateTab(tab domain.Tab, filters domain.CampaignFilters, opts Options) domain.AggregateResult {
	opts = opts.withDefaults()

	headerIdx, found := DetectHeader(tab.Rows, opts.HeaderKeywords)
	if !found {
		if opts.DisableMagnitudeFallback {
			return domain.AggregateResult{}
		}
		return EstimateByMagnitude(tab.Rows, filters.NormalizedEntity())
	}

	columns := MapColumns(tab.Rows[headerIdx], opts.Rules)
	return AggregateRows(tab.Rows[headerIdx+1:], columns, filters)
}

// AggregateRows soma leads, investimento e CPL das linhas de dados.
// Uma linha só conta quando leads ou investimento são positivos.
func AggregateRows(rows []domain.Row, columns domain.ColumnMap, filters domain.CampaignFilters) domain.AggregateResult {
	entity := filters.NormalizedEntity()
	category := filters.NormalizedCategory()

	var result domain.AggregateResult
	for _, row := range rows {
		if row.IsEmpty() {
			continue
		}

		if !matchesEntity(row, columns, entity) || !matchesCategory(row, columns, category) {
			continue
		}

		leads := fieldValue(row, columns, domain.FieldLeads)
		spend := fieldValue(row, columns, domain.FieldAdSpend)
		if leads <= 0 && spend <= 0 {
			continue
		}

		result.Leads += positive(leads)
		result.AdSpend += positive(spend)

		if cpl := fieldValue(row, columns, domain.FieldCPL); cpl > 0 {
			result.CPLSum += cpl
			result.CPLCount++
		}

		result.RowsProcessed++
	}

	return result
}

// matchesEntity aceita a linha se a coluna de negócio ou qualquer célula contém a entidade
func matchesEntity(row domain.Row, columns domain.ColumnMap, entity string) bool {
	if entity == "" {
		return true
	}

	if idx, ok := columns.Index(domain.FieldBusiness); ok {
		if strings.Contains(row.Cell(idx).Lower(), entity) {
			return true
		}
	}

	return row.Contains(entity)
}

// matchesCategory compara com a coluna de serviço/procedimento quando existe
func matchesCategory(row domain.Row, columns domain.ColumnMap, category string) bool {
	if category == "" {
		return true
	}

	for _, field := range []domain.Field{domain.FieldService, domain.FieldProcedure} {
		if idx, ok := columns.Index(field); ok {
			return strings.Contains(row.Cell(idx).Lower(), category)
		}
	}

	return row.Contains(category)
}

func fieldValue(row domain.Row, columns domain.ColumnMap, field domain.Field) float64 {
	idx, ok := columns.Index(field)
	if !ok {
		return 0
	}
	return row.Cell(idx).Float()
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
