package aggregating

import (
	"sort"
	"strings"

	"github.com/vfg2006/campaign-metrics-api/internal/domain"
)

// ColumnRule associa uma palavra-chave de cabeçalho a um campo.
// Quando uma coluna casa com mais de uma regra vence a de maior prioridade;
// em caso de empate vale a ordem da tabela.
type ColumnRule struct {
	Field    domain.Field
	Keyword  string
	Priority int
}

// CampaignColumnRules é a tabela de regras para abas de campanha
var CampaignColumnRules = []ColumnRule{
	{Field: domain.FieldCPL, Keyword: "cpl", Priority: 100},
	{Field: domain.FieldCPL, Keyword: "cost per lead", Priority: 100},
	{Field: domain.FieldCPL, Keyword: "cost/lead", Priority: 100},
	{Field: domain.FieldAdSpend, Keyword: "ad spend", Priority: 90},
	{Field: domain.FieldLeads, Keyword: "leads", Priority: 85},
	{Field: domain.FieldAdSpend, Keyword: "spend", Priority: 80},
	{Field: domain.FieldLeads, Keyword: "lead", Priority: 75},
	{Field: domain.FieldAdSpend, Keyword: "budget", Priority: 70},
	{Field: domain.FieldAdSpend, Keyword: "cost", Priority: 60},
	{Field: domain.FieldBusiness, Keyword: "business", Priority: 50},
	{Field: domain.FieldService, Keyword: "service", Priority: 50},
	{Field: domain.FieldService, Keyword: "procedure", Priority: 45},
	{Field: domain.FieldBusiness, Keyword: "client", Priority: 40},
	{Field: domain.FieldBusiness, Keyword: "practice", Priority: 40},
	{Field: domain.FieldService, Keyword: "category", Priority: 40},
	{Field: domain.FieldProject, Keyword: "project", Priority: 30},
	{Field: domain.FieldProject, Keyword: "campaign", Priority: 30},
	{Field: domain.FieldDate, Keyword: "date", Priority: 20},
	{Field: domain.FieldDate, Keyword: "day", Priority: 10},
}

// AppointmentColumnRules é a tabela de regras para abas de agendamentos e ligações
var AppointmentColumnRules = []ColumnRule{
	{Field: domain.FieldCallStatus, Keyword: "call status", Priority: 100},
	{Field: domain.FieldCallStatus, Keyword: "call outcome", Priority: 100},
	{Field: domain.FieldDate, Keyword: "appointment date", Priority: 95},
	{Field: domain.FieldDate, Keyword: "date", Priority: 90},
	{Field: domain.FieldPatientName, Keyword: "patient", Priority: 80},
	{Field: domain.FieldShowed, Keyword: "showed", Priority: 75},
	{Field: domain.FieldStatus, Keyword: "status", Priority: 70},
	{Field: domain.FieldProcedure, Keyword: "procedure", Priority: 60},
	{Field: domain.FieldProcedure, Keyword: "service", Priority: 60},
	{Field: domain.FieldProcedure, Keyword: "treatment", Priority: 55},
	{Field: domain.FieldCalls, Keyword: "calls", Priority: 50},
	{Field: domain.FieldBusiness, Keyword: "business", Priority: 40},
	{Field: domain.FieldBusiness, Keyword: "clinic", Priority: 40},
	{Field: domain.FieldBusiness, Keyword: "location", Priority: 35},
	{Field: domain.FieldPatientName, Keyword: "name", Priority: 30},
}

// MapColumns resolve o índice de cada campo a partir da linha de cabeçalho.
// Cada coluna é reivindicada pela regra de maior prioridade que casar com ela.
// Quando várias colunas reivindicam o mesmo campo fica a de regra mais forte;
// em caso de empate, a mais à esquerda.
// Campos sem coluna simplesmente não aparecem no mapa.
func MapColumns(header domain.Row, rules []ColumnRule) domain.ColumnMap {
	ordered := prioritized(rules)
	columns := make(domain.ColumnMap)
	strength := make(map[domain.Field]int)

	for idx, cell := range header {
		text := normalizeHeader(cell.String())
		if text == "" {
			continue
		}

		for _, rule := range ordered {
			if !strings.Contains(text, rule.Keyword) {
				continue
			}

			if best, taken := strength[rule.Field]; !taken || rule.Priority > best {
				columns[rule.Field] = idx
				strength[rule.Field] = rule.Priority
			}
			break
		}
	}

	return columns
}

func prioritized(rules []ColumnRule) []ColumnRule {
	ordered := make([]ColumnRule, len(rules))
	for i, rule := range rules {
		rule.Keyword = normalizeHeader(rule.Keyword)
		ordered[i] = rule
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	return ordered
}
