package domain

import (
	"strings"
	"time"
)

// Field é o nome semântico de uma coluna
type Field string

const (
	FieldBusiness    Field = "business"
	FieldService     Field = "service"
	FieldLeads       Field = "leads"
	FieldAdSpend     Field = "adSpend"
	FieldCPL         Field = "cpl"
	FieldProject     Field = "project"
	FieldPatientName Field = "patientName"
	FieldDate        Field = "date"
	FieldStatus      Field = "status"
	FieldProcedure   Field = "procedure"
	FieldShowed      Field = "showed"
	FieldCalls       Field = "calls"
	FieldCallStatus  Field = "callStatus"
)

// ColumnMap associa campos semânticos a índices de coluna.
// Campo ausente significa valor indisponível.
type ColumnMap map[Field]int

func (m ColumnMap) Index(field Field) (int, bool) {
	idx, ok := m[field]
	return idx, ok
}

func (m ColumnMap) Has(field Field) bool {
	_, ok := m[field]
	return ok
}

// AggregateResult acumula somas durante uma única passagem.
// Os campos só crescem.
type AggregateResult struct {
	Leads         float64 `json:"leads"`
	AdSpend       float64 `json:"adSpend"`
	CPLSum        float64 `json:"cplSum"`
	CPLCount      int     `json:"cplCount"`
	RowsProcessed int     `json:"rowsProcessed"`
}

// Merge soma outro resultado parcial a este
func (a *AggregateResult) Merge(other AggregateResult) {
	a.Leads += other.Leads
	a.AdSpend += other.AdSpend
	a.CPLSum += other.CPLSum
	a.CPLCount += other.CPLCount
	a.RowsProcessed += other.RowsProcessed
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// CampaignMetrics é o resultado final da agregação de campanhas
type CampaignMetrics struct {
	AdSpend            float64        `json:"adSpend" yaml:"adSpend"`
	Leads              int            `json:"leads" yaml:"leads"`
	Appointments       int            `json:"appointments" yaml:"appointments"`
	Procedures         int            `json:"procedures" yaml:"procedures"`
	ShowRate           float64        `json:"showRate" yaml:"showRate"`
	CostPerLead        float64        `json:"cpl" yaml:"cpl"`
	CostPerAppointment float64        `json:"cpa" yaml:"cpa"`
	CostPerProcedure   float64        `json:"cpp" yaml:"cpp"`
	Revenue            float64        `json:"revenue" yaml:"revenue"`
	ROAS               float64        `json:"roas" yaml:"roas"`
	RowsMatched        int            `json:"rowsMatched" yaml:"rowsMatched"`
	Trend              TrendDirection `json:"trend" yaml:"trend"`
}

const CategoryAll = "ALL"

// DateRange é o intervalo selecionado no dashboard
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsComplete indica se as duas pontas foram informadas
func (d DateRange) IsComplete() bool {
	return d.From != nil && d.To != nil
}

// Contains compara apenas a data, sem horário. Pontas ausentes não limitam.
func (d DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	if d.From != nil && day.Before(truncateDay(*d.From)) {
		return false
	}
	if d.To != nil && day.After(truncateDay(*d.To)) {
		return false
	}
	return true
}

// LookbackRange é a janela de recálculo: de days dias atrás até ontem, em UTC.
// Valores não positivos viram 1 dia.
func LookbackRange(now time.Time, days int) DateRange {
	if days <= 0 {
		days = 1
	}
	today := truncateDay(now)
	from := today.AddDate(0, 0, -days)
	to := today.AddDate(0, 0, -1)
	return DateRange{From: &from, To: &to}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CampaignFilters são os filtros aplicados sobre as linhas das abas
type CampaignFilters struct {
	Entity    string    `json:"entity"`
	Category  string    `json:"category"`
	DateRange DateRange `json:"dateRange"`
}

// NormalizedEntity retorna a entidade em minúsculas, sem espaços nas pontas
func (f CampaignFilters) NormalizedEntity() string {
	return strings.ToLower(strings.TrimSpace(f.Entity))
}

// NormalizedCategory retorna "" quando não há filtro de categoria
func (f CampaignFilters) NormalizedCategory() string {
	category := strings.TrimSpace(f.Category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return ""
	}
	return strings.ToLower(category)
}

// Assumptions são as taxas de conversão usadas quando a planilha não traz o dado
type Assumptions struct {
	LeadToAppointmentRate      float64 `json:"leadToAppointmentRate"`
	AppointmentToProcedureRate float64 `json:"appointmentToProcedureRate"`
	FallbackCPL                float64 `json:"fallbackCpl"`
	FallbackShowRate           float64 `json:"fallbackShowRate"`
	RevenuePerProcedure        float64 `json:"revenuePerProcedure"`
}

func DefaultAssumptions() Assumptions {
	return Assumptions{
		LeadToAppointmentRate:      0.45,
		AppointmentToProcedureRate: 0.6,
		FallbackCPL:                85,
		FallbackShowRate:           75,
		RevenuePerProcedure:        7000,
	}
}
