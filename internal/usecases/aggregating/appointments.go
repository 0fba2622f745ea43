package aggregating

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
)

type tabKind int

const (
	tabUnknown tabKind = iota
	tabCampaign
	tabAppointment
	tabCall
)

// classifiedTab guarda o tipo da aba, o cabeçalho e o mapa de colunas resolvido
type classifiedTab struct {
	kind      tabKind
	headerIdx int
	columns   domain.ColumnMap
}

// classifyTab decide se a aba é de campanha, agendamentos ou ligações.
// Abas de campanha precisam mapear leads ou investimento; as demais precisam de data, status ou chamadas.
func classifyTab(tab domain.Tab) classifiedTab {
	if idx, ok := DetectHeader(tab.Rows, CampaignHeaderKeywords); ok {
		columns := MapColumns(tab.Rows[idx], CampaignColumnRules)
		if columns.Has(domain.FieldLeads) || columns.Has(domain.FieldAdSpend) {
			return classifiedTab{kind: tabCampaign, headerIdx: idx, columns: columns}
		}
	}

	if idx, ok := DetectHeader(tab.Rows, AppointmentHeaderKeywords); ok {
		columns := MapColumns(tab.Rows[idx], AppointmentColumnRules)
		if columns.Has(domain.FieldCallStatus) || columns.Has(domain.FieldCalls) ||
			strings.Contains(strings.ToLower(tab.Name), "call") {
			return classifiedTab{kind: tabCall, headerIdx: idx, columns: columns}
		}
		if columns.Has(domain.FieldDate) || columns.Has(domain.FieldStatus) || columns.Has(domain.FieldShowed) {
			return classifiedTab{kind: tabAppointment, headerIdx: idx, columns: columns}
		}
	}

	return classifiedTab{kind: tabUnknown, headerIdx: -1}
}

type appointmentStatus int

const (
	statusBooked appointmentStatus = iota
	statusShowed
	statusNoShow
	statusCancelled
)

// classifyStatus interpreta o texto livre da coluna de status
func classifyStatus(status string) appointmentStatus {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case strings.Contains(s, "no show"), strings.Contains(s, "no-show"), strings.Contains(s, "noshow"),
		strings.Contains(s, "missed"):
		return statusNoShow
	case strings.Contains(s, "cancel"), strings.Contains(s, "resched"):
		return statusCancelled
	case strings.Contains(s, "show"), strings.Contains(s, "completed"), strings.Contains(s, "attended"),
		strings.Contains(s, "arrived"), strings.Contains(s, "done"):
		return statusShowed
	default:
		return statusBooked
	}
}

func isAffirmative(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "x", "showed", "✓":
		return true
	}
	return false
}

func isConnectedCall(status string) bool {
	s := strings.ToLower(status)
	for _, keyword := range []string{"connected", "answered", "booked", "completed", "scheduled"} {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// statsAccumulator soma os contadores e monta a série temporal por dia
type statsAccumulator struct {
	stats   domain.ProjectStats
	adSpend float64
	leads   float64
	matched int
	trend   map[string]*domain.TrendData
}

func newStatsAccumulator() *statsAccumulator {
	return &statsAccumulator{trend: make(map[string]*domain.TrendData)}
}

func (a *statsAccumulator) point(date *time.Time) *domain.TrendData {
	if date == nil {
		return nil
	}

	key := date.Format(time.DateOnly)
	p, ok := a.trend[key]
	if !ok {
		p = &domain.TrendData{Date: key}
		a.trend[key] = p
	}
	return p
}

// AggregateAppointments consolida agendamentos, ligações e campanhas em
// FullDataMetrics com a série diária. Diferente do caminho de campanhas,
// aqui o intervalo de datas filtra as linhas que têm data.
// Retorna nil quando nenhuma linha foi aproveitada.
func AggregateAppointments(tabs []domain.Tab, filters domain.CampaignFilters, assumptions domain.Assumptions) *domain.FullDataMetrics {
	if len(tabs) == 0 {
		return nil
	}
	if assumptions == (domain.Assumptions{}) {
		assumptions = domain.DefaultAssumptions()
	}

	acc := newStatsAccumulator()
	for _, tab := range tabs {
		classified := classifyTab(tab)
		if classified.kind == tabUnknown {
			continue
		}

		rows := tab.Rows[classified.headerIdx+1:]
		switch classified.kind {
		case tabCampaign:
			acc.addCampaignRows(rows, classified.columns, filters)
		case tabAppointment:
			acc.addAppointmentRows(rows, classified.columns, filters)
		case tabCall:
			acc.addCallRows(rows, classified.columns, filters)
		}
	}

	if acc.matched == 0 {
		return nil
	}

	return acc.finalize(assumptions)
}

func (a *statsAccumulator) addCampaignRows(rows []domain.Row, columns domain.ColumnMap, filters domain.CampaignFilters) {
	for _, row := range rows {
		date, keep := rowDate(row, columns, filters.DateRange)
		if !keep {
			continue
		}

		result := AggregateRows([]domain.Row{row}, columns, filters)
		if result.RowsProcessed == 0 {
			continue
		}

		a.matched++
		a.leads += result.Leads
		a.adSpend += result.AdSpend

		if p := a.point(date); p != nil {
			p.Leads += int(math.Round(result.Leads))
			p.AdSpend = utils.RoundWithTwoDecimalPlace(p.AdSpend + result.AdSpend)
		}
	}
}

// matchesEntityAndCategory aplica os filtros só quando a aba tem a coluna
// correspondente. Abas de agendamento e ligações normalmente são de um único
// projeto e muitas não têm coluna de clínica.
func matchesEntityAndCategory(row domain.Row, columns domain.ColumnMap, entity, category string) bool {
	if idx, ok := columns.Index(domain.FieldBusiness); ok && entity != "" {
		if !strings.Contains(row.Cell(idx).Lower(), entity) {
			return false
		}
	}
	if idx, ok := columns.Index(domain.FieldProcedure); ok && category != "" {
		if !strings.Contains(row.Cell(idx).Lower(), category) {
			return false
		}
	}
	return true
}

func (a *statsAccumulator) addAppointmentRows(rows []domain.Row, columns domain.ColumnMap, filters domain.CampaignFilters) {
	entity := filters.NormalizedEntity()
	category := filters.NormalizedCategory()

	for _, row := range rows {
		if row.IsEmpty() || !matchesEntityAndCategory(row, columns, entity, category) {
			continue
		}

		date, keep := rowDate(row, columns, filters.DateRange)
		if !keep {
			continue
		}

		status := statusBooked
		if idx, ok := columns.Index(domain.FieldStatus); ok {
			status = classifyStatus(row.Cell(idx).String())
		}
		if idx, ok := columns.Index(domain.FieldShowed); ok && status == statusBooked {
			if isAffirmative(row.Cell(idx).String()) {
				status = statusShowed
			} else if !row.Cell(idx).IsEmpty() {
				status = statusNoShow
			}
		}

		a.matched++
		a.stats.Bookings++
		p := a.point(date)
		if p != nil {
			p.Bookings++
		}

		switch status {
		case statusShowed:
			a.stats.Shows++
			if p != nil {
				p.Shows++
			}
		case statusNoShow:
			a.stats.NoShows++
			if p != nil {
				p.NoShows++
			}
		case statusCancelled:
			a.stats.Cancellations++
		}
	}
}

func (a *statsAccumulator) addCallRows(rows []domain.Row, columns domain.ColumnMap, filters domain.CampaignFilters) {
	entity := filters.NormalizedEntity()
	category := filters.NormalizedCategory()

	for _, row := range rows {
		if row.IsEmpty() || !matchesEntityAndCategory(row, columns, entity, category) {
			continue
		}

		date, keep := rowDate(row, columns, filters.DateRange)
		if !keep {
			continue
		}

		calls := 1
		if idx, ok := columns.Index(domain.FieldCalls); ok {
			calls = int(math.Round(row.Cell(idx).Float()))
			if calls <= 0 {
				continue
			}
		}

		a.matched++
		a.stats.TotalCalls += calls
		if idx, ok := columns.Index(domain.FieldCallStatus); ok && isConnectedCall(row.Cell(idx).String()) {
			a.stats.ConnectedCalls += calls
		}

		if p := a.point(date); p != nil {
			p.Calls += calls
		}
	}
}

// rowDate lê a data da linha quando a aba tem coluna de data. Abas sem
// coluna de data não são filtradas; nas demais, com intervalo informado,
// linhas sem data válida ou fora do intervalo são descartadas.
func rowDate(row domain.Row, columns domain.ColumnMap, dateRange domain.DateRange) (*time.Time, bool) {
	idx, ok := columns.Index(domain.FieldDate)
	if !ok {
		return nil, true
	}

	date, parsed := utils.ParseSheetDate(row.Cell(idx).String())
	if !parsed {
		return nil, !dateRange.IsComplete()
	}

	if !dateRange.Contains(date) {
		return nil, false
	}

	return &date, true
}

func (a *statsAccumulator) finalize(assumptions domain.Assumptions) *domain.FullDataMetrics {
	stats := a.stats
	stats.AdSpend = utils.RoundWithTwoDecimalPlace(a.adSpend)
	stats.Leads = int(math.Round(a.leads))

	if attended := stats.Shows + stats.NoShows; attended > 0 {
		stats.ShowRate = utils.RoundWithTwoDecimalPlace(float64(stats.Shows) / float64(attended) * 100)
	}
	if stats.Leads > 0 {
		stats.BookingRate = utils.RoundWithTwoDecimalPlace(float64(stats.Bookings) / float64(stats.Leads) * 100)
		stats.CostPerLead = utils.RoundWithTwoDecimalPlace(a.adSpend / float64(stats.Leads))
	}
	if stats.TotalCalls > 0 {
		stats.ConnectRate = utils.RoundWithTwoDecimalPlace(float64(stats.ConnectedCalls) / float64(stats.TotalCalls) * 100)
	}
	if stats.Bookings > 0 {
		stats.CostPerBooking = utils.RoundWithTwoDecimalPlace(a.adSpend / float64(stats.Bookings))
	}

	procedures := EstimateProcedures(stats.Shows, assumptions.AppointmentToProcedureRate)

	trend := make([]domain.TrendData, 0, len(a.trend))
	for _, p := range a.trend {
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date < trend[j].Date
	})

	return &domain.FullDataMetrics{
		ProjectStats: stats,
		Procedures:   procedures,
		Revenue:      utils.RoundWithTwoDecimalPlace(float64(procedures) * assumptions.RevenuePerProcedure),
		Trend:        trend,
	}
}
