package aggregating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
)

var campaignHeader = []string{"Business", "Service", "Leads", "Spend", "CPL"}

func TestAggregateTab(t *testing.T) {
	tests := []struct {
		name    string
		data    [][]string
		filters domain.CampaignFilters
		want    domain.AggregateResult
	}{
		{
			name: "Filtra pela entidade sem diferenciar maiúsculas",
			data: [][]string{
				campaignHeader,
				{"Texas Vascular Institute", "UFE", "50", "5000", "100"},
				{"Other Clinic", "UFE", "30", "2000", "66"},
			},
			filters: domain.CampaignFilters{Entity: "texas vascular", Category: domain.CategoryAll},
			want: domain.AggregateResult{
				Leads: 50, AdSpend: 5000, CPLSum: 100, CPLCount: 1, RowsProcessed: 1,
			},
		},
		{
			name: "Filtra pela categoria na coluna de serviço",
			data: [][]string{
				campaignHeader,
				{"Texas Vascular Institute", "UFE", "50", "5000", "100"},
				{"Texas Vascular Institute", "PAE", "20", "1000", "50"},
			},
			filters: domain.CampaignFilters{Entity: "Texas Vascular", Category: "pae"},
			want: domain.AggregateResult{
				Leads: 20, AdSpend: 1000, CPLSum: 50, CPLCount: 1, RowsProcessed: 1,
			},
		},
		{
			name: "Linhas com leads e investimento zerados são ignoradas",
			data: [][]string{
				campaignHeader,
				{"Texas Vascular Institute", "UFE", "0", "0", "100"},
				{"Texas Vascular Institute", "UFE", "n/a", "-", "90"},
				{"Texas Vascular Institute", "UFE", "10", "0", "0"},
			},
			filters: domain.CampaignFilters{Entity: "texas vascular"},
			want: domain.AggregateResult{
				Leads: 10, RowsProcessed: 1,
			},
		},
		{
			name: "Valores formatados como moeda",
			data: [][]string{
				campaignHeader,
				{"Texas Vascular Institute", "UFE", "1,200", "$12,500.50", "$10.42"},
			},
			filters: domain.CampaignFilters{Entity: "texas vascular"},
			want: domain.AggregateResult{
				Leads: 1200, AdSpend: 12500.50, CPLSum: 10.42, CPLCount: 1, RowsProcessed: 1,
			},
		},
		{
			name: "Linhas vazias são puladas",
			data: [][]string{
				campaignHeader,
				{"", "", "", "", ""},
				{},
				{"Texas Vascular Institute", "UFE", "5", "500", ""},
			},
			filters: domain.CampaignFilters{Entity: "texas vascular"},
			want: domain.AggregateResult{
				Leads: 5, AdSpend: 500, RowsProcessed: 1,
			},
		},
		{
			name: "Entidade vazia aceita todas as linhas",
			data: [][]string{
				campaignHeader,
				{"Texas Vascular Institute", "UFE", "5", "500", "100"},
				{"Other Clinic", "UFE", "5", "500", "100"},
			},
			filters: domain.CampaignFilters{},
			want: domain.AggregateResult{
				Leads: 10, AdSpend: 1000, CPLSum: 200, CPLCount: 2, RowsProcessed: 2,
			},
		},
		{
			name: "Sem cabeçalho usa a estimativa por magnitude",
			data: [][]string{
				{"Texas Vascular Institute", "2500", "40", "7"},
				{"Other Clinic", "9000", "90", "8"},
			},
			filters: domain.CampaignFilters{Entity: "texas vascular"},
			want: domain.AggregateResult{
				Leads: 40, AdSpend: 2500, CPLSum: 7, CPLCount: 1, RowsProcessed: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateTab(domain.NewTab("Campaigns", tt.data), tt.filters, DefaultOptions())
			assert.Equal(t, tt.want.Leads, got.Leads)
			assert.InDelta(t, tt.want.AdSpend, got.AdSpend, 0.001)
			assert.InDelta(t, tt.want.CPLSum, got.CPLSum, 0.001)
			assert.Equal(t, tt.want.CPLCount, got.CPLCount)
			assert.Equal(t, tt.want.RowsProcessed, got.RowsProcessed)
		})
	}
}

func TestAggregateTab_MagnitudeFallbackDisabled(t *testing.T) {
	tab := domain.NewTab("Export", [][]string{
		{"Texas Vascular Institute", "2500", "40", "7"},
	})

	opts := DefaultOptions()
	opts.DisableMagnitudeFallback = true

	got := AggregateTab(tab, domain.CampaignFilters{Entity: "texas vascular"}, opts)

	assert.Equal(t, domain.AggregateResult{}, got)
}

func TestEstimateByMagnitude_Buckets(t *testing.T) {
	rows := rowsOf(
		// 1000 cai primeiro na faixa de investimento, 50 na de leads e 5 na de CPL
		[]string{"Texas Vascular", "1000", "50", "5"},
		// sem leads nem investimento a linha não conta
		[]string{"Texas Vascular", "3", "4"},
		// valores fora de todas as faixas são ignorados
		[]string{"Texas Vascular", "75000", "0.5", "$1,500"},
		// texto com números não entra na estimativa
		[]string{"Texas Vascular 2024", "Suite 1200"},
	)

	got := EstimateByMagnitude(rows, "texas vascular")

	assert.Equal(t, domain.AggregateResult{
		Leads:         50,
		AdSpend:       2500,
		CPLSum:        5,
		CPLCount:      1,
		RowsProcessed: 2,
	}, got)
}

func TestAggregateRows_MonotonicAccumulation(t *testing.T) {
	rows := rowsOf(
		[]string{"Texas Vascular", "UFE", "10", "100", "10"},
		[]string{"Texas Vascular", "UFE", "-5", "200", "-3"},
		[]string{"Texas Vascular", "UFE", "7", "-50", "0"},
	)
	columns := MapColumns(domain.NewRow(campaignHeader), CampaignColumnRules)

	var previous domain.AggregateResult
	for i := range rows {
		current := AggregateRows(rows[:i+1], columns, domain.CampaignFilters{Entity: "texas"})
		assert.GreaterOrEqual(t, current.Leads, previous.Leads)
		assert.GreaterOrEqual(t, current.AdSpend, previous.AdSpend)
		assert.GreaterOrEqual(t, current.CPLSum, previous.CPLSum)
		assert.GreaterOrEqual(t, current.CPLCount, previous.CPLCount)
		assert.GreaterOrEqual(t, current.RowsProcessed, previous.RowsProcessed)
		previous = current
	}

	assert.Equal(t, 17.0, previous.Leads)
	assert.Equal(t, 300.0, previous.AdSpend)
	assert.Equal(t, 1, previous.CPLCount)
	assert.Equal(t, 3, previous.RowsProcessed)
}
