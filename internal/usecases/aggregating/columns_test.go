package aggregating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
)

func TestMapColumns_CaseAndWhitespace(t *testing.T) {
	headers := [][]string{
		{"Ad Spend", "#Leads", "CPL"},
		{"AD SPEND", "#LEADS", "cpl"},
		{" ad  spend ", "  #Leads", "C P L", "CPL"},
	}

	for _, header := range headers {
		columns := MapColumns(domain.NewRow(header), CampaignColumnRules)

		spendIdx, ok := columns.Index(domain.FieldAdSpend)
		assert.True(t, ok, "header %v", header)
		assert.Equal(t, 0, spendIdx)

		leadsIdx, ok := columns.Index(domain.FieldLeads)
		assert.True(t, ok, "header %v", header)
		assert.Equal(t, 1, leadsIdx)

		cplIdx, ok := columns.Index(domain.FieldCPL)
		assert.True(t, ok, "header %v", header)
		assert.Equal(t, len(header)-1, cplIdx)
	}
}

func TestMapColumns_PriorityResolvesAmbiguity(t *testing.T) {
	columns := MapColumns(domain.NewRow([]string{"Cost Per Lead", "Leads", "Cost"}), CampaignColumnRules)

	assert.Equal(t, domain.ColumnMap{
		domain.FieldCPL:     0,
		domain.FieldLeads:   1,
		domain.FieldAdSpend: 2,
	}, columns)
}

func TestMapColumns_FirstColumnWins(t *testing.T) {
	columns := MapColumns(domain.NewRow([]string{"Business", "Ad Spend", "Total Spend"}), CampaignColumnRules)

	idx, ok := columns.Index(domain.FieldAdSpend)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestMapColumns_UnmappedFieldsAreAbsent(t *testing.T) {
	columns := MapColumns(domain.NewRow([]string{"Business", "Notes"}), CampaignColumnRules)

	assert.True(t, columns.Has(domain.FieldBusiness))
	assert.False(t, columns.Has(domain.FieldLeads))
	assert.False(t, columns.Has(domain.FieldAdSpend))
	assert.False(t, columns.Has(domain.FieldCPL))
	assert.Len(t, columns, 1)
}

func TestMapColumns_CustomRuleTable(t *testing.T) {
	rules := []ColumnRule{
		{Field: domain.FieldLeads, Keyword: "contacts", Priority: 10},
		{Field: domain.FieldAdSpend, Keyword: "contacts cost", Priority: 20},
	}

	columns := MapColumns(domain.NewRow([]string{"Contacts", "Contacts Cost"}), rules)

	assert.Equal(t, domain.ColumnMap{
		domain.FieldLeads:   0,
		domain.FieldAdSpend: 1,
	}, columns)
}

func TestMapColumns_AppointmentRules(t *testing.T) {
	header := domain.NewRow([]string{"Patient Name", "Appointment Date", "Status", "Procedure", "Call Status"})

	columns := MapColumns(header, AppointmentColumnRules)

	assert.Equal(t, domain.ColumnMap{
		domain.FieldPatientName: 0,
		domain.FieldDate:        1,
		domain.FieldStatus:      2,
		domain.FieldProcedure:   3,
		domain.FieldCallStatus:  4,
	}, columns)
}

func TestMapColumns_StrongerKeywordBeatsEarlierColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   domain.ColumnMap
	}{
		{
			name:   "Lead Source e Daily Budget antes das colunas reais",
			header: []string{"Business", "Lead Source", "Leads", "Daily Budget", "Ad Spend"},
			want: domain.ColumnMap{
				domain.FieldBusiness: 0,
				domain.FieldLeads:    2,
				domain.FieldAdSpend:  4,
			},
		},
		{
			name:   "Cost antes de Spend",
			header: []string{"Cost", "Spend", "Leads"},
			want: domain.ColumnMap{
				domain.FieldAdSpend: 1,
				domain.FieldLeads:   2,
			},
		},
		{
			name:   "Empate fica com a coluna mais à esquerda",
			header: []string{"Monthly Budget", "Weekly Budget", "Lead"},
			want: domain.ColumnMap{
				domain.FieldAdSpend: 0,
				domain.FieldLeads:   2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapColumns(domain.NewRow(tt.header), CampaignColumnRules))
		})
	}
}
