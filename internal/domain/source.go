package domain

import "time"

// SheetSource é uma planilha vinculada a um projeto do dashboard
type SheetSource struct {
	ID            string    `json:"id" yaml:"id"`
	ProjectID     string    `json:"project_id" yaml:"project_id"`
	Name          string    `json:"name" yaml:"name"`
	SpreadsheetID string    `json:"spreadsheet_id" yaml:"spreadsheet_id"`
	Entity        string    `json:"entity" yaml:"entity"`
	Active        bool      `json:"active" yaml:"active"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// MetricsSnapshot guarda o último cálculo de métricas para uma combinação de filtros
type MetricsSnapshot struct {
	ID        string           `json:"id"`
	SourceID  string           `json:"source_id"`
	Entity    string           `json:"entity"`
	Category  string           `json:"category"`
	DateFrom  time.Time        `json:"date_from"`
	DateTo    time.Time        `json:"date_to"`
	Metrics   *CampaignMetrics `json:"metrics"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
