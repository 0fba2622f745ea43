package campaigning

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de métricas de campanha
var (
	// Erros de validação
	ErrDateRangeRequired = errors.New("date range is required")
	ErrInvalidDateRange  = errors.New("start date is after end date")
	ErrSourceIDRequired  = errors.New("source ID is required")

	// Erros de recurso
	ErrSourceNotFound = errors.New("sheet source not found")
	ErrSourceInactive = errors.New("sheet source is inactive")

	// Erros de serviços externos
	ErrSheetFetch = errors.New("error fetching spreadsheet")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
)

// CampaignError é um erro com contexto adicional para métricas de campanha
type CampaignError struct {
	Err      error  // Erro base
	Code     string // Código de erro para API
	SourceID string // Planilha envolvida (quando aplicável)
	Details  string // Detalhes adicionais
	Cause    error  // Erro de origem, fora da mensagem devolvida ao cliente
}

func (e *CampaignError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *CampaignError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewCampaignError(err error, code string, details string) *CampaignError {
	return &CampaignError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewCampaignErrorWithSource(err error, code string, sourceID string, details string) *CampaignError {
	return &CampaignError{
		Err:      err,
		Code:     code,
		SourceID: sourceID,
		Details:  details,
	}
}
