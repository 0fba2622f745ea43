package sheetsdomain

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

const gridSheetType = "GRID"

// SheetProperties descreve uma aba retornada por spreadsheets.get
type SheetProperties struct {
	ID     int64
	Title  string
	Index  int64
	Hidden bool
	Type   string
}

// IsReadable indica se a aba tem células para ler. Abas de gráfico não têm.
func (p SheetProperties) IsReadable() bool {
	return !p.Hidden && (p.Type == "" || p.Type == gridSheetType)
}

// TabValues são as células formatadas de uma aba, linha a linha
type TabValues struct {
	Title  string
	Values [][]string
}

// IsNotFound identifica respostas 404 da API (planilha removida ou sem compartilhamento)
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// IsPermissionDenied identifica planilhas não compartilhadas com a service account
func IsPermissionDenied(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden
}
