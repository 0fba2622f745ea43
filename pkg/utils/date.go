package utils

import (
	"strings"
	"time"
)

func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// Formatos de data encontrados nas planilhas dos clientes
var sheetDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon, Jan 2, 2006",
}

// ParseSheetDate tenta os formatos conhecidos e devolve false quando nenhum serve
func ParseSheetDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
