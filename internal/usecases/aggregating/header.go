package aggregating

import (
	"strings"

	"github.com/vfg2006/campaign-metrics-api/internal/domain"
)

// HeaderScanLimit é quantas linhas do topo da aba são inspecionadas
const HeaderScanLimit = 10

// Palavras-chave que identificam o cabeçalho de abas de campanha
var CampaignHeaderKeywords = []string{
	"business",
	"service",
	"leads",
	"spend",
	"cpl",
	"cost per lead",
	"project",
	"campaign",
	"budget",
}

// Palavras-chave que identificam o cabeçalho de abas de agendamentos e ligações
var AppointmentHeaderKeywords = []string{
	"patient",
	"date",
	"status",
	"appointment",
	"procedure",
	"showed",
	"booked",
	"call",
}

// DetectHeader retorna o índice da primeira linha, entre as HeaderScanLimit
// primeiras, com alguma célula contendo uma das palavras-chave.
// Quando nenhuma linha serve devolve (-1, false) e a aba é tratada como não estruturada.
func DetectHeader(rows []domain.Row, keywords []string) (int, bool) {
	limit := len(rows)
	if limit > HeaderScanLimit {
		limit = HeaderScanLimit
	}

	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if cell.IsEmpty() {
				continue
			}

			text := normalizeHeader(cell.String())
			for _, keyword := range keywords {
				if strings.Contains(text, keyword) {
					return i, true
				}
			}
		}
	}

	return -1, false
}

// normalizeHeader deixa o texto em minúsculas e colapsa espaços em branco
func normalizeHeader(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
