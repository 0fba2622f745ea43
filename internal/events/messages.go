package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidMessage = errors.New("invalid sheet updated message")

// SheetUpdatedMessage avisa que uma planilha mudou. Basta um dos identificadores.
// Sem período informado o consumidor usa a janela padrão da sincronização.
type SheetUpdatedMessage struct {
	SourceID      string    `json:"source_id,omitempty"`
	SpreadsheetID string    `json:"spreadsheet_id,omitempty"`
	StartDate     string    `json:"start_date,omitempty"`
	EndDate       string    `json:"end_date,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewSheetUpdatedMessage(sourceID, spreadsheetID string) *SheetUpdatedMessage {
	return &SheetUpdatedMessage{
		SourceID:      sourceID,
		SpreadsheetID: spreadsheetID,
		Timestamp:     time.Now(),
	}
}

func (m *SheetUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SheetUpdatedMessageFromJSON decodifica e valida a mensagem
func SheetUpdatedMessageFromJSON(data []byte) (*SheetUpdatedMessage, error) {
	var msg SheetUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return &msg, nil
}

// Validate normaliza os identificadores e confere a combinação de campos
func (m *SheetUpdatedMessage) Validate() error {
	m.SourceID = strings.TrimSpace(m.SourceID)
	m.SpreadsheetID = strings.TrimSpace(m.SpreadsheetID)
	if m.SourceID == "" && m.SpreadsheetID == "" {
		return fmt.Errorf("%w: source_id or spreadsheet_id is required", ErrInvalidMessage)
	}

	if (m.StartDate == "") != (m.EndDate == "") {
		return fmt.Errorf("%w: start_date and end_date must be sent together", ErrInvalidMessage)
	}

	return nil
}

// Period converte as datas da mensagem. ok é false quando a mensagem não traz período.
func (m *SheetUpdatedMessage) Period() (from, to time.Time, ok bool, err error) {
	if m.StartDate == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	from, err = time.Parse(time.DateOnly, m.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: start_date: %v", ErrInvalidMessage, err)
	}
	to, err = time.Parse(time.DateOnly, m.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: end_date: %v", ErrInvalidMessage, err)
	}

	return from, to, true, nil
}
