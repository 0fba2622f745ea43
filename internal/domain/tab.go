package domain

import "strings"

// Row é uma linha de planilha endereçada por índice, sem schema próprio
type Row []Cell

// NewRow converte uma linha de strings em células
func NewRow(raw []string) Row {
	row := make(Row, len(raw))
	for i, value := range raw {
		row[i] = NewCell(value)
	}
	return row
}

// Cell retorna a célula do índice informado ou uma célula vazia
func (r Row) Cell(idx int) Cell {
	if idx < 0 || idx >= len(r) {
		return Cell{Kind: CellEmpty}
	}
	return r[idx]
}

func (r Row) IsEmpty() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Contains verifica se alguma célula contém o trecho (sem diferenciar maiúsculas)
func (r Row) Contains(substr string) bool {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return true
	}

	for _, c := range r {
		if strings.Contains(c.Lower(), needle) {
			return true
		}
	}
	return false
}

// Strings devolve a linha como texto, útil para logs e para o CLI
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Tab é uma aba da planilha, imutável depois de carregada
type Tab struct {
	Name string
	Rows []Row
}

// RawTab é o formato de entrada em JSON: {"tabName": "...", "data": [[...]]}
type RawTab struct {
	TabName string     `json:"tabName"`
	Data    [][]string `json:"data"`
}

func NewTab(name string, data [][]string) Tab {
	rows := make([]Row, len(data))
	for i, raw := range data {
		rows[i] = NewRow(raw)
	}
	return Tab{Name: name, Rows: rows}
}

// TabsFromRaw converte as abas recebidas em JSON
func TabsFromRaw(raw []RawTab) []Tab {
	tabs := make([]Tab, 0, len(raw))
	for _, r := range raw {
		tabs = append(tabs, NewTab(r.TabName, r.Data))
	}
	return tabs
}
