package domain

import (
	"strconv"
	"strings"
)

// CellKind identifica o tipo de valor resolvido de uma célula
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell representa uma célula de planilha já classificada na ingestão.
// O valor numérico de uma célula de texto é extraído sob demanda por Float.
type Cell struct {
	Kind   CellKind
	text   string
	number float64
}

// NewCell classifica o texto bruto vindo da planilha
func NewCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}

	if isPlainNumber(trimmed) {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Cell{Kind: CellNumber, text: trimmed, number: n}
		}
	}

	return Cell{Kind: CellText, text: trimmed}
}

// TextCell cria uma célula de texto sem tentar interpretar números
func TextCell(text string) Cell {
	if strings.TrimSpace(text) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, text: strings.TrimSpace(text)}
}

// NumberCell cria uma célula numérica
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, text: strconv.FormatFloat(n, 'f', -1, 64), number: n}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String retorna o texto original da célula ("" quando vazia)
func (c Cell) String() string {
	return c.text
}

// Lower retorna o texto em minúsculas, usado nas comparações por substring
func (c Cell) Lower() string {
	return strings.ToLower(c.text)
}

// Float retorna o valor numérico da célula. Textos passam por ExtractNumber,
// então "$5,000" vale 5000 e textos sem dígitos valem 0.
func (c Cell) Float() float64 {
	switch c.Kind {
	case CellNumber:
		return c.number
	case CellText:
		return ExtractNumber(c.text)
	default:
		return 0
	}
}

// Numeric retorna o valor quando a célula parece um número formatado,
// como "1200", "$1,200" ou "35%". Textos com letras não são considerados.
func (c Cell) Numeric() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.number, true
	case CellText:
		stripped := numberFormatting.Replace(c.text)
		if !isPlainNumber(stripped) {
			return 0, false
		}
		n, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

var numberFormatting = strings.NewReplacer("$", "", ",", "", "%", "", " ", "")

// ExtractNumber remove tudo que não for dígito, '.' ou '-' e converte o resto.
// Falhas de conversão resultam em 0.
func ExtractNumber(s string) float64 {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return n
}

func isPlainNumber(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}
