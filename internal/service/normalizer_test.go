package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "crlf becomes lf",
			input:    "linea uno\r\nlinea dos",
			expected: "linea uno\nlinea dos",
		},
		{
			name:     "bare cr becomes lf",
			input:    "linea uno\rlinea dos",
			expected: "linea uno\nlinea dos",
		},
		{
			name:     "blank line runs collapse to one blank line",
			input:    "parrafo uno\n\n\n\n\nparrafo dos",
			expected: "parrafo uno\n\nparrafo dos",
		},
		{
			name:     "double newline is preserved",
			input:    "parrafo uno\n\nparrafo dos",
			expected: "parrafo uno\n\nparrafo dos",
		},
		{
			name:     "horizontal whitespace collapses",
			input:    "pago  de \t tasas",
			expected: "pago de tasas",
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  \n texto \n  ",
			expected: "texto",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only becomes empty",
			input:    " \t\n\r\n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"texto\r\ncon\r\rsaltos\n\n\n\ny  espacios \t dobles ",
		"ya normalizado\n\nsin cambios",
		"",
	}

	for _, input := range inputs {
		once := NormalizeText(input)
		assert.Equal(t, once, NormalizeText(once))
	}
}
