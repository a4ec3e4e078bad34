package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain words", "Vestido Longo", "vestido-longo"},
		{"upper case", "PROMO RELAMPAGO", "promo-relampago"},
		{"acute and tilde", "Biquíni Cintura Alta", "biquini-cintura-alta"},
		{"mixed accents", "Saída de Praia", "saida-de-praia"},
		{"cedilla and tilde", "Coleção Verão", "colecao-verao"},
		{"cedilla", "Calça Jeans", "calca-jeans"},
		{"circumflex", "Maiô Clássico", "maio-classico"},
		{"punctuation collapses", "Novidades!!! Chegaram???", "novidades-chegaram"},
		{"symbols become separators", "top+shorts & saia", "top-shorts-saia"},
		{"digits survive", "Kit 3 Pecas", "kit-3-pecas"},
		{"surrounding whitespace", "   conjunto praia   ", "conjunto-praia"},
		{"tabs inside", "moda\t\tfitness", "moda-fitness"},
		{"consecutive separators", "a - - b", "a-b"},
		{"edge hyphens trimmed", "-oferta-", "oferta"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"single rune", "a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.input))
		})
	}
}
