package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  cod cliente ", "COD_CLIENTE"},
		{"Día de visita", "DIA_DE_VISITA"},
		{"Stock / Unidades", "STOCK_UNIDADES"},
		{"KIWI__ACTUAL", "KIWI_ACTUAL"},
		{"_edge_", "EDGE"},
		{"N/A", "N_A"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Key(tt.in); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyIsIdempotent(t *testing.T) {
	inputs := []string{
		"Cod. Cliente", "Miércoles / Jueves", "  a  _ b ", "KIWI 2 PUERTAS", "Ñandú", "x/y/z",
	}
	for _, in := range inputs {
		once := Key(in)
		assert.Equal(t, once, Key(once), "input %q", in)
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "ver mas", Text("  Ver   MÁS "))
	assert.Equal(t, "miercoles", Text("Miércoles"))
	assert.Equal(t, "dame los rojos de mi ruta", Text("Dame los ROJOS de mi ruta"))
	assert.Equal(t, Text("Sábado"), Text(Text("Sábado")))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"dame", "los", "5", "primeros", "rojos"}, Words("¡Dame los 5 primeros, rojos!"))
	assert.Empty(t, Words("  ¿? "))
}

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "Sabado", FoldDiacritics("Sábado"))
	assert.Equal(t, "pina", FoldDiacritics("piña"))
}
