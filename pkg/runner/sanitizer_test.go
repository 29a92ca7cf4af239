package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SalesText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"command", "nueva venta", "nueva venta"},
		{"accented reply", "Sí", "Sí"},
		{"amount", " 12,50 ", "12,50"},
		{"client name pasted over two lines", "Comercial Acme\nSAC", "Comercial Acme SAC"},
		{"windows line break", "Arroz\r\nExtra", "Arroz Extra"},
		{"tabs and repeated blanks", "Aceite \t\t  vegetal", "Aceite vegetal"},
		{"no-break space", "Leche\u00a0entera", "Leche entera"},
		{"trailing newline", "Widget\n", "Widget"},
		{"only blanks", " \n\t ", ""},
		{"ansi escape", "\x1b[31mAcme\x1b[0m", "[31mAcme[0m"},
		{"null and bell", "Ac\x00me\x07", "Acme"},
		{"bidi marks", "\u200eBodega\u200f Rosa\u202c", "Bodega Rosa"},
		{"zero width and bom", "\ufeffPan\u200b francés", "Pan francés"},
		{"emoji kept", "Torta 🎂", "Torta 🎂"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_SizeLimit(t *testing.T) {
	_, err := SanitizeInput(strings.Repeat("a", DefaultMaxInputSize))
	assert.NoError(t, err)

	_, err = SanitizeInput(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("Comercial Acme")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := SanitizeInput("Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)

	t.Setenv(EnvMaxInputSize, "not-a-number")
	_, err = SanitizeInput(strings.Repeat("a", 11))
	assert.NoError(t, err, "an unparsable override falls back to the default")
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("Acme \xbd\xb2")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
