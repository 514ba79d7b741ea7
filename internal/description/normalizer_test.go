package description

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "first phrase fits, second overflows",
			raw:  "Widget A; Extra long descriptive phrase that overflows",
			want: "Widget A",
		},
		{
			name: "several phrases joined",
			raw:  "Pen; Blue;  Fine tip ;",
			want: "Pen; Blue; Fine tip",
		},
		{
			name: "padding run cuts the text",
			raw:  "  Stapler; Black      internal code 1234",
			want: "Stapler; Black",
		},
		{
			name: "four spaces are not padding",
			raw:  "Desk    Lamp",
			want: "Desk    Lamp",
		},
		{
			name: "first phrase too long falls back to hard cut",
			raw:  strings.Repeat("x", 45) + "; short",
			want: strings.Repeat("x", 40),
		},
		{
			name: "only separators fall back to the cleaned text",
			raw:  " ; ; ",
			want: "; ;",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
		{
			name: "non-breaking space padding",
			raw:  "Chair\u00a0\u00a0\u00a0\u00a0\u00a0legacy sku",
			want: "Chair",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, DefaultMaxLength))
		})
	}
}

func TestNormalize_PlainTextIsTrimmedAndCut(t *testing.T) {
	raw := "  " + strings.Repeat("abcdefghij", 6) + "  "
	assert.Equal(t, strings.Repeat("abcdefghij", 4), Normalize(raw, DefaultMaxLength))
}

func TestNormalize_NeverExceedsMaxLength(t *testing.T) {
	inputs := []string{
		strings.Repeat("é", 100),
		strings.Repeat("ab; ", 50),
		"one; two; three; four; five; six; seven; eight; nine",
		strings.Repeat(" ", 3) + strings.Repeat("z", 39) + ";q",
	}
	for _, in := range inputs {
		assert.LessOrEqual(t, utf8.RuneCountInString(Normalize(in, DefaultMaxLength)), DefaultMaxLength, in)
	}
}

func TestNormalize_CountsRunes(t *testing.T) {
	raw := strings.Repeat("é", 40)
	assert.Equal(t, raw, Normalize(raw, DefaultMaxLength))
}

func TestNormalizeLegacy(t *testing.T) {
	assert.Equal(t, "Widget A; Extra long descriptive phrase ", NormalizeLegacy("  Widget A; Extra long descriptive phrase that overflows", 40))
	assert.Equal(t, "short", NormalizeLegacy(" short ", 40))
}

func TestNewNormalizer(t *testing.T) {
	phrase, err := NewNormalizer(config.DescriptionPhrase, 40)
	require.NoError(t, err)
	assert.Equal(t, "Widget A", phrase("Widget A; Extra long descriptive phrase that overflows"))

	legacy, err := NewNormalizer(config.DescriptionLegacy, 0)
	require.NoError(t, err)
	assert.Len(t, legacy(strings.Repeat("y", 50)), DefaultMaxLength)

	_, err = NewNormalizer("summarize", 40)
	assert.ErrorContains(t, err, "unknown description policy")
}
