package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  The Thing  ", "the thing"},
		{"collapse whitespace", "the   thing", "the thing"},
		{"colon", "Mission: Impossible", "mission impossible"},
		{"apostrophe inside word", "Schitt's Creek", "schitts creek"},
		{"curly apostrophe", "Schitt’s Creek", "schitts creek"},
		{"diacritics", "Amélie", "amelie"},
		{"punctuation runs", "Spider-Man: Across the Spider-Verse", "spider man across the spider verse"},
		{"digits kept", "Blade Runner 2049", "blade runner 2049"},
		{"transliteration", "Τιτανικός", "titanikos"},
		{"only punctuation", " -- !! ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"The Thing",
		"Amélie",
		"Spider-Man: Across the Spider-Verse",
		"Schitt’s Creek",
		"Crouching Tiger, Hidden Dragon (臥虎藏龍)",
		"  Mixed   CASE  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeIgnoresCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, Normalize("The Thing"), Normalize("the   thing"))
}
