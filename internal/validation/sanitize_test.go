package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"plain":                    "plain",
		"  padded  ":               "padded",
		"line\r\nbreak":            "line break",
		"many\n\n\nbreaks":         "many breaks",
		"tabs\t\tand  spaces":      "tabs and spaces",
		"zero\u200bwidth":          "zerowidth",
		"bell\a and \x00 null":     "bell and null",
		"\u00a0non-breaking\u00a0": "non-breaking",
	}
	for in, want := range cases {
		assert.Equalf(t, want, SanitizeText(in), "input %q", in)
	}
}

func FuzzSanitizeTextIdempotent(f *testing.F) {
	for _, seed := range []string{
		"Cours - L1",
		"  a \r\n b\t\tc ",
		"\u200b x \u200b",
		"Réunion\u00a0pédagogique",
		"\xff\xfe broken utf8",
		"\n",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := SanitizeText(s)
		if twice := SanitizeText(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
