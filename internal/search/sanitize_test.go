package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "fusa teruo", "fusa teruo"},
		{"syntax chars stripped", "fusa!+/:[]^{}~teruo", "fusateruo"},
		{"doubled spaces collapsed", "fusa  teruo", "fusa teruo"},
		{"strip then collapse", "fusa ! teruo", "fusa teruo"},
		{"operators survive", "fusa AND teruo", "fusa AND teruo"},
		{"even quotes unchanged", `"short stories"`, `"short stories"`},
		{"odd quote escaped", `fusa "teruo`, `fusa \"teruo`},
		{"odd of three escapes last", `"fusa" "teruo`, `"fusa" \"teruo`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.in))
		})
	}
}

func TestParamsSanitized(t *testing.T) {
	p := Params{"fulltext": {"fusa!teruo"}, "topics": {"373"}}
	clean := p.Sanitized()
	assert.Equal(t, "fusateruo", clean.First("fulltext"))
	assert.Equal(t, "373", clean.First("topics"))
	// original untouched
	assert.Equal(t, "fusa!teruo", p.First("fulltext"))
}

func TestParamsScrub(t *testing.T) {
	p := Params{
		"fulltext": {"minidoka"},
		"topics":   {"373"},
		"evil":     {"drop table"},
		"page":     {"2"},
	}
	p.Scrub([]string{"fulltext", "topics"})
	assert.Equal(t, Params{
		"fulltext": {"minidoka"},
		"topics":   {"373"},
		"page":     {"2"},
	}, p)
}
