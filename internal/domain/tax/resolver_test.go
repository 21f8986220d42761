package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRules() []Rule {
	return []Rule{
		{Key: "MH", PostalPrefixes: []string{"40", "41"}, NameSubstrings: []string{"maharashtra", "mumbai"}},
		{Key: "DL", PostalPrefixes: []string{"11"}, NameSubstrings: []string{"delhi"}},
		{Key: "KA", PostalPrefixes: []string{"56"}, NameSubstrings: []string{"karnataka", "bengaluru"}},
	}
}

func TestResolverResolve(t *testing.T) {
	resolver := NewResolver(testRules())

	tests := []struct {
		name       string
		postalCode string
		address    string
		want       string
	}{
		{
			name:       "postal prefix match",
			postalCode: "400001",
			want:       "MH",
		},
		{
			name:       "postal match wins over name match",
			postalCode: "110001",
			address:    "somewhere in Mumbai",
			want:       "DL",
		},
		{
			name:    "name substring match case insensitive",
			address: "14 MG Road, BENGALURU",
			want:    "KA",
		},
		{
			name:       "unmatched postal falls through to name",
			postalCode: "999999",
			address:    "Connaught Place, Delhi",
			want:       "DL",
		},
		{
			name:       "no match returns other",
			postalCode: "999999",
			address:    "unknown town",
			want:       JurisdictionOther,
		},
		{
			name: "empty inputs return other",
			want: JurisdictionOther,
		},
		{
			name:       "table order breaks ties",
			postalCode: "410001",
			address:    "Delhi",
			want:       "MH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.postalCode, tt.address)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolverNormalizesRuleCase(t *testing.T) {
	resolver := NewResolver([]Rule{
		{Key: "DL", NameSubstrings: []string{"Delhi"}},
		{Key: "KA", NameSubstrings: []string{"BENGALURU"}},
	})

	assert.Equal(t, "DL", resolver.Resolve("", "Connaught Place, New Delhi"))
	assert.Equal(t, "DL", resolver.Resolve("", "connaught place, new delhi"))
	assert.Equal(t, "KA", resolver.Resolve("", "MG Road, Bengaluru"))
}
