package quote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Orcamentos-api/internal/domain/quote"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3", "3"},
		{"2,5", "2.5"},
		{" 1.25 ", "1.25"},
		{"3un", "3"},
		{"4.", "4"},
		{".5", "0.5"},
		{"+2", "2"},
		{"-3", "0"},
		{"abc", "0"},
		{"", "0"},
	}
	for _, tc := range cases {
		got := quote.ParseQuantity(tc.in)
		assert.True(t, got.Equal(d(tc.want)), "ParseQuantity(%q) = %s, esperado %s", tc.in, got, tc.want)
	}
}
