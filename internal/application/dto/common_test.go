package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Orcamentos-api/internal/application/dto"
)

func TestDefaultPage(t *testing.T) {
	cases := []struct {
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{dto.PageRequest{}, 20, 0},
		{dto.PageRequest{Limit: 50, Offset: 10}, 50, 10},
		{dto.PageRequest{Limit: 500}, dto.MaxPageLimit, 0},
		{dto.PageRequest{Limit: -1, Offset: -5}, 20, 0},
	}
	for _, tc := range cases {
		p := tc.in
		p.DefaultPage()
		assert.Equal(t, tc.wantLimit, p.Limit, "limit para %+v", tc.in)
		assert.Equal(t, tc.wantOffset, p.Offset, "offset para %+v", tc.in)
	}
}
