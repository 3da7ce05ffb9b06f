package paginator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string
		in   PaginateQuery
		want PaginateQuery
	}{
		{name: "defaults", in: PaginateQuery{}, want: PaginateQuery{Page: DefaultPage, Limit: DefaultLimit}},
		{name: "capped", in: PaginateQuery{Page: 3, Limit: 1000}, want: PaginateQuery{Page: 3, Limit: MaxLimit}},
		{name: "kept", in: PaginateQuery{Page: 2, Limit: 5}, want: PaginateQuery{Page: 2, Limit: 5}},
		{name: "page capped", in: PaginateQuery{Page: 4611686018427387905, Limit: 3}, want: PaginateQuery{Page: MaxPage, Limit: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Adjust()
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name string
		in   PaginateQuery
		want int
	}{
		{name: "first page", in: PaginateQuery{Page: 1, Limit: 20}, want: 0},
		{name: "third page", in: PaginateQuery{Page: 3, Limit: 5}, want: 10},
		{name: "defaults", in: PaginateQuery{}, want: 0},
		{name: "huge page does not wrap", in: PaginateQuery{Page: 4611686018427387905, Limit: 3}, want: (MaxPage - 1) * 3},
		{name: "huge page with limit 4", in: PaginateQuery{Page: 4611686018427387905, Limit: 4}, want: (MaxPage - 1) * 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Adjust()
			assert.Equal(t, tt.want, q.Offset())
			assert.GreaterOrEqual(t, q.Offset(), 0)
		})
	}
}

func TestPaginatorResponse(t *testing.T) {
	tests := []struct {
		name string
		in   Paginator
		want PaginatorResponse
	}{
		{
			name: "middle page",
			in:   Paginator{Total: 5, Count: 2, PerPage: 2, CurrentPage: 2},
			want: PaginatorResponse{Total: 5, Count: 2, PerPage: 2, CurrentPage: 2, TotalPages: 3, HasNext: true, HasPrev: true},
		},
		{
			name: "last page",
			in:   Paginator{Total: 5, Count: 1, PerPage: 2, CurrentPage: 3},
			want: PaginatorResponse{Total: 5, Count: 1, PerPage: 2, CurrentPage: 3, TotalPages: 3, HasPrev: true},
		},
		{
			name: "empty",
			in:   Paginator{PerPage: 20, CurrentPage: 1},
			want: PaginatorResponse{PerPage: 20, CurrentPage: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.ToResponse())
		})
	}
}
