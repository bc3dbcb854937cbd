package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func contextFor(target string) echo.Context {
	e := echo.New()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   PaginationParams
	}{
		{"defaults", "/", PaginationParams{Page: 1, PageSize: 20, Offset: 0}},
		{"page and limit", "/?page=3&limit=10", PaginationParams{Page: 3, PageSize: 10, Offset: 20}},
		{"limit capped", "/?limit=500", PaginationParams{Page: 1, PageSize: 100, Offset: 0}},
		{"offset wins", "/?page=9&limit=10&offset=15", PaginationParams{Page: 2, PageSize: 10, Offset: 15}},
		{"garbage ignored", "/?page=x&limit=-4&offset=-1", PaginationParams{Page: 1, PageSize: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPaginationParams(contextFor(tt.target)))
		})
	}
}

func TestQueryBool(t *testing.T) {
	assert.True(t, QueryBool(contextFor("/?wait=true"), "wait"))
	assert.True(t, QueryBool(contextFor("/?wait=1"), "wait"))
	assert.False(t, QueryBool(contextFor("/?wait=nope"), "wait"))
	assert.False(t, QueryBool(contextFor("/"), "wait"))
}
