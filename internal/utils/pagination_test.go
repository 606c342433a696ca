package utils

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-scheduler/internal/constants"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        PaginationParams
	}{
		{"first page", 1, 10, PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{"third page", 3, 25, PaginationParams{Page: 3, Limit: 25, Offset: 50}},
		{"page below minimum", 0, 10, PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{"limit too large", 2, 1000, PaginationParams{Page: 2, Limit: constants.DefaultPageSize, Offset: constants.DefaultPageSize}},
		{"limit zero", 1, 0, PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"huge page is capped", math.MaxInt / 10, 100, PaginationParams{Page: math.MaxInt / 100, Limit: 100, Offset: (math.MaxInt/100 - 1) * 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		url  string
		want PaginationParams
	}{
		{"explicit values", "/api/tasks?page=2&limit=5", PaginationParams{Page: 2, Limit: 5, Offset: 5}},
		{"unparseable page", "/api/tasks?page=abc", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"defaults", "/api/tasks", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// gin caches parsed query values per context
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", tt.url, nil)

			assert.Equal(t, tt.want, GetPaginationParams(c))
		})
	}
}
