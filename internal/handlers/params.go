package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// queryBool parses an optional boolean query parameter
func queryBool(c *gin.Context, key string) (*bool, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// queryTime parses an optional RFC 3339 query parameter
func queryTime(c *gin.Context, key string) (*time.Time, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// queryUint parses an optional positive integer query parameter
func queryUint(c *gin.Context, key string) (*uint64, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, false
	}
	return &value, true
}

func paginationResponse(params utils.PaginationParams, total int64) *utils.PaginationResponse {
	return &utils.PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	}
}
