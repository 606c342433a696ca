package constants

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Context keys shared by middleware and handlers
const (
	ContextKeyRequestID = "request_id"
	ContextKeyTask      = "task"
	ContextKeyUser      = "user"
	ContextKeyResource  = "resource"
)

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-ID"
