package middleware

// Context keys stored on the echo context.
const (
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"
