package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader propagates the request identifier to and from clients.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key under which the request ID is stored
	// for the logging middleware and error handlers.
	RequestIDKey = "request_id"

	// maxRequestIDLength caps inbound identifiers. Anything longer is replaced.
	maxRequestIDLength = 64
)

// RequestIDMiddleware tags every request with an identifier that ties the
// panel's failed calls to server-side log lines. An ID forwarded by the
// ingress proxy is reused when it looks sane; otherwise a fresh UUID is
// generated. The ID lands in the gin context under RequestIDKey and is echoed
// back in the X-Request-ID response header.
//
// Runs directly after gin.Recovery so the logging and metrics middleware see
// the ID on every request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// validRequestID accepts identifiers forwarded by the ingress proxy. The value
// is echoed into the response and into log lines, so oversized input or
// anything outside printable ASCII is discarded in favor of a generated ID.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
