package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is also the log field name request-scoped entries use.
const RequestIDKey = "request_id"

// FiberRequestIDKey is where the request ID middleware stores the ID in
// fiber locals and the header it echoes it back in.
const FiberRequestIDKey = "X-Request-ID"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()

	requestID, ok := c.Locals(FiberRequestIDKey).(string)
	if !ok || requestID == "" {
		requestID = c.Get(FiberRequestIDKey)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(ctx, requestID)
}
