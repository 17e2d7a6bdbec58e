package middlewares

const (
	CtxRequestID = "request_id"

	requestIDHeader = "X-Request-Id"
)
