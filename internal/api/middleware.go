package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/smazurov/audiohal/internal/logging"
)

// RequestIDHeader carries the request identifier. A client supplied value
// is echoed back unchanged.
const RequestIDHeader = "X-Request-ID"

// HTTPLoggingMiddleware writes one log line per completed request.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	begin := time.Now()

	id := ctx.Header(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetHeader(RequestIDHeader, id)

	next(ctx)

	u := ctx.URL()
	attrs := make([]slog.Attr, 0, 8)
	attrs = append(attrs,
		slog.String("request_id", id),
		slog.String("method", ctx.Method()),
		slog.String("path", u.Path),
		slog.Int("status", ctx.Status()),
		slog.Duration("duration", time.Since(begin)),
		slog.String("remote_addr", ctx.RemoteAddr()),
	)
	if op := ctx.Operation(); op != nil {
		attrs = append(attrs, slog.String("operation", op.OperationID))
	}
	// the SSE query may carry credentials
	if u.RawQuery != "" && !strings.Contains(u.RawQuery, "auth=") {
		attrs = append(attrs, slog.String("query", u.RawQuery))
	}

	logging.GetLogger("http").LogAttrs(ctx.Context(), requestLevel(ctx.Method(), ctx.Status()),
		"HTTP request completed", attrs...)
}

func requestLevel(method string, status int) slog.Level {
	if method == http.MethodOptions {
		return slog.LevelDebug
	}
	switch status / 100 {
	case 5:
		return slog.LevelError
	case 4:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
