package middlewarex

import (
	"log/slog"
	"net"
	"net/http"

	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/logx"
)

// LogContext кладёт в контекст запроса логгер с trace-id, методом, URL и IP.
// Должен стоять после TraceID.
func LogContext(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			attrs := []any{
				slog.String(logx.FieldHTTPMethod, r.Method),
				slog.String(logx.FieldURL, r.URL.String()),
				slog.String(logx.FieldIP, clientIP(r)),
			}

			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				attrs = append(attrs, slog.String(logx.FieldTraceID, traceID.String()))
			}

			ctx = contextx.WithLogger(ctx, base.With(attrs...))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
