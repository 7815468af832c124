package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// https://github.com/gin-contrib/requestid
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set("X-Request-ID", requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

			loggerWithID := logger.With().Str("request_id", requestID).Logger()
			ctx = loggerWithID.WithContext(ctx)

			loggerWithID.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("request started")

			sw := &sizeWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(ctx))

			duration := time.Since(start)
			evt := loggerWithID.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int64("duration_ms", duration.Milliseconds()).
				Dur("duration", duration)
			if strings.HasPrefix(r.URL.Path, "/api") {
				evt = evt.Int64("response_bytes", sw.written)
			}
			evt.Msg("request completed")
		})
	}
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

type sizeWriter struct {
	http.ResponseWriter
	written int64
}

func (w *sizeWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.written += int64(n)
	return n, err
}

// IPBlocklist redirects listed client IPs away before any route runs. The
// client IP is the first X-Forwarded-For entry when present, else the
// remote address.
func IPBlocklist(blocked []string, redirectURL string, logger zerolog.Logger) func(http.Handler) http.Handler {
	blockedSet := make(map[string]struct{}, len(blocked))
	for _, ip := range blocked {
		blockedSet[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		if len(blockedSet) == 0 || redirectURL == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if _, found := blockedSet[ip]; found {
				logger.Info().Str("ip", ip).Str("path", r.URL.Path).Msg("blocked ip redirected")
				http.Redirect(w, r, redirectURL, http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}
