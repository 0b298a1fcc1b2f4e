package handler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"domainverse/internal/logger"
	"domainverse/internal/metrics"
)

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed is the outermost
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// statusRecorder wraps http.ResponseWriter to capture the final HTTP status
// code written by the downstream handler
type statusRecorder struct {
	http.ResponseWriter

	status int
}

// WriteHeader records the status code and forwards the call to the underlying writer
func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working through the recorder
func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// CtxKey is a string-based type used for storing values in request contexts
type CtxKey string

// RequestIDKey is the context key under which the current request ID is stored
const RequestIDKey CtxKey = "request_id"

// RequestID returns the request ID stored by Logger, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetClientIP returns the originating client address, preferring
// X-Forwarded-For and X-Real-IP over the connection address
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2"
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Logger injects a request-scoped logger and request ID, then writes an
// access log and records request metrics. reg may be nil.
func Logger(reg *metrics.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			latency := time.Since(start)
			if reg != nil {
				reg.RecordHTTPRequest(r.Method, strconv.Itoa(rec.status), latency)
			}

			logger.Info(ctx, "Access log",
				zap.Int("status_code", rec.status),
				zap.Float64("latency", latency.Seconds()),
				zap.String("client_ip", GetClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
				zap.String("url", r.URL.String()),
				zap.String("method", r.Method),
			)
		})
	}
}

// CORS sets permissive CORS headers and answers preflight requests
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Request-Id")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Recover turns a panic in a handler into a 500 response
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				logger.Error(r.Context(), "panic in handler",
					zap.String("panic", fmt.Sprint(rv)),
					zap.ByteString("stack", debug.Stack()),
				)
				writeError(w, r, "Internal error", "", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
