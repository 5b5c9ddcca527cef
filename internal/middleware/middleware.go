package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"organizese/internal/logger"
	"organizese/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const RequestIdKey contextKey = "request_id"

const (
	HeaderUserID      = "X-User-ID"
	HeaderImpersonate = "X-Impersonate-User"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-ID")
		if requestId == "" {
			requestId = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestId)

		ctx := context.WithValue(r.Context(), RequestIdKey, requestId)
		ctx = logger.WithFields(ctx, zap.String("request_id", requestId))
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := GetRequestID(r.Context())

		logger.Info(
			"HTTP_IN: request started",
			zap.String("request_id", requestId),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr),
		)

		lw := &loggingWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		next.ServeHTTP(lw, r)

		logLevel := zap.InfoLevel
		if lw.status >= 400 && lw.status < 500 {
			logLevel = zap.WarnLevel
		} else if lw.status >= 500 {
			logLevel = zap.ErrorLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: request finished",
			zap.String("request_id", requestId),
			zap.Int("status", lw.status),
			zap.Int("bytes_written", lw.size),
			zap.Duration("ms", time.Since(start)),
		)
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

// Session builds the per-request session from X-User-ID. admins lists the
// user ids allowed to act as another user through X-Impersonate-User.
func Session(admins []uuid.UUID) func(http.Handler) http.Handler {
	adminSet := make(map[uuid.UUID]struct{}, len(admins))
	for _, id := range admins {
		adminSet[id] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := GetRequestID(r.Context())

			userID, err := uuid.Parse(r.Header.Get(HeaderUserID))
			if err != nil || userID == uuid.Nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", HeaderUserID+" header with a user id is required", requestId)
				return
			}

			var impersonate *uuid.UUID
			if raw := r.Header.Get(HeaderImpersonate); raw != "" {
				target, err := uuid.Parse(raw)
				if err != nil {
					writeJSONError(w, http.StatusBadRequest, "bad_request", HeaderImpersonate+" must be a user id", requestId)
					return
				}
				impersonate = &target
			}

			_, admin := adminSet[userID]
			state, err := session.New(userID, admin, impersonate)
			if err != nil {
				logger.Warn("HTTP: impersonation denied",
					zap.String("request_id", requestId),
					zap.String("user_id", userID.String()))
				writeJSONError(w, http.StatusForbidden, "forbidden", err.Error(), requestId)
				return
			}
			if state.Impersonating() {
				logger.Info("HTTP: acting as another user",
					zap.String("request_id", requestId),
					zap.String("user_id", userID.String()),
					zap.String("effective_user_id", state.EffectiveUserID().String()))
			}

			ctx := logger.WithFields(r.Context(), zap.String("user_id", userID.String()))
			if state.Impersonating() {
				ctx = logger.WithFields(ctx, zap.String("effective_user_id", state.EffectiveUserID().String()))
			}
			next.ServeHTTP(w, r.WithContext(session.WithState(ctx, state)))
		})
	}
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

func RateLimit(rpm int) func(http.Handler) http.Handler {
	clients := make(map[string]*clientInfo)
	var mtx sync.Mutex
	window := time.Minute

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)
			now := time.Now()

			mtx.Lock()

			info, exists := clients[ip]

			if !exists {
				info = &clientInfo{
					count:   1,
					resetAt: now.Add(window),
				}
				clients[ip] = info
			} else if now.After(info.resetAt) {
				info.count = 1
				info.resetAt = now.Add(window)
			} else {
				if info.count >= rpm {
					retryAfter := int(info.resetAt.Sub(now).Seconds())
					mtx.Unlock()

					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusTooManyRequests)

					json.NewEncoder(w).Encode(map[string]any{
						"error":       "rate_limit_exceeded",
						"message":     "too many requests, try again later",
						"retry_after": retryAfter,
						"request_id":  GetRequestID(r.Context()),
					})
					return
				}

				info.count++
			}

			// read before unlocking
			remaining := rpm - info.count
			resetUnix := info.resetAt.Unix()

			mtx.Unlock()

			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetUnix, 10))

			next.ServeHTTP(w, r)
		})
	}
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSONError(w http.ResponseWriter, code int, errCode, message, requestId string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      errCode,
		"message":    message,
		"request_id": requestId,
	})
}
