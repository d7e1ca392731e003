package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/worker"
)

const headerRequestID = "X-Request-ID"

// captureWriter records status and bytes written
type captureWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	if n > 0 {
		cw.bytes += n
	}
	return n, err
}

// Hijack lets the WebSocket upgrade through the access log
func (cw *captureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	cw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// requestID stamps each request with an id and a request-scoped logger
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequest(r.Context(), id, "")))
	})
}

// accessLog logs method, path, status, elapsed and bytes; requests at or
// over slow are logged at warn
func accessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(cw, r)

			elapsed := time.Since(start)
			log := logging.C(r.Context())
			evt := log.Info()
			if slow > 0 && elapsed >= slow && cw.status != http.StatusSwitchingProtocols {
				evt = log.Warn()
			}
			evt.Int("status", cw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", cw.bytes).
				Msg("request done")
		})
	}
}

type panicWire struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// recoverJSON turns a panic into a JSON 500
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				reqID := logging.RequestID(r.Context())
				logging.C(r.Context()).Error().
					Interface("panic", v).
					Msgf("panic recovered\n%s", debug.Stack())

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(panicWire{
					Error:     http.StatusText(http.StatusInternalServerError),
					RequestID: reqID,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects clients that exceed their per-address budget
func rateLimit(limiter *worker.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.AllowKey(clientAddr(r)) {
				logging.C(r.Context()).Debug().Str("client", clientAddr(r)).Msg("rate limited")
				respondError(w, http.StatusTooManyRequests, "Muitas verificações em sequência. Aguarde um momento.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
