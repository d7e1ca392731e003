// Package logging wraps zerolog with a process-wide root logger and
// request-scoped children.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	Level     string
	Format    string // console or json
	Component string
	Writer    io.Writer
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

var root atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	root.Store(&nop)
}

// Init builds the root logger. It may be called again (e.g. after flags
// are parsed); later calls replace the root.
func Init(opt Options) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}

	log := ctx.Logger()
	root.Store(&log)
}

// Get returns the root logger. Before Init it discards everything.
func Get() *Logger {
	return root.Load()
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"request_id"}
	keySessionID = ctxKey{"session_id"}
)

// WithRequest annotates ctx with the request and session ids
func WithRequest(ctx context.Context, requestID, sessionID string) context.Context {
	if requestID != "" {
		ctx = context.WithValue(ctx, keyRequestID, requestID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, keySessionID, sessionID)
	}
	return ctx
}

// RequestID returns the request id stored in ctx
func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(keyRequestID).(string)
	return s
}

// C returns a child logger enriched with the ids stored in ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	if s, ok := ctx.Value(keyRequestID).(string); ok && s != "" {
		b = b.Str("request_id", s)
	}
	if s, ok := ctx.Value(keySessionID).(string); ok && s != "" {
		b = b.Str("session_id", s)
	}
	l := b.Logger()
	return &l
}
