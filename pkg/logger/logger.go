package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/env"
	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Options struct {
	ServiceName string
	Level       zerolog.Level
	// Format is json or console. Empty falls back to LOG_FORMAT, then json.
	Format    string
	WarnStack bool
	Output    io.Writer
}

// Logger wraps zerolog and carries per-request fields on the context.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = env.Get("LOG_FORMAT", FormatJSON)
	}
	if format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("service", opts.ServiceName)
	if version := buildVersion(); version != "" {
		ctx = ctx.Str("version", version)
	}
	return &Logger{base: ctx.Logger(), warnStack: opts.WarnStack}
}

// ParseLevel maps HF_LOG_LEVEL to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}

func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return &l.base
}

func (l *Logger) with(ctx context.Context, build func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	entry := build(l.from(ctx).With()).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Interface(key, value)
	})
}

// WithFields attaches fields in key order so output is stable.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		for _, k := range keys {
			c = c.Interface(k, fields[k])
		}
		return c
	})
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) WithRole(ctx context.Context, role string) context.Context {
	return l.WithField(ctx, "role", role)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.from(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.from(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.from(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stack())
	}
	event.Msg(msg)
}

// Error always records the goroutine stack.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.from(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", stack()).Msg(msg)
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
