package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/riskibarqy/matchday-engine/internal/platform/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Format selects the stdout encoding. Deployed services use JSON; console
// output is for local runs.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatConsole:
		return FormatConsole, nil
	default:
		return "", fmt.Errorf("invalid log format %q: valid values are %s, %s", v, FormatJSON, FormatConsole)
	}
}

// ParseLevel maps a textual level to a zap level, defaulting to info.
func ParseLevel(v string) Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a key/value front for zap. Every method is safe on a nil
// receiver and falls back to the process default.
type Logger struct {
	zap    *zap.Logger
	synced *atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// New builds a stdout logger. fields become static key/value pairs on every
// entry (service name, env). Errors and above carry a stack trace.
func New(format Format, level Level, fields ...any) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if format == FormatConsole {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))
	if len(fields) > 0 {
		z = z.With(zapFields(fields)...)
	}
	return FromZap(z)
}

func NewJSON(level Level, fields ...any) *Logger {
	return New(FormatJSON, level, fields...)
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zap: z, synced: new(atomic.Bool)}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

func (l *Logger) orDefault() *Logger {
	if l == nil || l.zap == nil {
		return Default()
	}
	return l
}

func (l *Logger) Zap() *zap.Logger {
	return l.orDefault().zap
}

// Sync flushes buffered entries once; children share the flag with their
// root so shutdown code can call it freely.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	if l.synced.CompareAndSwap(false, true) {
		return l.zap.Sync()
	}
	return nil
}

func (l *Logger) With(args ...any) *Logger {
	l = l.orDefault()
	return &Logger{zap: l.zap.With(zapFields(args)...), synced: l.synced}
}

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(component string) *Logger {
	l = l.orDefault()
	return &Logger{zap: l.zap.Named(component), synced: l.synced}
}

// Enabled reports whether entries at level would be written, so callers can
// skip building expensive fields.
func (l *Logger) Enabled(level Level) bool {
	return l.orDefault().zap.Core().Enabled(level)
}

func (l *Logger) Debug(msg string, args ...any) { l.write(nil, LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(nil, LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(nil, LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(nil, LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

// write adds trace_id and span_id when ctx carries a valid span.
func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	ce := l.orDefault().zap.Check(level, msg)
	if ce == nil {
		return
	}
	fields := zapFields(args)
	if ctx != nil {
		if traceID, spanID := tracing.IDs(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID), zap.String("span_id", spanID))
		}
	}
	ce.Write(fields...)
}

// zapFields pairs args as key/value. A non-string key becomes "arg" and a
// trailing key without a value is kept with a nil value.
func zapFields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2+2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}
		if i+1 >= len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}

		switch value := args[i+1].(type) {
		case error:
			out = append(out, zap.NamedError(key, value))
		case fmt.Stringer:
			out = append(out, zap.Stringer(key, value))
		default:
			out = append(out, zap.Any(key, value))
		}
	}
	return out
}
