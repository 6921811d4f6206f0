package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of any attribute named in secretKeys.
const Redacted = "[redacted]"

// secretKeys are attribute keys whose values never reach a record: bearer
// tokens, reset continuation tokens and passwords.
var secretKeys = map[string]bool{
	"token":         true,
	"temp_token":    true,
	"password":      true,
	"authorization": true,
}

// SlogLogger adapts *slog.Logger to Logger and redacts credential attributes.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(redact(args)...)}
}

func (s *SlogLogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, msg, redact(args)...)
}

// redact returns args with secret values replaced. args is not modified.
func redact(args []any) []any {
	var out []any
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case slog.Attr:
			if secretKeys[strings.ToLower(v.Key)] {
				out = ensureCopy(out, args)
				out[i] = slog.String(v.Key, Redacted)
			}
		case string:
			if i+1 < len(args) && secretKeys[strings.ToLower(v)] {
				out = ensureCopy(out, args)
				out[i+1] = Redacted
			}
			i++
		}
	}
	if out == nil {
		return args
	}
	return out
}

func ensureCopy(out, args []any) []any {
	if out != nil {
		return out
	}
	return append([]any(nil), args...)
}
