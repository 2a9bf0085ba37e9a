// Package logging provides the leveled key/value logger shared by the scene,
// the thought client and the frontends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(name string) (Level, error) {
	lvl := Level(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := levelRank[lvl]; !ok {
		return "", fmt.Errorf("logging: unknown level %q", name)
	}
	return lvl, nil
}

// Field represents a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F creates a Field from a key-value pair.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger provides leveled logging with context support.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, err error, fields ...Field)
	WithFields(fields ...Field) Logger
}

// NoOp is a logger that discards all entries.
type NoOp struct{}

func (NoOp) Debug(context.Context, string, ...Field)        {}
func (NoOp) Info(context.Context, string, ...Field)         {}
func (NoOp) Warn(context.Context, string, ...Field)         {}
func (NoOp) Error(context.Context, string, error, ...Field) {}
func (n NoOp) WithFields(...Field) Logger                   { return n }

// StdLogger writes one line per entry:
//
//	[2006-01-02T15:04:05Z07:00] [LEVEL] [error="..."] msg fields=[k=v ...]
type StdLogger struct {
	fields   []Field
	minLevel Level
	logger   *log.Logger
	now      func() time.Time
}

// New creates a logger with the given minimum level. A nil writer discards.
func New(minLevel Level, w io.Writer) *StdLogger {
	if w == nil {
		w = io.Discard
	}
	if _, ok := levelRank[minLevel]; !ok {
		minLevel = LevelInfo
	}
	return &StdLogger{
		minLevel: minLevel,
		logger:   log.New(w, "", 0),
		now:      time.Now,
	}
}

func (s *StdLogger) log(ctx context.Context, level Level, msg string, err error, fields ...Field) {
	if levelRank[level] < levelRank[s.minLevel] {
		return
	}

	all := make([]Field, 0, len(s.fields)+len(fields)+1)
	all = append(all, s.fields...)
	all = append(all, fields...)
	if id := FrameID(ctx); id != 0 {
		all = append(all, F("frame", id))
	}

	parts := []string{
		fmt.Sprintf("[%s]", s.now().Format(time.RFC3339)),
		fmt.Sprintf("[%s]", level),
	}
	if err != nil {
		parts = append(parts, fmt.Sprintf("[error=%q]", err.Error()))
	}
	parts = append(parts, msg)

	if len(all) > 0 {
		kv := make([]string, 0, len(all))
		for _, f := range all {
			kv = append(kv, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		parts = append(parts, fmt.Sprintf("fields=[%s]", strings.Join(kv, " ")))
	}

	s.logger.Println(strings.Join(parts, " "))
}

func (s *StdLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, LevelDebug, msg, nil, fields...)
}

func (s *StdLogger) Info(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, LevelInfo, msg, nil, fields...)
}

func (s *StdLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, LevelWarn, msg, nil, fields...)
}

func (s *StdLogger) Error(ctx context.Context, msg string, err error, fields ...Field) {
	s.log(ctx, LevelError, msg, err, fields...)
}

func (s *StdLogger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(s.fields)+len(fields))
	merged = append(merged, s.fields...)
	merged = append(merged, fields...)
	return &StdLogger{
		fields:   merged,
		minLevel: s.minLevel,
		logger:   s.logger,
		now:      s.now,
	}
}

type frameIDKey struct{}

// WithFrameID tags ctx with the simulation tick that produced a log entry.
func WithFrameID(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, frameIDKey{}, tick)
}

// FrameID extracts the tick set by WithFrameID, or 0.
func FrameID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(frameIDKey{}).(uint64); ok {
		return id
	}
	return 0
}
