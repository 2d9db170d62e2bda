package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Handler is a single-line console slog.Handler with optional colors.
type Handler struct {
	groups []string
	attrs  []slog.Attr

	opts Options

	mu  *sync.Mutex
	out io.Writer
}

type Options struct {
	// Level reports the minimum level to log.
	// If nil, the Handler uses [slog.LevelInfo].
	Level slog.Leveler

	// TimeFormat is the time format. Empty omits the timestamp.
	TimeFormat string

	// AddSource prints file:line of the call site.
	AddSource bool

	// NoColor disables color.
	NoColor bool
}

var DefaultOptions = &Options{
	Level:      slog.LevelInfo,
	TimeFormat: time.DateTime,
	AddSource:  true,
}

// NewHandler creates a new Handler with the specified options. If opts is nil, uses [DefaultOptions].
func NewHandler(out io.Writer, opts *Options) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts == nil {
		h.opts = *DefaultOptions
	} else {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

func (h *Handler) clone() *Handler {
	return &Handler{
		groups: h.groups[:len(h.groups):len(h.groups)],
		attrs:  h.attrs[:len(h.attrs):len(h.attrs)],
		opts:   h.opts,
		mu:     h.mu,
		out:    h.out,
	}
}

// Enabled implements slog.Handler.Enabled .
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.Handle .
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	paint := func(s string, attrs ...color.Attribute) string {
		if h.opts.NoColor {
			return s
		}
		return color.New(attrs...).Sprint(s)
	}

	bf := &bytes.Buffer{}

	if h.opts.TimeFormat != "" && !r.Time.IsZero() {
		fmt.Fprint(bf, paint(r.Time.Format(h.opts.TimeFormat), color.Faint), " ")
	}

	switch {
	case r.Level >= slog.LevelError:
		fmt.Fprint(bf, paint("ERROR", color.BgRed, color.FgHiWhite))
	case r.Level >= slog.LevelWarn:
		fmt.Fprint(bf, paint("WARN ", color.BgYellow, color.FgHiWhite))
	case r.Level >= slog.LevelInfo:
		fmt.Fprint(bf, paint("INFO ", color.BgGreen, color.FgHiWhite))
	default:
		fmt.Fprint(bf, paint("DEBUG", color.BgCyan, color.FgHiWhite))
	}
	fmt.Fprint(bf, " ")

	if requestID, ok := RequestIDFromContext(ctx); ok {
		fmt.Fprint(bf, paint(requestID, color.FgMagenta), " ")
	}

	if h.opts.AddSource && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(bf, "%s:%d ", filepath.Base(f.File), f.Line)
	}

	fmt.Fprint(bf, r.Message)

	// handler attrs carry the groups that were open when they were added
	attrs := append([]slog.Attr(nil), h.attrs...)
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		if !a.Equal(slog.Attr{}) {
			a.Key = prefix + a.Key
			attrs = append(attrs, a)
		}
		return true
	})

	for _, a := range attrs {
		key := a.Key + "="
		if strings.Contains(a.Key, "err") {
			key = paint(key, color.FgRed)
		} else {
			key = paint(key, color.FgCyan)
		}
		fmt.Fprint(bf, " ", key, a.Value.Resolve().String())
	}
	fmt.Fprint(bf, "\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.Copy(h.out, bf)
	return err
}

// WithGroup implements slog.Handler.WithGroup .
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

// WithAttrs implements slog.Handler.WithAttrs .
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	prefix := h.groupPrefix()
	for _, a := range attrs {
		if a.Equal(slog.Attr{}) {
			continue
		}
		a.Key = prefix + a.Key
		h2.attrs = append(h2.attrs, a)
	}
	return h2
}

func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// Err returns an attribute for err under the "error" key.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok && requestID != ""
}
