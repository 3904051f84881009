package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// consoleHandler writes one line per record:
//
//	15:04:05.000 INFO [resolver] Henrik · Act1/Overture – pdf chosen  path=/x.pdf
//
// The component, performer and song attributes form the line prefix. The run
// ID is only shown at debug level, where a watch session mixes many runs.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	preset    fields
	groups    []string
	addSource bool
	color     bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource, color bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	all := slices.Clone(h.preset)
	record.Attrs(func(attr slog.Attr) bool {
		all.add(h.groups, attr)
		return true
	})
	all = all.dedupe()

	var component, performer, song string
	var b strings.Builder
	b.WriteString(formatClock(record.Time))
	b.WriteByte(' ')
	b.WriteString(h.levelLabel(record.Level))

	rest := make(fields, 0, len(all))
	for _, f := range all {
		switch f.key {
		case FieldComponent:
			component = formatValue(f.value, false)
		case FieldPerformer:
			performer = formatValue(f.value, false)
		case FieldSong:
			song = formatValue(f.value, false)
		case FieldRunID:
			if record.Level < slog.LevelInfo {
				rest = append(rest, f)
			}
		default:
			rest = append(rest, f)
		}
	}

	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := joinSubject(performer, song); subject != "" {
		b.WriteString(" " + subject)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" – " + msg)
	if h.addSource {
		if src := record.Source(); src != nil {
			b.WriteString(" (" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + ")")
		}
	}
	for i, f := range rest {
		if i == 0 {
			b.WriteByte(' ')
		}
		b.WriteString(" " + f.key + "=" + formatValue(f.value, true))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func joinSubject(performer, song string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{performer, song} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

func (h *consoleHandler) levelLabel(level slog.Level) string {
	var label, color string
	switch {
	case level >= slog.LevelError:
		label, color = "ERROR", ansiRed
	case level >= slog.LevelWarn:
		label, color = "WARN", ansiYellow
	case level >= slog.LevelInfo:
		label, color = "INFO", ansiCyan
	default:
		label, color = "DEBUG", ansiGray
	}
	if !h.color {
		return label
	}
	return color + label + ansiReset
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.preset = slices.Clone(h.preset)
	for _, attr := range attrs {
		clone.preset.add(h.groups, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

type field struct {
	key   string
	value slog.Value
}

type fields []field

// add flattens attr into dotted keys below groups.
func (fs *fields) add(groups []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(slices.Clone(groups), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			fs.add(inner, a)
		}
		return
	}
	key := strings.Join(append(slices.Clone(groups), attr.Key), ".")
	*fs = append(*fs, field{key: strings.Trim(key, "."), value: attr.Value})
}

// dedupe keeps the first position of each key with its last value.
func (fs fields) dedupe() fields {
	index := make(map[string]int, len(fs))
	out := make(fields, 0, len(fs))
	for _, f := range fs {
		if f.key == "" {
			continue
		}
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}
