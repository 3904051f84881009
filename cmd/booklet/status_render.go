package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"booklet/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	ansiReset     = "\x1b[0m"
	minLabelWidth = 16
)

// statusLine is one "label: [KIND] detail" row of a doctor section.
type statusLine struct {
	label  string
	kind   statusKind
	detail string
}

func checkLine(r preflight.Result) statusLine {
	kind := statusOK
	if !r.Passed {
		kind = statusError
	}
	return statusLine{label: r.Name, kind: kind, detail: r.Detail}
}

// renderSection renders a titled block with labels padded to the longest
// label in the block.
func renderSection(title string, lines []statusLine, colorize bool) string {
	width := minLabelWidth
	for _, l := range lines {
		width = max(width, len(l.label)+1)
	}
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	out := []string{paint(heading, statusStyles[statusInfo].color, colorize)}
	for _, l := range lines {
		out = append(out, renderStatusLine(l, width, colorize))
	}
	return strings.Join(out, "\n")
}

func renderStatusLine(l statusLine, width int, colorize bool) string {
	style := statusStyles[l.kind]
	text := fmt.Sprintf("  %-*s [%s]", width, l.label+":", style.label)
	if l.detail != "" {
		text += " " + l.detail
	}
	return paint(text, style.color, colorize)
}

func paint(text, color string, colorize bool) string {
	if !colorize || color == "" {
		return text
	}
	return color + text + ansiReset
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
