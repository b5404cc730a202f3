package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"textify/internal/transcribe"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// progressRenderer prints one status line per transcription progress report.
type progressRenderer struct {
	out      io.Writer
	colorize bool
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, colorize: shouldColorize(out)}
}

func (r *progressRenderer) render(p transcribe.Progress) {
	fmt.Fprintln(r.out, progressLine(p, r.colorize))
}

func progressLine(p transcribe.Progress, colorize bool) string {
	if p.State == transcribe.StateFailed {
		return renderStatusLine("Transcription", statusError, p.Message, colorize)
	}
	kind := statusInfo
	if p.State.Terminal() {
		kind = statusOK
	}
	return renderStatusLine("Transcription", kind, fmt.Sprintf("%3d%% %s", p.Percent, p.Message), colorize)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
