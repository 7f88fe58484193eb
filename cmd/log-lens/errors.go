package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/report"

	"github.com/charmbracelet/lipgloss"
)

func reportTypes() string {
	names := make([]string, 0, len(report.Types))
	for _, t := range report.Types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

type errorStyles struct {
	title  lipgloss.Style
	path   lipgloss.Style
	detail lipgloss.Style
}

func newErrorStyles(w io.Writer) errorStyles {
	r := lipgloss.NewRenderer(w)
	return errorStyles{
		title:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // red bold
		path:   r.NewStyle().Foreground(lipgloss.Color("39")),             // cyan
		detail: r.NewStyle().Foreground(lipgloss.Color("245")),            // gray
	}
}

// printError writes a message for err to w. Colors are used only if w is a
// terminal.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, formatError(newErrorStyles(w), err))
}

func formatError(s errorStyles, err error) string {
	var (
		missing *model.MissingFilesError
		access  *model.FileAccessError
		invalid *model.InvalidReportTypeError
		cuerr   model.CueError
	)
	var sb strings.Builder
	switch {
	case errors.As(err, &missing):
		if len(missing.Paths) == 1 {
			sb.WriteString(s.title.Render("error: file not found:"))
		} else {
			sb.WriteString(s.title.Render(fmt.Sprintf("error: %d files not found:", len(missing.Paths))))
		}
		for _, path := range missing.Paths {
			sb.WriteString("\n  ")
			sb.WriteString(s.path.Render(path))
		}
	case errors.As(err, &access):
		sb.WriteString(s.title.Render("error: can't read log file"))
		sb.WriteString(" ")
		sb.WriteString(s.path.Render(access.Path))
		sb.WriteString("\n  ")
		sb.WriteString(s.detail.Render(access.Err.Error()))
	case errors.As(err, &invalid):
		sb.WriteString(s.title.Render(fmt.Sprintf("error: unknown report type %q", invalid.Type)))
		sb.WriteString("\n  ")
		sb.WriteString(s.detail.Render("supported: " + reportTypes()))
	case errors.As(err, &cuerr):
		sb.WriteString(s.title.Render("error: invalid configuration"))
		for _, d := range cuerr.Details() {
			sb.WriteString("\n  ")
			sb.WriteString(s.path.Render(d.Path))
			sb.WriteString(": ")
			sb.WriteString(s.detail.Render(d.Message))
		}
	default:
		sb.WriteString(s.title.Render("error:"))
		sb.WriteString(" ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}
