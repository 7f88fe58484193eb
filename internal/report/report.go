package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/CZERTAINLY/log-lens/internal/model"

	"go.yaml.in/yaml/v4"
)

type Type string

const (
	Handlers Type = "handlers"
	Summary  Type = "summary"
	JSON     Type = "json"
	YAML     Type = "yaml"
)

// Types lists the supported report types.
var Types = []Type{Handlers, Summary, JSON, YAML}

// ParseType returns the report type named s. An empty s is Summary.
func ParseType(s string) (Type, error) {
	if s == "" {
		return Summary, nil
	}
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &model.InvalidReportTypeError{Type: s}
}

// ContentType returns the MIME type of the rendered report.
func (t Type) ContentType() string {
	switch t {
	case JSON:
		return "application/json"
	case YAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render formats aggregated statistics. Handlers are always sorted, levels
// are in the model.Levels order.
func Render(stats model.FileStats, typ Type) (string, error) {
	switch typ {
	case Handlers:
		return handlers(stats)
	case Summary:
		return summary(stats) + "\n", nil
	case JSON:
		b, err := json.MarshalIndent(newDocument(stats), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding json report: %w", err)
		}
		return string(b) + "\n", nil
	case YAML:
		b, err := yaml.Marshal(newDocument(stats))
		if err != nil {
			return "", fmt.Errorf("encoding yaml report: %w", err)
		}
		return string(b), nil
	default:
		return "", &model.InvalidReportTypeError{Type: string(typ)}
	}
}

func summary(stats model.FileStats) string {
	return fmt.Sprintf("Total requests: %d", stats.TotalRequests())
}

func handlers(stats model.FileStats) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(summary(stats))
	buf.WriteString("\n\n")

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	header := make([]string, 0, model.NumLevels+1)
	header = append(header, "HANDLER")
	for _, l := range model.Levels {
		header = append(header, l.String())
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, handler := range stats.Handlers.Handlers() {
		fmt.Fprintln(w, row(handler, stats.Handlers[handler]))
	}
	fmt.Fprintln(w, row("", stats.Handlers.LevelTotals()))

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("rendering handlers report: %w", err)
	}
	return buf.String(), nil
}

func row(handler string, counts model.Counts) string {
	var sb strings.Builder
	sb.WriteString(handler)
	for _, l := range model.Levels {
		fmt.Fprintf(&sb, "\t%d", counts.Get(l))
	}
	return sb.String()
}

type document struct {
	TotalRequests int               `json:"total_requests" yaml:"total_requests"`
	Handlers      []handlerRow      `json:"handlers" yaml:"handlers"`
	Unattributed  model.LevelCounts `json:"unattributed" yaml:"unattributed"`
}

type handlerRow struct {
	Handler string            `json:"handler" yaml:"handler"`
	Levels  model.LevelCounts `json:"levels" yaml:"levels"`
}

func newDocument(stats model.FileStats) document {
	doc := document{
		TotalRequests: stats.TotalRequests(),
		Handlers:      make([]handlerRow, 0, len(stats.Handlers)),
		Unattributed:  stats.Unattributed.Fields(),
	}
	for _, handler := range stats.Handlers.Handlers() {
		doc.Handlers = append(doc.Handlers, handlerRow{
			Handler: handler,
			Levels:  stats.Handlers[handler].Fields(),
		})
	}
	return doc
}
