package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as indented JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(report.Summary)
	}

	return encoder.Encode(report)
}

// FormatCard renders one card as a single JSON line.
func (f *JSONFormatter) FormatCard(ctx context.Context, card cards.Card, w io.Writer) error {
	return json.NewEncoder(w).Encode(card)
}
