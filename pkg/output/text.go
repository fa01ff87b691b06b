package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// TextFormatter formats reports as human-readable text. Styling is applied
// only when the destination writer is a color-capable terminal.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

type styles struct {
	header lipgloss.Style
	kinds  map[cards.Kind]lipgloss.Style
	stamp  lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true),
		kinds: map[cards.Kind]lipgloss.Style{
			cards.KindSummary:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
			cards.KindComment:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
			cards.KindTimeline: r.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		},
		stamp: r.NewStyle().Foreground(lipgloss.Color("4")),
		dim:   r.NewStyle().Faint(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w, newStyles(w))
}

// FormatCard renders one card block.
func (f *TextFormatter) FormatCard(ctx context.Context, card cards.Card, w io.Writer) error {
	f.formatCard(card, w, newStyles(w))
	return nil
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "streamcard: %d cards, %d timeline entries, %d issues\n",
		report.Summary.Cards,
		report.Summary.TimelineEntries,
		report.Summary.Issues)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer, st styles) error {
	fmt.Fprintln(w, st.header.Render("=== streamcard report ==="))
	fmt.Fprintln(w)

	if len(report.Cards) == 0 {
		fmt.Fprintln(w, "  No cards found")
		fmt.Fprintln(w)
	}

	for _, card := range report.Cards {
		f.formatCard(card, w, st)
	}

	s := report.Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s (%d summary, %d comment, %d timeline), %s, %s\n",
		plural(s.Cards, "card"),
		s.Summaries, s.Comments, s.Timelines,
		plural(s.TimelineEntries, "timeline entry"),
		plural(s.Issues, "issue"))

	if s.SuppressedDuplicates > 0 {
		fmt.Fprintf(w, "Suppressed: %s\n", plural(s.SuppressedDuplicates, "duplicate timeline"))
	}

	if f.opts.Verbose {
		m := report.Metadata
		fmt.Fprintf(w, "Source: %s (%d bytes)\n", m.Source, m.BufferBytes)
		if m.SessionID != "" {
			fmt.Fprintf(w, "Session: %s (%d chunks)\n", m.SessionID, m.Chunks)
		}
		fmt.Fprintf(w, "Duration: %s\n", m.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatCard(card cards.Card, w io.Writer, st styles) {
	label := "[" + string(card.Kind) + "]"
	if style, ok := st.kinds[card.Kind]; ok {
		label = style.Render(label)
	}

	if card.Kind != cards.KindTimeline {
		fmt.Fprintln(w, label)
		if card.Text == "" {
			fmt.Fprintln(w, st.dim.Render("  (empty)"))
		} else {
			fmt.Fprintln(w, indent(card.Text, "  "))
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "%s %s\n", label, plural(len(card.Entries), "entry"))
	for _, entry := range card.Entries {
		f.formatEntry(entry, w, st)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEntry(entry cards.TimelineEntry, w io.Writer, st styles) {
	if entry.Seekable() {
		stamp := fmt.Sprintf("%7s", cards.FormatTimestamp(entry.Seconds()))
		fmt.Fprintf(w, "  %s  %s\n", st.stamp.Render(stamp), entry.Label)
	} else {
		fmt.Fprintf(w, "  %7s  %s\n", "-", entry.Label)
	}

	if entry.Issue != nil {
		fmt.Fprintf(w, "           %s\n", st.warn.Render("malformed timestamp "+entry.Issue.Token))
	}
	if f.opts.Verbose && entry.Seekable() {
		fmt.Fprintf(w, "           %s\n", st.dim.Render("line: "+entry.Line))
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
