package cards

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

var defaultExtractor = NewTimestampExtractor()

// ParseBuffer splits buffer into sections and parses each one, in order.
// A buffer without markers yields no cards.
func ParseBuffer(buffer string) []Card {
	sections := SplitSections(buffer)
	if len(sections) == 0 {
		return nil
	}
	result := make([]Card, len(sections))
	for i, section := range sections {
		result[i] = ParseSection(section)
	}
	return result
}

// ParseSection converts a raw section into a card. Comment and Summary
// sections keep their trimmed text; Timeline sections are split into
// deduplicated timestamped entries.
func ParseSection(section RawSection) Card {
	if section.Kind != KindTimeline {
		return Card{Kind: section.Kind, Text: strings.TrimSpace(section.Content)}
	}
	return Card{Kind: KindTimeline, Entries: parseTimeline(section.Content, defaultExtractor)}
}

func parseTimeline(content string, extractor *TimestampExtractor) []TimelineEntry {
	lines := lo.Map(strings.Split(content, "\n"), func(line string, _ int) string {
		return strings.TrimSpace(line)
	})
	lines = lo.Uniq(lo.Compact(lines))

	entries := make([]TimelineEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseTimelineLine(line, extractor))
	}
	return entries
}

func parseTimelineLine(line string, extractor *TimestampExtractor) TimelineEntry {
	entry := TimelineEntry{Line: line, Label: line}

	tok, err := extractor.Extract(line)
	if err != nil {
		var issue *ParseIssue
		if errors.As(err, &issue) {
			entry.Issue = issue
		}
		return entry
	}

	secs := tok.Seconds
	entry.Timestamp = &secs
	entry.Label = strings.TrimSpace(line[:tok.Start] + line[tok.End:])
	return entry
}

// Issues collects the timestamp problems reported across cards, in order.
func Issues(cards []Card) []*ParseIssue {
	var issues []*ParseIssue
	for _, card := range cards {
		for _, entry := range card.Entries {
			if entry.Issue != nil {
				issues = append(issues, entry.Issue)
			}
		}
	}
	return issues
}
