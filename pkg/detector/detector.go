// Package detector sniffs whether a stream capture holds JSONL chunk
// messages or raw buffer text.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"

	"github.com/ccollicutt/streamcard/pkg/cards"
)

// JSONLThreshold is the share of sampled lines that must be chunk messages
// for a capture to be treated as JSONL.
const JSONLThreshold = 0.9

// DetectionResult holds the result of analyzing a capture.
type DetectionResult struct {
	Format       Format        // Selected format
	Confidence   float64       // Share of sampled lines matching Format
	Matches      []FormatMatch // Per-format results, sorted by confidence descending
	SampledLines int           // Number of non-blank lines sampled
	MatchedLines int           // Number of lines that decoded as chunk messages
	MarkerCount  int           // Section markers seen in the sample
}

// FormatMatch represents a format with its confidence score.
type FormatMatch struct {
	Format     *InputFormat
	Confidence float64 // 0.0 to 1.0 (share of lines matched)
	MatchCount int
	SampleLine string
}

// Detector analyzes captures to identify their input format.
type Detector struct {
	formats    []*InputFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SampleSize returns the configured sample size.
func (d *Detector) SampleSize() int {
	return d.sampleSize
}

// DetectFromFile analyzes a capture file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of capture lines. Blank lines are ignored.
// An empty sample is reported as text.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{Format: FormatText}

	sampled := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sampled = append(sampled, line)
		if len(sampled) == d.sampleSize {
			break
		}
	}
	result.SampledLines = len(sampled)
	if len(sampled) == 0 {
		return result
	}

	for _, line := range sampled {
		result.MarkerCount += countMarkers(line)
	}

	for _, format := range d.formats {
		m := FormatMatch{Format: format}
		for _, line := range sampled {
			if !format.Matches(line) {
				continue
			}
			if m.MatchCount == 0 {
				m.SampleLine = line
			}
			m.MatchCount++
		}
		if m.MatchCount == 0 {
			continue
		}
		m.Confidence = float64(m.MatchCount) / float64(len(sampled))
		if format.Name == FormatJSONL {
			result.MatchedLines = m.MatchCount
		}
		result.Matches = append(result.Matches, m)
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	result.Confidence = 1 - float64(result.MatchedLines)/float64(len(sampled))
	if float64(result.MatchedLines)/float64(len(sampled)) >= JSONLThreshold {
		result.Format = FormatJSONL
		result.Confidence = float64(result.MatchedLines) / float64(len(sampled))
	}

	return result
}

// countMarkers counts section markers in a line. For JSONL lines this
// counts markers inside the encoded content, which is close enough for a
// sniff.
func countMarkers(line string) int {
	n := 0
	for _, kind := range cards.Kinds {
		n += strings.Count(line, kind.Marker())
	}
	return n
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
