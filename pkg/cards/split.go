package cards

import "strings"

// markerHit is one recognized marker occurrence.
type markerHit struct {
	kind  Kind
	start int // offset of the leading "__"
	end   int // offset just past "|||"
}

// SplitSections scans buffer for section markers and returns the sections
// they delimit, in order.
//
// Text before the first marker is discarded. The last section runs to the end
// of the buffer even when the stream is still arriving. Adjacent markers yield
// a section with empty content. Marker-like text with an unknown tag (such as
// __FOO|||) is ordinary content.
func SplitSections(buffer string) []RawSection {
	hits := findMarkers(buffer)
	if len(hits) == 0 {
		return nil
	}

	sections := make([]RawSection, len(hits))
	for i, hit := range hits {
		end := len(buffer)
		closed := false
		if i+1 < len(hits) {
			end = hits[i+1].start
			closed = true
		}
		sections[i] = RawSection{
			Kind:    hit.kind,
			Content: buffer[hit.end:end],
			Offset:  hit.start,
			End:     end,
			Closed:  closed,
		}
	}
	return sections
}

// findMarkers returns the non-overlapping marker occurrences in buffer,
// scanning left to right.
func findMarkers(buffer string) []markerHit {
	var hits []markerHit
	pos := 0
	for pos < len(buffer) {
		idx := strings.Index(buffer[pos:], markerPrefix)
		if idx < 0 {
			break
		}
		start := pos + idx
		if kind, ok := markerAt(buffer, start); ok {
			end := start + len(kind.Marker())
			hits = append(hits, markerHit{kind: kind, start: start, end: end})
			pos = end
			continue
		}
		pos = start + 1
	}
	return hits
}

// markerAt reports which marker, if any, begins at offset i.
func markerAt(buffer string, i int) (Kind, bool) {
	rest := buffer[i:]
	for _, kind := range Kinds {
		if strings.HasPrefix(rest, kind.Marker()) {
			return kind, true
		}
	}
	return "", false
}

// LeadingText returns the text before the first marker, which SplitSections
// discards. It returns the whole buffer when no marker is present.
func LeadingText(buffer string) string {
	hits := findMarkers(buffer)
	if len(hits) == 0 {
		return buffer
	}
	return buffer[:hits[0].start]
}
