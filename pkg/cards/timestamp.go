package cards

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoTimestamp is returned when a line carries no timestamp token.
	ErrNoTimestamp = errors.New("no timestamp token")

	// ErrMalformedTimestamp is returned when a line carries a bracketed
	// token shaped like [m:ss] whose parts are not numbers.
	ErrMalformedTimestamp = errors.New("malformed timestamp token")
)

var (
	// tokenPattern matches a well-formed token: 1-3 digits, a colon and
	// exactly two digits, in square brackets.
	tokenPattern = regexp.MustCompile(`\[(\d{1,3}):(\d{2})\]`)

	// candidatePattern matches anything with the same shape, digits or not.
	candidatePattern = regexp.MustCompile(`\[([^\[\]:\s]{1,3}):([^\[\]:\s]{2})\]`)

	seekPattern = regexp.MustCompile(`^(\d{1,3}):(\d{2})$`)
)

// Token is a timestamp token located in a line.
type Token struct {
	// Text is the matched token including brackets, e.g. "[1:23]".
	Text string

	// Start and End are byte offsets of the token in the line.
	Start int
	End   int

	// Seconds is minutes*60 + seconds. Neither part is range-checked.
	Seconds int
}

// ParseIssue describes a timeline line whose timestamp token could not be
// converted. It implements error and unwraps to ErrMalformedTimestamp.
type ParseIssue struct {
	Line  string `json:"line"`
	Token string `json:"token"`
	Err   error  `json:"-"`
}

func (p *ParseIssue) Error() string {
	return fmt.Sprintf("timeline line %q: token %q: %v", p.Line, p.Token, p.Err)
}

func (p *ParseIssue) Unwrap() error {
	return p.Err
}

// TimestampExtractor finds and converts timestamp tokens in timeline lines.
type TimestampExtractor struct {
	pattern   *regexp.Regexp
	candidate *regexp.Regexp
}

// NewTimestampExtractor creates an extractor for [m:ss] tokens.
func NewTimestampExtractor() *TimestampExtractor {
	return &TimestampExtractor{
		pattern:   tokenPattern,
		candidate: candidatePattern,
	}
}

// Extract locates the first timestamp token in line and converts it.
// Returns ErrNoTimestamp when no token is present, or a *ParseIssue wrapping
// ErrMalformedTimestamp when a token-shaped value is not numeric.
func (e *TimestampExtractor) Extract(line string) (Token, error) {
	if loc := e.pattern.FindStringSubmatchIndex(line); loc != nil {
		text := line[loc[0]:loc[1]]
		secs, err := toSeconds(line[loc[2]:loc[3]], line[loc[4]:loc[5]])
		if err != nil {
			return Token{}, &ParseIssue{Line: line, Token: text, Err: err}
		}
		return Token{Text: text, Start: loc[0], End: loc[1], Seconds: secs}, nil
	}

	if loc := e.candidate.FindStringIndex(line); loc != nil {
		return Token{}, &ParseIssue{
			Line:  line,
			Token: line[loc[0]:loc[1]],
			Err:   ErrMalformedTimestamp,
		}
	}

	return Token{}, ErrNoTimestamp
}

func toSeconds(minutes, seconds string) (int, error) {
	mm, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %q: %v", ErrMalformedTimestamp, minutes, err)
	}
	ss, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds %q: %v", ErrMalformedTimestamp, seconds, err)
	}
	return mm*60 + ss, nil
}

// ParseSeekTarget converts a user-supplied seek target to seconds. It accepts
// a bracketed token ("[2:09]"), a bare "m:ss" value, or whole seconds ("129").
func ParseSeekTarget(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty seek target")
	}

	if m := tokenPattern.FindStringSubmatch(s); m != nil && m[0] == s {
		return toSeconds(m[1], m[2])
	}
	if m := seekPattern.FindStringSubmatch(s); m != nil {
		return toSeconds(m[1], m[2])
	}

	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid seek target %q (use [m:ss], m:ss or seconds)", s)
	}
	if secs < 0 {
		return 0, fmt.Errorf("invalid seek target %q: must not be negative", s)
	}
	return secs, nil
}

// FormatTimestamp renders seconds as m:ss.
func FormatTimestamp(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
