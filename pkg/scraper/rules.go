package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default patterns for the log format the writer emits:
//
//	2024-01-15 10:30:00.123 INFO [app.py:42] Started service
const (
	// DefaultTimestampPattern matches YYYY-MM-DD HH:MM:SS.mmm with a
	// 4-digit year starting with 1 or 2.
	DefaultTimestampPattern = `[12][0-9]{3}-[0-1][0-9]-[0-3][0-9] [0-2][0-9]:[0-5][0-9]:[0-5][0-9]\.[0-9]{3}`

	// DefaultTimestampLayout parses what DefaultTimestampPattern matches.
	DefaultTimestampLayout = "2006-01-02 15:04:05.000"

	// levelPattern matches a severity token: 4 or more uppercase letters.
	levelPattern = `[A-Z]{4,}`

	// fileLinePattern matches a [filename:lineNumber] marker at the start
	// of the remaining text.
	fileLinePattern = `^\[([a-zA-Z0-9_.:]+)\]`
)

// excise removes text[start:end] and trims surrounding whitespace.
func excise(text string, start, end int) string {
	return strings.TrimSpace(text[:start] + text[end:])
}

// timestampRule extracts and parses the leading timestamp field.
// The search is unanchored: the first timestamp-shaped substring anywhere
// in the line wins.
type timestampRule struct {
	re     *regexp.Regexp
	layout string
}

func newTimestampRule(pattern *regexp.Regexp, layout string) timestampRule {
	return timestampRule{re: pattern, layout: layout}
}

func defaultTimestampRule() timestampRule {
	return timestampRule{
		re:     regexp.MustCompile(DefaultTimestampPattern),
		layout: DefaultTimestampLayout,
	}
}

// extract returns the parsed timestamp and the line with the matched
// substring removed. found is false when no timestamp-shaped substring
// exists, which marks the line as a continuation line.
func (r timestampRule) extract(text string) (ts time.Time, remainder string, found bool, err error) {
	loc := r.re.FindStringIndex(text)
	if loc == nil {
		return time.Time{}, text, false, nil
	}

	matched := text[loc[0]:loc[1]]
	ts, err = time.Parse(r.layout, matched)
	if err != nil {
		return time.Time{}, text, true, &TimestampParseError{Input: matched, Err: err}
	}

	return ts, excise(text, loc[0], loc[1]), true, nil
}

// levelRule extracts the severity token, if any. Unanchored, first match.
type levelRule struct {
	re *regexp.Regexp
}

func defaultLevelRule() levelRule {
	return levelRule{re: regexp.MustCompile(levelPattern)}
}

func (r levelRule) extract(text string) (level, remainder string, found bool) {
	loc := r.re.FindStringIndex(text)
	if loc == nil {
		return "", text, false
	}
	return text[loc[0]:loc[1]], excise(text, loc[0], loc[1]), true
}

// fileLineRule extracts the [filename:lineNumber] marker. Anchored at the
// start of the remaining text; a marker later in the message is content.
type fileLineRule struct {
	re *regexp.Regexp
}

func defaultFileLineRule() fileLineRule {
	return fileLineRule{re: regexp.MustCompile(fileLinePattern)}
}

func (r fileLineRule) extract(text string) (file string, line int, remainder string, found bool) {
	m := r.re.FindStringSubmatchIndex(text)
	if m == nil {
		return "", 0, text, false
	}

	inner := text[m[2]:m[3]]
	file, numStr, _ := strings.Cut(inner, ":")
	if numStr != "" {
		// Extra colons (e.g. "a.py:12:3") leave the number unparseable;
		// the marker still strips but the line number stays 0.
		if n, err := strconv.Atoi(numStr); err == nil && n >= 0 {
			line = n
		}
	}

	return file, line, excise(text, m[0], m[1]), true
}
