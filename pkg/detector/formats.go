package detector

import "regexp"

// TimestampFormat represents a known writer timestamp format.
type TimestampFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for config output
	Layout     string         // Go time layout for parsing
	Examples   []string       // Example timestamps
}

// DefaultFormats returns the built-in timestamp formats to test against.
// Ordered by specificity: more specific patterns first, so the standard
// dot-millisecond writer format wins over its no-millisecond prefix.
func DefaultFormats() []*TimestampFormat {
	formats := []*TimestampFormat{
		// The standard writer format: date, space, time, dot milliseconds
		{
			Name:       "Datetime with milliseconds",
			PatternStr: `[12]\d{3}-[01]\d-[0-3]\d [0-2]\d:[0-5]\d:[0-5]\d\.\d{3}`,
			Layout:     "2006-01-02 15:04:05.000",
			Examples:   []string{"2024-01-15 10:30:00.123"},
		},
		// Python logging default separates milliseconds with a comma
		{
			Name:       "Python logging (comma milliseconds)",
			PatternStr: `[12]\d{3}-[01]\d-[0-3]\d [0-2]\d:[0-5]\d:[0-5]\d,\d{3}`,
			Layout:     "2006-01-02 15:04:05,000",
			Examples:   []string{"2024-01-15 10:30:00,123"},
		},
		// ISO 8601 with T separator and milliseconds
		{
			Name:       "ISO 8601 with milliseconds",
			PatternStr: `[12]\d{3}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d\.\d{3}`,
			Layout:     "2006-01-02T15:04:05.000",
			Examples:   []string{"2024-01-15T10:30:00.123"},
		},
		// ISO 8601 without sub-second precision
		{
			Name:       "ISO 8601",
			PatternStr: `[12]\d{3}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d`,
			Layout:     "2006-01-02T15:04:05",
			Examples:   []string{"2024-01-15T10:30:00"},
		},
		// Space-separated datetime without milliseconds
		{
			Name:       "Datetime (no milliseconds)",
			PatternStr: `[12]\d{3}-[01]\d-[0-3]\d [0-2]\d:[0-5]\d:[0-5]\d`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"2024-01-15 10:30:00"},
		},
		// Bracketed datetime
		{
			Name:       "Bracketed datetime",
			PatternStr: `\[([12]\d{3}-[01]\d-[0-3]\d [0-2]\d:[0-5]\d:[0-5]\d)\]`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"[2024-01-15 10:30:00]"},
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
