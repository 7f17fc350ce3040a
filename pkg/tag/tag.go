// Package tag resolves bracketed placeholder strings against a content mapping.
//
// A tag may contain nested markers: "[[Outer [[Inner]]]]" resolves Inner
// first, substitutes its content into the outer string, then looks the
// result up in the mapping. Resolution is innermost-first and, for sibling
// markers, left-to-right.
package tag

import (
	"fmt"
	"strings"
)

const (
	markerOpen  = "[["
	markerClose = "]]"
)

// Mapping associates fully-resolved tag strings with their content.
type Mapping map[string]string

// NotFoundError indicates a resolved tag has no content in the mapping.
type NotFoundError struct {
	Tag string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found", e.Tag)
}

// SyntaxError indicates unbalanced marker delimiters.
type SyntaxError struct {
	Tag string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unbalanced tag markers in %q", e.Tag)
}

// Resolve substitutes every [[...]] marker in tag with its looked-up content,
// innermost markers first, then looks the fully-substituted string up in the
// mapping. A string without markers is a plain lookup.
func Resolve(tag string, data Mapping) (string, error) {
	resolved, err := Substitute(tag, data)
	if err != nil {
		return "", err
	}

	content, ok := data[resolved]
	if !ok {
		return "", &NotFoundError{Tag: resolved}
	}
	return content, nil
}

// Substitute replaces every [[...]] marker in s with its resolved content
// and returns the substituted string without a final lookup. Useful for
// template strings where the outer text is literal and only the markers
// name tags.
func Substitute(s string, data Mapping) (string, error) {
	for {
		start, end, ok, err := innermostMarker(s)
		if err != nil {
			return "", err
		}
		if !ok {
			return s, nil
		}

		inner := s[start+len(markerOpen) : end]
		content, err := Resolve(inner, data)
		if err != nil {
			return "", err
		}

		s = s[:start] + content + s[end+len(markerClose):]
	}
}

// innermostMarker locates the leftmost innermost [[...]] span: the last
// opener before the first closer. Returns the opener index and the closer
// index.
func innermostMarker(s string) (start, end int, ok bool, err error) {
	end = strings.Index(s, markerClose)
	open := strings.Index(s, markerOpen)

	if end == -1 {
		if open != -1 {
			return 0, 0, false, &SyntaxError{Tag: s}
		}
		return 0, 0, false, nil
	}

	start = strings.LastIndex(s[:end], markerOpen)
	if start == -1 {
		return 0, 0, false, &SyntaxError{Tag: s}
	}

	return start, end, true, nil
}
