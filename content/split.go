package content

import (
	"bytes"
	"errors"
	"strings"
)

// ErrFrontMatter is returned when document starts front matter and never
// closes it.
var ErrFrontMatter = errors.New("front matter is not terminated")

// Parts are sections of the source document.
type Parts struct {
	Meta       []byte // front matter without delimiters
	Summary    []byte // summary section without its heading
	HasSummary bool
	Body       []byte
}

// Split separates front matter ("---" lines at the very start of the
// document) and summary section: level one ATX heading with the given title up
// to the next level one heading. Everything else is the body. Headings inside
// fenced code blocks are ignored.
func Split(data []byte, summaryTitle string) (Parts, error) {
	var parts Parts

	rest := data
	if first, ok := nextLine(data, 0); ok && isDelimiter(data[:first]) {
		start := first
		found := false
		for pos := start; pos < len(data); {
			end, _ := nextLine(data, pos)
			if isDelimiter(data[pos:end]) || isEndMarker(data[pos:end]) {
				parts.Meta = data[start:pos]
				rest = data[end:]
				found = true
				break
			}
			pos = end
		}
		if !found {
			return Parts{}, ErrFrontMatter
		}
	}

	parts.Body = rest
	if summaryTitle == "" {
		return parts, nil
	}

	var fence fenceState
	headStart, sumStart, sumEnd := -1, -1, len(rest)
	for pos := 0; pos < len(rest); {
		end, _ := nextLine(rest, pos)
		line := rest[pos:end]
		if fence.update(line) {
			pos = end
			continue
		}
		if title, ok := levelOneHeading(line); ok {
			if sumStart < 0 && strings.EqualFold(title, strings.TrimSpace(summaryTitle)) {
				headStart, sumStart = pos, end
			} else if sumStart >= 0 {
				sumEnd = pos
				break
			}
		}
		pos = end
	}
	if sumStart < 0 {
		return parts, nil
	}

	parts.HasSummary = true
	parts.Summary = rest[sumStart:sumEnd]
	body := make([]byte, 0, len(rest)-(sumEnd-headStart))
	body = append(body, rest[:headStart]...)
	body = append(body, rest[sumEnd:]...)
	parts.Body = body
	return parts, nil
}

// nextLine returns offset right after the end of line starting at pos and
// whether line terminator was found.
func nextLine(data []byte, pos int) (int, bool) {
	if i := bytes.IndexByte(data[pos:], '\n'); i >= 0 {
		return pos + i + 1, true
	}
	return len(data), false
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r\n")) == "---"
}

func isEndMarker(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r\n")) == "..."
}

// levelOneHeading recognizes "# Title" lines with optional closing sequence.
func levelOneHeading(line []byte) (string, bool) {
	s := strings.TrimRight(string(line), "\r\n")
	indent := len(s) - len(strings.TrimLeft(s, " "))
	if indent > 3 {
		return "", false
	}
	s = s[indent:]
	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	s = s[1:]
	if s != "" && s[0] != ' ' && s[0] != '\t' {
		// "##" or "#text"
		return "", false
	}
	s = strings.TrimSpace(s)
	if trimmed := strings.TrimRight(s, "#"); trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
		s = strings.TrimSpace(trimmed)
	}
	return s, true
}

type fenceState struct {
	marker byte
	size   int
}

// update tracks fenced code blocks, returns true while line belongs to one.
func (f *fenceState) update(line []byte) bool {
	s := strings.TrimRight(string(line), "\r\n")
	trimmed := strings.TrimLeft(s, " ")
	if len(s)-len(trimmed) > 3 || trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return f.marker != 0
	}
	c := trimmed[0]
	n := len(trimmed) - len(strings.TrimLeft(trimmed, string(c)))
	if n < 3 {
		return f.marker != 0
	}
	switch {
	case f.marker == 0:
		f.marker, f.size = c, n
		return true
	case c == f.marker && n >= f.size && strings.TrimSpace(trimmed[n:]) == "":
		f.marker, f.size = 0, 0
		return true
	}
	return true
}
