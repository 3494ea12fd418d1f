package sections

import (
	"strings"
	"unicode/utf8"
)

// previewLength is the number of leading characters of a section's text kept
// for display. The preview is never used for retrieval.
const previewLength = 500

// Section is a named, contiguous span of a filing's text bounded by detected
// headings. CharEnd is exclusive. Line numbers are zero-based.
type Section struct {
	Name      string `json:"name"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	CharStart int    `json:"charStart"`
	CharEnd   int    `json:"charEnd"`
	Preview   string `json:"preview"`
}

// Detect scans the document line by line and returns the ordered list of
// section spans. Each line is trimmed and tested against the heading pattern
// table in priority order; the first match closes the open section (if any)
// immediately before the current line and opens a new one at it. Text before
// the first detected heading is dropped. A still-open section is closed at
// end of document.
func Detect(text string) []Section {
	if text == "" {
		return []Section{}
	}

	lines := strings.Split(text, "\n")
	sections := []Section{}

	var current *Section
	offset := 0

	for lineNo, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, ok := matchHeading(trimmed); ok {
			if current != nil {
				current.EndLine = lineNo - 1
				current.CharEnd = offset
				sections = append(sections, *current)
			}
			current = &Section{
				Name:      name,
				StartLine: lineNo,
				CharStart: offset,
			}
		}
		offset += len(line)
		if lineNo < len(lines)-1 {
			offset++ // newline
		}
	}

	if current != nil {
		current.EndLine = len(lines) - 1
		current.CharEnd = len(text)
		sections = append(sections, *current)
	}

	for i := range sections {
		sections[i].Preview = preview(text, sections[i])
	}

	return sections
}

// matchHeading tests a trimmed line against the pattern table. A line matches
// at most one pattern.
func matchHeading(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	for _, p := range headingPatterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			return p.label(m), true
		}
	}
	return "", false
}

func preview(text string, s Section) string {
	body := text[s.CharStart:s.CharEnd]
	if len(body) > previewLength {
		body = body[:previewLength]
		// The cut is a byte offset; drop any trailing partial rune.
		for len(body) > 0 {
			if r, size := utf8.DecodeLastRuneInString(body); r != utf8.RuneError || size != 1 {
				break
			}
			body = body[:len(body)-1]
		}
	}
	return body
}
