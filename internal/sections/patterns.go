package sections

import (
	"fmt"
	"regexp"
	"strings"
)

// headingPattern pairs a compiled matcher with a label builder. Patterns are
// evaluated against a trimmed line in table order; the first match wins and
// no further patterns are tested for that line.
type headingPattern struct {
	re    *regexp.Regexp
	label func(match []string) string
}

// itemPattern builds a matcher for a canonical filing item heading: the item
// number followed by its topic keywords, case-insensitive, anchored to line
// start, tolerant of optional punctuation between the number and the topic.
func itemPattern(item, topic string) headingPattern {
	words := strings.Fields(topic)
	expr := `(?i)^item\s+` + regexp.QuoteMeta(strings.ToLower(item)) + `\s*[.:\-]?\s*` + strings.Join(escapeWords(words), `\s+`)
	name := fmt.Sprintf("Item %s: %s", item, topic)
	return headingPattern{
		re:    regexp.MustCompile(expr),
		label: func([]string) string { return name },
	}
}

func escapeWords(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}

// genericItemPattern catches item headings not in the canonical table. The
// label is built from the captured item number and trailing topic text.
var genericItemPattern = headingPattern{
	re: regexp.MustCompile(`(?i)^item\s+(\d{1,2}[A-Za-z]?)\s*[.:\-]\s*(\S.*)$`),
	label: func(match []string) string {
		item := strings.ToUpper(match[1])
		topic := cleanTopic(match[2])
		if topic == "" {
			return fmt.Sprintf("Item %s", item)
		}
		return fmt.Sprintf("Item %s: %s", item, topic)
	},
}

// cleanTopic strips trailing page numbers and dot leaders that show up in
// table-of-contents style headings.
func cleanTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	topic = strings.TrimRight(topic, "0123456789")
	topic = strings.TrimRight(topic, ". \t")
	return topic
}

// headingPatterns is the ordered matcher table: canonical 10-K items, then
// the 10-Q part headings, then the generic fallback. Order is priority.
var headingPatterns = []headingPattern{
	itemPattern("1", "Business"),
	itemPattern("1A", "Risk Factors"),
	itemPattern("1B", "Unresolved Staff Comments"),
	itemPattern("1C", "Cybersecurity"),
	itemPattern("2", "Properties"),
	itemPattern("3", "Legal Proceedings"),
	itemPattern("4", "Mine Safety Disclosures"),
	itemPattern("5", "Market for Registrant's Common Equity"),
	itemPattern("6", "Selected Financial Data"),
	itemPattern("7", "Management's Discussion and Analysis"),
	itemPattern("7A", "Quantitative and Qualitative Disclosures About Market Risk"),
	itemPattern("8", "Financial Statements and Supplementary Data"),
	itemPattern("9", "Changes in and Disagreements with Accountants"),
	itemPattern("9A", "Controls and Procedures"),
	itemPattern("9B", "Other Information"),
	itemPattern("10", "Directors, Executive Officers and Corporate Governance"),
	itemPattern("11", "Executive Compensation"),
	itemPattern("12", "Security Ownership of Certain Beneficial Owners"),
	itemPattern("13", "Certain Relationships and Related Transactions"),
	itemPattern("14", "Principal Accountant Fees and Services"),
	itemPattern("15", "Exhibits and Financial Statement Schedules"),
	// 10-Q specific topics that differ from their 10-K numbering.
	itemPattern("1", "Financial Statements"),
	itemPattern("2", "Management's Discussion and Analysis"),
	itemPattern("3", "Quantitative and Qualitative Disclosures About Market Risk"),
	itemPattern("4", "Controls and Procedures"),
	itemPattern("5", "Other Information"),
	itemPattern("6", "Exhibits"),
	genericItemPattern,
}
