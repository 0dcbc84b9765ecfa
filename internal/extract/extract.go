// Package extract isolates the JSON array inside a noisy completion reply.
// Replies routinely arrive with conversational preambles, markdown fences and
// trailing commentary around the payload.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"quizcraft/internal/domain"
)

// Known conversational filler lines that models prepend to the payload.
var preamblePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here('s| is| are)\b.*$`),
	regexp.MustCompile(`(?i)^generated questions:?\s*$`),
	regexp.MustCompile(`(?i)^sure[,.!]?\s.*$`),
	regexp.MustCompile(`(?i)^(of course|certainly)[,.!]?.*$`),
	regexp.MustCompile(`(?i)^below (is|are)\b.*$`),
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Array locates the first balanced top-level JSON array in the reply text and
// returns it unparsed. It fails with an EXTRACTION_ERROR when no array can be
// located.
func Array(reply string) (string, error) {
	text := strings.TrimSpace(reply)
	if text == "" {
		return "", domain.NewExtractionError("completion reply is empty", nil)
	}

	text = stripPreamble(text)
	text = stripFence(text)
	text = trimToBrackets(text)

	arr := balancedArray(text)
	if arr == "" {
		return "", domain.NewExtractionError("no JSON array found in completion reply", nil)
	}
	return arr, nil
}

// Candidates extracts the array and decodes it into candidate records. A
// decode failure at this point is terminal, never retried.
func Candidates(reply string) ([]domain.CandidateRecord, error) {
	arr, err := Array(reply)
	if err != nil {
		return nil, err
	}
	var records []domain.CandidateRecord
	if err := json.Unmarshal([]byte(arr), &records); err != nil {
		return nil, domain.NewExtractionError("completion reply array is not valid JSON", err)
	}
	return records, nil
}

// stripPreamble drops leading lines matching the known filler patterns.
func stripPreamble(text string) string {
	lines := strings.Split(text, "\n")
	start := 0
	for start < len(lines) {
		line := strings.TrimSpace(lines[start])
		if line == "" {
			start++
			continue
		}
		matched := false
		for _, p := range preamblePatterns {
			if p.MatchString(line) {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		start++
	}
	return strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

// stripFence unwraps a fenced code block if one is present.
func stripFence(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// Unterminated fence: drop a dangling opening delimiter.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	return strings.TrimSpace(text)
}

// trimToBrackets drops any remaining prose before the first bracket and after
// the last one.
func trimToBrackets(text string) string {
	first := strings.IndexAny(text, "[{")
	if first == -1 {
		return ""
	}
	last := strings.LastIndexAny(text, "]}")
	if last == -1 || last < first {
		return ""
	}
	return text[first : last+1]
}

// balancedArray scans for the first balanced top-level [...] span. The scan is
// string-aware so brackets inside JSON string values do not affect depth.
func balancedArray(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start != -1 {
				inString = true
			}
		case '[':
			if start == -1 {
				start = i
			}
			depth++
		case ']':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
