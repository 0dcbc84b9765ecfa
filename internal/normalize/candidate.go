package normalize

import (
	"strings"

	"quizcraft/internal/domain"
)

// stringField returns the first present key as a trimmed string. Unknown and
// extra fields in the candidate are simply never looked at.
func stringField(item domain.CandidateRecord, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := item[key]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return "", false
}

// rawField returns the first present key without type conversion.
func rawField(item domain.CandidateRecord, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if raw, ok := item[key]; ok {
			return raw, true
		}
	}
	return nil, false
}

// questionText extracts the mandatory question field. Absence or a
// whitespace-only value is a hard failure for every type.
func questionText(idx int, item domain.CandidateRecord) (string, error) {
	text, ok := stringField(item, "question", "question_text", "text")
	if !ok || text == "" {
		return "", domain.NewValidationError(idx, "question", "question text is required and must be a non-empty string")
	}
	return text, nil
}

// explanation extracts the optional explanation field.
func explanation(item domain.CandidateRecord) string {
	text, _ := stringField(item, "explanation")
	return text
}

// stringList coerces a candidate value into a list of trimmed, non-empty
// strings. A bare string becomes a one-element list.
func stringList(raw interface{}) ([]string, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, false
		}
		return []string{s}, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
