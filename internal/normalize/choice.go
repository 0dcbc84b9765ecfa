package normalize

import (
	"fmt"
	"sort"
	"strings"

	"quizcraft/internal/domain"
)

var optionKeyOrder = []string{"A", "B", "C", "D", "E"}

// parseOptions resolves the option set from either the primary shape (an
// object keyed by letter) or the legacy shape (a flat array, mapped onto
// letters in order). Detection is structural.
func parseOptions(idx int, item domain.CandidateRecord) (map[string]string, error) {
	raw, ok := rawField(item, "options", "choices")
	if !ok {
		return nil, domain.NewValidationError(idx, "options", "options are required")
	}

	options := make(map[string]string)
	switch v := raw.(type) {
	case map[string]interface{}:
		for key, val := range v {
			text, ok := val.(string)
			if !ok {
				return nil, domain.NewValidationError(idx, "options", fmt.Sprintf("option %q must be a string", key))
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return nil, domain.NewValidationError(idx, "options", fmt.Sprintf("option %q is empty", key))
			}
			options[strings.ToUpper(strings.TrimSpace(key))] = text
		}
	case []interface{}:
		// Legacy shape: flat array of option texts.
		if len(v) > len(optionKeyOrder) {
			return nil, domain.NewValidationError(idx, "options", fmt.Sprintf("too many options: %d", len(v)))
		}
		for i, elem := range v {
			text, ok := elem.(string)
			if !ok {
				return nil, domain.NewValidationError(idx, "options", fmt.Sprintf("option %d must be a string", i))
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return nil, domain.NewValidationError(idx, "options", fmt.Sprintf("option %d is empty", i))
			}
			options[optionKeyOrder[i]] = text
		}
	default:
		return nil, domain.NewValidationError(idx, "options", "options must be an object keyed by letter or an array")
	}

	if len(options) < 2 {
		return nil, domain.NewValidationError(idx, "options", "at least two options are required")
	}
	for key := range options {
		if !validOptionKey(key) {
			return nil, domain.NewValidationError(idx, "options", fmt.Sprintf("invalid option key %q", key))
		}
	}
	return options, nil
}

func validOptionKey(key string) bool {
	for _, k := range optionKeyOrder {
		if key == k {
			return true
		}
	}
	return false
}

// resolveAnswerKey resolves a correct-answer value against the option set.
// A bare letter matching an existing key wins; otherwise the value is matched
// against option texts case-insensitively. Legacy numeric indexes (from the
// flat-array shape) resolve positionally.
func resolveAnswerKey(raw interface{}, options map[string]string) (string, bool) {
	switch v := raw.(type) {
	case string:
		candidate := strings.ToUpper(strings.TrimSpace(v))
		if _, ok := options[candidate]; ok {
			return candidate, true
		}
		// Fall back to matching against option values.
		want := strings.ToLower(strings.TrimSpace(v))
		for key, text := range options {
			if strings.ToLower(strings.TrimSpace(text)) == want {
				return key, true
			}
		}
	case float64:
		i := int(v)
		if i >= 0 && i < len(optionKeyOrder) {
			key := optionKeyOrder[i]
			if _, ok := options[key]; ok {
				return key, true
			}
		}
	}
	return "", false
}

func normalizeSingleChoice(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, _ *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}
	options, err := parseOptions(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	raw, ok := rawField(item, "correct_answer", "correctAnswer", "answer")
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "correct answer is required")
	}
	key, ok := resolveAnswerKey(raw, options)
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "does not match any option key or option text")
	}

	q := newQuestion(domain.SingleChoice, text, cfg)
	q.Options = options
	q.CorrectAnswer = key
	q.Explanation = explanation(item)
	return q, nil
}

func normalizeMultiSelect(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, _ *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}
	options, err := parseOptions(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	raw, ok := rawField(item, "correct_answer", "correctAnswer", "answers")
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "correct answers are required")
	}
	entries, ok := raw.([]interface{})
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "must be an array of option keys")
	}

	// Normalize to uppercase, de-duplicate, and sort.
	seen := make(map[string]bool)
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "entries must be strings")
		}
		key := strings.ToUpper(strings.TrimSpace(s))
		if _, exists := options[key]; !exists {
			return domain.Question{}, domain.NewValidationError(idx, "correct_answer", fmt.Sprintf("%q is not an option key", s))
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "at least one correct option is required")
	}
	// Every option correct is not a discriminating question.
	if len(keys) == len(options) {
		return domain.Question{}, domain.NewValidationError(idx, "correct_answer", "cannot mark every option as correct")
	}

	q := newQuestion(domain.MultiSelect, text, cfg)
	q.Options = options
	q.CorrectAnswers = keys
	q.Explanation = explanation(item)
	return q, nil
}
