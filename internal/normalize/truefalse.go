package normalize

import (
	"fmt"
	"strings"

	"quizcraft/internal/domain"
)

// canonicalBool maps the accepted boolean input forms onto "True"/"False".
// The mapping is total over its accepted domain and idempotent: both
// canonical outputs are themselves accepted inputs.
func canonicalBool(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case float64:
		switch v {
		case 1:
			return "True", nil
		case 0:
			return "False", nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes":
			return "True", nil
		case "false", "no":
			return "False", nil
		}
	}
	return "", fmt.Errorf("unrecognized boolean form %v", raw)
}

func normalizeTrueFalse(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, _ *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	// Primary shape carries "answer"; the legacy shape used an "is_true"
	// boolean instead. Legacy detection is structural: only attempted when
	// the primary field is absent.
	raw, ok := rawField(item, "answer", "correct_answer")
	if !ok {
		raw, ok = rawField(item, "is_true", "isTrue")
		if !ok {
			return domain.Question{}, domain.NewValidationError(idx, "answer", "answer is required")
		}
	}

	answer, err := canonicalBool(raw)
	if err != nil {
		return domain.Question{}, domain.NewValidationError(idx, "answer", err.Error())
	}

	q := newQuestion(domain.TrueFalse, text, cfg)
	q.CorrectAnswer = answer
	q.Explanation = explanation(item)
	return q, nil
}
