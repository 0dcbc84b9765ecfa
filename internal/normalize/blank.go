package normalize

import (
	"regexp"

	"quizcraft/internal/domain"
)

// A blank marker is a run of 3 or more underscores in the question text.
var blankMarkerRe = regexp.MustCompile(`_{3,}`)

func normalizeFillInBlank(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, warn *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	blanks := len(blankMarkerRe.FindAllString(text, -1))
	if blanks == 0 {
		return domain.Question{}, domain.NewValidationError(idx, "question", "question text must contain at least one blank marker (3+ underscores)")
	}

	raw, ok := rawField(item, "answer", "answers", "correct_answer")
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "answer", "answer is required")
	}
	answers, ok := stringList(raw)
	if !ok || len(answers) == 0 {
		return domain.Question{}, domain.NewValidationError(idx, "answer", "must be a non-empty string or a list of non-empty strings")
	}

	// A count mismatch is a warning, not a hard failure.
	if len(answers) != blanks {
		warn.addf("item %d: question has %d blanks but %d answers", idx, blanks, len(answers))
	}

	q := newQuestion(domain.FillInBlank, text, cfg)
	q.Answers = answers
	q.Explanation = explanation(item)
	return q, nil
}
