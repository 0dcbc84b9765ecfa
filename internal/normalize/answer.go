package normalize

import (
	"strings"

	"quizcraft/internal/domain"
)

func normalizeShortAnswer(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, _ *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	answer, ok := stringField(item, "answer", "correct_answer", "model_answer")
	if !ok || answer == "" {
		return domain.Question{}, domain.NewValidationError(idx, "answer", "answer is required and must be a non-empty string")
	}

	q := newQuestion(domain.ShortAnswer, text, cfg)
	q.CorrectAnswer = answer
	q.Explanation = explanation(item)
	return q, nil
}

func normalizeLongAnswer(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, warn *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	answer, ok := stringField(item, "answer", "correct_answer", "model_answer")
	if !ok || answer == "" {
		return domain.Question{}, domain.NewValidationError(idx, "answer", "answer is required and must be a non-empty string")
	}

	minWords := domain.MinAnswerWords(cfg.AnswerLength)
	if words := len(strings.Fields(answer)); words < minWords {
		warn.addf("item %d: model answer has %d words, expected at least %d", idx, words, minWords)
	}

	q := newQuestion(domain.LongAnswer, text, cfg)
	q.CorrectAnswer = answer
	q.Explanation = explanation(item)

	// Key points are optional, but when present they must be well-formed.
	if raw, ok := rawField(item, "key_points", "keyPoints"); ok {
		points, ok := stringList(raw)
		if !ok {
			return domain.Question{}, domain.NewValidationError(idx, "key_points", "must be a list of non-empty strings")
		}
		q.KeyPoints = points
	}
	return q, nil
}
