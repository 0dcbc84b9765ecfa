// Package normalize validates and normalizes candidate records into canonical
// question records. Validation is all-or-nothing per call: a single defective
// candidate fails the whole array so callers never receive a silently short
// result.
package normalize

import (
	"fmt"

	"quizcraft/internal/domain"
	"quizcraft/internal/util"
)

// normalizer consumes one candidate record plus the active configuration and
// produces one canonical question, or a ValidationError indexed to the item.
type normalizer func(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, warn *warnings) (domain.Question, error)

var normalizers = map[domain.QuestionType]normalizer{
	domain.SingleChoice: normalizeSingleChoice,
	domain.MultiSelect:  normalizeMultiSelect,
	domain.TrueFalse:    normalizeTrueFalse,
	domain.FillInBlank:  normalizeFillInBlank,
	domain.ShortAnswer:  normalizeShortAnswer,
	domain.LongAnswer:   normalizeLongAnswer,
	domain.Matching:     normalizeMatching,
}

// warnings collects non-fatal findings surfaced alongside the result.
type warnings struct {
	items []string
}

func (w *warnings) addf(format string, args ...interface{}) {
	w.items = append(w.items, fmt.Sprintf(format, args...))
}

// Candidates normalizes every element of the parsed array for the configured
// question type. It returns the canonical questions and any non-fatal
// warnings, or the first ValidationError encountered.
func Candidates(items []domain.CandidateRecord, cfg domain.GenerationConfig) ([]domain.Question, []string, error) {
	fn, ok := normalizers[cfg.Type]
	if !ok {
		return nil, nil, domain.NewConfigError("type", fmt.Sprintf("unsupported question type %q", cfg.Type))
	}

	warn := &warnings{}
	questions := make([]domain.Question, 0, len(items))
	for idx, item := range items {
		q, err := fn(idx, item, cfg, warn)
		if err != nil {
			return nil, nil, err
		}
		questions = append(questions, q)
	}
	return questions, warn.items, nil
}

// newQuestion builds the shared scaffold every normalizer fills in.
func newQuestion(qType domain.QuestionType, questionText string, cfg domain.GenerationConfig) domain.Question {
	language := cfg.Language
	if language == "" {
		language = "English"
	}
	difficulty := cfg.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}
	level := cfg.CognitiveLevel
	if level == "" {
		level = domain.LevelUnderstand
	}
	return domain.Question{
		ID:             util.NewULID(),
		Type:           qType,
		Question:       questionText,
		Difficulty:     difficulty,
		CognitiveLevel: level,
		Language:       language,
	}
}
