package normalize

import (
	"fmt"
	"strings"

	"quizcraft/internal/domain"
)

// Matching items longer than this are awkward to render as columns; flagged
// as a warning rather than rejected.
const matchingItemMaxLen = 100

// parsePairs validates the pair-array shape for one field: a non-empty array
// of objects with exactly two string properties. The primary property names
// are left/right; question/answer is accepted as a legacy shape when the
// primary names are absent.
func parsePairs(idx int, field string, raw interface{}) ([]domain.MatchingPair, error) {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil, domain.NewValidationError(idx, field, "must be an array of pairs")
	}
	if len(entries) == 0 {
		return nil, domain.NewValidationError(idx, field, "must not be empty")
	}

	pairs := make([]domain.MatchingPair, 0, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, domain.NewValidationError(idx, field, fmt.Sprintf("pair %d must be an object", i))
		}
		if len(obj) != 2 {
			return nil, domain.NewValidationError(idx, field, fmt.Sprintf("pair %d must have exactly two properties", i))
		}

		left, right, ok := pairValues(obj)
		if !ok {
			return nil, domain.NewValidationError(idx, field, fmt.Sprintf("pair %d must have left/right string properties", i))
		}
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if left == "" || right == "" {
			return nil, domain.NewValidationError(idx, field, fmt.Sprintf("pair %d has an empty side", i))
		}
		pairs = append(pairs, domain.MatchingPair{Left: left, Right: right})
	}
	return pairs, nil
}

func pairValues(obj map[string]interface{}) (string, string, bool) {
	if l, lok := obj["left"].(string); lok {
		if r, rok := obj["right"].(string); rok {
			return l, r, true
		}
		return "", "", false
	}
	// Legacy property names.
	if l, lok := obj["question"].(string); lok {
		if r, rok := obj["answer"].(string); rok {
			return l, r, true
		}
	}
	return "", "", false
}

func normalizeMatching(idx int, item domain.CandidateRecord, cfg domain.GenerationConfig, warn *warnings) (domain.Question, error) {
	text, err := questionText(idx, item)
	if err != nil {
		return domain.Question{}, err
	}

	rawQuestions, ok := rawField(item, "matching_questions", "matchingQuestions")
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "matching_questions", "matching questions are required")
	}
	questionPairs, err := parsePairs(idx, "matching_questions", rawQuestions)
	if err != nil {
		return domain.Question{}, err
	}

	rawAnswers, ok := rawField(item, "matching_answers", "matchingAnswers")
	if !ok {
		return domain.Question{}, domain.NewValidationError(idx, "matching_answers", "matching answers are required")
	}
	answerPairs, err := parsePairs(idx, "matching_answers", rawAnswers)
	if err != nil {
		return domain.Question{}, err
	}

	if len(questionPairs) != len(answerPairs) {
		return domain.Question{}, domain.NewValidationError(idx, "matching_answers",
			fmt.Sprintf("pair count %d does not match matching_questions count %d", len(answerPairs), len(questionPairs)))
	}

	if err := checkUniqueSides(idx, "matching_questions", questionPairs); err != nil {
		return domain.Question{}, err
	}
	if err := checkUniqueSides(idx, "matching_answers", answerPairs); err != nil {
		return domain.Question{}, err
	}

	// Every answer pair must reference items present in the puzzle: its left
	// side among the puzzle's lefts and its right side among the puzzle's
	// rights. Index alignment is deliberately not required, since the puzzle
	// column is shuffled.
	lefts := make(map[string]bool, len(questionPairs))
	rights := make(map[string]bool, len(questionPairs))
	for _, p := range questionPairs {
		lefts[p.Left] = true
		rights[p.Right] = true
	}
	for i, p := range answerPairs {
		if !lefts[p.Left] {
			return domain.Question{}, domain.NewValidationError(idx, "matching_answers",
				fmt.Sprintf("pair %d: left item %q not present in matching_questions", i, p.Left))
		}
		if !rights[p.Right] {
			return domain.Question{}, domain.NewValidationError(idx, "matching_answers",
				fmt.Sprintf("pair %d: right item %q not present in matching_questions", i, p.Right))
		}
	}

	for _, p := range questionPairs {
		if len(p.Left) > matchingItemMaxLen || len(p.Right) > matchingItemMaxLen {
			warn.addf("item %d: matching item longer than %d characters", idx, matchingItemMaxLen)
			break
		}
	}

	// Degenerate case: the model returned the answer key verbatim as the
	// puzzle, i.e. no shuffle was applied. Repair by shuffling the right
	// column and surface the repair as a warning.
	if pairsIdentical(questionPairs, answerPairs) {
		questionPairs = ShuffleRight(questionPairs)
		warn.addf("item %d: matching_questions were identical to matching_answers; shuffled the right-hand column", idx)
	}

	q := newQuestion(domain.Matching, text, cfg)
	q.MatchingQuestions = questionPairs
	q.MatchingAnswers = answerPairs
	q.Explanation = explanation(item)
	return q, nil
}

func checkUniqueSides(idx int, field string, pairs []domain.MatchingPair) error {
	lefts := make(map[string]bool, len(pairs))
	rights := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if lefts[p.Left] {
			return domain.NewValidationError(idx, field, fmt.Sprintf("duplicate left item %q", p.Left))
		}
		if rights[p.Right] {
			return domain.NewValidationError(idx, field, fmt.Sprintf("duplicate right item %q", p.Right))
		}
		lefts[p.Left] = true
		rights[p.Right] = true
	}
	return nil
}

func pairsIdentical(a, b []domain.MatchingPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
