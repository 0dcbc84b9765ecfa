package prompt

import (
	"fmt"
	"strings"

	"quizcraft/internal/domain"
)

// outputContract describes the required JSON array shape for the target type.
// Every contract ends with the same framing rules so the reply is a single
// parseable array.
func outputContract(cfg domain.GenerationConfig) string {
	var sb strings.Builder

	sb.WriteString("Respond with a single JSON array containing exactly the requested number of objects.\n")
	sb.WriteString("Do not wrap the array in prose or markdown fences.\n")

	switch cfg.Type {
	case domain.SingleChoice:
		letters := optionLetters(cfg.EffectiveOptionCount())
		fmt.Fprintf(&sb, `Each object must have this shape:
{
  "question": "the question text",
  "options": {%s},
  "correct_answer": "the single correct option key",
  "explanation": "why the correct option is right"
}
Rules: provide exactly %d options keyed %s; exactly one option is correct.
`, exampleOptions(letters), len(letters), strings.Join(letters, ", "))

	case domain.MultiSelect:
		letters := optionLetters(cfg.EffectiveOptionCount())
		fmt.Fprintf(&sb, `Each object must have this shape:
{
  "question": "the question text",
  "options": {%s},
  "correct_answer": ["B", "C"],
  "explanation": "why those options are right"
}
Rules: provide exactly %d options keyed %s; at least one but never all options are correct; "correct_answer" is always an array of option keys.
`, exampleOptions(letters), len(letters), strings.Join(letters, ", "))

	case domain.TrueFalse:
		sb.WriteString(`Each object must have this shape:
{
  "question": "a statement to judge",
  "answer": "True",
  "explanation": "why the statement is true or false"
}
Rules: "answer" is exactly "True" or "False".
`)

	case domain.FillInBlank:
		sb.WriteString(`Each object must have this shape:
{
  "question": "a sentence with each blank written as ____ (at least 3 underscores)",
  "answer": ["answer for the first blank"],
  "explanation": "why the answers fit"
}
Rules: the question text must contain at least one blank marker of 3+ underscores; "answer" lists one entry per blank, in order.
`)

	case domain.ShortAnswer:
		sb.WriteString(`Each object must have this shape:
{
  "question": "the question text",
  "answer": "a concise expected answer (one or two sentences)",
  "explanation": "optional additional context"
}
`)

	case domain.LongAnswer:
		fmt.Fprintf(&sb, `Each object must have this shape:
{
  "question": "the question text",
  "answer": "a model answer of at least %d words",
  "key_points": ["first key point", "second key point"],
  "explanation": "optional grading guidance"
}
Rules: "key_points" lists the ordered points a complete answer must cover.
`, domain.MinAnswerWords(cfg.AnswerLength))

	case domain.Matching:
		fmt.Fprintf(&sb, `Each object must have this shape:
{
  "question": "the matching instruction shown to the learner",
  "matching_questions": [{"left": "term", "right": "a definition"}],
  "matching_answers": [{"left": "term", "right": "its correct definition"}],
  "explanation": "optional context"
}
Rules: provide exactly %d pairs in both arrays; left entries are unique; right entries are unique; "matching_answers" holds the correct pairing while "matching_questions" presents the same items with the right-hand column shuffled.
`, cfg.EffectiveMatchingPairCount())
	}

	return sb.String()
}

func exampleOptions(letters []string) string {
	parts := make([]string, len(letters))
	for i, l := range letters {
		parts[i] = fmt.Sprintf("%q: \"option text\"", l)
	}
	return strings.Join(parts, ", ")
}
