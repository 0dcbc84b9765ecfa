package domain

// QuestionType identifies one of the supported question shapes.
type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	MultiSelect  QuestionType = "multi_select"
	TrueFalse    QuestionType = "true_false"
	FillInBlank  QuestionType = "fill_in_blank"
	ShortAnswer  QuestionType = "short_answer"
	LongAnswer   QuestionType = "long_answer"
	Matching     QuestionType = "matching"
)

// AllQuestionTypes returns every supported question type.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{
		SingleChoice, MultiSelect, TrueFalse, FillInBlank,
		ShortAnswer, LongAnswer, Matching,
	}
}

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultiSelect, TrueFalse, FillInBlank, ShortAnswer, LongAnswer, Matching:
		return true
	}
	return false
}

// Difficulty is the requested difficulty tier for generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// CognitiveLevel is the Bloom-style cognitive tag for generated questions.
type CognitiveLevel string

const (
	LevelRemember   CognitiveLevel = "remember"
	LevelUnderstand CognitiveLevel = "understand"
	LevelApply      CognitiveLevel = "apply"
	LevelAnalyze    CognitiveLevel = "analyze"
	LevelEvaluate   CognitiveLevel = "evaluate"
	LevelCreate     CognitiveLevel = "create"
)

func (l CognitiveLevel) Valid() bool {
	switch l {
	case LevelRemember, LevelUnderstand, LevelApply, LevelAnalyze, LevelEvaluate, LevelCreate:
		return true
	}
	return false
}

// MatchingPair is one left/right correspondence in a matching question.
type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// CandidateRecord is one unvalidated element of the JSON array parsed out of a
// completion reply. It only lives for the duration of one normalization pass.
type CandidateRecord map[string]interface{}

// Question is the canonical, validated output unit. The Type tag decides which
// of the optional per-type fields are populated:
//
//   - SingleChoice: Options keyed A-D(E), CorrectAnswer holds the correct key
//   - MultiSelect: Options as above, CorrectAnswers holds the sorted correct keys
//   - TrueFalse: CorrectAnswer is "True" or "False"
//   - FillInBlank: Answers holds one entry per blank, in question order
//   - ShortAnswer: CorrectAnswer holds the expected answer text
//   - LongAnswer: CorrectAnswer holds the model answer, KeyPoints the outline
//   - Matching: MatchingQuestions is the shuffled puzzle, MatchingAnswers the key
//
// Questions are immutable once a normalizer has produced them.
type Question struct {
	ID                string            `json:"id"`
	Type              QuestionType      `json:"type"`
	Question          string            `json:"question"`
	Options           map[string]string `json:"options,omitempty"`
	CorrectAnswer     string            `json:"correct_answer,omitempty"`
	CorrectAnswers    []string          `json:"correct_answers,omitempty"`
	Answers           []string          `json:"answers,omitempty"`
	KeyPoints         []string          `json:"key_points,omitempty"`
	MatchingQuestions []MatchingPair    `json:"matching_questions,omitempty"`
	MatchingAnswers   []MatchingPair    `json:"matching_answers,omitempty"`
	Explanation       string            `json:"explanation,omitempty"`
	Difficulty        Difficulty        `json:"difficulty"`
	CognitiveLevel    CognitiveLevel    `json:"cognitive_level"`
	Language          string            `json:"language"`
	SourceReference   string            `json:"source_reference,omitempty"`
}
