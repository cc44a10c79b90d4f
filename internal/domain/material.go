package domain

// MaterialType identifies one kind of learning material managed by admins.
// It doubles as the import configuration key.
type MaterialType string

const (
	MaterialPhoneme   MaterialType = "phoneme-material"
	MaterialExercise  MaterialType = "exercise-phoneme"
	MaterialExam      MaterialType = "exam-phoneme"
	MaterialInterview MaterialType = "interview-questions"
	MaterialTalent    MaterialType = "talent"
)

// MaterialTypes lists every importable material type.
var MaterialTypes = []MaterialType{
	MaterialPhoneme,
	MaterialExercise,
	MaterialExam,
	MaterialInterview,
	MaterialTalent,
}

// Valid reports whether m is a known material type.
func (m MaterialType) Valid() bool {
	for _, t := range MaterialTypes {
		if t == m {
			return true
		}
	}
	return false
}

// PhonemeWordSummary is one phoneme category of the word list.
type PhonemeWordSummary struct {
	Phoneme         string `json:"phoneme"`
	PhonemeCategory string `json:"phonemeCategory"`
	TotalWords      int    `json:"totalWords"`
	LastUpdate      string `json:"lastUpdate"`
}

// ExerciseSummary is one phoneme category of the exercise sentence list.
type ExerciseSummary struct {
	PhonemeCategory string `json:"phonemeCategory"`
	TotalSentence   int    `json:"totalSentence"`
	LastUpdate      string `json:"lastUpdate"`
}

// ExamSummary is one phoneme category of the exam list.
type ExamSummary struct {
	PhonemeCategory string `json:"phonemeCategory"`
	TotalExam       int    `json:"totalExam"`
	LastUpdate      string `json:"lastUpdate"`
}

// PhonemeWord is a single word of a phoneme category.
type PhonemeWord struct {
	ID         int    `json:"id"`
	Word       string `json:"word"`
	Meaning    string `json:"meaning"`
	Definition string `json:"definition"`
	Phoneme    string `json:"phoneme"`
	Category   string `json:"category"`
}

// PhonemeWordInput adds a word to a phoneme category.
type PhonemeWordInput struct {
	Category   string `json:"phoneme_category" form:"phoneme_category" binding:"required,max=20"`
	Word       string `json:"word" form:"word" binding:"required,max=100"`
	Meaning    string `json:"meaning" form:"meaning" binding:"required,max=255"`
	Definition string `json:"word_definition" form:"definition" binding:"required"`
	Phoneme    string `json:"phoneme" form:"phoneme" binding:"required,max=100"`
}

// PhonemeWordUpdate edits a word. An empty Phoneme keeps the stored one.
type PhonemeWordUpdate struct {
	Word       string `json:"word"`
	Meaning    string `json:"wordMeaning"`
	Definition string `json:"wordDefinition"`
	Phoneme    string `json:"phoneme,omitempty"`
}

// ExerciseSentence is a single sentence of an exercise category.
type ExerciseSentence struct {
	ID       int    `json:"id"`
	Sentence string `json:"sentence"`
	Phoneme  string `json:"phoneme"`
}

// ExerciseSentenceInput adds a sentence to an exercise category.
type ExerciseSentenceInput struct {
	Category string `json:"phoneme_category" form:"phoneme_category" binding:"required,max=20"`
	Sentence string `json:"sentence" form:"sentence" binding:"required"`
	Phoneme  string `json:"phoneme" form:"phoneme" binding:"required"`
}

// ExerciseSentenceUpdate edits an exercise sentence.
type ExerciseSentenceUpdate struct {
	ID       int    `json:"id_sentence"`
	Sentence string `json:"sentence"`
	Phoneme  string `json:"phoneme"`
}

// ExamSet is one test of an exam category.
type ExamSet struct {
	ExamID        int    `json:"exam_id"`
	TestNumber    string `json:"test_number"`
	TotalSentence int    `json:"total_sentence"`
	LastUpdate    string `json:"last_update"`
}

// ExamSentencesPerSet is the fixed number of sentences in one exam.
const ExamSentencesPerSet = 10

// ExamSentence is one sentence of an exam set.
type ExamSentence struct {
	ID       int    `json:"id_sentence,omitempty"`
	Sentence string `json:"sentence"`
	Phoneme  string `json:"phoneme"`
}

// ExamDetail is an exam set with its sentences.
type ExamDetail struct {
	ExamID    int            `json:"id_exam"`
	Category  string         `json:"phoneme_category"`
	Sentences []ExamSentence `json:"sentences"`
}

// ExamSetInput creates an exam set in a category.
type ExamSetInput struct {
	Category string         `json:"category"`
	Items    []ExamSentence `json:"items"`
}

// ExamSetUpdate replaces the sentences of an existing exam set.
type ExamSetUpdate struct {
	Sentences []ExamSentence `json:"sentences"`
}
