package domain

// Talent is a row of the talent list.
type Talent struct {
	ID          int    `json:"id"`
	TalentName  string `json:"talentName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Pretest     string `json:"pretest"`
	HighestExam string `json:"highestExam"`
	Progress    string `json:"progress"`
}

// TalentDetail is the editable view of a single talent.
type TalentDetail struct {
	ID    int    `json:"id"`
	Name  string `json:"nama"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TalentInput carries create and update fields. Password is only sent on create.
type TalentInput struct {
	Name     string `json:"nama"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// ProgressCategory selects one of a talent's learning progress lists.
type ProgressCategory string

const (
	ProgressPhonemeMaterial ProgressCategory = "phoneme-material-exercise"
	ProgressPhonemeExercise ProgressCategory = "phoneme-exercise"
	ProgressPhonemeExam     ProgressCategory = "phoneme-exam"
	ProgressConversation    ProgressCategory = "conversation"
	ProgressInterview       ProgressCategory = "interview"
)

// ProgressCategories lists the progress tabs in display order.
var ProgressCategories = []ProgressCategory{
	ProgressPhonemeMaterial,
	ProgressPhonemeExercise,
	ProgressPhonemeExam,
	ProgressConversation,
	ProgressInterview,
}

// RecordsKey returns the key of the record array in the progress response.
func (c ProgressCategory) RecordsKey() string {
	switch c {
	case ProgressPhonemeMaterial:
		return "phonemeCategories"
	case ProgressPhonemeExercise:
		return "phonemeExercises"
	case ProgressPhonemeExam:
		return "phonemeExams"
	case ProgressConversation:
		return "conversations"
	case ProgressInterview:
		return "interviews"
	}
	return ""
}

// Valid reports whether c is a known progress category.
func (c ProgressCategory) Valid() bool {
	return c.RecordsKey() != ""
}
