package domain

// Statistics holds the headline counters of the dashboard.
type Statistics struct {
	TotalTalent                int `json:"totalTalent"`
	TotalPronunciationMaterial int `json:"totalPronunciationMaterial"`
	TotalExamPhonemMaterial    int `json:"totalExamPhonemMaterial"`
	TotalInterviewQuestion     int `json:"totalInterviewQuestion"`
}

// PronunciationActivity is one recent phoneme practice or exam attempt.
type PronunciationActivity struct {
	TalentID     int    `json:"talentId"`
	TalentName   string `json:"talentName"`
	ActivityType string `json:"activityType"`
	Category     string `json:"category"`
	LatestScore  string `json:"latestScore"`
	BestScore    string `json:"bestScore"`
	LastActivity string `json:"lastActivity"`
}

// SpeakingActivity is one recent conversation or interview attempt.
type SpeakingActivity struct {
	TalentID        int    `json:"talentId"`
	TalentName      string `json:"talentName"`
	ActivityType    string `json:"activityType"`
	WPM             string `json:"wpm"`
	GrammarFeedback string `json:"grammarFeedback"`
	LastActivity    string `json:"lastActivity"`
}

// ActivitySettings echoes the limits the backend applied.
type ActivitySettings struct {
	RequestedLimit           int   `json:"requestedLimit"`
	ActualPronunciationCount int   `json:"actualPronunciationCount"`
	ActualSpeakingCount      int   `json:"actualSpeakingCount"`
	DaysBack                 int   `json:"daysBack"`
	AvailableLimits          []int `json:"availableLimits"`
	MaxLimit                 int   `json:"maxLimit"`
	MinLimit                 int   `json:"minLimit"`
}

// Dashboard is the combined summary payload.
type Dashboard struct {
	Statistics              Statistics              `json:"statistics"`
	PronunciationActivities []PronunciationActivity `json:"pronunciationActivities"`
	SpeakingActivities      []SpeakingActivity      `json:"speakingActivities"`
	TotalActivities         int                     `json:"totalActivities"`
	DateRange               string                  `json:"dateRange"`
	HasError                bool                    `json:"hasError"`
	ActivitySettings        ActivitySettings        `json:"activitySettings"`
}

// PronunciationActivities is the standalone pronunciation feed.
type PronunciationActivities struct {
	Activities      []PronunciationActivity `json:"recentPronunciationActivities"`
	TotalActivities int                     `json:"totalActivities"`
	DateRange       string                  `json:"dateRange"`
	RequestedLimit  int                     `json:"requestedLimit"`
	ActualReturned  int                     `json:"actualReturned"`
}

// SpeakingActivities is the standalone speaking feed.
type SpeakingActivities struct {
	Activities      []SpeakingActivity `json:"recentSpeakingActivities"`
	TotalActivities int                `json:"totalActivities"`
	DateRange       string             `json:"dateRange"`
	RequestedLimit  int                `json:"requestedLimit"`
	ActualReturned  int                `json:"actualReturned"`
}

// ActiveLearner is a row of the top-active learner ranking.
type ActiveLearner struct {
	No            int    `json:"no"`
	ID            int    `json:"id"`
	TalentName    string `json:"talentName"`
	Email         string `json:"email"`
	HighestStreak int    `json:"highestStreak"`
	CurrentStreak int    `json:"currentStreak"`
}

// ScoreCategory selects a highest-scoring learner ranking.
type ScoreCategory string

const (
	ScorePhonemeMaterial ScoreCategory = "phoneme_material_exercise"
	ScorePhonemeExercise ScoreCategory = "phoneme_exercise"
	ScorePhonemeExam     ScoreCategory = "phoneme_exam"
	ScoreConversation    ScoreCategory = "conversation"
	ScoreInterview       ScoreCategory = "interview"
)

// ScoreCategories lists the ranking tabs in display order.
var ScoreCategories = []ScoreCategory{
	ScorePhonemeMaterial,
	ScorePhonemeExercise,
	ScorePhonemeExam,
	ScoreConversation,
	ScoreInterview,
}

// Valid reports whether c is a known ranking category.
func (c ScoreCategory) Valid() bool {
	for _, s := range ScoreCategories {
		if s == c {
			return true
		}
	}
	return false
}

// DashboardPreferences are the per-admin dashboard settings, persisted locally.
type DashboardPreferences struct {
	BaseModel
	Email            string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ActivityLimit    int    `gorm:"not null;default:10" json:"activityLimit"`
	DaysBack         int    `gorm:"not null;default:30" json:"daysBack"`
	CustomLimit      bool   `gorm:"not null;default:false" json:"customLimit"`
	CustomLimitValue int    `gorm:"not null;default:10" json:"customLimitValue"`
}

// Dashboard preference defaults and bounds.
const (
	DefaultActivityLimit = 10
	DefaultDaysBack      = 30
	MinActivityLimit     = 1
	MaxActivityLimit     = 200
	MinDaysBack          = 1
	MaxDaysBack          = 90
)

// DefaultDashboardPreferences returns the settings used before an admin saves any.
func DefaultDashboardPreferences(email string) DashboardPreferences {
	return DashboardPreferences{
		Email:            email,
		ActivityLimit:    DefaultActivityLimit,
		DaysBack:         DefaultDaysBack,
		CustomLimitValue: DefaultActivityLimit,
	}
}

// ClampActivityLimit bounds n to the accepted activity limit range.
func ClampActivityLimit(n int) int {
	return clamp(n, MinActivityLimit, MaxActivityLimit)
}

// ClampDaysBack bounds n to the accepted look-back window.
func ClampDaysBack(n int) int {
	return clamp(n, MinDaysBack, MaxDaysBack)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
