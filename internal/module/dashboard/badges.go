package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// Tone is the colour family of a badge.
type Tone string

const (
	ToneDefault Tone = "default"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneError   Tone = "error"
)

// Badge is a coloured label with a tooltip message.
type Badge struct {
	Tone    Tone
	Message string
}

// PredefinedLimits are the quick activity limit choices.
var PredefinedLimits = []int{10, 25, 50, 100}

// DaysBackOption is one look-back window choice.
type DaysBackOption struct {
	Days  int
	Label string
}

// DaysBackOptions are the look-back windows offered in the settings.
var DaysBackOptions = []DaysBackOption{
	{7, "Last 7 Days"},
	{14, "Last 2 Weeks"},
	{30, "Last 30 Days"},
	{60, "Last 2 Months"},
	{90, "Last 3 Months"},
}

// number pulls the numeric part out of values such as "132 WPM" or "87%".
func number(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	return v, err == nil
}

// WPMBadge grades a speaking pace.
func WPMBadge(wpm string) Badge {
	if strings.TrimSpace(wpm) == "" {
		return Badge{ToneDefault, "No data"}
	}
	v, _ := number(wpm)
	switch {
	case v >= 150:
		return Badge{ToneSuccess, "Excellent fluency"}
	case v >= 100:
		return Badge{ToneWarning, "Good fluency"}
	case v >= 50:
		return Badge{ToneInfo, "Moderate fluency"}
	default:
		return Badge{ToneDefault, "Needs improvement"}
	}
}

// ScoreBadge grades a percentage score.
func ScoreBadge(score string) Badge {
	if strings.TrimSpace(score) == "" {
		return Badge{ToneDefault, "No score"}
	}
	v, _ := number(score)
	switch {
	case v >= 90:
		return Badge{ToneSuccess, "Excellent"}
	case v >= 80:
		return Badge{ToneSuccess, "Good"}
	case v >= 70:
		return Badge{ToneWarning, "Fair"}
	case v >= 60:
		return Badge{ToneWarning, "Needs improvement"}
	default:
		return Badge{ToneError, "Poor"}
	}
}

// FormatWPM renders a pace as "N WPM".
func FormatWPM(wpm string) string {
	if strings.TrimSpace(wpm) == "" {
		return "0 WPM"
	}
	if strings.Contains(wpm, "WPM") {
		return wpm
	}
	v, ok := number(wpm)
	if !ok {
		return wpm
	}
	return strconv.FormatFloat(v, 'f', 0, 64) + " WPM"
}

// EffectiveLimit is the activity limit the preferences ask for.
func EffectiveLimit(p domain.DashboardPreferences) int {
	if p.CustomLimit {
		return domain.ClampActivityLimit(p.CustomLimitValue)
	}
	return domain.ClampActivityLimit(p.ActivityLimit)
}

// InfoMessage describes what the activity tables contain.
func InfoMessage(p domain.DashboardPreferences, dateRange string) string {
	msg := fmt.Sprintf("Showing %d activities per category from the %s", EffectiveLimit(p), strings.ToLower(dateRange))
	if p.CustomLimit {
		msg += " (Custom limit)"
	}
	return msg
}

// EmptyMessage is shown when neither feed has activities.
func EmptyMessage(dateRange string, limit int) string {
	msg := fmt.Sprintf("No learning activities found in the %s.", strings.ToLower(dateRange))
	if limit != domain.DefaultActivityLimit {
		return msg + fmt.Sprintf(" Try adjusting the time range or activity limit (currently %d).", limit)
	}
	return msg + " Try adjusting the time range or encourage talents to start their practice!"
}

// FooterMessage summarises one activity table. A full table hints that
// the limit cut it short.
func FooterMessage(count, limit int, kind string) string {
	msg := fmt.Sprintf("Showing %d %s activities", count, kind)
	if count == limit {
		msg += " (limit reached - there may be more)"
	}
	return msg
}
