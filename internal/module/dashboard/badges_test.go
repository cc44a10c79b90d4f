package dashboard

import (
	"testing"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

func TestWPMBadge(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "No data"},
		{"150", "Excellent fluency"},
		{"120 WPM", "Good fluency"},
		{"99.9", "Moderate fluency"},
		{"50", "Moderate fluency"},
		{"12", "Needs improvement"},
		{"n/a", "Needs improvement"},
	}
	for _, tt := range tests {
		if got := WPMBadge(tt.in).Message; got != tt.want {
			t.Errorf("WPMBadge(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreBadge(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantTone Tone
	}{
		{"", "No score", ToneDefault},
		{"95%", "Excellent", ToneSuccess},
		{"80", "Good", ToneSuccess},
		{"70.5%", "Fair", ToneWarning},
		{"60", "Needs improvement", ToneWarning},
		{"59.99", "Poor", ToneError},
	}
	for _, tt := range tests {
		b := ScoreBadge(tt.in)
		if b.Message != tt.want || b.Tone != tt.wantTone {
			t.Errorf("ScoreBadge(%q) = %+v, want %q/%q", tt.in, b, tt.want, tt.wantTone)
		}
	}
}

func TestFormatWPM(t *testing.T) {
	tests := map[string]string{
		"":        "0 WPM",
		"132 WPM": "132 WPM",
		"98.6":    "99 WPM",
		"fast":    "fast",
	}
	for in, want := range tests {
		if got := FormatWPM(in); got != want {
			t.Errorf("FormatWPM(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMessages(t *testing.T) {
	p := domain.DefaultDashboardPreferences("a@b.c")
	if got, want := InfoMessage(p, "Last 30 Days"), "Showing 10 activities per category from the last 30 days"; got != want {
		t.Errorf("InfoMessage() = %q, want %q", got, want)
	}
	p.CustomLimit, p.CustomLimitValue = true, 42
	if got, want := InfoMessage(p, "Last 7 days"), "Showing 42 activities per category from the last 7 days (Custom limit)"; got != want {
		t.Errorf("InfoMessage(custom) = %q, want %q", got, want)
	}

	if got, want := EmptyMessage("Last 30 days", 10), "No learning activities found in the last 30 days. Try adjusting the time range or encourage talents to start their practice!"; got != want {
		t.Errorf("EmptyMessage(10) = %q", got)
	}
	if got, want := EmptyMessage("Last 30 days", 25), "No learning activities found in the last 30 days. Try adjusting the time range or activity limit (currently 25)."; got != want {
		t.Errorf("EmptyMessage(25) = %q", got)
	}

	if got := FooterMessage(10, 10, "speaking"); got != "Showing 10 speaking activities (limit reached - there may be more)" {
		t.Errorf("FooterMessage(full) = %q", got)
	}
	if got := FooterMessage(3, 10, "pronunciation"); got != "Showing 3 pronunciation activities" {
		t.Errorf("FooterMessage() = %q", got)
	}
}

func TestEffectiveLimit(t *testing.T) {
	tests := []struct {
		name string
		p    domain.DashboardPreferences
		want int
	}{
		{"preset", domain.DashboardPreferences{ActivityLimit: 25, CustomLimitValue: 7}, 25},
		{"custom", domain.DashboardPreferences{ActivityLimit: 25, CustomLimit: true, CustomLimitValue: 7}, 7},
		{"custom clamped", domain.DashboardPreferences{CustomLimit: true, CustomLimitValue: 500}, 200},
		{"zero clamped", domain.DashboardPreferences{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveLimit(tt.p); got != tt.want {
				t.Errorf("EffectiveLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}
