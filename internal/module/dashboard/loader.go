package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// PronunciationRow is a pronunciation activity with its score badges.
type PronunciationRow struct {
	domain.PronunciationActivity
	LatestBadge Badge
	BestBadge   Badge
}

// SpeakingRow is a speaking activity with its pace badge.
type SpeakingRow struct {
	domain.SpeakingActivity
	WPMLabel string
	WPMBadge Badge
}

// Overview is everything the dashboard page shows.
type Overview struct {
	Statistics      domain.Statistics
	Pronunciation   []PronunciationRow
	Speaking        []SpeakingRow
	TotalActivities int
	DateRange       string
	// HasError is set when a feed could not be loaded and the summary's
	// copy is shown instead.
	HasError bool
	Limit    int
	DaysBack int
}

// Empty reports whether neither feed has activities.
func (o *Overview) Empty() bool {
	return len(o.Pronunciation) == 0 && len(o.Speaking) == 0
}

// Loader fetches the dashboard. Concurrent loads of the same admin with
// the same settings, as from several tabs auto-refreshing, share one round
// of backend calls.
type Loader struct {
	group  singleflight.Group
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load fetches the summary and both activity feeds in parallel. Only a
// failed summary fails the load.
func (l *Loader) Load(ctx context.Context, sessionID string, api *backend.API, limit, daysBack int) (*Overview, error) {
	limit = domain.ClampActivityLimit(limit)
	daysBack = domain.ClampDaysBack(daysBack)
	key := fmt.Sprintf("%s:%d:%d", sessionID, limit, daysBack)

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Shared by every waiter, so one caller going away must not
		// cancel it for the others.
		return l.load(context.WithoutCancel(ctx), api, limit, daysBack)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Overview), nil
}

func (l *Loader) load(ctx context.Context, api *backend.API, limit, daysBack int) (*Overview, error) {
	var (
		summary  *domain.Dashboard
		pron     *domain.PronunciationActivities
		speaking *domain.SpeakingActivities
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = api.Dashboard.Summary(gctx, limit, daysBack)
		return err
	})
	g.Go(func() error {
		var err error
		if pron, err = api.Dashboard.PronunciationActivities(gctx, limit, daysBack); err != nil {
			l.logger.WarnContext(ctx, "pronunciation feed unavailable", slog.Any("error", err))
			pron = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if speaking, err = api.Dashboard.SpeakingActivities(gctx, limit, daysBack); err != nil {
			l.logger.WarnContext(ctx, "speaking feed unavailable", slog.Any("error", err))
			speaking = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o := &Overview{
		Statistics:      summary.Statistics,
		TotalActivities: summary.TotalActivities,
		DateRange:       summary.DateRange,
		HasError:        summary.HasError,
		Limit:           limit,
		DaysBack:        daysBack,
	}
	if o.DateRange == "" {
		o.DateRange = fmt.Sprintf("Last %d days", daysBack)
	}

	pronActivities := summary.PronunciationActivities
	if pron != nil {
		pronActivities = pron.Activities
	} else {
		o.HasError = true
	}
	speakActivities := summary.SpeakingActivities
	if speaking != nil {
		speakActivities = speaking.Activities
	} else {
		o.HasError = true
	}

	for _, a := range pronActivities {
		o.Pronunciation = append(o.Pronunciation, PronunciationRow{
			PronunciationActivity: a,
			LatestBadge:           ScoreBadge(a.LatestScore),
			BestBadge:             ScoreBadge(a.BestScore),
		})
	}
	for _, a := range speakActivities {
		o.Speaking = append(o.Speaking, SpeakingRow{
			SpeakingActivity: a,
			WPMLabel:         FormatWPM(a.WPM),
			WPMBadge:         WPMBadge(a.WPM),
		})
	}
	if o.TotalActivities == 0 {
		o.TotalActivities = len(o.Pronunciation) + len(o.Speaking)
	}
	return o, nil
}
