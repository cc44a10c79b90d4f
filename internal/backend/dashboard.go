package backend

import (
	"context"
	"net/url"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// DashboardService reads the admin home statistics and learner rankings.
type DashboardService struct {
	c *apiclient.Client
}

func activityQuery(limitKey string, limit, daysBack int) url.Values {
	return values(
		limitKey, itoa(domain.ClampActivityLimit(limit)),
		"daysBack", itoa(domain.ClampDaysBack(daysBack)),
	)
}

// Summary returns the statistics and both recent activity feeds. The limit
// and window are clamped to the ranges the backend accepts.
func (s *DashboardService) Summary(ctx context.Context, activityLimit, daysBack int) (*domain.Dashboard, error) {
	q := activityQuery("activityLimit", activityLimit, daysBack)
	q.Set("page", "1")
	var d domain.Dashboard
	if err := s.c.Get(ctx, endpoint("dashboard"), q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// PronunciationActivities returns the recent phoneme practice feed.
func (s *DashboardService) PronunciationActivities(ctx context.Context, limit, daysBack int) (*domain.PronunciationActivities, error) {
	var out domain.PronunciationActivities
	if err := s.c.Get(ctx, endpoint("dashboard", "pronunciation-activities"), activityQuery("limit", limit, daysBack), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpeakingActivities returns the recent conversation and interview feed.
func (s *DashboardService) SpeakingActivities(ctx context.Context, limit, daysBack int) (*domain.SpeakingActivities, error) {
	var out domain.SpeakingActivities
	if err := s.c.Get(ctx, endpoint("dashboard", "speaking-activities"), activityQuery("limit", limit, daysBack), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var topActiveList = apiclient.ListEndpoint{
	Path:        endpoint("learners", "top-active"),
	RecordsKey:  "learners",
	SearchParam: "searchQuery",
}

// TopActiveLearners ranks learners by practice streak.
func (s *DashboardService) TopActiveLearners(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.ActiveLearner], error) {
	return apiclient.GetPage[domain.ActiveLearner](ctx, s.c, topActiveList, q)
}

// HighestScoringLearners ranks learners within a score category. Columns
// differ per category, so rows are loosely typed.
func (s *DashboardService) HighestScoringLearners(ctx context.Context, category domain.ScoreCategory, q domain.PageQuery) (*domain.PageResult[domain.Record], error) {
	if !category.Valid() {
		return nil, domain.NewAppError(domain.CodeValidation, "unknown ranking category", nil)
	}
	return fetchList[domain.Record](s.c, scoringList(category))(ctx, q)
}

func scoringList(category domain.ScoreCategory) apiclient.ListEndpoint {
	return apiclient.ListEndpoint{
		Path:        endpoint("learners", "highest-scoring"),
		RecordsKey:  "learners",
		SearchParam: "searchQuery",
		Params:      values("category", string(category)),
	}
}
