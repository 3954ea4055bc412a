package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	"github.com/unikl-dcms/dcms-api/internal/progress"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type campusReader interface {
	ListCampuses(ctx context.Context) ([]models.Campus, error)
	GetCampus(ctx context.Context, id string) (*models.Campus, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

const (
	cacheKeyUniversity   = "dcms:dashboard:university"
	cacheKeyCampusPrefix = "dcms:dashboard:campus:"
)

// DashboardService computes the read-side aggregation payloads. University
// headline numbers come from the denormalized campus counters; campus
// drill-down payloads additionally expose live counts from walking the
// tree, and the two may legitimately disagree.
type DashboardService struct {
	content campusReader
	cache   dashboardCache
	metrics cacheMetricsRecorder
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(content campusReader, cache dashboardCache, metrics cacheMetricsRecorder, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{content: content, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// UniversityOverview builds the top-level dashboard payload.
func (s *DashboardService) UniversityOverview(ctx context.Context) (*dto.UniversityOverview, error) {
	var cached dto.UniversityOverview
	if s.cacheGet(ctx, cacheKeyUniversity, &cached) {
		return &cached, nil
	}

	campuses, err := s.content.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}

	totals := progress.Totals(campuses)
	overview := &dto.UniversityOverview{
		TotalCampuses:      totals.Campuses,
		TotalProgrammes:    totals.Programmes,
		TotalCourses:       totals.TotalCourses,
		CompletedCourses:   totals.CompletedCourses,
		ProgressPercentage: totals.ProgressPercent,
		ModeStats:          progress.ModeTotals(campuses),
		Campuses:           campusSummaries(campuses),
		GeneratedAt:        time.Now().UTC(),
	}

	s.cacheSet(ctx, cacheKeyUniversity, overview)
	return overview, nil
}

// CampusOverview builds the drill-down payload for one campus.
func (s *DashboardService) CampusOverview(ctx context.Context, id string) (*dto.CampusOverview, error) {
	key := cacheKeyCampusPrefix + id
	var cached dto.CampusOverview
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	campus, err := s.content.GetCampus(ctx, id)
	if err != nil {
		return nil, err
	}

	liveTotal, liveCompleted := progress.LiveCourseCount(*campus)
	overview := &dto.CampusOverview{
		ID:               campus.ID,
		Name:             campus.Name,
		TotalCourses:     campus.TotalCourses,
		CompletedCourses: campus.CompletedCourses,
		LiveCourses:      liveTotal,
		LiveCompleted:    liveCompleted,
		Modes:            modeCards(campus.Modes),
	}

	s.cacheSet(ctx, key, overview)
	return overview, nil
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	start := time.Now()
	err := s.cache.Get(ctx, key, dest)
	hit := err == nil
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit, time.Since(start))
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
	}
	return hit
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func campusSummaries(campuses []models.Campus) []dto.CampusSummary {
	summaries := make([]dto.CampusSummary, 0, len(campuses))
	for _, c := range campuses {
		summaries = append(summaries, dto.CampusSummary{
			ID:                c.ID,
			Name:              c.Name,
			TotalCourses:      c.TotalCourses,
			CompletedCourses:  c.CompletedCourses,
			CompletionPercent: progress.CampusCompletionPercent(c),
		})
	}
	return summaries
}

func modeCards(modes map[string]models.ModeData) []dto.ModeCard {
	cards := make([]dto.ModeCard, 0, len(modes))
	for key, data := range modes {
		cards = append(cards, dto.ModeCard{
			Key:        key,
			Count:      data.Count,
			Completed:  data.Completed,
			Structured: data.Structured(),
			Programmes: len(data.Programmes),
		})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Key < cards[j].Key })
	return cards
}
