package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

type mockCampusReader struct {
	campuses []models.Campus
}

func (m *mockCampusReader) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	return m.campuses, nil
}

func (m *mockCampusReader) GetCampus(ctx context.Context, id string) (*models.Campus, error) {
	for i := range m.campuses {
		if m.campuses[i].ID == id {
			return &m.campuses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
}

type mockDashboardCache struct {
	entries map[string]interface{}
	gets    int
	sets    int
}

func (m *mockDashboardCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	value, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *dto.UniversityOverview:
		*d = *value.(*dto.UniversityOverview)
	case *dto.CampusOverview:
		*d = *value.(*dto.CampusOverview)
	}
	return nil
}

func (m *mockDashboardCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	if m.entries == nil {
		m.entries = map[string]interface{}{}
	}
	m.entries[key] = value
	return nil
}

func dashboardCampuses() []models.Campus {
	return []models.Campus{
		{
			ID: "miit", Name: "UniKL MIIT", TotalCourses: 42, CompletedCourses: 15,
			Modes: map[string]models.ModeData{
				"mc": {Count: 10, Completed: 4},
				"odl": {Count: 1, Completed: 0, Programmes: []models.Programme{{Name: "Master In Computer Science", Courses: []models.Course{
					{Code: "IRL60203", Progress: models.CourseProgress{Sim: 100, ESim: 100, IntroVideo: 100}},
					{Code: "IMR60103", Progress: models.CourseProgress{Sim: 50, ESim: 0, IntroVideo: 0}},
				}}}},
				"huffaz": {Count: 0, Completed: 0},
			},
		},
		{
			ID: "bis", Name: "UniKL Business School", TotalCourses: 28, CompletedCourses: 12,
			Modes: map[string]models.ModeData{
				"odl": {Count: 1, Completed: 1, Programmes: []models.Programme{{Name: "Bachelor in International Business"}}},
			},
		},
	}
}

func TestUniversityOverviewUsesDenormalizedCounters(t *testing.T) {
	svc := NewDashboardService(&mockCampusReader{campuses: dashboardCampuses()}, nil, nil, 0, nil)

	overview, err := svc.UniversityOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalCampuses)
	assert.Equal(t, 2, overview.TotalProgrammes)
	assert.Equal(t, 70, overview.TotalCourses)
	assert.Equal(t, 27, overview.CompletedCourses)
	// 27/70 rounds to 39.
	assert.Equal(t, 39, overview.ProgressPercentage)
	require.Len(t, overview.Campuses, 2)
	assert.Equal(t, 36, overview.Campuses[0].CompletionPercent)
	assert.Equal(t, 43, overview.Campuses[1].CompletionPercent)
}

func TestUniversityOverviewModeStatsSkipZeroCounts(t *testing.T) {
	svc := NewDashboardService(&mockCampusReader{campuses: dashboardCampuses()}, nil, nil, 0, nil)

	overview, err := svc.UniversityOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.ModeStats, 2)
	assert.Equal(t, "mc", overview.ModeStats[0].Mode)
	assert.Equal(t, 10, overview.ModeStats[0].Count)
	assert.Equal(t, "odl", overview.ModeStats[1].Mode)
	assert.Equal(t, 2, overview.ModeStats[1].Count)
	require.Len(t, overview.ModeStats[1].Breakdown, 2)
}

func TestCampusOverviewExposesLiveAndDenormalizedCounts(t *testing.T) {
	svc := NewDashboardService(&mockCampusReader{campuses: dashboardCampuses()}, nil, nil, 0, nil)

	overview, err := svc.CampusOverview(context.Background(), "miit")
	require.NoError(t, err)
	assert.Equal(t, 42, overview.TotalCourses)
	assert.Equal(t, 15, overview.CompletedCourses)
	// The live tree walk sees two courses, one fully complete. The
	// denormalized counters above are left as seeded.
	assert.Equal(t, 2, overview.LiveCourses)
	assert.Equal(t, 1, overview.LiveCompleted)

	require.Len(t, overview.Modes, 3)
	assert.Equal(t, "huffaz", overview.Modes[0].Key)
	assert.False(t, overview.Modes[0].Structured)
	assert.Equal(t, "odl", overview.Modes[2].Key)
	assert.True(t, overview.Modes[2].Structured)
	assert.Equal(t, 1, overview.Modes[2].Programmes)
}

func TestCampusOverviewUnknownCampus(t *testing.T) {
	svc := NewDashboardService(&mockCampusReader{campuses: dashboardCampuses()}, nil, nil, 0, nil)

	_, err := svc.CampusOverview(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUniversityOverviewCacheRoundTrip(t *testing.T) {
	cache := &mockDashboardCache{}
	reader := &mockCampusReader{campuses: dashboardCampuses()}
	svc := NewDashboardService(reader, cache, nil, time.Minute, nil)

	first, err := svc.UniversityOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Mutate the backing data; the cached payload must win on the second read.
	reader.campuses = nil
	second, err := svc.UniversityOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalCourses, second.TotalCourses)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestCampusOverviewCachedPerCampus(t *testing.T) {
	cache := &mockDashboardCache{}
	svc := NewDashboardService(&mockCampusReader{campuses: dashboardCampuses()}, cache, nil, time.Minute, nil)

	_, err := svc.CampusOverview(context.Background(), "miit")
	require.NoError(t, err)
	_, err = svc.CampusOverview(context.Background(), "bis")
	require.NoError(t, err)

	assert.Contains(t, cache.entries, "dcms:dashboard:campus:miit")
	assert.Contains(t, cache.entries, "dcms:dashboard:campus:bis")
}
