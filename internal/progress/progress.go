// Package progress implements the pure roll-up math for the course
// production tree: task status -> course category percentages -> programme
// and semester averages -> campus and university totals. Nothing in this
// package mutates its input; callers recompute on demand from the current
// tree rather than caching derived values.
package progress

import (
	"math"
	"sort"

	"github.com/unikl-dcms/dcms-api/internal/models"
)

// RecalcCourseProgress derives the three category percentages from a task
// list. A category with zero tasks yields 0. Percentages are rounded
// half-up on the done/total ratio.
func RecalcCourseProgress(tasks []models.Task) models.CourseProgress {
	calc := func(cat models.TaskCategory) int {
		var total, done int
		for _, t := range tasks {
			if t.Category != cat {
				continue
			}
			total++
			if t.Status == models.StatusDone {
				done++
			}
		}
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(done) / float64(total) * 100))
	}
	return models.CourseProgress{
		Sim:        calc(models.CategorySim),
		ESim:       calc(models.CategoryESim),
		IntroVideo: calc(models.CategoryIntroVideo),
	}
}

// CourseAverage is the mean of a course's three category percentages.
func CourseAverage(c models.Course) int {
	return int(math.Round(float64(c.Progress.Sim+c.Progress.ESim+c.Progress.IntroVideo) / 3))
}

// SemesterStats is the result of a semester roll-up.
type SemesterStats struct {
	Avg   int `json:"avg"`
	Count int `json:"count"`
}

// SemesterAverage averages the per-course means of the courses belonging to
// the given semester. A course without a semester (zero value) counts as
// semester 1. No matching courses yields {0, 0}.
func SemesterAverage(courses []models.Course, semester int) SemesterStats {
	var sum float64
	var count int
	for _, c := range courses {
		sem := c.Semester
		if sem <= 0 {
			sem = 1
		}
		if sem != semester {
			continue
		}
		sum += float64(c.Progress.Sim+c.Progress.ESim+c.Progress.IntroVideo) / 3
		count++
	}
	if count == 0 {
		return SemesterStats{}
	}
	return SemesterStats{Avg: int(math.Round(sum / float64(count))), Count: count}
}

// ProgrammeOverallAverage averages the per-course means across every course
// in the programme regardless of semester.
func ProgrammeOverallAverage(courses []models.Course) int {
	var sum float64
	for _, c := range courses {
		sum += float64(c.Progress.Sim+c.Progress.ESim+c.Progress.IntroVideo) / 3
	}
	if len(courses) == 0 {
		return 0
	}
	return int(math.Round(sum / float64(len(courses))))
}

// CampusCompletionPercent computes campus completion from the denormalized
// campus counters. The drill-down screens walk the live tree instead; the
// two sources are intentionally independent and may diverge.
func CampusCompletionPercent(c models.Campus) int {
	if c.TotalCourses == 0 {
		return 0
	}
	return int(math.Round(float64(c.CompletedCourses) / float64(c.TotalCourses) * 100))
}

// LiveCourseCount walks the campus tree and counts courses, treating a
// course as completed when all three category percentages are 100. This is
// the drill-down counterpart of the denormalized campus counters.
func LiveCourseCount(c models.Campus) (total, completed int) {
	for _, mode := range c.Modes {
		for _, prog := range mode.Programmes {
			for _, course := range prog.Courses {
				total++
				p := course.Progress
				if p.Sim == 100 && p.ESim == 100 && p.IntroVideo == 100 {
					completed++
				}
			}
		}
	}
	return total, completed
}

// UniversityTotals sums the headline numbers across all campuses. Course
// counts come from the denormalized campus counters; the programme count is
// a live tree walk.
type UniversityTotals struct {
	Campuses         int `json:"campuses"`
	Programmes       int `json:"programmes"`
	TotalCourses     int `json:"total_courses"`
	CompletedCourses int `json:"completed_courses"`
	ProgressPercent  int `json:"progress_percent"`
}

// Totals aggregates the university-wide headline stats.
func Totals(campuses []models.Campus) UniversityTotals {
	t := UniversityTotals{Campuses: len(campuses)}
	for _, c := range campuses {
		t.TotalCourses += c.TotalCourses
		t.CompletedCourses += c.CompletedCourses
		for _, mode := range c.Modes {
			t.Programmes += len(mode.Programmes)
		}
	}
	if t.TotalCourses > 0 {
		t.ProgressPercent = int(math.Round(float64(t.CompletedCourses) / float64(t.TotalCourses) * 100))
	}
	return t
}

// ModeBreakdownEntry names one campus's contribution to a mode total.
type ModeBreakdownEntry struct {
	Campus string `json:"campus"`
	Count  int    `json:"count"`
}

// ModeTotal aggregates one delivery mode across campuses with a per-campus
// breakdown for tooltip display.
type ModeTotal struct {
	Mode      string               `json:"mode"`
	Count     int                  `json:"count"`
	Completed int                  `json:"completed"`
	Breakdown []ModeBreakdownEntry `json:"breakdown"`
}

// ModeTotals sums ModeData counters per mode key across all campuses,
// skipping modes with a zero count. Results are sorted by mode key for
// stable output.
func ModeTotals(campuses []models.Campus) []ModeTotal {
	byMode := make(map[string]*ModeTotal)
	for _, c := range campuses {
		for key, mode := range c.Modes {
			if mode.Count <= 0 {
				continue
			}
			key = models.CanonicalModeKey(key)
			entry, ok := byMode[key]
			if !ok {
				entry = &ModeTotal{Mode: key}
				byMode[key] = entry
			}
			entry.Count += mode.Count
			entry.Completed += mode.Completed
			entry.Breakdown = append(entry.Breakdown, ModeBreakdownEntry{Campus: c.Name, Count: mode.Count})
		}
	}
	totals := make([]ModeTotal, 0, len(byMode))
	for _, entry := range byMode {
		totals = append(totals, *entry)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Mode < totals[j].Mode })
	return totals
}
