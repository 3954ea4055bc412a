package dto

import (
	"time"

	"github.com/unikl-dcms/dcms-api/internal/progress"
)

// UniversityOverview is the top-level dashboard payload. Totals come from
// the denormalized campus counters, not from walking the course tree.
type UniversityOverview struct {
	TotalCampuses      int                  `json:"totalCampuses"`
	TotalProgrammes    int                  `json:"totalProgrammes"`
	TotalCourses       int                  `json:"totalCourses"`
	CompletedCourses   int                  `json:"completedCourses"`
	ProgressPercentage int                  `json:"progressPercentage"`
	ModeStats          []progress.ModeTotal `json:"modeStats"`
	Campuses           []CampusSummary      `json:"campuses"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}

// CampusSummary is one row of the campus performance table.
type CampusSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TotalCourses      int    `json:"totalCourses"`
	CompletedCourses  int    `json:"completedCourses"`
	CompletionPercent int    `json:"completionPercent"`
}

// CampusOverview is the drill-down payload for a single campus. Course
// counts here are computed live from the tree and may differ from the
// denormalized campus counters shown on the university dashboard.
type CampusOverview struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	TotalCourses     int        `json:"totalCourses"`
	CompletedCourses int        `json:"completedCourses"`
	LiveCourses      int        `json:"liveCourses"`
	LiveCompleted    int        `json:"liveCompleted"`
	Modes            []ModeCard `json:"modes"`
}

// ModeCard is one delivery mode tile inside a campus overview.
type ModeCard struct {
	Key        string `json:"key"`
	Count      int    `json:"count"`
	Completed  int    `json:"completed"`
	Structured bool   `json:"structured"`
	Programmes int    `json:"programmes"`
}

// ReportJobResponse is returned when a report job is accepted.
type ReportJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Format string `json:"format"`
}

// ReportStatusResponse exposes report job state to clients.
type ReportStatusResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Format    string     `json:"format"`
	ResultURL *string    `json:"resultUrl,omitempty"`
	Error     *string    `json:"error,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
