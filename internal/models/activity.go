package models

// ActivityType classifies activity feed entries.
type ActivityType string

const (
	ActivityCreate       ActivityType = "create"
	ActivityUpdate       ActivityType = "update"
	ActivityDelete       ActivityType = "delete"
	ActivityAnnouncement ActivityType = "announcement"
)

// Navigation targets referenced by activity entries. These mirror the
// dashboard's view names so a feed entry can deep-link into the tree.
const (
	ViewUniversityDashboard = "university_dashboard"
	ViewCampusOverview      = "campus_overview"
	ViewModeBreakdown       = "mode_breakdown"
	ViewProgramList         = "program_list"
	ViewCourseList          = "course_list"
	ViewVideoProgress       = "video_progress"
)

// ActivityItem is one entry in the append-only activity feed. Entries are
// written newest-first; display layers sort by timestamp descending
// themselves. Only announcement-typed entries may be edited or deleted.
type ActivityItem struct {
	ID           string            `json:"id"`
	Type         ActivityType      `json:"type"`
	Message      string            `json:"message"`
	Timestamp    string            `json:"timestamp"`
	Author       string            `json:"author,omitempty"`
	TargetView   string            `json:"targetView,omitempty"`
	TargetParams map[string]string `json:"targetParams,omitempty"`
}
