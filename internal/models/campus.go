package models

import (
	"strings"
)

// TaskCategory groups tasks into the three tracked production streams plus
// a catch-all bucket that does not contribute to any percentage.
type TaskCategory string

const (
	CategorySim        TaskCategory = "sim"
	CategoryESim       TaskCategory = "esim"
	CategoryIntroVideo TaskCategory = "intro_video"
	CategoryCommon     TaskCategory = "common"
)

// Conventional task status values. Status is deliberately a free string for
// compatibility with legacy records; only "Done" has aggregation meaning.
const (
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
	StatusPending    = "Pending"
)

// Task is a single production task inside a course. The legacy ESim/Sim
// Y/N flags are carried for compatibility and ignored by aggregation.
type Task struct {
	Subject    string       `json:"subject"`
	Category   TaskCategory `json:"category"`
	Status     string       `json:"status"`
	Actual     string       `json:"actual"`
	FinishDate string       `json:"finishDate"`
	ESim       string       `json:"esim"`
	Sim        string       `json:"sim"`
	Remark     string       `json:"remark"`
}

// CourseProgress holds the three category completion percentages (0-100).
type CourseProgress struct {
	Sim        int `json:"sim"`
	ESim       int `json:"esim"`
	IntroVideo int `json:"introVideo"`
}

// Course tracks production progress for one course within a programme.
// Code is the identity key inside its programme.
type Course struct {
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	SMELead  string         `json:"smeLead"`
	SMETeam  string         `json:"smeTeam"`
	Semester int            `json:"semester"`
	Progress CourseProgress `json:"progress"`
	Modules  []Task         `json:"modules"`
}

// Programme groups courses under a coordinator. Name is the identity key
// within its (campus, mode) pair; there is no surrogate ID.
type Programme struct {
	Name               string   `json:"name"`
	Coordinator        string   `json:"coordinator"`
	CampusSection      string   `json:"campusSection"`
	TotalSubjectsCount int      `json:"totalSubjectsCount,omitempty"`
	Courses            []Course `json:"courses"`
}

// ModeData carries aggregate counters for a delivery mode. A nil Programmes
// slice marks a legacy stub mode that only tracks counters; a non-nil slice
// marks a structured mode with a drill-down tree underneath.
type ModeData struct {
	Count      int         `json:"count"`
	Completed  int         `json:"completed"`
	Programmes []Programme `json:"programmes,omitempty"`
}

// Structured reports whether the mode carries a programme tree.
func (m ModeData) Structured() bool {
	return m.Programmes != nil
}

// Campus is the root of the content tree. TotalCourses/CompletedCourses are
// denormalized counters maintained independently of the course tree; the
// top-level dashboard reads them while drill-down views walk the tree. The
// two sources can diverge and both code paths are kept.
type Campus struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	TotalCourses     int                 `json:"totalCourses"`
	CompletedCourses int                 `json:"completedCourses"`
	Modes            map[string]ModeData `json:"modes"`
}

// Preset delivery mode keys. Mode maps accept arbitrary custom keys too.
var PresetModeKeys = []string{"odl", "mc", "mooc", "bridging", "huffaz"}

// GenerateCampusID derives the campus slug from its display name: the
// "UniKL " prefix is dropped, the rest lower-cased and stripped to
// alphanumerics. Re-applying the function to its own output is a no-op.
func GenerateCampusID(name string) string {
	cleaned := strings.TrimSpace(name)
	if len(cleaned) >= 6 && strings.EqualFold(cleaned[:6], "unikl ") {
		cleaned = cleaned[6:]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(cleaned) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalModeKey normalizes a user-supplied mode key so case variants
// cannot create duplicate map entries.
func CanonicalModeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ModeKeyOthers is the mode picker's "others" sentinel. It prompts for a
// custom key and is never a valid mode name itself; legacy stub modes
// seeded under this key are read-only aggregates.
const ModeKeyOthers = "others"
