package dto

import (
	"github.com/unikl-dcms/dcms-api/internal/calendar"
	"github.com/unikl-dcms/dcms-api/internal/models"
)

// CreateCampusRequest adds a campus. ID is optional; when empty it is
// derived from the name.
type CreateCampusRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

// RenameCampusRequest updates a campus display name. The ID never changes.
type RenameCampusRequest struct {
	Name string `json:"name" validate:"required"`
}

// SaveModeRequest adds or renames a delivery mode on a campus.
type SaveModeRequest struct {
	Key string `json:"key" validate:"required"`
}

// SaveProgrammeRequest carries programme fields for create and update.
type SaveProgrammeRequest struct {
	Name               string `json:"name" validate:"required"`
	Coordinator        string `json:"coordinator"`
	CampusSection      string `json:"campusSection"`
	TotalSubjectsCount int    `json:"totalSubjectsCount"`
}

// SaveCourseRequest carries course fields for create and update. Progress is
// accepted on update only; on create it starts at zero.
type SaveCourseRequest struct {
	Code     string                 `json:"code" validate:"required"`
	Name     string                 `json:"name"`
	SMELead  string                 `json:"smeLead"`
	SMETeam  string                 `json:"smeTeam"`
	Semester int                    `json:"semester"`
	Progress *models.CourseProgress `json:"progress"`
}

// SaveTaskRequest carries task fields for create and update.
type SaveTaskRequest struct {
	Subject    string              `json:"subject" validate:"required"`
	Category   models.TaskCategory `json:"category"`
	Status     string              `json:"status"`
	Actual     string              `json:"actual"`
	FinishDate string              `json:"finishDate"`
	ESim       string              `json:"esim"`
	Sim        string              `json:"sim"`
	Remark     string              `json:"remark"`
}

// TaskView is a task row for the course drill-down table, with the
// days-taken column precomputed from the actual and finish dates.
type TaskView struct {
	models.Task
	DaysTaken string `json:"daysTaken"`
}

// CourseDetail is a course with its task rows expanded for display.
type CourseDetail struct {
	Code     string                `json:"code"`
	Name     string                `json:"name"`
	SMELead  string                `json:"smeLead"`
	SMETeam  string                `json:"smeTeam"`
	Semester int                   `json:"semester"`
	Progress models.CourseProgress `json:"progress"`
	Tasks    []TaskView            `json:"tasks"`
}

// NewCourseDetail expands a course into its drill-down view.
func NewCourseDetail(course models.Course) *CourseDetail {
	tasks := make([]TaskView, 0, len(course.Modules))
	for _, task := range course.Modules {
		tasks = append(tasks, TaskView{
			Task:      task,
			DaysTaken: calendar.DaysTaken(task.Actual, task.FinishDate),
		})
	}
	return &CourseDetail{
		Code:     course.Code,
		Name:     course.Name,
		SMELead:  course.SMELead,
		SMETeam:  course.SMETeam,
		Semester: course.Semester,
		Progress: course.Progress,
		Tasks:    tasks,
	}
}

// Task builds the model from the request, applying the dashboard's form
// defaults for blank fields.
func (r SaveTaskRequest) Task() models.Task {
	task := models.Task{
		Subject:    r.Subject,
		Category:   r.Category,
		Status:     r.Status,
		Actual:     r.Actual,
		FinishDate: r.FinishDate,
		ESim:       r.ESim,
		Sim:        r.Sim,
		Remark:     r.Remark,
	}
	if task.Category == "" {
		task.Category = models.CategoryCommon
	}
	if task.Status == "" {
		task.Status = models.StatusInProgress
	}
	if task.ESim == "" {
		task.ESim = "N"
	}
	if task.Sim == "" {
		task.Sim = "N"
	}
	return task
}
