package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
	"github.com/unikl-dcms/dcms-api/pkg/response"
)

type treeService interface {
	AddProgramme(ctx context.Context, actor *models.User, campusID, modeKey string, req dto.SaveProgrammeRequest) (*models.Programme, error)
	UpdateProgramme(ctx context.Context, actor *models.User, campusID, modeKey, name string, req dto.SaveProgrammeRequest) (*models.Programme, error)
	DeleteProgramme(ctx context.Context, actor *models.User, campusID, modeKey, name string) error
	GetCourse(ctx context.Context, campusID, modeKey, progName, code string) (*dto.CourseDetail, error)
	AddCourse(ctx context.Context, actor *models.User, campusID, modeKey, progName string, req dto.SaveCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, req dto.SaveCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string) error
	AddTask(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, req dto.SaveTaskRequest) (*models.Course, error)
	UpdateTask(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, taskIndex int, req dto.SaveTaskRequest) (*models.Course, error)
	DeleteTask(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, taskIndex int) (*models.Course, error)
}

// TreeHandler exposes the programme, course and task levels of the content
// tree. Programmes are addressed by name and tasks by position, matching
// the stored document model.
type TreeHandler struct {
	service treeService
}

// NewTreeHandler constructs the handler.
func NewTreeHandler(service treeService) *TreeHandler {
	return &TreeHandler{service: service}
}

// AddProgramme godoc
// @Summary Add a programme to a mode
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param payload body dto.SaveProgrammeRequest true "Programme"
// @Success 201 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes [post]
func (h *TreeHandler) AddProgramme(c *gin.Context) {
	var req dto.SaveProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid programme payload"))
		return
	}
	prog, err := h.service.AddProgramme(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, prog)
}

// UpdateProgramme godoc
// @Summary Update a programme
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param payload body dto.SaveProgrammeRequest true "Programme"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme} [put]
func (h *TreeHandler) UpdateProgramme(c *gin.Context) {
	var req dto.SaveProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid programme payload"))
		return
	}
	prog, err := h.service.UpdateProgramme(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, prog)
}

// DeleteProgramme godoc
// @Summary Delete a programme with its courses
// @Tags Content
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Success 204
// @Router /campuses/{id}/modes/{mode}/programmes/{programme} [delete]
func (h *TreeHandler) DeleteProgramme(c *gin.Context) {
	if err := h.service.DeleteProgramme(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetCourse godoc
// @Summary Get a course with its task rows
// @Tags Content
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses/{code} [get]
func (h *TreeHandler) GetCourse(c *gin.Context) {
	detail, err := h.service.GetCourse(c.Request.Context(), c.Param("id"), c.Param("mode"), c.Param("programme"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// AddCourse godoc
// @Summary Add a course to a programme
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param payload body dto.SaveCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses [post]
func (h *TreeHandler) AddCourse(c *gin.Context) {
	var req dto.SaveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course payload"))
		return
	}
	course, err := h.service.AddCourse(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param code path string true "Course code"
// @Param payload body dto.SaveCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses/{code} [put]
func (h *TreeHandler) UpdateCourse(c *gin.Context) {
	var req dto.SaveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course payload"))
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Content
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param code path string true "Course code"
// @Success 204
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses/{code} [delete]
func (h *TreeHandler) DeleteCourse(c *gin.Context) {
	if err := h.service.DeleteCourse(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddTask godoc
// @Summary Add a task to a course
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param code path string true "Course code"
// @Param payload body dto.SaveTaskRequest true "Task"
// @Success 201 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses/{code}/tasks [post]
func (h *TreeHandler) AddTask(c *gin.Context) {
	var req dto.SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid task payload"))
		return
	}
	course, err := h.service.AddTask(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// UpdateTask godoc
// @Summary Update a task by position
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param code path string true "Course code"
// @Param index path int true "Task index"
// @Param payload body dto.SaveTaskRequest true "Task"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses/{code}/tasks/{index} [put]
func (h *TreeHandler) UpdateTask(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "task index must be a number"))
		return
	}
	var req dto.SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid task payload"))
		return
	}
	course, err := h.service.UpdateTask(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), c.Param("code"), index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// DeleteTask godoc
// @Summary Delete a task by position
// @Tags Content
// @Produce json
// @Param id path string true "Campus ID"
// @Param mode path string true "Mode key"
// @Param programme path string true "Programme name"
// @Param code path string true "Course code"
// @Param index path int true "Task index"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/modes/{mode}/programmes/{programme}/courses/{code}/tasks/{index} [delete]
func (h *TreeHandler) DeleteTask(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "task index must be a number"))
		return
	}
	course, err := h.service.DeleteTask(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Param("mode"), c.Param("programme"), c.Param("code"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}
