package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/unikl-dcms/dcms-api/internal/middleware"
	"github.com/unikl-dcms/dcms-api/internal/models"
	"github.com/unikl-dcms/dcms-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Content   *ContentHandler
	Tree      *TreeHandler
	Users     *UserHandler
	Activity  *ActivityHandler
	Dashboard *DashboardHandler
	Reports   *ReportHandler
	Wizard    *WizardHandler
	FormState *FormStateHandler
}

// RegisterRoutes mounts the API under /api/v1. Everything except login and
// report downloads (which carry their own signed token) requires a valid
// access token; user management and the campus wizard are super admin
// territory, while content scoping for campus admins lives in the services.
func RegisterRoutes(r *gin.Engine, auth *service.AuthService, h Handlers) {
	v1 := r.Group("/api/v1")

	v1.POST("/auth/login", h.Auth.Login)
	v1.GET("/reports/download/:token", h.Reports.Download)

	protected := v1.Group("")
	protected.Use(middleware.JWT(auth))

	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/campuses", h.Content.List)
	protected.GET("/campuses/:id", h.Content.Get)
	protected.POST("/campuses", h.Content.Create)
	protected.PUT("/campuses/:id", h.Content.Rename)
	protected.DELETE("/campuses/:id", h.Content.Delete)

	protected.POST("/campuses/:id/modes", h.Content.AddMode)
	protected.PUT("/campuses/:id/modes/:mode", h.Content.RenameMode)
	protected.DELETE("/campuses/:id/modes/:mode", h.Content.DeleteMode)

	protected.POST("/campuses/:id/modes/:mode/programmes", h.Tree.AddProgramme)
	protected.PUT("/campuses/:id/modes/:mode/programmes/:programme", h.Tree.UpdateProgramme)
	protected.DELETE("/campuses/:id/modes/:mode/programmes/:programme", h.Tree.DeleteProgramme)

	protected.GET("/campuses/:id/modes/:mode/programmes/:programme/courses/:code", h.Tree.GetCourse)
	protected.POST("/campuses/:id/modes/:mode/programmes/:programme/courses", h.Tree.AddCourse)
	protected.PUT("/campuses/:id/modes/:mode/programmes/:programme/courses/:code", h.Tree.UpdateCourse)
	protected.DELETE("/campuses/:id/modes/:mode/programmes/:programme/courses/:code", h.Tree.DeleteCourse)

	protected.POST("/campuses/:id/modes/:mode/programmes/:programme/courses/:code/tasks", h.Tree.AddTask)
	protected.PUT("/campuses/:id/modes/:mode/programmes/:programme/courses/:code/tasks/:index", h.Tree.UpdateTask)
	protected.DELETE("/campuses/:id/modes/:mode/programmes/:programme/courses/:code/tasks/:index", h.Tree.DeleteTask)

	protected.GET("/activities", h.Activity.List)
	protected.POST("/activities/announcements", h.Activity.PostAnnouncement)
	protected.PUT("/activities/:id", h.Activity.UpdateAnnouncement)
	protected.DELETE("/activities/:id", h.Activity.DeleteAnnouncement)

	protected.GET("/dashboard/university", h.Dashboard.University)
	protected.GET("/dashboard/campuses/:id", h.Dashboard.Campus)

	protected.POST("/reports", h.Reports.Create)
	protected.GET("/reports/:id", h.Reports.Status)

	protected.GET("/formstate", h.FormState.State)
	protected.POST("/formstate/dirty", h.FormState.MarkDirty)
	protected.POST("/formstate/reset", h.FormState.Reset)
	protected.PUT("/formstate/tab", h.FormState.SwitchTab)

	superOnly := protected.Group("")
	superOnly.Use(middleware.RequireRoles(models.RoleSuperAdmin))

	superOnly.GET("/users", h.Users.List)
	superOnly.POST("/users", h.Users.Create)
	superOnly.PUT("/users/:username", h.Users.Update)
	superOnly.DELETE("/users/:username", h.Users.Delete)

	superOnly.POST("/wizard/campus", h.Wizard.Start)
	superOnly.GET("/wizard/campus/:id", h.Wizard.Get)
	superOnly.POST("/wizard/campus/:id/confirm", h.Wizard.Confirm)
	superOnly.DELETE("/wizard/campus/:id", h.Wizard.Cancel)
}
