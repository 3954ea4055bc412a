package store

import (
	"time"

	"github.com/unikl-dcms/dcms-api/internal/models"
)

// SeedUsers returns the first-run account set.
func SeedUsers() []models.User {
	return []models.User{
		{Username: "super_admin", Password: "admin123", Role: models.RoleSuperAdmin},
		{Username: "miit_admin", Password: "admin123", Role: models.RoleCampusAdmin, AssignedCampusID: "miit"},
		{Username: "bis_admin", Password: "admin123", Role: models.RoleCampusAdmin, AssignedCampusID: "bis"},
	}
}

// SeedActivities returns the first-run activity feed, timestamped relative
// to now so the feed looks recent on a fresh install.
func SeedActivities(now time.Time) []models.ActivityItem {
	return []models.ActivityItem{
		{
			ID:        "1",
			Type:      models.ActivityAnnouncement,
			Message:   "Welcome to the new UniKL DCMS (Digital Course Management System)!",
			Timestamp: now.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
			Author:    "System",
		},
		{
			ID:        "2",
			Type:      models.ActivityUpdate,
			Message:   "Updated progress for course IRL60203",
			Timestamp: now.Add(-time.Hour).UTC().Format(time.RFC3339),
			Author:    "Admin",
		},
		{
			ID:        "3",
			Type:      models.ActivityCreate,
			Message:   "Added new module to Research Methodology",
			Timestamp: now.Add(-30 * time.Minute).UTC().Format(time.RFC3339),
			Author:    "Admin",
		},
	}
}

// SeedCampuses returns the first-run campus tree: two campuses with a mix of
// counter-only modes and one structured ODL mode each.
func SeedCampuses() []models.Campus {
	return []models.Campus{
		{
			ID:               "miit",
			Name:             "UniKL MIIT",
			TotalCourses:     42,
			CompletedCourses: 15,
			Modes: map[string]models.ModeData{
				"mc":       {Count: 10, Completed: 8},
				"mooc":     {Count: 5, Completed: 2},
				"bridging": {Count: 4, Completed: 4},
				"odl": {
					Count:     15,
					Completed: 10,
					Programmes: []models.Programme{
						{
							Name:               "Master In Computer Science",
							Coordinator:        "Ts Dr Suzana Basaruddin",
							CampusSection:      "MIIT Post Graduate Section",
							TotalSubjectsCount: 19,
							Courses: []models.Course{
								{
									Code:     "IRL60203",
									Name:     "Advanced Computer Science",
									SMELead:  "AP Ts Dr Munaisyah Abdullah",
									SMETeam:  "Prof Dr Shahriza Musa",
									Semester: 1,
									Progress: models.CourseProgress{Sim: 100, ESim: 20, IntroVideo: 100},
									Modules: []models.Task{
										{
											Subject:    "Editing 10 Second Introduction",
											Category:   models.CategoryIntroVideo,
											Status:     models.StatusDone,
											Actual:     "2025-11-03",
											FinishDate: "2025-11-04",
											ESim:       "N",
											Sim:        "N",
											Remark:     "Completed ahead of target",
										},
										{
											Subject:    "Finding Asset for Slideshow",
											Category:   models.CategoryIntroVideo,
											Status:     models.StatusDone,
											Actual:     "2025-11-05",
											FinishDate: "2025-11-06",
											ESim:       "N",
											Sim:        "N",
											Remark:     "Assets approved",
										},
										{
											Subject:    "Sim Scripting",
											Category:   models.CategorySim,
											Status:     models.StatusDone,
											Actual:     "2025-11-01",
											FinishDate: "2025-11-02",
											ESim:       "N",
											Sim:        "Y",
										},
										{
											Subject:  "Initial E-Sim Setup",
											Category: models.CategoryESim,
											Status:   models.StatusInProgress,
											Actual:   "2025-11-10",
											ESim:     "Y",
											Sim:      "N",
										},
									},
								},
								{
									Code:     "IMR60103",
									Name:     "Research Methodology",
									SMELead:  "Dr Farah Hanan",
									SMETeam:  "Dr Adlina Ahmad",
									Semester: 2,
									Progress: models.CourseProgress{Sim: 20, ESim: 30, IntroVideo: 10},
									Modules: []models.Task{
										{
											Subject:  "Research Design Module",
											Category: models.CategoryESim,
											Status:   models.StatusInProgress,
											Actual:   "2025-12-01",
											ESim:     "Y",
											Sim:      "N",
											Remark:   "Waiting for footage.",
										},
									},
								},
							},
						},
					},
				},
				"huffaz": {Count: 8, Completed: 3},
				"others": {Count: 0, Completed: 0},
			},
		},
		{
			ID:               "bis",
			Name:             "UniKL BiS",
			TotalCourses:     28,
			CompletedCourses: 12,
			Modes: map[string]models.ModeData{
				"mc":       {Count: 5, Completed: 5},
				"mooc":     {Count: 3, Completed: 1},
				"bridging": {Count: 2, Completed: 2},
				"odl": {
					Count:     10,
					Completed: 2,
					Programmes: []models.Programme{
						{
							Name:          "Bachelor in International Business",
							Coordinator:   "Dr. Aminah Yasin",
							CampusSection: "BiS Undergraduate",
							Courses:       []models.Course{},
						},
					},
				},
				"huffaz": {Count: 8, Completed: 2},
				"others": {Count: 0, Completed: 0},
			},
		},
	}
}
