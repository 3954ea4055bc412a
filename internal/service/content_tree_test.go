package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

func campusWithProgramme() models.Campus {
	return models.Campus{
		ID:               "miit",
		Name:             "UniKL MIIT",
		TotalCourses:     42,
		CompletedCourses: 15,
		Modes: map[string]models.ModeData{
			"odl": {
				Count:     1,
				Completed: 0,
				Programmes: []models.Programme{
					{
						Name:          "Master In Computer Science",
						Coordinator:   "Ts Dr Suzana Basaruddin",
						CampusSection: "MIIT Post Graduate Section",
						Courses: []models.Course{
							{
								Code:     "IRL60203",
								Name:     "Advanced Computer Science",
								Semester: 1,
								Progress: models.CourseProgress{Sim: 100, ESim: 20, IntroVideo: 100},
								Modules:  []models.Task{},
							},
						},
					},
				},
			},
		},
	}
}

func TestAddProgrammeSyncsModeCount(t *testing.T) {
	svc, store, activities, _ := newContentFixture(campusWithProgramme())

	prog, err := svc.AddProgramme(context.Background(), superAdmin(), "miit", "odl", dto.SaveProgrammeRequest{
		Name:        "Bachelor in Software Engineering",
		Coordinator: "Dr Farah Hanan",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bachelor in Software Engineering", prog.Name)
	assert.NotNil(t, prog.Courses)

	mode := store.campuses[0].Modes["odl"]
	require.Len(t, mode.Programmes, 2)
	assert.Equal(t, 2, mode.Count)

	require.Len(t, activities.entries, 1)
	assert.Equal(t, "Added prog 'Bachelor in Software Engineering'", activities.entries[0].Message)
	assert.Equal(t, models.ViewCourseList, activities.entries[0].TargetView)
}

func TestAddProgrammeConvertsCounterOnlyMode(t *testing.T) {
	campus := campusWithProgramme()
	campus.Modes["mc"] = models.ModeData{Count: 10, Completed: 8}
	svc, store, _, _ := newContentFixture(campus)

	_, err := svc.AddProgramme(context.Background(), superAdmin(), "miit", "mc", dto.SaveProgrammeRequest{Name: "Certificate Programme"})
	require.NoError(t, err)

	mode := store.campuses[0].Modes["mc"]
	assert.True(t, mode.Structured())
	// Count tracks the programme list, replacing the legacy counter.
	assert.Equal(t, 1, mode.Count)
}

func TestDeleteProgrammeResyncsCount(t *testing.T) {
	svc, store, _, _ := newContentFixture(campusWithProgramme())

	require.NoError(t, svc.DeleteProgramme(context.Background(), superAdmin(), "miit", "odl", "Master In Computer Science"))
	mode := store.campuses[0].Modes["odl"]
	assert.Empty(t, mode.Programmes)
	assert.Zero(t, mode.Count)
}

func TestAddCourseAppliesFormDefaults(t *testing.T) {
	svc, store, activities, _ := newContentFixture(campusWithProgramme())

	course, err := svc.AddCourse(context.Background(), superAdmin(), "miit", "odl", "Master In Computer Science", dto.SaveCourseRequest{
		Code: "IMR60103",
		Name: "Research Methodology",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, course.Semester)
	assert.Zero(t, course.Progress.Sim)
	assert.NotNil(t, course.Modules)

	prog := store.campuses[0].Modes["odl"].Programmes[0]
	require.Len(t, prog.Courses, 2)

	require.Len(t, activities.entries, 1)
	assert.Equal(t, "Added course IMR60103", activities.entries[0].Message)
	assert.Equal(t, models.ViewVideoProgress, activities.entries[0].TargetView)
	assert.Equal(t, "IMR60103", activities.entries[0].TargetParams["selectedCourseCode"])
}

func TestAddCourseLeavesCampusCountersAlone(t *testing.T) {
	svc, store, _, _ := newContentFixture(campusWithProgramme())

	_, err := svc.AddCourse(context.Background(), superAdmin(), "miit", "odl", "Master In Computer Science", dto.SaveCourseRequest{Code: "NEW1"})
	require.NoError(t, err)

	// The denormalized top-level counters do not follow the tree.
	assert.Equal(t, 42, store.campuses[0].TotalCourses)
	assert.Equal(t, 15, store.campuses[0].CompletedCourses)
}

func TestDeleteCourseIsNotLogged(t *testing.T) {
	svc, store, activities, _ := newContentFixture(campusWithProgramme())

	require.NoError(t, svc.DeleteCourse(context.Background(), superAdmin(), "miit", "odl", "Master In Computer Science", "IRL60203"))
	assert.Empty(t, store.campuses[0].Modes["odl"].Programmes[0].Courses)
	assert.Empty(t, activities.entries)
}

func TestAddTaskRecalculatesCourseProgress(t *testing.T) {
	svc, store, activities, _ := newContentFixture(campusWithProgramme())
	ctx := context.Background()
	actor := superAdmin()

	course, err := svc.AddTask(ctx, actor, "miit", "odl", "Master In Computer Science", "IRL60203", dto.SaveTaskRequest{
		Subject:  "Sim Scripting",
		Category: models.CategorySim,
		Status:   models.StatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, course.Progress.Sim)
	// Recalculation replaces the stored snapshot: no esim tasks exist, so
	// the old 20% snapshot collapses to zero.
	assert.Zero(t, course.Progress.ESim)
	assert.Zero(t, course.Progress.IntroVideo)

	course, err = svc.AddTask(ctx, actor, "miit", "odl", "Master In Computer Science", "IRL60203", dto.SaveTaskRequest{
		Subject:  "Sim Review",
		Category: models.CategorySim,
		Status:   models.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, course.Progress.Sim)

	stored := store.campuses[0].Modes["odl"].Programmes[0].Courses[0]
	assert.Equal(t, 50, stored.Progress.Sim)
	assert.Len(t, activities.entries, 2)
	assert.Equal(t, "Added task 'Sim Scripting'", activities.entries[0].Message)
}

func TestTaskRoundingIsHalfUp(t *testing.T) {
	svc, _, _, _ := newContentFixture(campusWithProgramme())
	ctx := context.Background()
	actor := superAdmin()

	// 1 done of 3 sim tasks rounds 33.33 down to 33; 2 of 3 rounds 66.67
	// up to 67.
	subjects := []struct {
		subject string
		status  string
	}{
		{"Task A", models.StatusDone},
		{"Task B", models.StatusInProgress},
		{"Task C", models.StatusInProgress},
	}
	var course *models.Course
	var err error
	for _, s := range subjects {
		course, err = svc.AddTask(ctx, actor, "miit", "odl", "Master In Computer Science", "IRL60203", dto.SaveTaskRequest{
			Subject:  s.subject,
			Category: models.CategorySim,
			Status:   s.status,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 33, course.Progress.Sim)

	course, err = svc.UpdateTask(ctx, actor, "miit", "odl", "Master In Computer Science", "IRL60203", 1, dto.SaveTaskRequest{
		Subject:  "Task B",
		Category: models.CategorySim,
		Status:   models.StatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, 67, course.Progress.Sim)
}

func TestCommonTasksDoNotAffectProgress(t *testing.T) {
	svc, _, _, _ := newContentFixture(campusWithProgramme())

	course, err := svc.AddTask(context.Background(), superAdmin(), "miit", "odl", "Master In Computer Science", "IRL60203", dto.SaveTaskRequest{
		Subject: "Admin Paperwork",
		Status:  models.StatusDone,
	})
	require.NoError(t, err)
	assert.Zero(t, course.Progress.Sim)
	assert.Zero(t, course.Progress.ESim)
	assert.Zero(t, course.Progress.IntroVideo)
	require.Len(t, course.Modules, 1)
	assert.Equal(t, models.CategoryCommon, course.Modules[0].Category)
	assert.Equal(t, "N", course.Modules[0].Sim)
}

func TestDeleteTaskRecalculatesAndIsNotLogged(t *testing.T) {
	svc, _, activities, _ := newContentFixture(campusWithProgramme())
	ctx := context.Background()
	actor := superAdmin()

	_, err := svc.AddTask(ctx, actor, "miit", "odl", "Master In Computer Science", "IRL60203", dto.SaveTaskRequest{
		Subject:  "Sim Scripting",
		Category: models.CategorySim,
		Status:   models.StatusDone,
	})
	require.NoError(t, err)
	activities.entries = nil

	course, err := svc.DeleteTask(ctx, actor, "miit", "odl", "Master In Computer Science", "IRL60203", 0)
	require.NoError(t, err)
	assert.Empty(t, course.Modules)
	assert.Zero(t, course.Progress.Sim)
	assert.Empty(t, activities.entries)
}

func TestUpdateTaskOutOfRange(t *testing.T) {
	svc, _, _, _ := newContentFixture(campusWithProgramme())

	_, err := svc.UpdateTask(context.Background(), superAdmin(), "miit", "odl", "Master In Computer Science", "IRL60203", 5, dto.SaveTaskRequest{
		Subject: "Ghost",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetCourseComputesDaysTaken(t *testing.T) {
	campus := campusWithProgramme()
	mode := campus.Modes["odl"]
	mode.Programmes[0].Courses[0].Modules = []models.Task{
		{Subject: "Storyboard", Category: models.CategorySim, Status: models.StatusDone, Actual: "2025-11-01", FinishDate: "2025-11-02"},
		{Subject: "Recording", Category: models.CategoryIntroVideo, Actual: "2025-11-05", FinishDate: "2025-11-01"},
		{Subject: "Review", Category: models.CategoryCommon, Actual: "-", FinishDate: "2025-11-02"},
	}
	campus.Modes["odl"] = mode
	svc, _, _, _ := newContentFixture(campus)

	detail, err := svc.GetCourse(context.Background(), "miit", "ODL", "Master In Computer Science", "IRL60203")
	require.NoError(t, err)
	assert.Equal(t, "IRL60203", detail.Code)
	require.Len(t, detail.Tasks, 3)
	assert.Equal(t, "2", detail.Tasks[0].DaysTaken)
	assert.Equal(t, "5", detail.Tasks[1].DaysTaken)
	assert.Equal(t, "-", detail.Tasks[2].DaysTaken)
}

func TestGetCourseUnknownCode(t *testing.T) {
	svc, _, _, _ := newContentFixture(campusWithProgramme())

	_, err := svc.GetCourse(context.Background(), "miit", "odl", "Master In Computer Science", "NOPE")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
