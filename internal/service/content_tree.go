package service

import (
	"context"
	"fmt"

	"github.com/unikl-dcms/dcms-api/internal/dto"
	"github.com/unikl-dcms/dcms-api/internal/models"
	"github.com/unikl-dcms/dcms-api/internal/progress"
	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

// Programme, course and task operations. These mutate the drill-down tree
// only; the denormalized campus counters are deliberately left alone, so
// the top-level dashboard and the tree can disagree. The one counter that
// is maintained is ModeData.Count, pinned to the number of programmes on
// programme add and delete.

// AddProgramme appends a programme to a mode. Adding to a counter-only mode
// converts it to a structured one.
func (s *ContentService) AddProgramme(ctx context.Context, actor *models.User, campusID, modeKey string, req dto.SaveProgrammeRequest) (*models.Programme, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "programme name required")
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	mode, ok := campuses[idx].Modes[modeKey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	for _, p := range mode.Programmes {
		if p.Name == req.Name {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "programme already exists")
		}
	}

	programme := models.Programme{
		Name:               req.Name,
		Coordinator:        req.Coordinator,
		CampusSection:      req.CampusSection,
		TotalSubjectsCount: req.TotalSubjectsCount,
		Courses:            []models.Course{},
	}
	mode.Programmes = append(mode.Programmes, programme)
	mode.Count = len(mode.Programmes)
	campuses[idx].Modes[modeKey] = mode

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityCreate,
		fmt.Sprintf("Added prog '%s'", req.Name),
		models.ViewCourseList, navParams(campusID, modeKey, req.Name, ""))
	return &programme, nil
}

// UpdateProgramme edits programme fields. Mode.Count is not recomputed here.
func (s *ContentService) UpdateProgramme(ctx context.Context, actor *models.User, campusID, modeKey, name string, req dto.SaveProgrammeRequest) (*models.Programme, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "programme name required")
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	mode, ok := campuses[idx].Modes[modeKey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	pIdx := findProgramme(mode.Programmes, name)
	if pIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}

	prog := &mode.Programmes[pIdx]
	prog.Name = req.Name
	prog.Coordinator = req.Coordinator
	prog.CampusSection = req.CampusSection
	prog.TotalSubjectsCount = req.TotalSubjectsCount
	campuses[idx].Modes[modeKey] = mode

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityUpdate,
		fmt.Sprintf("Updated programme '%s'", req.Name),
		models.ViewCourseList, navParams(campusID, modeKey, req.Name, ""))
	return prog, nil
}

// DeleteProgramme removes a programme and its courses, resyncing Mode.Count.
func (s *ContentService) DeleteProgramme(ctx context.Context, actor *models.User, campusID, modeKey, name string) error {
	if err := s.guardCampus(actor, campusID); err != nil {
		return err
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return err
	}
	mode, ok := campuses[idx].Modes[modeKey]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	pIdx := findProgramme(mode.Programmes, name)
	if pIdx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}

	mode.Programmes = append(mode.Programmes[:pIdx:pIdx], mode.Programmes[pIdx+1:]...)
	mode.Count = len(mode.Programmes)
	campuses[idx].Modes[modeKey] = mode

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityDelete,
		fmt.Sprintf("Deleted programme %s", name), "", nil)
	return nil
}

// AddCourse appends a course to a programme with zeroed progress.
func (s *ContentService) AddCourse(ctx context.Context, actor *models.User, campusID, modeKey, progName string, req dto.SaveCourseRequest) (*models.Course, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course code required")
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	prog, commit, err := s.resolveProgramme(campuses, idx, modeKey, progName)
	if err != nil {
		return nil, err
	}

	semester := req.Semester
	if semester <= 0 {
		semester = 1
	}
	course := models.Course{
		Code:     req.Code,
		Name:     req.Name,
		SMELead:  req.SMELead,
		SMETeam:  req.SMETeam,
		Semester: semester,
		Progress: models.CourseProgress{},
		Modules:  []models.Task{},
	}
	prog.Courses = append(prog.Courses, course)
	commit()

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityCreate,
		fmt.Sprintf("Added course %s", req.Code),
		models.ViewVideoProgress, navParams(campusID, modeKey, progName, req.Code))
	return &course, nil
}

// UpdateCourse edits course fields. Progress is overwritten only when the
// request carries it; task recalculation otherwise keeps ownership.
func (s *ContentService) UpdateCourse(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, req dto.SaveCourseRequest) (*models.Course, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course code required")
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	prog, commit, err := s.resolveProgramme(campuses, idx, modeKey, progName)
	if err != nil {
		return nil, err
	}
	cIdx := findCourse(prog.Courses, code)
	if cIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	course := &prog.Courses[cIdx]
	course.Code = req.Code
	course.Name = req.Name
	course.SMELead = req.SMELead
	course.SMETeam = req.SMETeam
	if req.Semester > 0 {
		course.Semester = req.Semester
	}
	if req.Progress != nil {
		course.Progress = *req.Progress
	}
	commit()

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityUpdate,
		fmt.Sprintf("Updated course %s", req.Code),
		models.ViewVideoProgress, navParams(campusID, modeKey, progName, req.Code))
	return course, nil
}

// DeleteCourse removes a course and its tasks. The dashboard never logged
// course deletion to the feed and neither does this.
func (s *ContentService) DeleteCourse(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string) error {
	if err := s.guardCampus(actor, campusID); err != nil {
		return err
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return err
	}
	prog, commit, err := s.resolveProgramme(campuses, idx, modeKey, progName)
	if err != nil {
		return err
	}
	cIdx := findCourse(prog.Courses, code)
	if cIdx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	prog.Courses = append(prog.Courses[:cIdx:cIdx], prog.Courses[cIdx+1:]...)
	commit()

	s.commit(ctx, campuses)
	return nil
}

// AddTask appends a task to a course and recomputes the course's category
// percentages from its task list.
func (s *ContentService) AddTask(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, req dto.SaveTaskRequest) (*models.Course, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "task subject required")
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	prog, commit, err := s.resolveProgramme(campuses, idx, modeKey, progName)
	if err != nil {
		return nil, err
	}
	cIdx := findCourse(prog.Courses, code)
	if cIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	course := &prog.Courses[cIdx]
	course.Modules = append(course.Modules, req.Task())
	course.Progress = progress.RecalcCourseProgress(course.Modules)
	commit()

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityCreate,
		fmt.Sprintf("Added task '%s'", req.Subject),
		models.ViewVideoProgress, navParams(campusID, modeKey, progName, code))
	return course, nil
}

// UpdateTask replaces the task at the given index and recomputes progress.
func (s *ContentService) UpdateTask(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, taskIndex int, req dto.SaveTaskRequest) (*models.Course, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "task subject required")
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	prog, commit, err := s.resolveProgramme(campuses, idx, modeKey, progName)
	if err != nil {
		return nil, err
	}
	cIdx := findCourse(prog.Courses, code)
	if cIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course := &prog.Courses[cIdx]
	if taskIndex < 0 || taskIndex >= len(course.Modules) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
	}

	course.Modules[taskIndex] = req.Task()
	course.Progress = progress.RecalcCourseProgress(course.Modules)
	commit()

	s.commit(ctx, campuses)
	s.logActivity(ctx, actor, campuses, models.ActivityUpdate,
		fmt.Sprintf("Updated task '%s'", req.Subject),
		models.ViewVideoProgress, navParams(campusID, modeKey, progName, code))
	return course, nil
}

// DeleteTask removes the task at the given index and recomputes progress.
// Task deletion is not logged to the feed.
func (s *ContentService) DeleteTask(ctx context.Context, actor *models.User, campusID, modeKey, progName, code string, taskIndex int) (*models.Course, error) {
	if err := s.guardCampus(actor, campusID); err != nil {
		return nil, err
	}
	modeKey = models.CanonicalModeKey(modeKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	campuses, idx, err := s.loadCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	prog, commit, err := s.resolveProgramme(campuses, idx, modeKey, progName)
	if err != nil {
		return nil, err
	}
	cIdx := findCourse(prog.Courses, code)
	if cIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course := &prog.Courses[cIdx]
	if taskIndex < 0 || taskIndex >= len(course.Modules) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
	}

	course.Modules = append(course.Modules[:taskIndex:taskIndex], course.Modules[taskIndex+1:]...)
	course.Progress = progress.RecalcCourseProgress(course.Modules)
	commit()

	s.commit(ctx, campuses)
	return course, nil
}

// GetCourse returns one course expanded for the drill-down table, with the
// days-taken column computed per task.
func (s *ContentService) GetCourse(ctx context.Context, campusID, modeKey, progName, code string) (*dto.CourseDetail, error) {
	modeKey = models.CanonicalModeKey(modeKey)

	campus, err := s.GetCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	mode, ok := campus.Modes[modeKey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	pIdx := findProgramme(mode.Programmes, progName)
	if pIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}
	cIdx := findCourse(mode.Programmes[pIdx].Courses, code)
	if cIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return dto.NewCourseDetail(mode.Programmes[pIdx].Courses[cIdx]), nil
}

// resolveProgramme locates a programme inside a campus mode and returns a
// pointer to a working copy plus a closure that writes the copy back into
// the campuses slice. Callers must hold s.mu.
func (s *ContentService) resolveProgramme(campuses []models.Campus, campusIdx int, modeKey, progName string) (*models.Programme, func(), error) {
	mode, ok := campuses[campusIdx].Modes[modeKey]
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "mode not found")
	}
	pIdx := findProgramme(mode.Programmes, progName)
	if pIdx < 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}
	prog := &mode.Programmes[pIdx]
	commit := func() {
		campuses[campusIdx].Modes[modeKey] = mode
	}
	return prog, commit, nil
}

func findProgramme(programmes []models.Programme, name string) int {
	for i := range programmes {
		if programmes[i].Name == name {
			return i
		}
	}
	return -1
}

func findCourse(courses []models.Course, code string) int {
	for i := range courses {
		if courses[i].Code == code {
			return i
		}
	}
	return -1
}

func navParams(campusID, mode, progName, courseCode string) map[string]string {
	params := map[string]string{"selectedCampusId": campusID}
	if mode != "" {
		params["selectedMode"] = mode
	}
	if progName != "" {
		params["selectedProgramName"] = progName
	}
	if courseCode != "" {
		params["selectedCourseCode"] = courseCode
	}
	return params
}
