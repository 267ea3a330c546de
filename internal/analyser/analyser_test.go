package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

func buildProblem(t *testing.T, teachers []domain.Teacher, rooms []domain.Room, subjects []domain.Subject, groups []domain.StudentGroup, lessons []domain.Lesson) *domain.Problem {
	t.Helper()
	p, err := domain.NewProblem(teachers, rooms, subjects, groups, lessons)
	require.NoError(t, err)
	return p
}

func TestAnalyse_MinimalProblemIsFeasibleWithNoIssues(t *testing.T) {
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"math": {}}, MaxHoursPerWeek: 20}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 1}}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	assert.True(t, report.IsFeasible)
	assert.Empty(t, report.Errors())
}

func TestAnalyse_GlobalRoomCapacityExceeded(t *testing.T) {
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"math": {}}, MaxHoursPerWeek: 40}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 10}}
	for i := 0; i < 3; i++ {
		lessons = append(lessons, domain.Lesson{ID: "l" + string(rune('2'+i)), SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 10})
	}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	require.False(t, report.IsFeasible)
	found := false
	for _, i := range report.Errors() {
		if i.Category == "ROOM CAPACITY" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyse_SpecialisedRoomMissingIsError(t *testing.T) {
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"bio": {}}, MaxHoursPerWeek: 20}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "bio", Name: "Biology", RequiredRoomType: domain.RoomScienceLab}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "bio", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 1}}

	_, err := domain.NewProblem(teachers, rooms, subjects, groups, lessons)
	require.Error(t, err, "NewProblem already rejects this at construction time")
}

func TestAnalyse_TeacherWorkloadExceedsMax(t *testing.T) {
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"math": {}}, MaxHoursPerWeek: 2}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 5}}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	require.False(t, report.IsFeasible)
	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "TEACHER WORKLOAD", errs[0].Category)
}

func TestAnalyse_TeacherUnavailabilityShrinksAvailableSlots(t *testing.T) {
	unavailable := map[domain.TimeSlot]struct{}{}
	for period := 1; period <= 6; period++ {
		for day := 0; day < 4; day++ {
			s, err := domain.NewTimeSlot(day, period)
			require.NoError(t, err)
			unavailable[s] = struct{}{}
		}
	}
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"math": {}}, MaxHoursPerWeek: 40, Unavailable: unavailable}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 10}}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	require.False(t, report.IsFeasible)
	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "TEACHER WORKLOAD", errs[0].Category)
}

func TestAnalyse_StudentGroupOverbooked(t *testing.T) {
	teachers := []domain.Teacher{
		{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"math": {}}, MaxHoursPerWeek: 40},
		{ID: "t2", Name: "Mr Beta", Code: "BET", SubjectIDs: map[string]struct{}{"eng": {}}, MaxHoursPerWeek: 40},
	}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}, {ID: "eng", Name: "English"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{
		{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 10},
		{ID: "l2", SubjectID: "eng", TeacherID: "t2", StudentGroupID: "g1", PeriodsPerWeek: 10},
		{ID: "l3", SubjectID: "eng", TeacherID: "t2", StudentGroupID: "g1", PeriodsPerWeek: 10},
		{ID: "l4", SubjectID: "eng", TeacherID: "t2", StudentGroupID: "g1", PeriodsPerWeek: 1},
	}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	require.False(t, report.IsFeasible)
	found := false
	for _, i := range report.Errors() {
		if i.Category == "STUDENT GROUP CAPACITY" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyse_DoublePeriodsAreInfoOnly(t *testing.T) {
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"math": {}}, MaxHoursPerWeek: 20}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 2, RequiresDoublePeriod: true}}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	assert.True(t, report.IsFeasible)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, SeverityInfo, report.Issues[0].Severity)
	assert.Equal(t, "DOUBLE PERIODS", report.Issues[0].Category)
}

func TestAnalyse_TeacherSubjectMismatchIsWarningNotError(t *testing.T) {
	teachers := []domain.Teacher{{ID: "t1", Name: "Ms Alpha", Code: "ALP", SubjectIDs: map[string]struct{}{"eng": {}}, MaxHoursPerWeek: 20}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 1}}

	p := buildProblem(t, teachers, rooms, subjects, groups, lessons)
	report := Analyse(p)

	assert.True(t, report.IsFeasible, "mismatch is a warning, not a blocking error")
	require.Len(t, report.Issues, 1)
	assert.Equal(t, SeverityWarning, report.Issues[0].Severity)
	assert.Equal(t, "TEACHER SUBJECT MISMATCH", report.Issues[0].Category)
}
