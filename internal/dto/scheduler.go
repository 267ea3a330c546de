// Package dto holds the HTTP request/response shapes the gateway exposes,
// separate from the domain types the engine operates on.
package dto

// TimeSlotDTO is the wire form of domain.TimeSlot.
type TimeSlotDTO struct {
	Day    int `json:"day" validate:"min=0,max=4"`
	Period int `json:"period" validate:"min=1,max=6"`
}

// TeacherRequest describes one teacher in a generation request.
type TeacherRequest struct {
	ID              string        `json:"id" validate:"required"`
	Name            string        `json:"name" validate:"required"`
	Code            string        `json:"code" validate:"required"`
	SubjectIDs      []string      `json:"subjectIds" validate:"required,min=1,dive,required"`
	MaxHoursPerWeek int           `json:"maxHoursPerWeek" validate:"required,min=1,max=40"`
	Unavailable     []TimeSlotDTO `json:"unavailable"`
}

// RoomRequest describes one room in a generation request.
type RoomRequest struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Type     string `json:"type" validate:"omitempty,oneof=standard science_lab computer_room sports_hall art_room music_room library"`
}

// SubjectRequest describes one subject in a generation request.
type SubjectRequest struct {
	ID               string `json:"id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	RequiredRoomType string `json:"requiredRoomType" validate:"omitempty,oneof=standard science_lab computer_room sports_hall art_room music_room library"`
}

// StudentGroupRequest describes one cohort in a generation request.
type StudentGroupRequest struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	YearGroup int    `json:"yearGroup" validate:"required,min=1,max=13"`
	Size      int    `json:"size" validate:"required,min=1"`
}

// LessonRequest describes one scheduling unit in a generation request.
type LessonRequest struct {
	ID                   string `json:"id" validate:"required"`
	SubjectID            string `json:"subjectId" validate:"required"`
	TeacherID            string `json:"teacherId" validate:"required"`
	StudentGroupID       string `json:"studentGroupId" validate:"required"`
	PeriodsPerWeek       int    `json:"periodsPerWeek" validate:"required,min=1,max=10"`
	RequiresDoublePeriod bool   `json:"requiresDoublePeriod"`
}

// WeightsRequest overrides the default soft-constraint weights. A field left
// nil falls back to the server default for that family; an explicit 0
// disables that family per spec (SC1-SC4 can each be turned off).
type WeightsRequest struct {
	TeacherGaps     *int `json:"teacherGaps,omitempty" validate:"omitempty,min=0"`
	RoomConsistency *int `json:"roomConsistency,omitempty" validate:"omitempty,min=0"`
	SubjectSpread   *int `json:"subjectSpread,omitempty" validate:"omitempty,min=0"`
	DailyBalance    *int `json:"dailyBalance,omitempty" validate:"omitempty,min=0"`
}

// SolverOptionsRequest overrides the default solve resource limits. A field
// left nil or zero falls back to the server default.
type SolverOptionsRequest struct {
	MaxTimeSeconds int `json:"maxTimeSeconds" validate:"omitempty,min=1"`
	NumWorkers     int `json:"numWorkers" validate:"omitempty,min=1"`
	NodeLimit      int `json:"nodeLimit" validate:"omitempty,min=1"`
}

// GenerateScheduleRequest instructs the generator to build a timetable for
// the given problem instance.
type GenerateScheduleRequest struct {
	Teachers      []TeacherRequest      `json:"teachers" validate:"required,min=1,dive"`
	Rooms         []RoomRequest         `json:"rooms" validate:"required,min=1,dive"`
	Subjects      []SubjectRequest      `json:"subjects" validate:"required,min=1,dive"`
	StudentGroups []StudentGroupRequest `json:"studentGroups" validate:"required,min=1,dive"`
	Lessons       []LessonRequest       `json:"lessons" validate:"required,min=1,dive"`
	Weights       *WeightsRequest       `json:"weights,omitempty"`
	Solver        *SolverOptionsRequest `json:"solver,omitempty"`
}

// IssueDTO is the wire form of analyser.Issue.
type IssueDTO struct {
	Severity string         `json:"severity"`
	Category string         `json:"category"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// AssignmentDTO is the wire form of domain.Assignment.
type AssignmentDTO struct {
	LessonID string      `json:"lessonId"`
	Slot     TimeSlotDTO `json:"slot"`
	RoomID   string      `json:"roomId"`
}

// GenerateScheduleResponse returns the feasibility report and, if a solution
// was reached, its assignments.
type GenerateScheduleResponse struct {
	IsFeasible   bool            `json:"isFeasible"`
	Status       string          `json:"status"`
	Issues       []IssueDTO      `json:"issues,omitempty"`
	Assignments  []AssignmentDTO `json:"assignments,omitempty"`
	Penalty      int             `json:"penalty,omitempty"`
	SolveSeconds float64         `json:"solveSeconds"`
	Message      string          `json:"message,omitempty"`
}
