package dto

// CurrentAssignmentRequest is the wire form of one already-scheduled lesson,
// as the caller's materialised timetable carries it.
type CurrentAssignmentRequest struct {
	LessonID     string `json:"lessonId" validate:"required"`
	Day          int    `json:"day" validate:"min=0,max=4"`
	Period       int    `json:"period" validate:"min=1,max=6"`
	TeacherCode  string `json:"teacherCode" validate:"required"`
	TeacherName  string `json:"teacherName"`
	RoomName     string `json:"roomName" validate:"required"`
	StudentGroup string `json:"studentGroup" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
}

// TeacherUnavailabilityRequest pairs a teacher code with the slots they
// cannot be scheduled at.
type TeacherUnavailabilityRequest struct {
	TeacherCode string        `json:"teacherCode" validate:"required"`
	Slots       []TimeSlotDTO `json:"slots"`
}

// ScheduleRequest is the materialised schedule a move check or move runs
// against.
type ScheduleRequest struct {
	Assignments           []CurrentAssignmentRequest     `json:"assignments" validate:"required,dive"`
	TeacherUnavailability []TeacherUnavailabilityRequest `json:"teacherUnavailability"`
}

// CheckMoveRequest asks, for every (day, period) slot in the week, whether
// moving lessonId there from (sourceDay, sourcePeriod) would conflict with
// the current schedule. A move never changes the lesson's room, so none is
// supplied here.
type CheckMoveRequest struct {
	Schedule     ScheduleRequest `json:"schedule" validate:"required"`
	LessonID     string          `json:"lessonId" validate:"required"`
	SourceDay    int             `json:"sourceDay" validate:"min=0,max=4"`
	SourcePeriod int             `json:"sourcePeriod" validate:"min=1,max=6"`
}

// ConflictDTO is the wire form of movevalidator.Conflict.
type ConflictDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SlotResultDTO pairs one candidate target slot with its validity and the
// conflicts a move there would produce.
type SlotResultDTO struct {
	Slot      TimeSlotDTO   `json:"slot"`
	Valid     bool          `json:"valid"`
	Conflicts []ConflictDTO `json:"conflicts"`
}

// CheckMoveResponse carries the full 30-slot grid, ordered (day asc, period
// asc), of what moving the lesson to each candidate slot would produce.
type CheckMoveResponse struct {
	Slots []SlotResultDTO `json:"slots"`
}

// MoveLessonRequest commits a move from the source slot to an explicit
// target if, and only if, that target is conflict-free.
type MoveLessonRequest struct {
	Schedule     ScheduleRequest `json:"schedule" validate:"required"`
	LessonID     string          `json:"lessonId" validate:"required"`
	SourceDay    int             `json:"sourceDay" validate:"min=0,max=4"`
	SourcePeriod int             `json:"sourcePeriod" validate:"min=1,max=6"`
	TargetDay    int             `json:"targetDay" validate:"min=0,max=4"`
	TargetPeriod int             `json:"targetPeriod" validate:"min=1,max=6"`
}

// MoveLessonResponse reports whether the move committed, and if not, why.
type MoveLessonResponse struct {
	Committed bool          `json:"committed"`
	Conflicts []ConflictDTO `json:"conflicts,omitempty"`
}
