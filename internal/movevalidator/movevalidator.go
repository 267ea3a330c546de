// Package movevalidator checks and applies single-lesson moves against an
// already-materialised Schedule, without re-invoking the solver. It mirrors
// the conflict-dimension pattern a production scheduler's conflict checker
// uses (CLASS/TEACHER/ROOM buckets), adapted to the slot-and-room move model.
package movevalidator

import (
	"fmt"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

// ConflictType names the dimension a move conflicts on.
type ConflictType string

const (
	ConflictSameSlot           ConflictType = "same_slot"
	ConflictTeacherUnavailable ConflictType = "teacher_unavailable"
	ConflictOccupied           ConflictType = "occupied"
	ConflictTeacher            ConflictType = "teacher"
	ConflictRoom               ConflictType = "room"
	ConflictStudentGroup       ConflictType = "student_group"
	ConflictError              ConflictType = "error"
)

// Conflict is one reason a proposed move cannot be committed as-is.
type Conflict struct {
	Type    ConflictType
	Message string
}

// sourceMissing is the conflict list a missing source assignment produces:
// a single error conflict, reported rather than an out-of-band error, per
// spec.md §7's MoveSourceMissing policy.
var sourceMissing = []Conflict{{ConflictError, "lesson has no current assignment at the given source slot"}}

// SlotResult pairs a candidate target slot with the conflicts a move there
// would produce.
type SlotResult struct {
	Slot      domain.TimeSlot
	Valid     bool
	Conflicts []Conflict
}

// CheckMove evaluates every (day, period) slot in the week, in ascending
// (day, period) order, as a candidate target for moving lessonID away from
// (sourceDay, sourcePeriod). The room never changes: only the time slot
// does, and room-type compatibility is not re-checked on a move. If the
// source assignment cannot be found, all 30 slots come back invalid with a
// single error conflict, rather than failing the call.
func CheckMove(schedule *domain.Schedule, lessonID string, sourceDay, sourcePeriod int) ([]SlotResult, error) {
	source, ok := findAssignment(schedule, lessonID, sourceDay, sourcePeriod)

	out := make([]SlotResult, 0, domain.SlotsPerWeek)
	for day := 0; day < domain.DaysPerWeek; day++ {
		for period := 1; period <= domain.PeriodsPerDay; period++ {
			slot, err := domain.NewTimeSlot(day, period)
			if err != nil {
				return nil, err
			}

			var conflicts []Conflict
			if !ok {
				conflicts = sourceMissing
			} else {
				conflicts = conflictsAt(schedule, source, slot)
			}
			out = append(out, SlotResult{Slot: slot, Valid: len(conflicts) == 0, Conflicts: conflicts})
		}
	}
	return out, nil
}

// MoveLesson commits lessonID's move from (sourceDay, sourcePeriod) to
// (targetDay, targetPeriod) iff that target carries no conflicts. On
// conflict (including a missing source), the schedule is left untouched and
// the conflicts are returned with committed == false.
func MoveLesson(schedule *domain.Schedule, lessonID string, sourceDay, sourcePeriod, targetDay, targetPeriod int) ([]Conflict, bool, error) {
	target, err := domain.NewTimeSlot(targetDay, targetPeriod)
	if err != nil {
		return nil, false, err
	}

	source, ok := findAssignment(schedule, lessonID, sourceDay, sourcePeriod)
	if !ok {
		return sourceMissing, false, nil
	}

	conflicts := conflictsAt(schedule, source, target)
	if len(conflicts) > 0 {
		return conflicts, false, nil
	}

	for i := range schedule.Assignments {
		a := schedule.Assignments[i]
		if a.LessonID == lessonID && a.Day == source.Day && a.Period == source.Period {
			schedule.Assignments[i].Day = target.Day
			schedule.Assignments[i].Period = target.Period
			break
		}
	}
	return nil, true, nil
}

// conflictsAt computes the conflict set moving source to target would
// produce, per spec.md §4.6 step 2, deduplicated by type in first-seen order.
func conflictsAt(schedule *domain.Schedule, source domain.CurrentAssignment, target domain.TimeSlot) []Conflict {
	if source.Slot() == target {
		return []Conflict{{ConflictSameSlot, "lesson is already scheduled at this slot"}}
	}

	var conflicts []Conflict

	if unavail, ok := schedule.TeacherUnavailability[source.TeacherCode]; ok {
		if _, blocked := unavail[target]; blocked {
			conflicts = append(conflicts, Conflict{ConflictTeacherUnavailable, fmt.Sprintf("%s is unavailable at this slot", source.TeacherCode)})
		}
	}

	for _, other := range schedule.Assignments {
		// The source row sits at its own slot, never at target (handled above),
		// so every row at target is another assignment, even one of the same lesson.
		if other.Slot() != target {
			continue
		}
		conflicts = append(conflicts, Conflict{ConflictOccupied, fmt.Sprintf("%s is already booked at this slot", other.RoomName)})
		if other.TeacherCode == source.TeacherCode {
			conflicts = append(conflicts, Conflict{ConflictTeacher, fmt.Sprintf("%s already has a lesson at this slot", source.TeacherCode)})
		}
		if other.RoomName == source.RoomName {
			conflicts = append(conflicts, Conflict{ConflictRoom, fmt.Sprintf("%s is already in use at this slot", source.RoomName)})
		}
		if other.StudentGroup == source.StudentGroup {
			conflicts = append(conflicts, Conflict{ConflictStudentGroup, fmt.Sprintf("%s already has a lesson at this slot", source.StudentGroup)})
		}
	}

	return dedupeByType(conflicts)
}

// findAssignment locates the current assignment matching the triple
// (lessonID, day, period) — not lessonID alone, since a lesson with
// periods_per_week > 1 has multiple rows sharing the same LessonID.
func findAssignment(schedule *domain.Schedule, lessonID string, day, period int) (domain.CurrentAssignment, bool) {
	for _, a := range schedule.Assignments {
		if a.LessonID == lessonID && a.Day == day && a.Period == period {
			return a, true
		}
	}
	return domain.CurrentAssignment{}, false
}

// dedupeByType keeps the first occurrence of each ConflictType, preserving
// the order conflicts were discovered in.
func dedupeByType(conflicts []Conflict) []Conflict {
	seen := make(map[ConflictType]struct{}, len(conflicts))
	out := make([]Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if _, ok := seen[c.Type]; ok {
			continue
		}
		seen[c.Type] = struct{}{}
		out = append(out, c)
	}
	return out
}
