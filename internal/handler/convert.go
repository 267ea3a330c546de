package handler

import (
	"github.com/ukfootprint/class-timetabler/internal/analyser"
	"github.com/ukfootprint/class-timetabler/internal/domain"
	"github.com/ukfootprint/class-timetabler/internal/dto"
	"github.com/ukfootprint/class-timetabler/internal/movevalidator"
)

func toTimeSlot(d dto.TimeSlotDTO) (domain.TimeSlot, error) {
	return domain.NewTimeSlot(d.Day, d.Period)
}

func fromTimeSlot(t domain.TimeSlot) dto.TimeSlotDTO {
	return dto.TimeSlotDTO{Day: t.Day, Period: t.Period}
}

func toProblem(req dto.GenerateScheduleRequest) (*domain.Problem, error) {
	teachers := make([]domain.Teacher, len(req.Teachers))
	for i, t := range req.Teachers {
		subjectIDs := make(map[string]struct{}, len(t.SubjectIDs))
		for _, id := range t.SubjectIDs {
			subjectIDs[id] = struct{}{}
		}
		unavailable := make(map[domain.TimeSlot]struct{}, len(t.Unavailable))
		for _, slotDTO := range t.Unavailable {
			slot, err := toTimeSlot(slotDTO)
			if err != nil {
				return nil, err
			}
			unavailable[slot] = struct{}{}
		}
		teachers[i] = domain.Teacher{
			ID:              t.ID,
			Name:            t.Name,
			Code:            t.Code,
			SubjectIDs:      subjectIDs,
			MaxHoursPerWeek: t.MaxHoursPerWeek,
			Unavailable:     unavailable,
		}
	}

	rooms := make([]domain.Room, len(req.Rooms))
	for i, r := range req.Rooms {
		rooms[i] = domain.Room{ID: r.ID, Name: r.Name, Capacity: r.Capacity, Type: domain.RoomType(r.Type)}
	}

	subjects := make([]domain.Subject, len(req.Subjects))
	for i, s := range req.Subjects {
		subjects[i] = domain.Subject{ID: s.ID, Name: s.Name, RequiredRoomType: domain.RoomType(s.RequiredRoomType)}
	}

	groups := make([]domain.StudentGroup, len(req.StudentGroups))
	for i, g := range req.StudentGroups {
		groups[i] = domain.StudentGroup{ID: g.ID, Name: g.Name, YearGroup: g.YearGroup, Size: g.Size}
	}

	lessons := make([]domain.Lesson, len(req.Lessons))
	for i, l := range req.Lessons {
		lessons[i] = domain.Lesson{
			ID:                   l.ID,
			SubjectID:            l.SubjectID,
			TeacherID:            l.TeacherID,
			StudentGroupID:       l.StudentGroupID,
			PeriodsPerWeek:       l.PeriodsPerWeek,
			RequiresDoublePeriod: l.RequiresDoublePeriod,
		}
	}

	return domain.NewProblem(teachers, rooms, subjects, groups, lessons)
}

func fromIssues(issues []analyser.Issue) []dto.IssueDTO {
	out := make([]dto.IssueDTO, len(issues))
	for i, issue := range issues {
		out[i] = dto.IssueDTO{
			Severity: string(issue.Severity),
			Category: issue.Category,
			Message:  issue.Message,
			Details:  issue.Details,
		}
	}
	return out
}

func fromAssignments(assignments []domain.Assignment) []dto.AssignmentDTO {
	out := make([]dto.AssignmentDTO, len(assignments))
	for i, a := range assignments {
		out[i] = dto.AssignmentDTO{LessonID: a.LessonID, Slot: fromTimeSlot(a.Slot), RoomID: a.RoomID}
	}
	return out
}

func toSchedule(req dto.ScheduleRequest) (*domain.Schedule, error) {
	assignments := make([]domain.CurrentAssignment, len(req.Assignments))
	for i, a := range req.Assignments {
		assignments[i] = domain.CurrentAssignment{
			LessonID:     a.LessonID,
			Day:          a.Day,
			Period:       a.Period,
			TeacherCode:  a.TeacherCode,
			TeacherName:  a.TeacherName,
			RoomName:     a.RoomName,
			StudentGroup: a.StudentGroup,
			Subject:      a.Subject,
		}
	}

	unavailability := make(map[string]map[domain.TimeSlot]struct{}, len(req.TeacherUnavailability))
	for _, u := range req.TeacherUnavailability {
		slots := make(map[domain.TimeSlot]struct{}, len(u.Slots))
		for _, slotDTO := range u.Slots {
			slot, err := toTimeSlot(slotDTO)
			if err != nil {
				return nil, err
			}
			slots[slot] = struct{}{}
		}
		unavailability[u.TeacherCode] = slots
	}

	return &domain.Schedule{Assignments: assignments, TeacherUnavailability: unavailability}, nil
}

func fromConflicts(conflicts []movevalidator.Conflict) []dto.ConflictDTO {
	out := make([]dto.ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		out[i] = dto.ConflictDTO{Type: string(c.Type), Message: c.Message}
	}
	return out
}

func fromSlotResults(results []movevalidator.SlotResult) []dto.SlotResultDTO {
	out := make([]dto.SlotResultDTO, len(results))
	for i, r := range results {
		out[i] = dto.SlotResultDTO{
			Slot:      fromTimeSlot(r.Slot),
			Valid:     r.Valid,
			Conflicts: fromConflicts(r.Conflicts),
		}
	}
	return out
}
