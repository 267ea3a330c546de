// Package analyser performs the static feasibility pass of spec.md §4.1: a
// linear scan over a Problem that rules out provably-infeasible inputs
// before the model builder ever runs, and flags tight-but-feasible
// resources along the way. It never invokes the solver.
package analyser

import (
	"fmt"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

// Severity classifies an Issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Issue is one finding of the analyser.
type Issue struct {
	Severity Severity
	Category string
	Message  string
	Details  map[string]any
}

// ValidationReport summarises the analyser's pass over a Problem.
type ValidationReport struct {
	IsFeasible bool
	Issues     []Issue
}

// Errors returns only the ERROR-severity issues, in encounter order.
func (r ValidationReport) Errors() []Issue {
	out := make([]Issue, 0, len(r.Issues))
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

const (
	slotsPerRoomPerWeek = domain.MaxRoomCapacity // 30
	tightUtilisation    = 0.9
)

// Analyse runs all checks from spec.md §4.1 over p and returns a report.
// Analyse is pure and deterministic for a fixed Problem (spec.md §8
// Round-trip property).
func Analyse(p *domain.Problem) ValidationReport {
	var issues []Issue

	issues = append(issues, checkGlobalRoomCapacity(p)...)
	issues = append(issues, checkSpecialisedRoomCapacity(p)...)
	issues = append(issues, checkTeacherWorkload(p)...)
	issues = append(issues, checkStudentGroupCapacity(p)...)
	issues = append(issues, checkDoublePeriods(p)...)
	issues = append(issues, checkTeacherSubjectMismatch(p)...)

	feasible := true
	for _, i := range issues {
		if i.Severity == SeverityError {
			feasible = false
			break
		}
	}

	return ValidationReport{IsFeasible: feasible, Issues: issues}
}

// checkGlobalRoomCapacity implements §4.1 check 1.
func checkGlobalRoomCapacity(p *domain.Problem) []Issue {
	total := 0
	for _, l := range p.Lessons {
		total += l.PeriodsPerWeek
	}
	supply := slotsPerRoomPerWeek * len(p.Rooms)

	if supply == 0 {
		if total > 0 {
			return []Issue{{
				Severity: SeverityError,
				Category: "ROOM CAPACITY",
				Message:  "no rooms are defined but lessons require scheduling",
				Details:  map[string]any{"periods_required": total},
			}}
		}
		return nil
	}

	utilisation := float64(total) / float64(supply)
	switch {
	case total > supply:
		return []Issue{{
			Severity: SeverityError,
			Category: "ROOM CAPACITY",
			Message:  fmt.Sprintf("total required periods (%d) exceed available room-slots (%d)", total, supply),
			Details:  map[string]any{"required": total, "available": supply, "utilization": utilisation},
		}}
	case utilisation > tightUtilisation:
		return []Issue{{
			Severity: SeverityWarning,
			Category: "ROOM CAPACITY",
			Message:  fmt.Sprintf("room utilization is very high (%.1f%%)", utilisation*100),
			Details:  map[string]any{"utilization": utilisation},
		}}
	}
	return nil
}

// checkSpecialisedRoomCapacity implements §4.1 check 2.
func checkSpecialisedRoomCapacity(p *domain.Problem) []Issue {
	demandByType := map[domain.RoomType]int{}
	for _, l := range p.Lessons {
		subj, ok := p.Subject(l.SubjectID)
		if !ok || subj.RequiredRoomType == "" {
			continue
		}
		demandByType[subj.RequiredRoomType] += l.PeriodsPerWeek
	}

	var issues []Issue
	for roomType, demand := range demandByType {
		supplyRooms := 0
		for _, r := range p.Rooms {
			if r.Type == roomType {
				supplyRooms++
			}
		}
		supply := slotsPerRoomPerWeek * supplyRooms

		switch {
		case demand > 0 && supply == 0:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Category: "SPECIALIZED ROOMS",
				Message:  fmt.Sprintf("subjects require room type %q but no such room exists", roomType),
				Details:  map[string]any{"room_type": string(roomType), "demand": demand},
			})
		case demand > supply:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Category: "SPECIALIZED ROOMS",
				Message:  fmt.Sprintf("room type %q demand (%d) exceeds supply (%d)", roomType, demand, supply),
				Details:  map[string]any{"room_type": string(roomType), "demand": demand, "supply": supply},
			})
		default:
			utilisation := float64(demand) / float64(supply)
			if utilisation > tightUtilisation {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Category: "SPECIALIZED ROOMS",
					Message:  fmt.Sprintf("%s utilization is high (%d/%d = %.1f%%)", roomType, demand, supply, utilisation*100),
					Details:  map[string]any{"room_type": string(roomType), "utilization": utilisation},
				})
			}
		}
	}
	return issues
}

// checkTeacherWorkload implements §4.1 check 3.
func checkTeacherWorkload(p *domain.Problem) []Issue {
	workload := map[string]int{}
	for _, l := range p.Lessons {
		workload[l.TeacherID] += l.PeriodsPerWeek
	}

	var issues []Issue
	for _, t := range p.Teachers {
		w := workload[t.ID]
		if w == 0 {
			continue
		}
		available := domain.SlotsPerWeek - len(t.Unavailable)

		switch {
		case w > t.MaxHoursPerWeek:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Category: "TEACHER WORKLOAD",
				Message:  fmt.Sprintf("teacher %s workload (%d) exceeds max_hours_per_week (%d)", t.Name, w, t.MaxHoursPerWeek),
				Details:  map[string]any{"teacher_id": t.ID, "workload": w, "max": t.MaxHoursPerWeek},
			})
		case w > available:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Category: "TEACHER WORKLOAD",
				Message:  fmt.Sprintf("teacher %s workload (%d) exceeds available slots (%d) given their unavailability", t.Name, w, available),
				Details:  map[string]any{"teacher_id": t.ID, "workload": w, "available": available},
			})
		default:
			if available > 0 {
				utilisation := float64(w) / float64(available)
				if utilisation > tightUtilisation {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						Category: "TEACHER WORKLOAD",
						Message:  fmt.Sprintf("teacher %s utilization is high (%.1f%%)", t.Name, utilisation*100),
						Details:  map[string]any{"teacher_id": t.ID, "utilization": utilisation},
					})
				}
			}
		}
	}
	return issues
}

// checkStudentGroupCapacity implements §4.1 check 4.
func checkStudentGroupCapacity(p *domain.Problem) []Issue {
	booked := map[string]int{}
	for _, l := range p.Lessons {
		booked[l.StudentGroupID] += l.PeriodsPerWeek
	}

	var issues []Issue
	for _, g := range p.StudentGroups {
		b := booked[g.ID]
		if b == 0 {
			continue
		}
		switch {
		case b > domain.SlotsPerWeek:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Category: "STUDENT GROUP CAPACITY",
				Message:  fmt.Sprintf("student group %s has %d periods booked, exceeding the %d available per week", g.Name, b, domain.SlotsPerWeek),
				Details:  map[string]any{"group_id": g.ID, "booked": b},
			})
		default:
			utilisation := float64(b) / float64(domain.SlotsPerWeek)
			if utilisation > tightUtilisation {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Category: "STUDENT GROUP CAPACITY",
					Message:  fmt.Sprintf("student group %s utilization is high (%.1f%%)", g.Name, utilisation*100),
					Details:  map[string]any{"group_id": g.ID, "utilization": utilisation},
				})
			}
		}
	}
	return issues
}

// checkDoublePeriods implements §4.1 check 5: purely observational.
func checkDoublePeriods(p *domain.Problem) []Issue {
	count := 0
	for _, l := range p.Lessons {
		if l.RequiresDoublePeriod {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return []Issue{{
		Severity: SeverityInfo,
		Category: "DOUBLE PERIODS",
		Message:  fmt.Sprintf("%d lesson(s) require double periods", count),
		Details:  map[string]any{"count": count},
	}}
}

// checkTeacherSubjectMismatch implements §4.1 check 6: WARNING, not ERROR.
func checkTeacherSubjectMismatch(p *domain.Problem) []Issue {
	var issues []Issue
	for _, l := range p.Lessons {
		t, ok := p.Teacher(l.TeacherID)
		if !ok {
			continue
		}
		if !t.CanTeach(l.SubjectID) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: "TEACHER SUBJECT MISMATCH",
				Message:  fmt.Sprintf("teacher %s is not declared for subject %s on lesson %s", t.Name, l.SubjectID, l.ID),
				Details:  map[string]any{"teacher_id": t.ID, "subject_id": l.SubjectID, "lesson_id": l.ID},
			})
		}
	}
	return issues
}
