package domain

import "fmt"

// Problem is the immutable tuple of collections the engine solves against.
// NewProblem enforces spec.md §3's structural invariants at construction so
// that nothing downstream needs to re-check referential integrity.
type Problem struct {
	Teachers      []Teacher
	Rooms         []Room
	Subjects      []Subject
	StudentGroups []StudentGroup
	Lessons       []Lesson

	teacherByID map[string]Teacher
	subjectByID map[string]Subject
	groupByID   map[string]StudentGroup
}

// NewProblem validates and constructs a Problem. It is where a Problem's
// structural invariants are checked; a violation is returned as an error
// (InputInvariantViolation, spec.md §7).
func NewProblem(teachers []Teacher, rooms []Room, subjects []Subject, groups []StudentGroup, lessons []Lesson) (*Problem, error) {
	teacherByID := make(map[string]Teacher, len(teachers))
	for _, t := range teachers {
		if t.MaxHoursPerWeek < 1 || t.MaxHoursPerWeek > 40 {
			return nil, fmt.Errorf("domain: teacher %q max_hours_per_week %d out of range [1,40]", t.ID, t.MaxHoursPerWeek)
		}
		teacherByID[t.ID] = t
	}

	subjectByID := make(map[string]Subject, len(subjects))
	for _, s := range subjects {
		if !s.RequiredRoomType.valid() {
			return nil, fmt.Errorf("domain: subject %q has invalid required room type %q", s.ID, s.RequiredRoomType)
		}
		subjectByID[s.ID] = s
	}

	groupByID := make(map[string]StudentGroup, len(groups))
	for _, g := range groups {
		if g.YearGroup < 1 || g.YearGroup > 13 {
			return nil, fmt.Errorf("domain: group %q year_group %d out of range [1,13]", g.ID, g.YearGroup)
		}
		if g.Size < 1 {
			return nil, fmt.Errorf("domain: group %q size must be positive", g.ID)
		}
		groupByID[g.ID] = g
	}

	for _, r := range rooms {
		if r.Capacity < 1 {
			return nil, fmt.Errorf("domain: room %q capacity must be positive", r.ID)
		}
		if !r.Type.valid() {
			return nil, fmt.Errorf("domain: room %q has invalid type %q", r.ID, r.Type)
		}
	}

	for _, l := range lessons {
		if _, ok := teacherByID[l.TeacherID]; !ok {
			return nil, fmt.Errorf("domain: lesson %q references unknown teacher %q", l.ID, l.TeacherID)
		}
		subj, ok := subjectByID[l.SubjectID]
		if !ok {
			return nil, fmt.Errorf("domain: lesson %q references unknown subject %q", l.ID, l.SubjectID)
		}
		if _, ok := groupByID[l.StudentGroupID]; !ok {
			return nil, fmt.Errorf("domain: lesson %q references unknown student group %q", l.ID, l.StudentGroupID)
		}
		if l.PeriodsPerWeek < 1 || l.PeriodsPerWeek > 10 {
			return nil, fmt.Errorf("domain: lesson %q periods_per_week %d out of range [1,10]", l.ID, l.PeriodsPerWeek)
		}
		if l.RequiresDoublePeriod && l.PeriodsPerWeek%2 != 0 {
			return nil, fmt.Errorf("domain: lesson %q requires_double_period but periods_per_week %d is odd: %w", l.ID, l.PeriodsPerWeek, ErrOddDoublePeriod)
		}
		if subj.RequiredRoomType != "" {
			hasMatch := false
			for _, r := range rooms {
				if r.Type == subj.RequiredRoomType {
					hasMatch = true
					break
				}
			}
			if !hasMatch {
				return nil, fmt.Errorf("domain: subject %q requires room type %q but no such room exists", subj.ID, subj.RequiredRoomType)
			}
		}
	}

	return &Problem{
		Teachers:      teachers,
		Rooms:         rooms,
		Subjects:      subjects,
		StudentGroups: groups,
		Lessons:       lessons,
		teacherByID:   teacherByID,
		subjectByID:   subjectByID,
		groupByID:     groupByID,
	}, nil
}

// ErrOddDoublePeriod is returned when a lesson requests a double period with
// an odd period count — see spec.md §9's Open Question; the original loader
// (original_source/backend/app/models/school.py) rejects this at load time.
var ErrOddDoublePeriod = fmt.Errorf("periods_per_week must be even when requires_double_period is set")

// Teacher looks up a teacher by ID. Present only after construction
// validated the reference exists for every lesson.
func (p *Problem) Teacher(id string) (Teacher, bool) {
	t, ok := p.teacherByID[id]
	return t, ok
}

// Subject looks up a subject by ID.
func (p *Problem) Subject(id string) (Subject, bool) {
	s, ok := p.subjectByID[id]
	return s, ok
}

// StudentGroup looks up a student group by ID.
func (p *Problem) StudentGroup(id string) (StudentGroup, bool) {
	g, ok := p.groupByID[id]
	return g, ok
}

// ValidRoomsFor returns the rooms eligible to host lessons of subj, i.e. all
// rooms if subj has no required type, otherwise only rooms of that type.
func (p *Problem) ValidRoomsFor(subj Subject) []Room {
	if subj.RequiredRoomType == "" {
		return p.Rooms
	}
	out := make([]Room, 0, len(p.Rooms))
	for _, r := range p.Rooms {
		if r.Type == subj.RequiredRoomType {
			out = append(out, r)
		}
	}
	return out
}
