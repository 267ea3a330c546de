package engine

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

// placement is one timetabled period-instance of a lesson: a single period,
// or — for a lesson that requires double periods — a consecutive pair
// sharing a room. slotVars holds one entry per period instance (length 1 or
// 2); dayVars/periodVars mirror it.
type placement struct {
	lessonID      string
	teacherID     string
	groupID       string
	subjectID     string
	isDouble      bool
	slotVars      []*minikanren.FDVariable
	dayVars       []*minikanren.FDVariable
	periodVars    []*minikanren.FDVariable
	localRoomVar  *minikanren.FDVariable
	globalRoomVar *minikanren.FDVariable
}

// Built is a fully constructed constraint model ready to solve, plus the
// bookkeeping needed to translate a raw assignment vector back into
// domain.Assignments.
type Built struct {
	Model      *minikanren.Model
	Objective  *minikanren.FDVariable
	Bias       int
	placements []placement
	roomByIdx  []domain.Room // 1-indexed via roomByIdx[i-1]
}

// roomGlobalIndex maps every room in the problem to a stable 1-indexed id,
// independent of which rooms are eligible for a given subject.
func roomGlobalIndex(p *domain.Problem) map[string]int {
	out := make(map[string]int, len(p.Rooms))
	for i, r := range p.Rooms {
		out[r.ID] = i + 1
	}
	return out
}

// dayPeriodTables precomputes the functional mapping every slot var's
// derived day/period variable needs, indexed [1..SlotsPerWeek].
func dayPeriodTables() (days, periods []int) {
	days = make([]int, domain.SlotsPerWeek)
	periods = make([]int, domain.SlotsPerWeek)
	for s := 1; s <= domain.SlotsPerWeek; s++ {
		t := fromInternalSlot(s)
		days[s-1] = t.Day + 1 // 1-indexed for FD domain
		periods[s-1] = t.Period
	}
	return days, periods
}

// Build constructs the CP model for p: decision variables and hard
// constraints HC1-HC5, plus the soft-constraint objective (SC1-SC4).
func Build(p *domain.Problem, weights Weights) (*Built, error) {
	m := minikanren.NewModel()
	roomIdx := roomGlobalIndex(p)
	dayTable, periodTable := dayPeriodTables()

	unavailableByTeacher := make(map[string]map[int]struct{}, len(p.Teachers))
	for _, t := range p.Teachers {
		set := make(map[int]struct{}, len(t.Unavailable))
		for slot := range t.Unavailable {
			set[toInternalSlot(slot)] = struct{}{}
		}
		unavailableByTeacher[t.ID] = set
	}

	var placements []placement

	for _, l := range p.Lessons {
		subj, ok := p.Subject(l.SubjectID)
		if !ok {
			return nil, fmt.Errorf("engine: lesson %q references unknown subject %q", l.ID, l.SubjectID)
		}
		validRooms := p.ValidRoomsFor(subj)
		if len(validRooms) == 0 {
			return nil, fmt.Errorf("engine: lesson %q has no eligible room", l.ID)
		}
		roomGlobalIDs := make([]int, len(validRooms))
		for i, r := range validRooms {
			roomGlobalIDs[i] = roomIdx[r.ID]
		}

		unavailable := unavailableByTeacher[l.TeacherID]

		numInstances := l.PeriodsPerWeek
		if l.RequiresDoublePeriod {
			numInstances = l.PeriodsPerWeek / 2
		}

		for inst := 0; inst < numInstances; inst++ {
			pl := placement{
				lessonID:  l.ID,
				teacherID: l.TeacherID,
				groupID:   l.StudentGroupID,
				subjectID: l.SubjectID,
				isDouble:  l.RequiresDoublePeriod,
			}

			var startVar *minikanren.FDVariable
			if l.RequiresDoublePeriod {
				allowed := make([]int, 0, domain.SlotsPerWeek)
				for _, s := range allInternalSlots() {
					if _, blocked := unavailable[s]; blocked {
						continue
					}
					if periodTable[s-1] > domain.PeriodsPerDay-1 {
						continue // no room for the second half on this day
					}
					second := s + 1
					if _, blocked := unavailable[second]; blocked {
						continue
					}
					allowed = append(allowed, s)
				}
				if len(allowed) == 0 {
					return nil, fmt.Errorf("engine: lesson %q instance %d has no feasible double-period start slot", l.ID, inst)
				}
				startVar = m.NewVariable(minikanren.DomainValues(allowed...))
				endVar := m.NewVariable(minikanren.DomainRange(1, domain.SlotsPerWeek))
				arith, err := minikanren.NewArithmetic(startVar, endVar, 1)
				if err != nil {
					return nil, fmt.Errorf("engine: lesson %q double-period linkage: %w", l.ID, err)
				}
				m.AddConstraint(arith)
				pl.slotVars = []*minikanren.FDVariable{startVar, endVar}
			} else {
				allowed := make([]int, 0, domain.SlotsPerWeek)
				for _, s := range allInternalSlots() {
					if _, blocked := unavailable[s]; !blocked {
						allowed = append(allowed, s)
					}
				}
				if len(allowed) == 0 {
					return nil, fmt.Errorf("engine: lesson %q instance %d has no available slot (teacher fully unavailable)", l.ID, inst)
				}
				startVar = m.NewVariable(minikanren.DomainValues(allowed...))
				pl.slotVars = []*minikanren.FDVariable{startVar}
			}

			for _, sv := range pl.slotVars {
				dayVar := m.NewVariable(minikanren.DomainRange(1, domain.DaysPerWeek))
				dayElem, err := minikanren.NewElementValues(sv, dayTable, dayVar)
				if err != nil {
					return nil, fmt.Errorf("engine: day derivation: %w", err)
				}
				m.AddConstraint(dayElem)

				periodVar := m.NewVariable(minikanren.DomainRange(1, domain.PeriodsPerDay))
				periodElem, err := minikanren.NewElementValues(sv, periodTable, periodVar)
				if err != nil {
					return nil, fmt.Errorf("engine: period derivation: %w", err)
				}
				m.AddConstraint(periodElem)

				pl.dayVars = append(pl.dayVars, dayVar)
				pl.periodVars = append(pl.periodVars, periodVar)
			}

			pl.localRoomVar = m.NewVariable(minikanren.DomainRange(1, len(validRooms)))
			pl.globalRoomVar = m.NewVariable(minikanren.DomainRange(1, len(p.Rooms)))
			roomElem, err := minikanren.NewElementValues(pl.localRoomVar, roomGlobalIDs, pl.globalRoomVar)
			if err != nil {
				return nil, fmt.Errorf("engine: room derivation: %w", err)
			}
			m.AddConstraint(roomElem)

			placements = append(placements, pl)
		}
	}

	if err := addHardConstraints(m, p, placements); err != nil {
		return nil, err
	}

	objective, bias, err := addSoftConstraints(m, p, placements, weights)
	if err != nil {
		return nil, err
	}

	return &Built{
		Model:      m,
		Objective:  objective,
		Bias:       bias,
		placements: placements,
		roomByIdx:  p.Rooms,
	}, nil
}

// addHardConstraints wires HC1 (teacher no-overlap), HC2 (room no-overlap)
// and HC3 (student-group no-overlap). HC4 (teacher unavailability) is
// enforced structurally by the domains Build assigns to each slot variable;
// HC5 (double periods) by the Arithmetic linkage between each pair's start
// and end slot.
func addHardConstraints(m *minikanren.Model, p *domain.Problem, placements []placement) error {
	bySlotTeacher := map[string][]*minikanren.FDVariable{}
	bySlotGroup := map[string][]*minikanren.FDVariable{}
	var combinedRoomSlot []*minikanren.FDVariable

	roomSlotRows := make([][]int, 0, domain.SlotsPerWeek*len(p.Rooms))
	for s := 1; s <= domain.SlotsPerWeek; s++ {
		for g := 1; g <= len(p.Rooms); g++ {
			roomSlotRows = append(roomSlotRows, []int{s, g, (g-1)*domain.SlotsPerWeek + s})
		}
	}

	for _, pl := range placements {
		bySlotTeacher[pl.teacherID] = append(bySlotTeacher[pl.teacherID], pl.slotVars...)
		bySlotGroup[pl.groupID] = append(bySlotGroup[pl.groupID], pl.slotVars...)

		for _, sv := range pl.slotVars {
			combined := m.NewVariable(minikanren.DomainRange(1, domain.SlotsPerWeek*len(p.Rooms)))
			table, err := minikanren.NewTable([]*minikanren.FDVariable{sv, pl.globalRoomVar, combined}, roomSlotRows)
			if err != nil {
				return fmt.Errorf("engine: room-slot table: %w", err)
			}
			m.AddConstraint(table)
			combinedRoomSlot = append(combinedRoomSlot, combined)
		}
	}

	for _, vars := range bySlotTeacher {
		if len(vars) < 2 {
			continue
		}
		if err := m.AllDifferent(vars...); err != nil {
			return fmt.Errorf("engine: HC1 teacher no-overlap: %w", err)
		}
	}
	for _, vars := range bySlotGroup {
		if len(vars) < 2 {
			continue
		}
		if err := m.AllDifferent(vars...); err != nil {
			return fmt.Errorf("engine: HC3 student-group no-overlap: %w", err)
		}
	}
	if len(combinedRoomSlot) >= 2 {
		if err := m.AllDifferent(combinedRoomSlot...); err != nil {
			return fmt.Errorf("engine: HC2 room no-overlap: %w", err)
		}
	}
	return nil
}
