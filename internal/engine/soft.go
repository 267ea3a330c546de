package engine

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

// objectiveTerm is one weighted contribution to the objective's LinearSum.
// Every term's variable is expressed so that a higher value is worse; terms
// built from reified booleans follow the library's {1=false,2=true}
// convention directly (bad=2), and load terms carry their own sign.
type objectiveTerm struct {
	v     *minikanren.FDVariable
	coeff int
	// bound is the maximum value v's domain can take; used to keep the
	// LinearSum's total domain wide enough and strictly positive.
	bound int
}

// addSoftConstraints builds SC1-SC4 as reified indicators and folds them,
// plus a positivity bias, into a single LinearSum objective.
func addSoftConstraints(m *minikanren.Model, p *domain.Problem, placements []placement, w Weights) (*minikanren.FDVariable, int, error) {
	var terms []objectiveTerm

	teacherGapTerms, err := teacherGapTerms(m, placements, w.TeacherGaps)
	if err != nil {
		return nil, 0, fmt.Errorf("engine: SC1 teacher gaps: %w", err)
	}
	terms = append(terms, teacherGapTerms...)

	roomConsistencyTerms, err := roomConsistencyTerms(m, placements, w.RoomConsistency)
	if err != nil {
		return nil, 0, fmt.Errorf("engine: SC2 room consistency: %w", err)
	}
	terms = append(terms, roomConsistencyTerms...)

	spreadTerms, err := subjectSpreadTerms(m, placements, w.SubjectSpread)
	if err != nil {
		return nil, 0, fmt.Errorf("engine: SC3 subject spread: %w", err)
	}
	terms = append(terms, spreadTerms...)

	balanceTerms, err := dailyBalanceTerms(m, p, placements, w.DailyBalance)
	if err != nil {
		return nil, 0, fmt.Errorf("engine: SC4 daily balance: %w", err)
	}
	terms = append(terms, balanceTerms...)

	if len(terms) == 0 {
		obj := m.IntVar(1, 1, "objective")
		return obj, 0, nil
	}

	negMag, posMag := 0, 0
	vars := make([]*minikanren.FDVariable, 0, len(terms)+1)
	coeffs := make([]int, 0, len(terms)+1)
	for _, t := range terms {
		vars = append(vars, t.v)
		coeffs = append(coeffs, t.coeff)
		if t.coeff < 0 {
			negMag += -t.coeff * t.bound
		} else {
			posMag += t.coeff * t.bound
		}
	}

	bias := negMag + 1
	biasVar := m.IntVar(1, 1, "bias")
	vars = append(vars, biasVar)
	coeffs = append(coeffs, bias)

	objMax := bias + posMag + 1
	objective := m.NewVariable(minikanren.DomainRange(1, objMax))
	linearSum, err := minikanren.NewLinearSum(vars, coeffs, objective)
	if err != nil {
		return nil, 0, fmt.Errorf("engine: objective LinearSum: %w", err)
	}
	m.AddConstraint(linearSum)

	return objective, bias, nil
}

// teacherGapTerms implements SC1: for each teacher and day, an idle period
// sandwiched between two occupied periods is penalized.
func teacherGapTerms(m *minikanren.Model, placements []placement, weight int) ([]objectiveTerm, error) {
	if weight == 0 {
		return nil, nil
	}
	slotsByTeacher := map[string][]*minikanren.FDVariable{}
	for _, pl := range placements {
		slotsByTeacher[pl.teacherID] = append(slotsByTeacher[pl.teacherID], pl.slotVars...)
	}

	var terms []objectiveTerm
	for _, slotVars := range slotsByTeacher {
		if len(slotVars) == 0 {
			continue
		}
		for d := 0; d < domain.DaysPerWeek; d++ {
			occupied := make([]*minikanren.FDVariable, domain.PeriodsPerDay)
			for p := 1; p <= domain.PeriodsPerDay; p++ {
				ts, _ := domain.NewTimeSlot(d, p)
				slotVal := toInternalSlot(ts)
				members := make([]*minikanren.FDVariable, 0, len(slotVars))
				for _, sv := range slotVars {
					b, err := reifyEquals(m, sv, slotVal)
					if err != nil {
						return nil, err
					}
					members = append(members, b)
				}
				occ, err := reifyAtLeastOne(m, members)
				if err != nil {
					return nil, err
				}
				occupied[p-1] = occ
			}

			for p := 2; p <= domain.PeriodsPerDay-1; p++ {
				idle, err := reifyNot(m, occupied[p-1])
				if err != nil {
					return nil, err
				}
				before, err := reifyAtLeastOne(m, occupied[:p-1])
				if err != nil {
					return nil, err
				}
				after, err := reifyAtLeastOne(m, occupied[p:])
				if err != nil {
					return nil, err
				}
				gap, err := reifyAll(m, []*minikanren.FDVariable{idle, before, after})
				if err != nil {
					return nil, err
				}
				terms = append(terms, objectiveTerm{v: gap, coeff: weight, bound: 2})
			}
		}
	}
	return terms, nil
}

// roomConsistencyTerms implements SC2: for each teacher with >= 2 instances
// (across all of that teacher's lessons), a mismatch against the room chosen
// for their first instance is penalized.
func roomConsistencyTerms(m *minikanren.Model, placements []placement, weight int) ([]objectiveTerm, error) {
	if weight == 0 {
		return nil, nil
	}
	byTeacher := map[string][]*placement{}
	order := []string{}
	for i := range placements {
		pl := &placements[i]
		if _, seen := byTeacher[pl.teacherID]; !seen {
			order = append(order, pl.teacherID)
		}
		byTeacher[pl.teacherID] = append(byTeacher[pl.teacherID], pl)
	}

	var terms []objectiveTerm
	for _, teacherID := range order {
		group := byTeacher[teacherID]
		if len(group) < 2 {
			continue
		}
		anchor := group[0].globalRoomVar
		for _, pl := range group[1:] {
			same, err := reifySameValue(m, pl.globalRoomVar, anchor)
			if err != nil {
				return nil, err
			}
			mismatch, err := reifyNot(m, same)
			if err != nil {
				return nil, err
			}
			terms = append(terms, objectiveTerm{v: mismatch, coeff: weight, bound: 2})
		}
	}
	return terms, nil
}

// subjectSpreadTerms implements SC3: multiple instances of the same lesson
// landing on the same day are penalized, encouraging spread across the week.
func subjectSpreadTerms(m *minikanren.Model, placements []placement, weight int) ([]objectiveTerm, error) {
	if weight == 0 {
		return nil, nil
	}
	byLesson := map[string][]*minikanren.FDVariable{}
	order := []string{}
	for _, pl := range placements {
		if _, seen := byLesson[pl.lessonID]; !seen {
			order = append(order, pl.lessonID)
		}
		// One representative day per placement: the instance's first period.
		byLesson[pl.lessonID] = append(byLesson[pl.lessonID], pl.dayVars[0])
	}

	var terms []objectiveTerm
	for _, lessonID := range order {
		days := byLesson[lessonID]
		for i := 0; i < len(days); i++ {
			for j := i + 1; j < len(days); j++ {
				same, err := reifySameValue(m, days[i], days[j])
				if err != nil {
					return nil, err
				}
				terms = append(terms, objectiveTerm{v: same, coeff: weight, bound: 2})
			}
		}
	}
	return terms, nil
}

// dailyBalanceTerms implements SC4: for each teacher with a weekly workload
// of at least 5 periods, an ideal per-day load of floor(workload/5) is
// computed, and each day's deviation from that ideal is penalized once it
// exceeds 1 period either way (excess_d = max(|c_d - ideal| - 1, 0)).
func dailyBalanceTerms(m *minikanren.Model, p *domain.Problem, placements []placement, weight int) ([]objectiveTerm, error) {
	if weight == 0 {
		return nil, nil
	}
	slotsByTeacher := map[string][]*minikanren.FDVariable{}
	order := []string{}
	for _, pl := range placements {
		if _, seen := slotsByTeacher[pl.teacherID]; !seen {
			order = append(order, pl.teacherID)
		}
		slotsByTeacher[pl.teacherID] = append(slotsByTeacher[pl.teacherID], pl.slotVars...)
	}

	var terms []objectiveTerm
	for _, teacherID := range order {
		slotVars := slotsByTeacher[teacherID]
		workload := len(slotVars)
		if workload < 5 {
			continue
		}
		ideal := workload / 5

		// excessTable[count] = excess_d + 1 (1-based, ElementValues's
		// encoding floor) for a day with count occupied periods.
		excessTable := make([]int, workload+1)
		maxExcess := 0
		for count := 0; count <= workload; count++ {
			deviation := count - ideal
			if deviation < 0 {
				deviation = -deviation
			}
			excess := deviation - 1
			if excess < 0 {
				excess = 0
			}
			excessTable[count] = excess + 1
			if excess > maxExcess {
				maxExcess = excess
			}
		}

		for d := 0; d < domain.DaysPerWeek; d++ {
			members := make([]*minikanren.FDVariable, 0, len(slotVars))
			for _, sv := range slotVars {
				b, err := reifyInSet(m, sv, slotsOfDay(d))
				if err != nil {
					return nil, err
				}
				members = append(members, b)
			}
			load, err := reifyCount(m, members)
			if err != nil {
				return nil, err
			}

			excessVar := m.NewVariable(minikanren.DomainRange(1, maxExcess+1))
			elem, err := minikanren.NewElementValues(load, excessTable, excessVar)
			if err != nil {
				return nil, fmt.Errorf("SC4 excess table: %w", err)
			}
			m.AddConstraint(elem)

			terms = append(terms, objectiveTerm{v: excessVar, coeff: weight, bound: maxExcess + 1})
		}
	}
	return terms, nil
}
