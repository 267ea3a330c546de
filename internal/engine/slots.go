// Package engine builds and solves the constraint-programming instance for a
// scheduling problem. All finite domains in the underlying solver
// (github.com/gitrdm/gokanlogic) are 1-indexed, so this package works in a
// shifted internal slot space (1..30) and converts back to the domain
// package's 0-based (day, period) representation only at the model's edges
// (construction from a Problem, extraction of a Solution).
package engine

import "github.com/ukfootprint/class-timetabler/internal/domain"

// internalSlot is a 1-indexed slot number in [1, domain.SlotsPerWeek], the
// representation every decision variable's domain is expressed in.
type internalSlot = int

// toInternalSlot converts a domain.TimeSlot to the solver's 1-indexed space.
func toInternalSlot(s domain.TimeSlot) internalSlot {
	return s.Slot() + 1
}

// fromInternalSlot converts a 1-indexed solver slot back to a domain.TimeSlot.
func fromInternalSlot(s internalSlot) domain.TimeSlot {
	day := (s - 1) / domain.PeriodsPerDay
	period := (s-1)%domain.PeriodsPerDay + 1
	slot, _ := domain.NewTimeSlot(day, period)
	return slot
}

// slotsOfDay returns the 6 internal slots belonging to 0-based day d.
func slotsOfDay(d int) []int {
	out := make([]int, 0, domain.PeriodsPerDay)
	for p := 1; p <= domain.PeriodsPerDay; p++ {
		s, _ := domain.NewTimeSlot(d, p)
		out = append(out, toInternalSlot(s))
	}
	return out
}

// allInternalSlots returns 1..SlotsPerWeek.
func allInternalSlots() []int {
	out := make([]int, domain.SlotsPerWeek)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
