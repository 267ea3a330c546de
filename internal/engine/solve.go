package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

// Status is the outcome of a solve attempt, independent of the objective
// value reached.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"    // search completed and proved optimality
	StatusFeasible   Status = "FEASIBLE"   // a solution was found before a limit was hit
	StatusInfeasible Status = "INFEASIBLE" // proved no solution exists
	StatusTimeout    Status = "TIMEOUT"    // no solution found before the deadline
)

// Options configures a solve call (spec.md §6 resource controls).
type Options struct {
	MaxTime    time.Duration
	NumWorkers int
	NodeLimit  int
}

// Solve runs branch-and-bound minimization over built's objective and
// translates the result into a domain.Solution.
func Solve(ctx context.Context, built *Built, opts Options) (domain.Solution, Status, error) {
	solver := minikanren.NewSolver(built.Model)

	var solveOpts []minikanren.OptimizeOption
	if opts.MaxTime > 0 {
		solveOpts = append(solveOpts, minikanren.WithTimeLimit(opts.MaxTime))
	}
	if opts.NumWorkers > 1 {
		solveOpts = append(solveOpts, minikanren.WithParallelWorkers(opts.NumWorkers))
	}
	if opts.NodeLimit > 0 {
		solveOpts = append(solveOpts, minikanren.WithNodeLimit(opts.NodeLimit))
	}

	start := time.Now()
	raw, objVal, err := solver.SolveOptimalWithOptions(ctx, built.Objective, true, solveOpts...)
	elapsed := time.Since(start).Seconds()

	switch {
	case err == nil && raw == nil:
		return domain.Solution{
			IsFeasible:   false,
			SolveSeconds: elapsed,
			Message:      fmt.Sprintf("No solution found. Status: %s", StatusInfeasible),
		}, StatusInfeasible, nil

	case err == nil:
		sol, buildErr := extract(built, raw, objVal, elapsed, StatusOptimal)
		if buildErr != nil {
			return domain.Solution{}, "", buildErr
		}
		return sol, StatusOptimal, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, minikanren.ErrSearchLimitReached):
		if raw == nil {
			return domain.Solution{
				IsFeasible:   false,
				SolveSeconds: elapsed,
				Message:      fmt.Sprintf("No solution found. Status: %s", StatusTimeout),
			}, StatusTimeout, nil
		}
		sol, buildErr := extract(built, raw, objVal, elapsed, StatusFeasible)
		if buildErr != nil {
			return domain.Solution{}, "", buildErr
		}
		return sol, StatusFeasible, nil

	case errors.Is(err, context.Canceled):
		return domain.Solution{}, "", fmt.Errorf("engine: solve cancelled: %w", err)

	default:
		return domain.Solution{}, "", fmt.Errorf("engine: solve failed: %w", err)
	}
}

// extract converts a raw solver assignment vector (indexed by FD variable
// ID) into a domain.Solution. status must be StatusOptimal or StatusFeasible;
// it selects the required message literal.
func extract(built *Built, raw []int, objVal int, elapsed float64, status Status) (domain.Solution, error) {
	assignments := make([]domain.Assignment, 0, len(built.placements)*2)
	for _, pl := range built.placements {
		roomID := ""
		if gIdx := raw[pl.globalRoomVar.ID()]; gIdx >= 1 && gIdx <= len(built.roomByIdx) {
			roomID = built.roomByIdx[gIdx-1].ID
		} else {
			return domain.Solution{}, fmt.Errorf("engine: extracted room index %d out of range for lesson %q", gIdx, pl.lessonID)
		}
		for _, sv := range pl.slotVars {
			slot := fromInternalSlot(raw[sv.ID()])
			assignments = append(assignments, domain.Assignment{
				LessonID: pl.lessonID,
				Slot:     slot,
				RoomID:   roomID,
			})
		}
	}

	penalty := objVal - built.Bias
	var message string
	if status == StatusOptimal {
		message = fmt.Sprintf("Found optimal solution (penalty: %d)", penalty)
	} else {
		message = fmt.Sprintf("Found feasible solution (penalty: %d)", penalty)
	}

	return domain.Solution{
		Assignments:  assignments,
		IsFeasible:   true,
		SolveSeconds: elapsed,
		Message:      message,
		Penalty:      penalty,
	}, nil
}
