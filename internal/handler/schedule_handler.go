package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ukfootprint/class-timetabler/internal/domain"
	"github.com/ukfootprint/class-timetabler/internal/dto"
	"github.com/ukfootprint/class-timetabler/internal/engine"
	"github.com/ukfootprint/class-timetabler/internal/orchestration"
	appErrors "github.com/ukfootprint/class-timetabler/pkg/errors"
	"github.com/ukfootprint/class-timetabler/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, p *domain.Problem, w engine.Weights, o engine.Options) (orchestration.Result, error)
	Defaults() (engine.Weights, engine.Options)
}

// ScheduleHandler exposes the schedule-generation endpoint.
type ScheduleHandler struct {
	generator scheduleGenerator
	validate  *validator.Validate
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(generator scheduleGenerator) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, validate: validator.New()}
}

// Generate validates a problem instance, analyses it for static feasibility,
// and (if feasible) runs the constraint solver, returning the resulting
// schedule or the reasons it could not be produced. Per-request weight and
// solver-option overrides (spec.md §6) fall back to the server defaults for
// any field left unset.
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "generate payload failed validation"))
		return
	}

	problem, err := toProblem(req)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputInvariant.Code, appErrors.ErrInputInvariant.Status, err.Error()))
		return
	}

	weights, opts := h.generator.Defaults()
	if req.Weights != nil {
		if req.Weights.TeacherGaps != nil {
			weights.TeacherGaps = *req.Weights.TeacherGaps
		}
		if req.Weights.RoomConsistency != nil {
			weights.RoomConsistency = *req.Weights.RoomConsistency
		}
		if req.Weights.SubjectSpread != nil {
			weights.SubjectSpread = *req.Weights.SubjectSpread
		}
		if req.Weights.DailyBalance != nil {
			weights.DailyBalance = *req.Weights.DailyBalance
		}
	}
	if req.Solver != nil {
		if req.Solver.MaxTimeSeconds > 0 {
			opts.MaxTime = time.Duration(req.Solver.MaxTimeSeconds) * time.Second
		}
		if req.Solver.NumWorkers > 0 {
			opts.NumWorkers = req.Solver.NumWorkers
		}
		if req.Solver.NodeLimit > 0 {
			opts.NodeLimit = req.Solver.NodeLimit
		}
	}

	result, err := h.generator.Generate(c.Request.Context(), problem, weights, opts)
	if err != nil {
		// Only an input-invariant violation maps to a 4xx response; static
		// infeasibility and model-build failures are still reported as a
		// normal 200 carrying the infeasible result, not an HTTP error.
		appErr := appErrors.FromError(err)
		resp := dto.GenerateScheduleResponse{
			IsFeasible: false,
			Status:     "INFEASIBLE",
			Issues:     fromIssues(result.Report.Issues),
			Message:    appErr.Message,
		}
		response.JSON(c, http.StatusOK, resp)
		return
	}

	resp := dto.GenerateScheduleResponse{
		IsFeasible:   result.Solution.IsFeasible,
		Status:       string(result.Status),
		Issues:       fromIssues(result.Report.Issues),
		Assignments:  fromAssignments(result.Solution.Assignments),
		Penalty:      result.Solution.Penalty,
		SolveSeconds: result.Solution.SolveSeconds,
		Message:      result.Solution.Message,
	}
	response.JSON(c, http.StatusOK, resp)
}
