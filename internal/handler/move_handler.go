package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ukfootprint/class-timetabler/internal/movevalidator"
	appErrors "github.com/ukfootprint/class-timetabler/pkg/errors"
	"github.com/ukfootprint/class-timetabler/pkg/response"

	"github.com/ukfootprint/class-timetabler/internal/dto"
)

// MoveHandler exposes the move-validator endpoints: checking and committing
// single-lesson moves against an already-materialised schedule.
type MoveHandler struct {
	validate *validator.Validate
}

// NewMoveHandler constructs a MoveHandler.
func NewMoveHandler() *MoveHandler {
	return &MoveHandler{validate: validator.New()}
}

// CheckMove reports, for all 30 (day, period) slots in ascending order, what
// moving one lesson there from its current slot would produce. A missing
// source assignment is not an HTTP error: every slot comes back invalid with
// an error conflict instead.
func (h *MoveHandler) CheckMove(c *gin.Context) {
	var req dto.CheckMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-move payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "check-move payload failed validation"))
		return
	}

	schedule, err := toSchedule(req.Schedule)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputInvariant.Code, appErrors.ErrInputInvariant.Status, err.Error()))
		return
	}

	slots, err := movevalidator.CheckMove(schedule, req.LessonID, req.SourceDay, req.SourcePeriod)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputInvariant.Code, appErrors.ErrInputInvariant.Status, err.Error()))
		return
	}

	response.JSON(c, http.StatusOK, dto.CheckMoveResponse{Slots: fromSlotResults(slots)})
}

// MoveLesson commits a move from its current slot to an explicit target if,
// and only if, that target produces no conflicts. A missing source
// assignment is reported as a single failure response, not an HTTP error.
func (h *MoveHandler) MoveLesson(c *gin.Context) {
	var req dto.MoveLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move-lesson payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "move-lesson payload failed validation"))
		return
	}

	schedule, err := toSchedule(req.Schedule)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputInvariant.Code, appErrors.ErrInputInvariant.Status, err.Error()))
		return
	}

	conflicts, committed, err := movevalidator.MoveLesson(schedule, req.LessonID, req.SourceDay, req.SourcePeriod, req.TargetDay, req.TargetPeriod)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputInvariant.Code, appErrors.ErrInputInvariant.Status, err.Error()))
		return
	}

	response.JSON(c, http.StatusOK, dto.MoveLessonResponse{
		Committed: committed,
		Conflicts: fromConflicts(conflicts),
	})
}
