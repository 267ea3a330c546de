package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukfootprint/class-timetabler/internal/analyser"
	"github.com/ukfootprint/class-timetabler/internal/domain"
	"github.com/ukfootprint/class-timetabler/internal/engine"
	"github.com/ukfootprint/class-timetabler/internal/orchestration"
	appErrors "github.com/ukfootprint/class-timetabler/pkg/errors"
)

type generatorMock struct {
	defaultWeights engine.Weights
	defaultOpts    engine.Options
	captured       engine.Weights
	capturedOpts   engine.Options
	result         orchestration.Result
	err            error
}

func (m *generatorMock) Defaults() (engine.Weights, engine.Options) {
	return m.defaultWeights, m.defaultOpts
}

func (m *generatorMock) Generate(ctx context.Context, p *domain.Problem, w engine.Weights, o engine.Options) (orchestration.Result, error) {
	m.captured = w
	m.capturedOpts = o
	return m.result, m.err
}

const minimalGeneratePayload = `{
	"teachers": [{"id":"t1","name":"Ms Alpha","code":"ALP","subjectIds":["math"],"maxHoursPerWeek":20}],
	"rooms": [{"id":"r1","name":"Room 1","capacity":30,"type":"standard"}],
	"subjects": [{"id":"math","name":"Mathematics"}],
	"studentGroups": [{"id":"g1","name":"7A","yearGroup":7,"size":25}],
	"lessons": [{"id":"l1","subjectId":"math","teacherId":"t1","studentGroupId":"g1","periodsPerWeek":1}]
}`

func newGenerateContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req, err := http.NewRequest(http.MethodPost, "/api/schedule/generate", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestScheduleHandler_Generate_Success(t *testing.T) {
	mock := &generatorMock{
		defaultWeights: engine.DefaultWeights(),
		defaultOpts:    engine.Options{MaxTime: 10},
		result: orchestration.Result{
			Report:   analyser.ValidationReport{IsFeasible: true},
			Solution: domain.Solution{IsFeasible: true, Assignments: []domain.Assignment{{LessonID: "l1", RoomID: "r1"}}},
			Status:   engine.StatusOptimal,
		},
	}
	h := NewScheduleHandler(mock)

	c, w := newGenerateContext(t, minimalGeneratePayload)
	h.Generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mock.defaultWeights, mock.captured, "no weights override supplied: server defaults must be used")
}

func TestScheduleHandler_Generate_WeightOverrideAppliesOnlyPresentFields(t *testing.T) {
	mock := &generatorMock{
		defaultWeights: engine.DefaultWeights(),
		defaultOpts:    engine.Options{MaxTime: 10},
		result: orchestration.Result{
			Report:   analyser.ValidationReport{IsFeasible: true},
			Solution: domain.Solution{IsFeasible: true},
			Status:   engine.StatusOptimal,
		},
	}
	h := NewScheduleHandler(mock)

	body := `{
		"teachers": [{"id":"t1","name":"Ms Alpha","code":"ALP","subjectIds":["math"],"maxHoursPerWeek":20}],
		"rooms": [{"id":"r1","name":"Room 1","capacity":30,"type":"standard"}],
		"subjects": [{"id":"math","name":"Mathematics"}],
		"studentGroups": [{"id":"g1","name":"7A","yearGroup":7,"size":25}],
		"lessons": [{"id":"l1","subjectId":"math","teacherId":"t1","studentGroupId":"g1","periodsPerWeek":1}],
		"weights": {"teacherGaps": 0}
	}`
	c, w := newGenerateContext(t, body)
	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, mock.captured.TeacherGaps, "explicit 0 must disable the family, not fall back to the default")
	assert.Equal(t, mock.defaultWeights.RoomConsistency, mock.captured.RoomConsistency, "unset fields must keep the server default")
}

func TestScheduleHandler_Generate_InvalidJSONRejected(t *testing.T) {
	mock := &generatorMock{}
	h := NewScheduleHandler(mock)

	c, w := newGenerateContext(t, `{"teachers":`)
	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandler_Generate_MissingRequiredFieldRejectedByValidation(t *testing.T) {
	mock := &generatorMock{}
	h := NewScheduleHandler(mock)

	c, w := newGenerateContext(t, `{"rooms":[],"subjects":[],"studentGroups":[],"lessons":[]}`)
	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandler_Generate_InfeasibleReturnsOKWithStructuredBody(t *testing.T) {
	// Static infeasibility is not an HTTP error: it is a normal 200 carrying
	// the infeasible result, per the engine's propagation policy.
	mock := &generatorMock{
		defaultWeights: engine.DefaultWeights(),
		defaultOpts:    engine.Options{MaxTime: 10},
		result: orchestration.Result{
			Report: analyser.ValidationReport{
				IsFeasible: false,
				Issues:     []analyser.Issue{{Severity: analyser.SeverityError, Category: "capacity", Message: "no room available"}},
			},
		},
		err: appErrors.ErrStaticInfeasible,
	}
	h := NewScheduleHandler(mock)

	c, w := newGenerateContext(t, minimalGeneratePayload)
	h.Generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isFeasible":false`)
}
