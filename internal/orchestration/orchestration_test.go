package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukfootprint/class-timetabler/internal/domain"
	"github.com/ukfootprint/class-timetabler/internal/engine"
)

type fakeCache struct {
	store map[string]domain.Solution
	gets  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]domain.Solution{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (domain.Solution, bool, error) {
	f.gets++
	sol, ok := f.store[key]
	return sol, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, sol domain.Solution, ttl time.Duration) error {
	f.sets++
	f.store[key] = sol
	return nil
}

func minimalProblem(t *testing.T) *domain.Problem {
	t.Helper()
	teachers := []domain.Teacher{{
		ID: "t1", Name: "Ms Alpha", Code: "ALP",
		SubjectIDs:      map[string]struct{}{"math": {}},
		MaxHoursPerWeek: 20,
	}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 1}}

	p, err := domain.NewProblem(teachers, rooms, subjects, groups, lessons)
	require.NoError(t, err)
	return p
}

func TestGenerate_MinimalProblemSolvesAndPopulatesCache(t *testing.T) {
	cache := newFakeCache()
	gen := New(engine.DefaultWeights(), engine.Options{MaxTime: 5 * time.Second}, cache, time.Hour, nil, nil)

	p := minimalProblem(t)
	w, o := gen.Defaults()
	result, err := gen.Generate(context.Background(), p, w, o)
	require.NoError(t, err)
	assert.True(t, result.Report.IsFeasible)
	assert.True(t, result.Solution.IsFeasible)
	assert.Len(t, result.Solution.Assignments, 1)

	assert.Equal(t, 1, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestGenerate_SecondCallHitsCache(t *testing.T) {
	cache := newFakeCache()
	gen := New(engine.DefaultWeights(), engine.Options{MaxTime: 5 * time.Second}, cache, time.Hour, nil, nil)

	p := minimalProblem(t)
	w, o := gen.Defaults()
	_, err := gen.Generate(context.Background(), p, w, o)
	require.NoError(t, err)

	result, err := gen.Generate(context.Background(), p, w, o)
	require.NoError(t, err)
	assert.True(t, result.Solution.IsFeasible)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets) // second call was a hit, no new Set
}

func TestGenerate_StaticallyInfeasibleProblemNeverReachesSolver(t *testing.T) {
	teachers := []domain.Teacher{{
		ID: "t1", Name: "Ms Alpha", Code: "ALP",
		SubjectIDs:      map[string]struct{}{"math": {}},
		MaxHoursPerWeek: 1,
	}}
	rooms := []domain.Room{{ID: "r1", Name: "Room 1", Capacity: 30, Type: domain.RoomStandard}}
	subjects := []domain.Subject{{ID: "math", Name: "Mathematics"}}
	groups := []domain.StudentGroup{{ID: "g1", Name: "7A", YearGroup: 7, Size: 25}}
	lessons := []domain.Lesson{{ID: "l1", SubjectID: "math", TeacherID: "t1", StudentGroupID: "g1", PeriodsPerWeek: 5}}
	p, err := domain.NewProblem(teachers, rooms, subjects, groups, lessons)
	require.NoError(t, err)

	cache := newFakeCache()
	gen := New(engine.DefaultWeights(), engine.Options{MaxTime: 5 * time.Second}, cache, time.Hour, nil, nil)
	w, o := gen.Defaults()

	result, err := gen.Generate(context.Background(), p, w, o)
	require.Error(t, err)
	assert.False(t, result.Report.IsFeasible)
	assert.Equal(t, 0, cache.gets, "cache must not be consulted for a statically infeasible problem")
}

func TestGenerate_WeightOverrideChangesCacheKey(t *testing.T) {
	cache := newFakeCache()
	gen := New(engine.DefaultWeights(), engine.Options{MaxTime: 5 * time.Second}, cache, time.Hour, nil, nil)
	p := minimalProblem(t)

	w1, o := gen.Defaults()
	_, err := gen.Generate(context.Background(), p, w1, o)
	require.NoError(t, err)

	w2 := w1
	w2.TeacherGaps = 0
	_, err = gen.Generate(context.Background(), p, w2, o)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.sets, "differing weights must produce distinct cache entries")
}
