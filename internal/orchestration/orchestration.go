// Package orchestration composes the analyser, engine and optional solution
// cache into the single call a generation request needs: analyse, build,
// solve, extract. It mirrors the teacher's service-layer composition pattern
// (validate, delegate, persist) without a database: a schedule request is
// stateless and fully described by its Problem.
package orchestration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ukfootprint/class-timetabler/internal/analyser"
	"github.com/ukfootprint/class-timetabler/internal/domain"
	"github.com/ukfootprint/class-timetabler/internal/engine"
	"github.com/ukfootprint/class-timetabler/internal/metrics"
	appErrors "github.com/ukfootprint/class-timetabler/pkg/errors"
)

// SolutionCache is the minimal interface the generator needs from a cache
// backend. A nil SolutionCache disables caching entirely.
type SolutionCache interface {
	Get(ctx context.Context, key string) (domain.Solution, bool, error)
	Set(ctx context.Context, key string, sol domain.Solution, ttl time.Duration) error
}

// Generator runs the full analyse -> build -> solve pipeline for a Problem.
// defaultWeights/defaultOpts are only reported by Defaults, for callers to
// resolve per-request overrides against; Generate solves with the values it
// is given.
type Generator struct {
	defaultWeights engine.Weights
	defaultOpts    engine.Options
	cache          SolutionCache
	cacheTTL       time.Duration
	metrics        *metrics.Metrics
	log            *zap.Logger
}

// New constructs a Generator. cache and m may be nil.
func New(defaultWeights engine.Weights, defaultOpts engine.Options, cache SolutionCache, cacheTTL time.Duration, m *metrics.Metrics, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{defaultWeights: defaultWeights, defaultOpts: defaultOpts, cache: cache, cacheTTL: cacheTTL, metrics: m, log: log}
}

// Result bundles the feasibility report and the solve outcome together,
// since a statically infeasible Problem never reaches the solver.
type Result struct {
	Report   analyser.ValidationReport
	Solution domain.Solution
	Status   engine.Status
}

// Generate analyses p, returning early with a static-infeasibility error if
// analyser.Analyse finds a blocking ERROR issue; otherwise it builds the
// constraint model and solves it per spec.md §6's
// solve(Problem, {max_time_seconds, num_workers, weight_*}), consulting and
// populating the solution cache keyed by the Problem's content hash and the
// weights used. weights/opts are the fully-resolved values to solve with;
// callers that want the Generator's configured defaults pass them in
// unchanged (see Defaults).
func (g *Generator) Generate(ctx context.Context, p *domain.Problem, w engine.Weights, o engine.Options) (Result, error) {
	report := analyser.Analyse(p)
	if !report.IsFeasible {
		g.log.Warn("problem failed static feasibility analysis", zap.Int("error_count", len(report.Errors())))
		return Result{Report: report}, appErrors.Clone(appErrors.ErrStaticInfeasible, report.Errors()[0].Message)
	}

	key := problemCacheKey(p, w)

	if g.cache != nil {
		if cached, hit, err := g.cache.Get(ctx, key); err == nil && hit {
			g.metrics.RecordCacheLookup(true)
			return Result{Report: report, Solution: cached, Status: engine.StatusOptimal}, nil
		}
		g.metrics.RecordCacheLookup(false)
	}

	built, err := engine.Build(p, w)
	if err != nil {
		g.log.Error("failed to build constraint model", zap.Error(err))
		return Result{Report: report}, appErrors.Wrap(err, appErrors.ErrModelBuild.Code, appErrors.ErrModelBuild.Status, appErrors.ErrModelBuild.Message)
	}

	start := time.Now()
	sol, status, err := engine.Solve(ctx, built, o)
	g.metrics.ObserveSolve(string(status), time.Since(start))
	if err != nil {
		g.log.Error("solve failed", zap.Error(err))
		return Result{Report: report}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solve failed")
	}

	if sol.IsFeasible && g.cache != nil {
		if err := g.cache.Set(ctx, key, sol, g.cacheTTL); err != nil {
			g.log.Warn("failed to populate solution cache", zap.Error(err))
		}
	}

	return Result{Report: report, Solution: sol, Status: status}, nil
}

// Defaults returns the weights and options this Generator falls back to
// when a caller has no per-request override.
func (g *Generator) Defaults() (engine.Weights, engine.Options) {
	return g.defaultWeights, g.defaultOpts
}

// problemCacheKey hashes the parts of a Problem and weight set that affect
// the solve outcome, so identical requests hit the cache and any change to
// inputs or tuning invalidates it.
func problemCacheKey(p *domain.Problem, w engine.Weights) string {
	payload := struct {
		Teachers []domain.Teacher
		Rooms    []domain.Room
		Subjects []domain.Subject
		Groups   []domain.StudentGroup
		Lessons  []domain.Lesson
		Weights  engine.Weights
	}{p.Teachers, p.Rooms, p.Subjects, p.StudentGroups, p.Lessons, w}

	b, err := json.Marshal(payload)
	if err != nil {
		// Deterministic across a single process, not across versions;
		// used only to disambiguate an unmarshalable edge case in testing.
		return "unhashable"
	}
	sum := sha256.Sum256(b)
	return "solution:" + hex.EncodeToString(sum[:])
}
