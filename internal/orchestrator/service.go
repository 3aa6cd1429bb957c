package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vetgate/internal/agent"
	"github.com/fyrsmithlabs/vetgate/internal/memory"
	"github.com/fyrsmithlabs/vetgate/internal/review"
)

const instrumentationName = "github.com/fyrsmithlabs/vetgate/internal/orchestrator"

// memoryScope is the fixed namespace under which the orchestrator keys its
// records in the memory store.
const memoryScope = "orchestrator"

// Config configures the orchestrator service.
type Config struct {
	// Modules is the declared module universe.
	Modules []string

	// AgentTimeout is the per-agent deadline; zero disables it.
	AgentTimeout time.Duration
}

// Service runs the validation pipeline.
type Service struct {
	modules      []string
	agentTimeout time.Duration

	registry  *agent.Registry
	global    agent.Agent
	store     memory.Store
	escalator review.Escalator
	logger    *zap.Logger

	tracer        trace.Tracer
	meter         metric.Meter
	agentRuns     metric.Int64Counter
	agentDuration metric.Float64Histogram
	escalations   metric.Int64Counter
}

// NewService creates an orchestrator service. global is the run-level agent
// executed once per invocation, outside any module's aggregation; it may be
// nil.
func NewService(cfg Config, registry *agent.Registry, global agent.Agent, store memory.Store, escalator review.Escalator, logger *zap.Logger) (*Service, error) {
	if len(cfg.Modules) == 0 {
		return nil, errors.New("at least one module is required")
	}
	if registry == nil || len(registry.Names()) == 0 {
		return nil, errors.New("a non-empty agent registry is required")
	}
	if store == nil {
		return nil, errors.New("memory store is required")
	}
	if escalator == nil {
		return nil, errors.New("escalator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		modules:      cfg.Modules,
		agentTimeout: cfg.AgentTimeout,
		registry:     registry,
		global:       global,
		store:        store,
		escalator:    escalator,
		logger:       logger,
		tracer:       otel.Tracer(instrumentationName),
		meter:        otel.Meter(instrumentationName),
	}
	s.initMetrics()
	return s, nil
}

// Modules returns the declared module universe.
func (s *Service) Modules() []string {
	out := make([]string, len(s.modules))
	copy(out, s.modules)
	return out
}

// Agents returns the declared agent universe in registration order.
func (s *Service) Agents() []string {
	return s.registry.Names()
}

// ResolveScope turns the CLI's comma-separated module and agent lists into a
// validated Scope, defaulting to the full universes when a list is empty. An
// unknown name fails the run immediately.
func (s *Service) ResolveScope(modulesCSV, agentsCSV string) (Scope, error) {
	scope := Scope{Modules: s.Modules(), Agents: s.Agents()}

	if names := splitCSV(modulesCSV); len(names) > 0 {
		known := make(map[string]struct{}, len(s.modules))
		for _, m := range s.modules {
			known[m] = struct{}{}
		}
		for _, name := range names {
			if _, ok := known[name]; !ok {
				return Scope{}, fmt.Errorf("unknown module %q (declared: %v)", name, s.modules)
			}
		}
		scope.Modules = names
	}

	if names := splitCSV(agentsCSV); len(names) > 0 {
		for _, name := range names {
			if !s.registry.Has(name) {
				return Scope{}, fmt.Errorf("unknown agent %q (registered: %v)", name, s.registry.Names())
			}
		}
		scope.Agents = names
	}

	return scope, nil
}

// Run executes the full pipeline for the scope. The returned error is fatal:
// the caller logs it once and exits 1.
func (s *Service) Run(ctx context.Context, scope Scope) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "orchestrator.run")
	defer span.End()

	report := &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
	span.SetAttributes(
		attribute.String("run_id", report.RunID),
		attribute.Int("module_count", len(scope.Modules)),
		attribute.Int("agent_count", len(scope.Agents)),
	)

	s.logger.Info("starting validation run",
		zap.String("run_id", report.RunID),
		zap.Strings("modules", scope.Modules),
		zap.Strings("agents", scope.Agents),
	)

	if s.global != nil {
		res, err := s.invoke(ctx, s.global, "")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("global agent %q: %w", s.global.Name(), err)
		}
		report.Global = &GlobalResult{Agent: s.global.Name(), Result: res}
		s.logger.Info("global agent finished",
			zap.String("agent", s.global.Name()),
			zap.Bool("passed", res.Passed),
			zap.String("details", res.Details),
		)
	}

	for _, module := range scope.Modules {
		mr, err := s.runModule(ctx, module, scope.Agents)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		report.Modules = append(report.Modules, mr)
	}

	report.Duration = time.Since(report.Started)
	return report, nil
}

// runModule executes the per-module pipeline: load memory, prioritize, run
// agents in parallel, aggregate, persist, escalate. A fatal error aborts
// before the memory record is rewritten, so the in-flight module keeps its
// previous history.
func (s *Service) runModule(ctx context.Context, module string, agents []string) (ModuleResult, error) {
	ctx, span := s.tracer.Start(ctx, "orchestrator.module")
	defer span.End()
	span.SetAttributes(attribute.String("module", module))

	start := time.Now()

	content, err := s.store.Load(ctx, memoryScope, module)
	if err != nil {
		span.RecordError(err)
		return ModuleResult{}, fmt.Errorf("load memory for %s: %w", module, err)
	}
	prev := memory.ParseRecord(content)

	ordered, promoted := Prioritize(prev, agents)
	if len(promoted) > 0 {
		s.logger.Info("reprioritized agents from previous failures",
			zap.String("module", module),
			zap.Strings("promoted", promoted),
		)
	}

	results, err := s.runAgents(ctx, module, ordered)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ModuleResult{}, err
	}

	bestAgent, bestAnswer, failed := aggregate(ordered, results)

	rec := memory.Record{
		BestAgent:     bestAgent,
		BestAnswer:    bestAnswer,
		FailedAgents:  failed,
		Reprioritized: promoted,
	}
	encoded, err := rec.Encode()
	if err != nil {
		return ModuleResult{}, err
	}
	// Saved unconditionally: a module that went from failing to clean must
	// clear its failure history for the next run.
	if err := s.store.Save(ctx, memoryScope, module, encoded); err != nil {
		span.RecordError(err)
		return ModuleResult{}, fmt.Errorf("save memory for %s: %w", module, err)
	}

	if len(failed) > 0 {
		s.escalate(ctx, module, failed, results)
	}

	mr := ModuleResult{
		Module:       module,
		AgentResults: results,
		Order:        ordered,
		BestAgent:    bestAgent,
		BestAnswer:   bestAnswer,
		Failed:       failed,
		Duration:     time.Since(start),
	}

	s.logger.Info("module finished",
		zap.String("module", module),
		zap.String("best_agent", bestAgent),
		zap.Int("failed", len(failed)),
		zap.Duration("duration", mr.Duration),
	)
	span.SetAttributes(
		attribute.String("best_agent", bestAgent),
		attribute.Int("failed_count", len(failed)),
	)

	return mr, nil
}

// escalate hands the module's failures to the review channel. Errors here are
// logged and dropped: escalation is a side effect and never changes the
// module result or exit code.
func (s *Service) escalate(ctx context.Context, module string, failed []string, results map[string]agent.Result) {
	issues := make([]string, 0, len(failed))
	for _, name := range failed {
		issues = append(issues, fmt.Sprintf("%s: %s", name, results[name].Details))
	}

	if s.escalations != nil {
		s.escalations.Add(ctx, 1, withAttrs(attribute.String("module", module)))
	}

	if err := s.escalator.Escalate(ctx, module, issues); err != nil {
		s.logger.Error("escalation failed",
			zap.String("module", module),
			zap.Error(err),
		)
	}
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empties and duplicates (first appearance wins), so "lint,lint" cannot
// launch the same agent twice.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
