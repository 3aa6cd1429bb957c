package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vetgate/internal/agent"
)

// runAgents runs every agent in ordered concurrently against module and
// returns the complete result set only once all invocations have settled.
// This is a join, not a race: no agent is skipped because another finished
// first, passed or failed.
//
// A non-nil error from any agent is fatal and aborts the module before its
// memory record is touched.
func (s *Service) runAgents(ctx context.Context, module string, ordered []string) (map[string]agent.Result, error) {
	type outcome struct {
		name string
		res  agent.Result
		err  error
	}

	ch := make(chan outcome, len(ordered))
	var wg sync.WaitGroup

	for _, name := range ordered {
		a, err := s.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(name string, a agent.Agent) {
			defer wg.Done()
			res, err := s.invoke(ctx, a, module)
			ch <- outcome{name: name, res: res, err: err}
		}(name, a)
	}

	wg.Wait()
	close(ch)

	results := make(map[string]agent.Result, len(ordered))
	var firstErr error
	for o := range ch {
		if o.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("agent %q on module %q: %w", o.name, module, o.err)
			}
			continue
		}
		results[o.name] = o.res
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// invoke runs one agent with the per-agent deadline. Deadline expiry becomes
// a failed result instead of killing the run, so a hung linter cannot stall
// every module queued behind it. The deadline is enforced here, not trusted
// to the agent: an agent that ignores its context is abandoned at expiry and
// its eventual result discarded. Run-level (parent context) cancellation
// stays fatal. A panicking agent surfaces as a fatal error.
func (s *Service) invoke(ctx context.Context, a agent.Agent, module string) (agent.Result, error) {
	runCtx := ctx
	if s.agentTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.agentTimeout)
		defer cancel()
	}

	type outcome struct {
		res agent.Result
		err error
	}
	// Buffered so an abandoned agent's send never blocks its goroutine.
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("agent %q panicked: %v", a.Name(), r)}
			}
		}()
		res, err := a.Check(runCtx, module)
		done <- outcome{res: res, err: err}
	}()

	var res agent.Result
	var err error
	timedOut := false

	select {
	case o := <-done:
		res, err = o.res, o.err
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			timedOut = true
		}
	case <-runCtx.Done():
		if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			timedOut = true
		}
	}

	if timedOut {
		res = agent.Result{
			Passed:  false,
			Details: fmt.Sprintf("timed out after %s", s.agentTimeout),
		}
		err = nil
		s.logger.Warn("agent timed out",
			zap.String("agent", a.Name()),
			zap.String("module", module),
			zap.Duration("timeout", s.agentTimeout),
		)
	}
	elapsed := time.Since(start)

	if s.agentRuns != nil {
		s.agentRuns.Add(ctx, 1, withAttrs(
			attribute.String("agent", a.Name()),
			attribute.Bool("passed", err == nil && res.Passed),
		))
	}
	if s.agentDuration != nil {
		s.agentDuration.Record(ctx, elapsed.Seconds(), withAttrs(
			attribute.String("agent", a.Name()),
		))
	}

	return res, err
}
