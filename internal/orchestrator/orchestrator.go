package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/console"
)

// Step is a named unit of work. Run reports success; failures are expected to
// have been narrated by the step itself.
type Step struct {
	Name string
	Run  func(ctx context.Context) bool
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Name string
	OK   bool
}

// Result summarises a run. Success is advisory: it selects the final banner
// and never changes which steps execute.
type Result struct {
	Success bool
	Steps   []StepResult
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration)

// Sleep is the production Sleeper.
func Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Delays are the fixed waits of a run. The zero value disables every wait.
type Delays struct {
	// BetweenSteps keeps the run under the forge's rate limits.
	BetweenSteps time.Duration
	// RepositoryInit gives a freshly created repository time to initialise.
	RepositoryInit time.Duration
	// PagesDeploy covers the asynchronous first Pages build.
	PagesDeploy time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		BetweenSteps:   time.Second,
		RepositoryInit: 3 * time.Second,
		PagesDeploy:    2 * time.Minute,
	}
}

// Execute runs every step in order. A failed or panicking step never stops
// the steps after it; only cancellation of ctx ends the run early, in which
// case ctx.Err() is returned along with the partial result.
func Execute(ctx context.Context, printer *console.Printer, steps []Step, between time.Duration, sleep Sleeper) (Result, error) {
	logger := zerolog.Ctx(ctx)

	result := Result{Success: true}
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Str("step", step.Name).Msg("Run interrupted")
			result.Success = false
			return result, err
		}

		printer.Step(i+1, len(steps), step.Name)

		started := time.Now()
		ok := runStep(ctx, printer, step)
		if !ok {
			printer.Warn("%s step ran into problems, continuing with the remaining steps...", step.Name)
		}

		logger.Info().
			Str("step", step.Name).
			Bool("ok", ok).
			Dur("elapsed", time.Since(started)).
			Msg("Step finished")

		result.Steps = append(result.Steps, StepResult{Name: step.Name, OK: ok})
		result.Success = result.Success && ok

		sleep(ctx, between)
	}

	return result, nil
}

func runStep(ctx context.Context, printer *console.Printer, step Step) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("step", step.Name).
				Interface("panic", r).
				Msg("Step panicked")
			printer.Fail("%s step aborted: %v", step.Name, r)
			ok = false
		}
	}()

	return step.Run(ctx)
}
