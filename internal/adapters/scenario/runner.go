package scenario

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	simulationCommands "github.com/andrescamacho/skirmish-go/internal/application/simulation/commands"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Runner plays a timeline against a mediator one tick at a time
type Runner struct {
	mediator  common.Mediator
	timeline  []ScheduledRequest
	deltaTime float64
	limiter   *rate.Limiter
	next      int
	tick      int64
}

// RunResult summarizes a run
type RunResult struct {
	Ticks          int64
	Elapsed        float64
	OrdersIssued   int
	OrdersRejected int
	RunningJobs    int
}

// NewRunner creates a runner stepping deltaTime seconds per tick
func NewRunner(m common.Mediator, timeline []ScheduledRequest, deltaTime float64) (*Runner, error) {
	if m == nil {
		return nil, shared.NewArgumentNilError("mediator")
	}
	if deltaTime <= 0 {
		return nil, shared.NewValidationError("delta_time", "must be positive")
	}
	return &Runner{mediator: m, timeline: timeline, deltaTime: deltaTime}, nil
}

// Pace limits the run to ticksPerSecond wall-clock ticks; 0 runs unpaced
func (r *Runner) Pace(ticksPerSecond float64) {
	if ticksPerSecond <= 0 {
		r.limiter = nil
		return
	}
	r.limiter = rate.NewLimiter(rate.Limit(ticksPerSecond), 1)
}

// Run issues due orders and advances ticks steps. A rejected order is logged
// and counted; it does not stop the run.
func (r *Runner) Run(ctx context.Context, ticks int) (*RunResult, error) {
	logger := common.LoggerFromContext(ctx)
	result := &RunResult{}
	var last *simulationCommands.AdvanceSimulationResponse

	for i := 0; i < ticks; i++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return result, err
			}
		} else if err := ctx.Err(); err != nil {
			return result, err
		}

		for r.next < len(r.timeline) && r.timeline[r.next].AtTick <= r.tick {
			order := r.timeline[r.next]
			r.next++
			result.OrdersIssued++
			if _, err := order.Dispatch(ctx, r.mediator); err != nil {
				result.OrdersRejected++
				logger.Log(shared.LevelWarning, fmt.Sprintf("%s order rejected: %v", order.Type, err), map[string]interface{}{
					"tick": r.tick,
				})
			}
		}

		resp, err := r.mediator.Send(ctx, &simulationCommands.AdvanceSimulationCommand{Ticks: 1, DeltaTime: r.deltaTime})
		if err != nil {
			return result, fmt.Errorf("failed to advance tick %d: %w", r.tick, err)
		}
		advanced, ok := resp.(*simulationCommands.AdvanceSimulationResponse)
		if !ok {
			return result, fmt.Errorf("invalid response type: expected *AdvanceSimulationResponse")
		}
		last = advanced
		r.tick = advanced.Tick
	}

	if last != nil {
		result.Ticks = last.Tick
		result.Elapsed = last.Elapsed
		result.RunningJobs = last.RunningJobs
	}
	return result, nil
}

// Pending returns how many orders have not been issued yet
func (r *Runner) Pending() int {
	return len(r.timeline) - r.next
}
