package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// LockingMiddleware serializes every request against the simulation so the
// CLI, the realtime loop and the metrics endpoint can share it
func LockingMiddleware(sim *Simulation) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		sim.Lock()
		defer sim.Unlock()
		return next(ctx, request)
	}
}

// LoggingMiddleware logs failed requests and slow ones at debug level
func LoggingMiddleware() common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		started := time.Now()
		response, err := next(ctx, request)
		logger := common.LoggerFromContext(ctx)
		if err != nil {
			logger.Log(shared.LevelWarning, fmt.Sprintf("%T failed: %v", request, err), nil)
			return response, err
		}
		logger.Log(shared.LevelDebug, fmt.Sprintf("%T handled", request), map[string]interface{}{
			"duration_ms": time.Since(started).Milliseconds(),
		})
		return response, nil
	}
}
