package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/logging"
	"github.com/andrescamacho/skirmish-go/test/helpers"
	"github.com/cucumber/godog"
)

type eventLogContext struct {
	repo    *persistence.GormEventLogRepository
	clock   *shared.SimulationClock
	loggers map[string]*logging.PersistingLogger
}

func (ec *eventLogContext) reset() {
	ec.repo = nil
	ec.clock = nil
	ec.loggers = make(map[string]*logging.PersistingLogger)
}

func (ec *eventLogContext) logger(runID string) *logging.PersistingLogger {
	l, ok := ec.loggers[runID]
	if !ok {
		l = logging.NewPersistingLogger(nil, ec.repo, runID, ec.clock)
		ec.loggers[runID] = l
	}
	return l
}

func (ec *eventLogContext) list(filter common.EventLogFilter) ([]common.EventLogEntry, error) {
	return ec.repo.List(context.Background(), filter)
}

func messagesOf(entries []common.EventLogEntry) string {
	messages := make([]string, len(entries))
	for i, e := range entries {
		messages[i] = e.Message
	}
	return strings.Join(messages, ", ")
}

// Given steps

func (ec *eventLogContext) anEmptyEventLogWithADedupWindowOfSeconds(seconds int) error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	ec.clock = shared.NewSimulationClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ec.repo = persistence.NewGormEventLogRepository(helpers.SharedTestDB, ec.clock)
	ec.repo.SetDedupWindow(time.Duration(seconds) * time.Second)
	return nil
}

// When steps

func (ec *eventLogContext) runLogs(runID, level, message string) error {
	l := ec.logger(runID)
	l.Log(level, message, nil)
	if l.Failures() > 0 {
		return fmt.Errorf("failed to persist %q", message)
	}
	return nil
}

func (ec *eventLogContext) runLogsForPlayer(runID, level, message string, playerID int) error {
	l := ec.logger(runID)
	l.Log(level, message, map[string]interface{}{"player_id": playerID})
	if l.Failures() > 0 {
		return fmt.Errorf("failed to persist %q", message)
	}
	return nil
}

func (ec *eventLogContext) secondsOfGameTimePass(seconds int) error {
	for i := 0; i < seconds; i++ {
		ec.clock.Advance(1)
	}
	return nil
}

// Then steps

func (ec *eventLogContext) runShouldHaveEvents(runID string, expected int) error {
	entries, err := ec.list(common.EventLogFilter{RunID: runID})
	if err != nil {
		return err
	}
	if len(entries) != expected {
		return fmt.Errorf("expected %d events for %s, got %d (%s)", expected, runID, len(entries), messagesOf(entries))
	}
	return nil
}

func (ec *eventLogContext) expectMessages(filter common.EventLogFilter, expected string) error {
	entries, err := ec.list(filter)
	if err != nil {
		return err
	}
	if got := messagesOf(entries); got != expected {
		return fmt.Errorf("expected %q, got %q", expected, got)
	}
	return nil
}

func (ec *eventLogContext) runShouldList(runID, expected string) error {
	return ec.expectMessages(common.EventLogFilter{RunID: runID}, expected)
}

func (ec *eventLogContext) runFilteredByLevelShouldList(runID, level, expected string) error {
	return ec.expectMessages(common.EventLogFilter{RunID: runID, Level: &level}, expected)
}

func (ec *eventLogContext) runFilteredByPlayerShouldList(runID string, playerID int, expected string) error {
	return ec.expectMessages(common.EventLogFilter{RunID: runID, PlayerID: &playerID}, expected)
}

func (ec *eventLogContext) theLatestEventOfRunShouldBeAtTick(runID string, tick int64) error {
	entries, err := ec.list(common.EventLogFilter{RunID: runID, Limit: 1})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no events for %s", runID)
	}
	if entries[0].Tick != tick {
		return fmt.Errorf("expected tick %d, got %d", tick, entries[0].Tick)
	}
	return nil
}

// InitializeEventLogScenario registers event log steps
func InitializeEventLogScenario(sc *godog.ScenarioContext) {
	ec := &eventLogContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.reset()
		return ctx, nil
	})

	sc.Step(`^an empty event log with a dedup window of (\d+) seconds$`, ec.anEmptyEventLogWithADedupWindowOfSeconds)

	sc.Step(`^run "([^"]*)" logs (DEBUG|INFO|WARNING|ERROR) "([^"]*)"$`, ec.runLogs)
	sc.Step(`^run "([^"]*)" logs (DEBUG|INFO|WARNING|ERROR) "([^"]*)" for player (\d+)$`, ec.runLogsForPlayer)
	sc.Step(`^(\d+) seconds of game time pass$`, ec.secondsOfGameTimePass)

	sc.Step(`^run "([^"]*)" should have (\d+) events?$`, ec.runShouldHaveEvents)
	sc.Step(`^run "([^"]*)" should list "([^"]*)"$`, ec.runShouldList)
	sc.Step(`^run "([^"]*)" filtered by level (DEBUG|INFO|WARNING|ERROR) should list "([^"]*)"$`, ec.runFilteredByLevelShouldList)
	sc.Step(`^run "([^"]*)" filtered by player (\d+) should list "([^"]*)"$`, ec.runFilteredByPlayerShouldList)
	sc.Step(`^the latest event of run "([^"]*)" should be at tick (\d+)$`, ec.theLatestEventOfRunShouldBeAtTick)
}
