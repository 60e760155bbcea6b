package simulation

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

// Simulation is the match aggregate: the world, the players with their
// production modules, and the scheduler driving unit tasks.
//
// It is not safe for concurrent use. Requests reach it through the mediator,
// where LockingMiddleware serializes them.
type Simulation struct {
	mu sync.Mutex

	runID     string
	world     common.World
	clock     *shared.SimulationClock
	scheduler *Scheduler
	logger    shared.Logger
	metrics   common.MetricsRecorder

	players []*player.Player
	modules map[int]*production.Module

	UnitAdded     shared.Event[*unit.Unit]
	ProducerAdded shared.Event[*production.ActiveProduction]
	PlayerAdded   shared.Event[*player.Player]
	Ticked        shared.Event[int64]
}

func NewSimulation(world common.World, clock *shared.SimulationClock, logger shared.Logger, metrics common.MetricsRecorder) (*Simulation, error) {
	if world == nil {
		return nil, shared.NewArgumentNilError("world")
	}
	if clock == nil {
		clock = shared.NewSimulationClock(time.Time{})
	}
	if metrics == nil {
		metrics = common.NoOpMetrics{}
	}
	logger = shared.LoggerOrNoOp(logger)
	return &Simulation{
		runID:     utils.GenerateRunID(),
		world:     world,
		clock:     clock,
		scheduler: NewScheduler(clock, logger),
		logger:    logger,
		metrics:   metrics,
		modules:   make(map[int]*production.Module),
	}, nil
}

func (s *Simulation) RunID() string                   { return s.runID }
func (s *Simulation) SetRunID(runID string)           { s.runID = runID }
func (s *Simulation) World() common.World             { return s.world }
func (s *Simulation) Clock() *shared.SimulationClock  { return s.clock }
func (s *Simulation) Scheduler() *Scheduler           { return s.scheduler }
func (s *Simulation) Logger() shared.Logger           { return s.logger }
func (s *Simulation) Metrics() common.MetricsRecorder { return s.metrics }

// Lock and Unlock guard the aggregate at the application boundary
func (s *Simulation) Lock()   { s.mu.Lock() }
func (s *Simulation) Unlock() { s.mu.Unlock() }

// Players returns players sorted by ID
func (s *Simulation) Players() []*player.Player {
	out := make([]*player.Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *Simulation) Player(playerID int) (*player.Player, error) {
	for _, p := range s.players {
		if p.ID().Value() == playerID {
			return p, nil
		}
	}
	return nil, shared.NewEntityNotFoundError("player", fmt.Sprintf("%d", playerID))
}

func (s *Simulation) Module(playerID int) (*production.Module, error) {
	m, ok := s.modules[playerID]
	if !ok {
		return nil, shared.NewEntityNotFoundError("production module", fmt.Sprintf("%d", playerID))
	}
	return m, nil
}

// AddPlayer registers a player and creates its production module
func (s *Simulation) AddPlayer(p *player.Player) error {
	if p == nil {
		return shared.NewArgumentNilError("player")
	}
	id := p.ID().Value()
	if _, exists := s.modules[id]; exists {
		return shared.NewInvalidArgumentError("player", fmt.Sprintf("player %d already added", id))
	}
	module, err := production.NewModule(p, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create production module: %w", err)
	}
	s.modules[id] = module
	s.players = append(s.players, p)
	sort.Slice(s.players, func(i, j int) bool { return s.players[i].ID().Value() < s.players[j].ID().Value() })
	s.PlayerAdded.Invoke(p)
	return nil
}

// Unit looks a unit up in the world
func (s *Simulation) Unit(unitID string) (*unit.Unit, error) {
	u, ok := s.world.Unit(unitID)
	if !ok {
		return nil, shared.NewEntityNotFoundError("unit", unitID)
	}
	return u, nil
}

// AddUnit places a unit in the world and registers it with its owner.
// Neutral units (resource nodes) have no owner to register with.
func (s *Simulation) AddUnit(u *unit.Unit) error {
	if u == nil {
		return shared.NewArgumentNilError("unit")
	}
	if err := s.world.AddUnit(u); err != nil {
		return fmt.Errorf("failed to add unit %s: %w", u.ID(), err)
	}
	if !u.Owner().IsNeutral() {
		owner, err := s.Player(u.Owner().Value())
		if err != nil {
			return fmt.Errorf("unit %s: %w", u.ID(), err)
		}
		owner.RegisterUnit(u)
	}
	u.Destroyed.Subscribe(s.onUnitDestroyed)
	s.UnitAdded.Invoke(u)
	return nil
}

// AddProducer attaches production to a unit already in the world
func (s *Simulation) AddProducer(u *unit.Unit, options production.Options, spawn production.SpawnPoint) (*production.ActiveProduction, error) {
	if u == nil {
		return nil, shared.NewArgumentNilError("producer")
	}
	owner, err := s.Player(u.Owner().Value())
	if err != nil {
		return nil, fmt.Errorf("producer %s: %w", u.ID(), err)
	}
	ap, err := production.NewActiveProduction(u, owner, s.world.Factory(), spawn, options, s.logger)
	if err != nil {
		return nil, err
	}
	if err := s.modules[owner.ID().Value()].AddProducer(ap); err != nil {
		return nil, err
	}
	ap.UnitSpawned.Subscribe(func(spawned *unit.Unit) {
		if err := s.AddUnit(spawned); err != nil {
			s.logger.Log(shared.LevelError, fmt.Sprintf("failed to place spawned unit: %v", err), map[string]interface{}{
				"producer": u.ID(),
				"unit_id":  spawned.ID(),
			})
		}
	})
	s.ProducerAdded.Invoke(ap)
	return ap, nil
}

// Production finds the production attached to a unit
func (s *Simulation) Production(unitID string) (*production.ActiveProduction, error) {
	for _, m := range s.modules {
		if ap, ok := m.Producer(unitID); ok {
			return ap, nil
		}
	}
	return nil, shared.NewEntityNotFoundError("producer", unitID)
}

// Tick advances the match by deltaTime seconds: movement, capability
// timers, unit tasks, then production.
func (s *Simulation) Tick(deltaTime float64) {
	if deltaTime < 0 {
		return
	}
	started := time.Now()

	s.world.Update(deltaTime)
	for _, u := range s.world.Units() {
		u.Update(deltaTime)
	}
	s.scheduler.Update(deltaTime)
	for _, p := range s.players {
		s.modules[p.ID().Value()].Update(deltaTime)
	}
	s.clock.Advance(deltaTime)

	s.metrics.RecordTick(time.Since(started), s.scheduler.Running())
	s.Ticked.Invoke(s.clock.Ticks())
}

// Run advances ticks fixed steps of deltaTime
func (s *Simulation) Run(ticks int, deltaTime float64) {
	for i := 0; i < ticks; i++ {
		s.Tick(deltaTime)
	}
}

func (s *Simulation) onUnitDestroyed(u *unit.Unit) {
	s.scheduler.Cancel(u.ID())
	if u.Owner().IsNeutral() {
		return
	}
	if owner, err := s.Player(u.Owner().Value()); err == nil {
		owner.UnregisterUnit(u)
	}
}
