package setup

import (
	"reflect"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	orderCommands "github.com/andrescamacho/skirmish-go/internal/application/orders/commands"
	playerQueries "github.com/andrescamacho/skirmish-go/internal/application/player/queries"
	productionCommands "github.com/andrescamacho/skirmish-go/internal/application/production/commands"
	productionQueries "github.com/andrescamacho/skirmish-go/internal/application/production/queries"
	selectionQueries "github.com/andrescamacho/skirmish-go/internal/application/selection/queries"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	simulationCommands "github.com/andrescamacho/skirmish-go/internal/application/simulation/commands"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	sim *simulation.Simulation
}

// NewHandlerRegistry creates a new handler registry for one simulation
func NewHandlerRegistry(sim *simulation.Simulation) *HandlerRegistry {
	return &HandlerRegistry{sim: sim}
}

// RegisterOrderHandlers registers the unit order commands
//
// This method registers:
//   - IssueMoveCommand → IssueMoveHandler (move and attack-move in formation)
//   - IssueAttackCommand → IssueAttackHandler
//   - IssueCollectCommand → IssueCollectHandler
func (r *HandlerRegistry) RegisterOrderHandlers(m common.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&orderCommands.IssueMoveCommand{}),
		orderCommands.NewIssueMoveHandler(r.sim),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&orderCommands.IssueAttackCommand{}),
		orderCommands.NewIssueAttackHandler(r.sim),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&orderCommands.IssueCollectCommand{}),
		orderCommands.NewIssueCollectHandler(r.sim),
	); err != nil {
		return err
	}

	return nil
}

// RegisterProductionHandlers registers production commands and queries
//
// This method registers:
//   - QueueProductionCommand → QueueProductionHandler
//   - CancelProductionCommand → CancelProductionHandler
//   - ClaimStashCommand → ClaimStashHandler
//   - GetProductionStatusQuery → GetProductionStatusHandler
func (r *HandlerRegistry) RegisterProductionHandlers(m common.Mediator) error {
	if err := common.RegisterHandler[*productionCommands.QueueProductionCommand](m, productionCommands.NewQueueProductionHandler(r.sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*productionCommands.CancelProductionCommand](m, productionCommands.NewCancelProductionHandler(r.sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*productionCommands.ClaimStashCommand](m, productionCommands.NewClaimStashHandler(r.sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*productionQueries.GetProductionStatusQuery](m, productionQueries.NewGetProductionStatusHandler(r.sim)); err != nil {
		return err
	}
	return nil
}

// RegisterSimulationHandlers registers clock control and read-side queries
func (r *HandlerRegistry) RegisterSimulationHandlers(m common.Mediator) error {
	if err := common.RegisterHandler[*simulationCommands.AdvanceSimulationCommand](m, simulationCommands.NewAdvanceSimulationHandler(r.sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*playerQueries.GetPlayerStateQuery](m, playerQueries.NewGetPlayerStateHandler(r.sim)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*selectionQueries.SelectUnitsQuery](m, selectionQueries.NewSelectUnitsHandler(r.sim)); err != nil {
		return err
	}
	return nil
}

// CreateConfiguredMediator creates a mediator with every handler registered.
// Requests are logged, then serialized against the simulation.
func (r *HandlerRegistry) CreateConfiguredMediator() (common.Mediator, error) {
	m := common.NewMediator()
	m.RegisterMiddleware(simulation.LoggingMiddleware())
	m.RegisterMiddleware(simulation.LockingMiddleware(r.sim))

	if err := r.RegisterOrderHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterProductionHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterSimulationHandlers(m); err != nil {
		return nil, err
	}
	return m, nil
}
