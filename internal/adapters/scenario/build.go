package scenario

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/skirmish-go/internal/adapters/world"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/production"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Catalog holds the converted templates and producibles of a scenario
type Catalog struct {
	Templates   map[string]unit.Template
	Producibles map[string]*production.Producible
}

// Catalog converts templates and producibles into domain values
func (s *Scenario) Catalog() (*Catalog, error) {
	c := &Catalog{
		Templates:   make(map[string]unit.Template, len(s.Templates)),
		Producibles: make(map[string]*production.Producible, len(s.Producibles)),
	}
	for name, spec := range s.Templates {
		t, err := spec.toTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		c.Templates[name] = t
	}
	for _, spec := range s.Producibles {
		p, err := spec.toProducible(c.Templates)
		if err != nil {
			return nil, fmt.Errorf("producible %s: %w", spec.ID, err)
		}
		c.Producibles[p.ID] = p
	}
	return c, nil
}

// Build seeds sim with the scenario's players, units and producers.
// defaultMaxOrders applies to producers that do not set max_orders.
func (s *Scenario) Build(sim *simulation.Simulation, factory *world.Factory, defaultMaxOrders int) error {
	catalog, err := s.Catalog()
	if err != nil {
		return err
	}

	for _, spec := range s.Players {
		p, err := spec.toPlayer()
		if err != nil {
			return fmt.Errorf("player %d: %w", spec.ID, err)
		}
		if err := sim.AddPlayer(p); err != nil {
			return err
		}
	}

	for _, spec := range s.Units {
		owner := shared.NeutralPlayer
		if spec.Owner != 0 {
			owner = shared.MustNewPlayerID(spec.Owner)
		}
		u, err := factory.CreateUnitWithID(spec.ID, catalog.Templates[spec.Template], owner, spec.Position.Vector())
		if err != nil {
			return fmt.Errorf("unit %s: %w", spec.ID, err)
		}
		if err := sim.AddUnit(u); err != nil {
			return err
		}
		if spec.Production == nil {
			continue
		}
		options := spec.Production.toOptions(catalog, defaultMaxOrders)
		spawn := production.OffsetSpawnPoint{Offset: spec.Production.SpawnOffset.Vector()}
		if _, err := sim.AddProducer(u, options, spawn); err != nil {
			return fmt.Errorf("producer %s: %w", spec.ID, err)
		}
	}
	return nil
}

// Vector converts [x, y, z] into a shared.Vector3
func (p Position) Vector() shared.Vector3 {
	return shared.NewVector3(p[0], p[1], p[2])
}

func (p PlayerSpec) toPlayer() (*player.Player, error) {
	id, err := shared.NewPlayerID(p.ID)
	if err != nil {
		return nil, err
	}
	pl, err := player.NewPlayer(id, p.Name, p.MaxPopulation)
	if err != nil {
		return nil, err
	}
	for _, r := range toResources(p.Resources) {
		pl.AddResource(r)
	}
	for _, id := range p.Research {
		pl.CompleteResearch(id)
	}
	return pl, nil
}

func (t TemplateSpec) toTemplate(name string) (unit.Template, error) {
	template := unit.Template{
		Name:       name,
		Population: t.Population,
		Speed:      t.Speed,
	}
	if t.Health != nil {
		initial := t.Health.Initial
		if initial == 0 {
			initial = t.Health.Max
		}
		template.Health = &unit.HealthStats{
			Max:                  t.Health.Max,
			Initial:              initial,
			RegenerationAmount:   t.Health.RegenerationAmount,
			RegenerationInterval: t.Health.RegenerationInterval,
			RegenerationDelay:    t.Health.RegenerationDelay,
			MaxAttackers:         t.Health.MaxAttackers,
		}
	}
	if t.Attack != nil {
		template.Attack = &unit.AttackStats{
			Damage:             t.Attack.Damage,
			MinRange:           t.Attack.MinRange,
			MaxRange:           t.Attack.MaxRange,
			LineOfSight:        t.Attack.LineOfSight,
			ReloadTime:         t.Attack.ReloadTime,
			RangeCheckInterval: t.Attack.RangeCheckInterval,
			RequestsNewTarget:  t.Attack.RequestsNewTarget,
		}
	}
	if t.Collector != nil {
		collectType, err := unit.ParseCollectType(t.Collector.CollectType)
		if err != nil {
			return unit.Template{}, err
		}
		template.Collector = &unit.CollectorStats{
			Capacity:        t.Collector.Capacity,
			CollectInterval: t.Collector.CollectInterval,
			CollectType:     collectType,
		}
	}
	if t.Node != nil {
		template.Node = &unit.NodeStats{
			Resource:      shared.ResourceType(t.Node.Resource),
			Quantity:      t.Node.Quantity,
			Infinite:      t.Node.Infinite,
			MaxCollectors: t.Node.MaxCollectors,
		}
	}
	if t.Depot != nil {
		accepts := make([]shared.ResourceType, 0, len(t.Depot.Accepts))
		for _, r := range t.Depot.Accepts {
			accepts = append(accepts, shared.ResourceType(r))
		}
		template.Depot = &unit.DepotStats{Accepts: accepts}
	}
	if t.Garrison != nil {
		template.Garrison = &unit.GarrisonStats{Capacity: t.Garrison.Capacity}
	}
	return template, nil
}

func (p ProducibleSpec) toProducible(templates map[string]unit.Template) (*production.Producible, error) {
	kind, err := production.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	producible := &production.Producible{
		ID:           p.ID,
		Name:         name,
		Kind:         kind,
		Duration:     p.Duration,
		Cost:         toResources(p.Cost),
		Population:   p.Population,
		Requirements: p.Requirements,
		Produces:     toResources(p.Produces),
	}
	if p.Unit != "" {
		template := templates[p.Unit]
		producible.Unit = &template
	}
	if err := producible.Validate(); err != nil {
		return nil, err
	}
	return producible, nil
}

func (p *ProductionSpec) toOptions(catalog *Catalog, defaultMaxOrders int) production.Options {
	maxOrders := p.MaxOrders
	if maxOrders == 0 {
		maxOrders = defaultMaxOrders
	}
	producibles := make([]*production.Producible, 0, len(p.Producibles))
	for _, id := range p.Producibles {
		producibles = append(producibles, catalog.Producibles[id])
	}
	return production.Options{
		Producibles:   producibles,
		MaxOrders:     maxOrders,
		UseStash:      p.UseStash,
		GroupStash:    p.GroupStash,
		GarrisonUnits: p.GarrisonUnits,
	}
}

// toResources turns a YAML map into a list sorted by resource type
func toResources(m map[string]int) []shared.ResourceQuantity {
	list := make([]shared.ResourceQuantity, 0, len(m))
	for r, q := range m {
		list = append(list, shared.NewResourceQuantity(shared.ResourceType(r), q))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Type < list[j].Type })
	return list
}
