package player

import (
	"sort"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Player is one side of a match: its stockpile, population and research
type Player struct {
	id            shared.PlayerID
	name          string
	resources     map[shared.ResourceType]int
	population    int
	maxPopulation int
	researched    map[string]bool
	units         map[string]*unit.Unit
	unitCounts    map[string]int

	ResourcesChanged shared.Event[shared.ResourceQuantity]
	ResearchComplete shared.Event[string]
}

// NewPlayer creates a player. maxPopulation 0 means no limit.
func NewPlayer(id shared.PlayerID, name string, maxPopulation int) (*Player, error) {
	if id.IsNeutral() {
		return nil, shared.NewValidationError("id", "the neutral player cannot own a stockpile")
	}
	if maxPopulation < 0 {
		return nil, shared.NewValidationError("max_population", "cannot be negative")
	}
	return &Player{
		id:            id,
		name:          name,
		resources:     make(map[shared.ResourceType]int),
		maxPopulation: maxPopulation,
		researched:    make(map[string]bool),
		units:         make(map[string]*unit.Unit),
		unitCounts:    make(map[string]int),
	}, nil
}

func (p *Player) ID() shared.PlayerID { return p.id }
func (p *Player) Name() string        { return p.name }
func (p *Player) Population() int     { return p.population }
func (p *Player) MaxPopulation() int  { return p.maxPopulation }

func (p *Player) SetMaxPopulation(limit int) {
	if limit >= 0 {
		p.maxPopulation = limit
	}
}

// Resource returns the stockpiled amount of r
func (p *Player) Resource(r shared.ResourceType) int {
	return p.resources[r]
}

// Resources returns the stockpile sorted by resource type
func (p *Player) Resources() []shared.ResourceQuantity {
	list := make([]shared.ResourceQuantity, 0, len(p.resources))
	for r, q := range p.resources {
		list = append(list, shared.NewResourceQuantity(r, q))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Type < list[j].Type })
	return list
}

// AddResource credits the stockpile; collectors and depots call this
func (p *Player) AddResource(r shared.ResourceQuantity) {
	if r.IsEmpty() {
		return
	}
	p.resources[r.Type] += r.Quantity
	p.ResourcesChanged.Invoke(r)
}

// Refund credits every entry of resources
func (p *Player) Refund(resources []shared.ResourceQuantity) {
	for _, r := range resources {
		p.AddResource(r)
	}
}

// Spend deducts cost only if every entry is affordable
func (p *Player) Spend(producibleID string, cost []shared.ResourceQuantity) error {
	for _, c := range shared.SumResources(cost) {
		if have := p.resources[c.Type]; have < c.Quantity {
			return shared.NewInsufficientResourcesError(producibleID, c.Type, c.Quantity, have)
		}
	}
	for _, c := range cost {
		if c.Quantity == 0 {
			continue
		}
		p.resources[c.Type] -= c.Quantity
		p.ResourcesChanged.Invoke(shared.NewResourceQuantity(c.Type, -c.Quantity))
	}
	return nil
}

// Research

func (p *Player) HasResearched(id string) bool { return p.researched[id] }

func (p *Player) CompleteResearch(id string) {
	if p.researched[id] {
		return
	}
	p.researched[id] = true
	p.ResearchComplete.Invoke(id)
}

// Researched returns completed research IDs in sorted order
func (p *Player) Researched() []string {
	ids := make([]string, 0, len(p.researched))
	for id := range p.researched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MissingRequirements returns the requirements that are neither completed
// research nor a unit kind the player currently owns
func (p *Player) MissingRequirements(requirements []string) []string {
	var missing []string
	for _, req := range requirements {
		if p.researched[req] || p.unitCounts[req] > 0 {
			continue
		}
		missing = append(missing, req)
	}
	return missing
}

// Units

// HasPopulationFor reports whether population more can fit under the limit
func (p *Player) HasPopulationFor(population int) bool {
	if p.maxPopulation == 0 || population <= 0 {
		return true
	}
	return p.population+population <= p.maxPopulation
}

// RegisterUnit adds a unit to the player's roster and sets its account.
// Registering twice is a no-op.
func (p *Player) RegisterUnit(u *unit.Unit) {
	if u == nil {
		return
	}
	if _, ok := p.units[u.ID()]; ok {
		return
	}
	p.units[u.ID()] = u
	p.unitCounts[u.Name()]++
	p.population += u.Population()
	u.SetAccount(p)
}

// UnregisterUnit removes a unit from the roster
func (p *Player) UnregisterUnit(u *unit.Unit) {
	if u == nil {
		return
	}
	if _, ok := p.units[u.ID()]; !ok {
		return
	}
	delete(p.units, u.ID())
	p.unitCounts[u.Name()]--
	if p.unitCounts[u.Name()] <= 0 {
		delete(p.unitCounts, u.Name())
	}
	p.population -= u.Population()
}

// UnitCount returns how many units named name the player owns
func (p *Player) UnitCount(name string) int { return p.unitCounts[name] }

// UnitCounts returns a copy of the per-kind roster counts
func (p *Player) UnitCounts() map[string]int {
	out := make(map[string]int, len(p.unitCounts))
	for k, v := range p.unitCounts {
		out[k] = v
	}
	return out
}

// Snapshot captures the player's persistent state
func (p *Player) Snapshot(tick int64) Snapshot {
	return Snapshot{
		PlayerID:      p.id.Value(),
		Name:          p.name,
		Tick:          tick,
		Resources:     p.Resources(),
		Population:    p.population,
		MaxPopulation: p.maxPopulation,
		Researched:    p.Researched(),
		UnitCounts:    p.UnitCounts(),
	}
}
