package production

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Kind is what finishing a producible yields
type Kind string

const (
	KindUnit     Kind = "UNIT"
	KindResource Kind = "RESOURCE"
	KindResearch Kind = "RESEARCH"
)

// ParseKind converts a config string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindUnit, KindResource, KindResearch:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown producible kind: %s", s)
	}
}

// Producible is anything a player can produce. Identity is the ID.
type Producible struct {
	ID       string
	Name     string
	Kind     Kind
	Duration float64
	Cost     []shared.ResourceQuantity

	// Population overrides the unit template's population when positive
	Population   int
	Requirements []string

	// Unit is set for KindUnit
	Unit *unit.Template
	// Produces is what one KindResource item grants
	Produces []shared.ResourceQuantity
}

// Validate checks the producible is internally consistent
func (p *Producible) Validate() error {
	if p.ID == "" {
		return shared.NewValidationError("producible.id", "cannot be empty")
	}
	if p.Duration < 0 {
		return shared.NewValidationError("producible.duration", fmt.Sprintf("%s: cannot be negative", p.ID))
	}
	for _, c := range p.Cost {
		if c.Quantity < 0 {
			return shared.NewValidationError("producible.cost", fmt.Sprintf("%s: negative %s", p.ID, c.Type))
		}
	}
	switch p.Kind {
	case KindUnit:
		if p.Unit == nil {
			return shared.NewValidationError("producible.unit", fmt.Sprintf("%s: unit producible needs a template", p.ID))
		}
	case KindResource:
		if len(p.Produces) == 0 {
			return shared.NewValidationError("producible.produces", fmt.Sprintf("%s: resource producible yields nothing", p.ID))
		}
	case KindResearch:
	default:
		return shared.NewValidationError("producible.kind", fmt.Sprintf("%s: unknown kind %q", p.ID, p.Kind))
	}
	return nil
}

// UnitPopulation is the population one produced unit occupies
func (p *Producible) UnitPopulation() int {
	if p.Population > 0 {
		return p.Population
	}
	if p.Unit != nil {
		return p.Unit.Population
	}
	return 0
}

func (p *Producible) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
