package world

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

// Factory builds units from templates and gives mobile ones a LinearMover.
// It does not place them in the registry.
type Factory struct{}

// CreateUnit creates a unit with a generated ID
func (f *Factory) CreateUnit(template unit.Template, owner shared.PlayerID, position shared.Vector3) (*unit.Unit, error) {
	return f.CreateUnitWithID(utils.GenerateEntityID(template.Name), template, owner, position)
}

// CreateUnitWithID creates a unit with a caller chosen ID, as scenario files do
func (f *Factory) CreateUnitWithID(id string, template unit.Template, owner shared.PlayerID, position shared.Vector3) (*unit.Unit, error) {
	if template.Speed < 0 {
		return nil, shared.NewValidationError("speed", fmt.Sprintf("%s: cannot be negative", template.Name))
	}
	u, err := unit.NewUnit(id, owner, position, template)
	if err != nil {
		return nil, err
	}
	if template.Speed > 0 {
		NewLinearMover(u, template.Speed)
	}
	return u, nil
}
