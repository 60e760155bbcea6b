package selection

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// UnitView is the environment selection expressions are evaluated against.
// Field names are what expressions refer to, e.g.
//
//	Owner == 1 && HasAttack && HealthRatio < 0.5
type UnitView struct {
	ID           string
	Name         string
	Owner        int
	X, Y, Z      float64
	Active       bool
	Operational  bool
	HasAttack    bool
	IsCollector  bool
	IsNode       bool
	IsDepot      bool
	HasGarrison  bool
	Health       int
	MaxHealth    int
	HealthRatio  float64
	Carrying     int
	CarryingType string
}

// ViewOf flattens a unit into a UnitView
func ViewOf(u *unit.Unit) UnitView {
	pos := u.Position()
	v := UnitView{
		ID:          u.ID(),
		Name:        u.Name(),
		Owner:       u.Owner().Value(),
		X:           pos.X,
		Y:           pos.Y,
		Z:           pos.Z,
		Active:      u.IsActive(),
		Operational: u.IsOperational(),
		HasAttack:   u.Attack() != nil,
		IsCollector: u.Collector() != nil,
		IsNode:      u.Node() != nil,
		IsDepot:     u.Depot() != nil,
		HasGarrison: u.Garrison() != nil,
	}
	if h := u.Health(); h != nil {
		v.Health = h.Current()
		v.MaxHealth = h.Max()
		v.HealthRatio = h.Ratio()
	}
	if c := u.Collector(); c != nil {
		r := c.CollectedResource()
		v.Carrying = r.Quantity
		v.CarryingType = string(r.Type)
	}
	return v
}

// Filter decides whether a unit belongs to a selection
type Filter interface {
	Matches(u *unit.Unit) (bool, error)
}

// FilterFunc adapts a plain predicate
type FilterFunc func(u *unit.Unit) bool

func (f FilterFunc) Matches(u *unit.Unit) (bool, error) { return f(u), nil }

// ExprFilter is a compiled boolean expression over UnitView
type ExprFilter struct {
	source  string
	program *vm.Program
}

// Compile parses and type-checks source against UnitView
func Compile(source string) (*ExprFilter, error) {
	prog, err := expr.Compile(source, expr.Env(UnitView{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile selection %q: %w", source, err)
	}
	return &ExprFilter{source: source, program: prog}, nil
}

func (f *ExprFilter) Source() string { return f.source }

func (f *ExprFilter) Matches(u *unit.Unit) (bool, error) {
	if u == nil {
		return false, nil
	}
	result, err := vm.Run(f.program, ViewOf(u))
	if err != nil {
		return false, fmt.Errorf("evaluate selection %q on %s: %w", f.source, u.ID(), err)
	}
	match, _ := result.(bool)
	return match, nil
}

type allOf []Filter

// And matches when every filter matches. An empty And matches everything.
func And(filters ...Filter) Filter { return allOf(filters) }

func (a allOf) Matches(u *unit.Unit) (bool, error) {
	for _, f := range a {
		ok, err := f.Matches(u)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

type anyOf []Filter

// Or matches when any filter matches. An empty Or matches nothing.
func Or(filters ...Filter) Filter { return anyOf(filters) }

func (a anyOf) Matches(u *unit.Unit) (bool, error) {
	for _, f := range a {
		ok, err := f.Matches(u)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Not inverts a filter
func Not(f Filter) Filter {
	return FilterFunc(func(u *unit.Unit) bool {
		ok, err := f.Matches(u)
		return err == nil && !ok
	})
}

// Select returns the units matching f, preserving order
func Select(units []*unit.Unit, f Filter) ([]*unit.Unit, error) {
	var selected []*unit.Unit
	for _, u := range units {
		ok, err := f.Matches(u)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, u)
		}
	}
	return selected, nil
}
