package scenario

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scenario is a match description: players, unit templates, producibles,
// the starting map and a timeline of orders
type Scenario struct {
	Name             string  `yaml:"name" validate:"required"`
	TickLength       float64 `yaml:"tick_length" validate:"min=0"`
	Ticks            int     `yaml:"ticks" validate:"min=0"`
	NodeSearchRadius float64 `yaml:"node_search_radius" validate:"min=0"`

	Players     []PlayerSpec            `yaml:"players" validate:"required,min=1,dive"`
	Templates   map[string]TemplateSpec `yaml:"templates" validate:"dive"`
	Producibles []ProducibleSpec        `yaml:"producibles" validate:"dive"`
	Units       []UnitSpec              `yaml:"units" validate:"dive"`
	Orders      []OrderSpec             `yaml:"orders" validate:"dive"`
}

// PlayerSpec seeds a player
type PlayerSpec struct {
	ID            int            `yaml:"id" validate:"required,min=1"`
	Name          string         `yaml:"name" validate:"required"`
	MaxPopulation int            `yaml:"max_population" validate:"min=0"`
	Resources     map[string]int `yaml:"resources"`
	Research      []string       `yaml:"research"`
}

// TemplateSpec mirrors unit.Template; absent sections mean the capability is missing
type TemplateSpec struct {
	Population int            `yaml:"population" validate:"min=0"`
	Speed      float64        `yaml:"speed" validate:"min=0"`
	Health     *HealthSpec    `yaml:"health"`
	Attack     *AttackSpec    `yaml:"attack"`
	Collector  *CollectorSpec `yaml:"collector"`
	Node       *NodeSpec      `yaml:"node"`
	Depot      *DepotSpec     `yaml:"depot"`
	Garrison   *GarrisonSpec  `yaml:"garrison"`
}

type HealthSpec struct {
	Max                  int     `yaml:"max" validate:"min=1"`
	Initial              int     `yaml:"initial" validate:"min=0"`
	RegenerationAmount   int     `yaml:"regeneration_amount" validate:"min=0"`
	RegenerationInterval float64 `yaml:"regeneration_interval" validate:"min=0"`
	RegenerationDelay    float64 `yaml:"regeneration_delay" validate:"min=0"`
	MaxAttackers         int     `yaml:"max_attackers" validate:"min=0"`
}

type AttackSpec struct {
	Damage             int     `yaml:"damage" validate:"min=0"`
	MinRange           float64 `yaml:"min_range" validate:"min=0"`
	MaxRange           float64 `yaml:"max_range" validate:"gtefield=MinRange"`
	LineOfSight        float64 `yaml:"line_of_sight" validate:"min=0"`
	ReloadTime         float64 `yaml:"reload_time" validate:"min=0"`
	RangeCheckInterval float64 `yaml:"range_check_interval" validate:"min=0"`
	RequestsNewTarget  bool    `yaml:"requests_new_target"`
}

type CollectorSpec struct {
	Capacity        int     `yaml:"capacity" validate:"min=1"`
	CollectInterval float64 `yaml:"collect_interval" validate:"gt=0"`
	CollectType     string  `yaml:"collect_type" validate:"omitempty,oneof=GATHER_AND_DEPOSIT REALTIME_COLLECT STACK_AND_COLLECT"`
}

type NodeSpec struct {
	Resource      string `yaml:"resource" validate:"required"`
	Quantity      int    `yaml:"quantity" validate:"min=0"`
	Infinite      bool   `yaml:"infinite"`
	MaxCollectors int    `yaml:"max_collectors" validate:"min=0"`
}

type DepotSpec struct {
	Accepts []string `yaml:"accepts"`
}

type GarrisonSpec struct {
	Capacity int `yaml:"capacity" validate:"min=0"`
}

// ProducibleSpec mirrors production.Producible. Unit names a template.
type ProducibleSpec struct {
	ID           string         `yaml:"id" validate:"required"`
	Name         string         `yaml:"name"`
	Kind         string         `yaml:"kind" validate:"required,oneof=UNIT RESOURCE RESEARCH"`
	Duration     float64        `yaml:"duration" validate:"min=0"`
	Cost         map[string]int `yaml:"cost"`
	Population   int            `yaml:"population" validate:"min=0"`
	Requirements []string       `yaml:"requirements"`
	Unit         string         `yaml:"unit" validate:"required_if=Kind UNIT"`
	Produces     map[string]int `yaml:"produces" validate:"required_if=Kind RESOURCE"`
}

// UnitSpec places a unit. Owner 0 is neutral.
type UnitSpec struct {
	ID         string          `yaml:"id" validate:"required"`
	Template   string          `yaml:"template" validate:"required"`
	Owner      int             `yaml:"owner" validate:"min=0"`
	Position   Position        `yaml:"position"`
	Production *ProductionSpec `yaml:"production"`
}

// ProductionSpec attaches production to a unit
type ProductionSpec struct {
	Producibles   []string `yaml:"producibles" validate:"required,min=1"`
	MaxOrders     int      `yaml:"max_orders" validate:"min=0"`
	UseStash      bool     `yaml:"use_stash"`
	GroupStash    bool     `yaml:"group_stash"`
	GarrisonUnits bool     `yaml:"garrison_units"`
	SpawnOffset   Position `yaml:"spawn_offset"`
}

// Position is written [x, y, z]
type Position [3]float64

// Order types accepted in the timeline
const (
	OrderMove       = "move"
	OrderAttackMove = "attack_move"
	OrderAttack     = "attack"
	OrderCollect    = "collect"
	OrderCollectOne = "collect_once"
	OrderQueue      = "queue"
	OrderCancel     = "cancel"
	OrderClaim      = "claim"
)

// OrderSpec is one timeline entry, issued before tick AtTick runs.
// Select is a selection expression resolved when the order is issued and
// added to Units; it lets orders reach units spawned during the match.
type OrderSpec struct {
	AtTick     int64    `yaml:"at_tick" validate:"min=0"`
	Type       string   `yaml:"type" validate:"required,oneof=move attack_move attack collect collect_once queue cancel claim"`
	Units      []string `yaml:"units"`
	Select     string   `yaml:"select"`
	Target     string   `yaml:"target"`
	Position   Position `yaml:"position"`
	Spacing    float64  `yaml:"spacing" validate:"min=0"`
	Producer   string   `yaml:"producer"`
	Producible string   `yaml:"producible"`
	Quantity   int      `yaml:"quantity" validate:"min=0"`
	Index      *int     `yaml:"index"`
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field constraints and cross references
func (s *Scenario) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return formatValidationError(err)
	}

	var problems []string
	players := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if players[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate player %d", p.ID))
		}
		players[p.ID] = true
	}

	producibles := make(map[string]bool, len(s.Producibles))
	for _, p := range s.Producibles {
		if producibles[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate producible %s", p.ID))
		}
		producibles[p.ID] = true
		if p.Unit != "" {
			if _, ok := s.Templates[p.Unit]; !ok {
				problems = append(problems, fmt.Sprintf("producible %s: unknown template %s", p.ID, p.Unit))
			}
		}
	}

	units := make(map[string]bool, len(s.Units))
	for _, u := range s.Units {
		if units[u.ID] {
			problems = append(problems, fmt.Sprintf("duplicate unit %s", u.ID))
		}
		units[u.ID] = true
		if _, ok := s.Templates[u.Template]; !ok {
			problems = append(problems, fmt.Sprintf("unit %s: unknown template %s", u.ID, u.Template))
		}
		if u.Owner != 0 && !players[u.Owner] {
			problems = append(problems, fmt.Sprintf("unit %s: unknown owner %d", u.ID, u.Owner))
		}
		if u.Production != nil {
			if u.Owner == 0 {
				problems = append(problems, fmt.Sprintf("unit %s: neutral units cannot produce", u.ID))
			}
			for _, id := range u.Production.Producibles {
				if !producibles[id] {
					problems = append(problems, fmt.Sprintf("unit %s: unknown producible %s", u.ID, id))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid scenario:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid scenario:\n  %s", strings.Join(messages, "\n  "))
}
