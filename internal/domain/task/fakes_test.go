package task_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

const wood shared.ResourceType = "WOOD"
const gold shared.ResourceType = "GOLD"

// fakeMovement records commands. With instant set, SetDestination teleports
// the unit and reports arrival right away.
type fakeMovement struct {
	unit         *unit.Unit
	instant      bool
	reached      bool
	destinations []shared.Vector3
	stops        int
}

func (m *fakeMovement) SetDestination(pos shared.Vector3) {
	m.destinations = append(m.destinations, pos)
	m.reached = false
	if m.instant {
		m.unit.SetPosition(pos)
		m.reached = true
	}
}

func (m *fakeMovement) HasReachedDestination() bool { return m.reached }

func (m *fakeMovement) StopInCurrentPosition() {
	m.stops++
	m.reached = true
}

func (m *fakeMovement) lastDestination() shared.Vector3 {
	if len(m.destinations) == 0 {
		return shared.Vector3{}
	}
	return m.destinations[len(m.destinations)-1]
}

type fakeAccount struct {
	resources map[shared.ResourceType]int
}

func newFakeAccount() *fakeAccount {
	return &fakeAccount{resources: make(map[shared.ResourceType]int)}
}

func (a *fakeAccount) AddResource(r shared.ResourceQuantity) {
	a.resources[r.Type] += r.Quantity
}

type fakeCombat struct {
	enemies []*unit.Unit
	queries int
}

func (c *fakeCombat) FindNearestEnemy(attacker *unit.Unit, searchRange float64) (bool, *unit.Unit) {
	c.queries++
	for _, e := range c.enemies {
		if e.IsActive() && attacker.IsEnemy(e) && attacker.Position().DistanceTo(e.Position()) <= searchRange {
			return true, e
		}
	}
	return false, nil
}

type fakeCollection struct {
	nodes         []*unit.Unit
	depots        []*unit.Unit
	nodeQueries   []shared.Vector3
	depotQueries  int
	disableNodes  bool
	disableDepots bool
}

func (c *fakeCollection) FindNearbyNode(position shared.Vector3, resource shared.ResourceType) (bool, *unit.Unit) {
	c.nodeQueries = append(c.nodeQueries, position)
	if c.disableNodes {
		return false, nil
	}
	for _, n := range c.nodes {
		if n.Node().Resource() == resource && n.Node().IsAvailable() {
			return true, n
		}
	}
	return false, nil
}

func (c *fakeCollection) FindNearestDepot(position shared.Vector3, resource shared.ResourceType) (bool, *unit.Unit) {
	c.depotQueries++
	if c.disableDepots {
		return false, nil
	}
	for _, d := range c.depots {
		if d.IsActive() && d.Depot().Accepts(resource) {
			return true, d
		}
	}
	return false, nil
}

func newWorker(t *testing.T, owner int, capacity int, interval float64, collectType unit.CollectType) (*unit.Unit, *fakeMovement, *fakeAccount) {
	t.Helper()
	u, err := unit.NewUnit("worker", shared.MustNewPlayerID(owner), shared.Vector3{}, unit.Template{
		Name:      "Worker",
		Health:    &unit.HealthStats{Max: 10},
		Collector: &unit.CollectorStats{Capacity: capacity, CollectInterval: interval, CollectType: collectType},
	})
	require.NoError(t, err)
	m := &fakeMovement{unit: u, instant: true}
	u.SetMovement(m)
	acc := newFakeAccount()
	u.SetAccount(acc)
	return u, m, acc
}

func newNode(t *testing.T, id string, pos shared.Vector3, resource shared.ResourceType, quantity, maxCollectors int) *unit.Unit {
	t.Helper()
	u, err := unit.NewUnit(id, shared.NeutralPlayer, pos, unit.Template{
		Name: "Node",
		Node: &unit.NodeStats{Resource: resource, Quantity: quantity, MaxCollectors: maxCollectors},
	})
	require.NoError(t, err)
	return u
}

func newDepot(t *testing.T, id string, owner int, pos shared.Vector3, account unit.ResourceAccount) *unit.Unit {
	t.Helper()
	u, err := unit.NewUnit(id, shared.MustNewPlayerID(owner), pos, unit.Template{
		Name:  "Depot",
		Depot: &unit.DepotStats{},
	})
	require.NoError(t, err)
	u.SetAccount(account)
	return u
}

func newSoldier(t *testing.T, id string, owner int, pos shared.Vector3, attack unit.AttackStats, health unit.HealthStats) (*unit.Unit, *fakeMovement) {
	t.Helper()
	u, err := unit.NewUnit(id, shared.MustNewPlayerID(owner), pos, unit.Template{
		Name:   "Soldier",
		Health: &health,
		Attack: &attack,
	})
	require.NoError(t, err)
	m := &fakeMovement{unit: u}
	u.SetMovement(m)
	return u, m
}
