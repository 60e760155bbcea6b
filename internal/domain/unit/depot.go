package unit

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// DepotStats configures a resource depot. An empty Accepts list takes
// every resource.
type DepotStats struct {
	Accepts []shared.ResourceType
}

// ResourceDepot credits deposited resources to its owner's account
type ResourceDepot struct {
	unit    *Unit
	accepts map[shared.ResourceType]bool
}

func newResourceDepot(u *Unit, stats DepotStats) *ResourceDepot {
	d := &ResourceDepot{unit: u}
	if len(stats.Accepts) > 0 {
		d.accepts = make(map[shared.ResourceType]bool, len(stats.Accepts))
		for _, r := range stats.Accepts {
			d.accepts[r] = true
		}
	}
	return d
}

func (d *ResourceDepot) Unit() *Unit { return d.unit }

func (d *ResourceDepot) Accepts(resource shared.ResourceType) bool {
	if d.accepts == nil {
		return true
	}
	return d.accepts[resource]
}

// Deposit credits resource to the owner. Fails when the depot is inactive,
// does not accept the resource, or has no account to credit.
func (d *ResourceDepot) Deposit(resource shared.ResourceQuantity) bool {
	if !d.unit.IsActive() || !d.Accepts(resource.Type) {
		return false
	}
	account := d.unit.Account()
	if account == nil {
		return false
	}
	account.AddResource(resource)
	return true
}
