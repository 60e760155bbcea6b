package shared

import (
	"fmt"
	"sort"
)

// ResourceType names a collectable/spendable resource (WOOD, GOLD, ...)
type ResourceType string

// ResourceQuantity is an integral amount of one resource
type ResourceQuantity struct {
	Type     ResourceType
	Quantity int
}

func NewResourceQuantity(resource ResourceType, quantity int) ResourceQuantity {
	return ResourceQuantity{Type: resource, Quantity: quantity}
}

func (r ResourceQuantity) IsEmpty() bool {
	return r.Quantity <= 0
}

func (r ResourceQuantity) String() string {
	return fmt.Sprintf("%d %s", r.Quantity, r.Type)
}

// MultiplyCost scales every entry of a cost list by factor
func MultiplyCost(cost []ResourceQuantity, factor int) []ResourceQuantity {
	result := make([]ResourceQuantity, 0, len(cost))
	for _, c := range cost {
		result = append(result, ResourceQuantity{Type: c.Type, Quantity: c.Quantity * factor})
	}
	return result
}

// SumResources merges quantities of the same resource into one entry each.
// Output is sorted by resource type so callers get a stable order.
func SumResources(lists ...[]ResourceQuantity) []ResourceQuantity {
	totals := make(map[ResourceType]int)
	for _, list := range lists {
		for _, r := range list {
			totals[r.Type] += r.Quantity
		}
	}

	result := make([]ResourceQuantity, 0, len(totals))
	for resource, quantity := range totals {
		if quantity == 0 {
			continue
		}
		result = append(result, ResourceQuantity{Type: resource, Quantity: quantity})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}
