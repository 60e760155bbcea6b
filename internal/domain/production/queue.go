package production

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// QueueDelegate may hold back the item in production. It is asked again on
// every Produce call once the item's time has run out.
type QueueDelegate interface {
	ShouldFinishProductionFor(p *Producible) bool
}

// ProductionOrder is one queue entry: Quantity sequential items of Producible
type ProductionOrder struct {
	Producible *Producible
	Quantity   int
}

// Queue is a FIFO of production orders. Only the head item is in
// production; pending entries are untouched until they reach the head.
type Queue struct {
	orders    []ProductionOrder
	remaining float64
	delegate  QueueDelegate

	// ProductionFinished fires once per finished item with Quantity 1
	ProductionFinished shared.Event[ProductionOrder]
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Delegate() QueueDelegate     { return q.delegate }
func (q *Queue) SetDelegate(d QueueDelegate) { q.delegate = d }
func (q *Queue) Len() int                    { return len(q.orders) }
func (q *Queue) IsEmpty() bool               { return len(q.orders) == 0 }

// RemainingTime is the time left on the item in production
func (q *Queue) RemainingTime() float64 { return q.remaining }

// Orders returns a copy of the queue
func (q *Queue) Orders() []ProductionOrder {
	out := make([]ProductionOrder, len(q.orders))
	copy(out, q.orders)
	return out
}

// Current returns the producible in production
func (q *Queue) Current() (*Producible, bool) {
	if q.IsEmpty() {
		return nil, false
	}
	return q.orders[0].Producible, true
}

// AddProductionOrder appends an order. Nil producibles and non-positive
// quantities are ignored.
func (q *Queue) AddProductionOrder(p *Producible, quantity int) bool {
	if p == nil || quantity <= 0 {
		return false
	}
	q.orders = append(q.orders, ProductionOrder{Producible: p, Quantity: quantity})
	if len(q.orders) == 1 {
		q.remaining = p.Duration
	}
	return true
}

// CurrentProductionProgress is in [0,1] while something is in production,
// -1 otherwise
func (q *Queue) CurrentProductionProgress() float64 {
	if q.IsEmpty() {
		return -1
	}
	duration := q.orders[0].Producible.Duration
	if duration <= 0 {
		return 1
	}
	progress := 1 - q.remaining/duration
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Produce advances the head item by delta. When delta outlasts the item, the
// item finishes and the leftover carries into the next one, so one call can
// finish several items. A delegate veto stalls the head at zero remaining
// and drops the leftover.
func (q *Queue) Produce(delta float64) {
	if delta < 0 || q.IsEmpty() {
		return
	}
	if delta+shared.TimeEpsilon < q.remaining {
		q.remaining -= delta
		return
	}

	leftover := delta - q.remaining
	if leftover < shared.TimeEpsilon {
		leftover = 0
	}
	q.remaining = 0

	head := q.orders[0]
	if q.delegate != nil && !q.delegate.ShouldFinishProductionFor(head.Producible) {
		return
	}

	q.orders[0].Quantity--
	if q.orders[0].Quantity <= 0 {
		q.orders = q.orders[1:]
	}
	if !q.IsEmpty() {
		q.remaining = q.orders[0].Producible.Duration
	}

	q.ProductionFinished.Invoke(ProductionOrder{Producible: head.Producible, Quantity: 1})

	if leftover > 0 {
		q.Produce(leftover)
	}
}

// CancelProductionOrder removes the entry at index. Cancelling the head
// restarts timing for the next entry.
func (q *Queue) CancelProductionOrder(index int) (ProductionOrder, bool) {
	if index < 0 || index >= len(q.orders) {
		return ProductionOrder{}, false
	}
	removed := q.orders[index]
	q.orders = append(q.orders[:index:index], q.orders[index+1:]...)
	if index == 0 {
		q.remaining = 0
		if !q.IsEmpty() {
			q.remaining = q.orders[0].Producible.Duration
		}
	}
	return removed, true
}

// CancelProduction empties the queue and returns what was in it
func (q *Queue) CancelProduction() []ProductionOrder {
	removed := q.orders
	q.orders = nil
	q.remaining = 0
	return removed
}
