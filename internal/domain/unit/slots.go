package unit

// Slots is the default LimitedInteractionTarget: an ordered set of assigned
// actors with an optional limit. A limit of zero or less means unlimited.
type Slots struct {
	limit    int
	assigned []*Unit
}

func NewSlots(limit int) *Slots {
	return &Slots{limit: limit}
}

func (s *Slots) Limit() int { return s.limit }
func (s *Slots) Count() int { return len(s.assigned) }

// Assign claims a slot for actor. Fails for nil, duplicate, or when full.
func (s *Slots) Assign(actor *Unit) bool {
	if actor == nil || s.IsAssigned(actor) || s.HasReachedLimit() {
		return false
	}
	s.assigned = append(s.assigned, actor)
	return true
}

// Unassign releases actor's slot. Returns false if actor held none.
func (s *Slots) Unassign(actor *Unit) bool {
	for i, a := range s.assigned {
		if a == actor {
			s.assigned = append(s.assigned[:i], s.assigned[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Slots) HasReachedLimit() bool {
	return s.limit > 0 && len(s.assigned) >= s.limit
}

func (s *Slots) IsAssigned(actor *Unit) bool {
	for _, a := range s.assigned {
		if a == actor {
			return true
		}
	}
	return false
}

// Assigned returns a copy of the assigned actors
func (s *Slots) Assigned() []*Unit {
	out := make([]*Unit, len(s.assigned))
	copy(out, s.assigned)
	return out
}
