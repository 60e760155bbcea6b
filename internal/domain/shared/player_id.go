package shared

import "fmt"

// PlayerID is a value object identifying the owner of units and producers.
// The zero value is the neutral owner (resource nodes, wildlife).
type PlayerID struct {
	value int
}

// NeutralPlayer owns entities that belong to nobody
var NeutralPlayer = PlayerID{}

// NewPlayerID creates a new PlayerID value object
func NewPlayerID(id int) (PlayerID, error) {
	if id <= 0 {
		return PlayerID{}, fmt.Errorf("player_id must be positive")
	}
	return PlayerID{value: id}, nil
}

// MustNewPlayerID creates a new PlayerID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from a validated scenario)
func MustNewPlayerID(id int) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

func (p PlayerID) Value() int { return p.value }

func (p PlayerID) String() string {
	if p.IsNeutral() {
		return "neutral"
	}
	return fmt.Sprintf("%d", p.value)
}

func (p PlayerID) Equals(other PlayerID) bool { return p.value == other.value }

// IsNeutral checks if this is the neutral owner
func (p PlayerID) IsNeutral() bool { return p.value == 0 }
