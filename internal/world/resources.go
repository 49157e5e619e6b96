package world

import (
	"errors"
	"fmt"
)

// ErrInsufficient is returned when the pool cannot pay a cost.
var ErrInsufficient = errors.New("world: insufficient resources")

// ResourceKind identifies a gatherable resource.
type ResourceKind int

const (
	Gold ResourceKind = iota
	Wood
)

func (k ResourceKind) String() string {
	switch k {
	case Gold:
		return "gold"
	case Wood:
		return "wood"
	}
	return "unknown"
}

// ResourcePool is the player's stockpile.
type ResourcePool struct {
	Gold uint32 `json:"gold"`
	Wood uint32 `json:"wood"`
}

// Add credits amount of kind to the pool.
func (p *ResourcePool) Add(kind ResourceKind, amount uint32) {
	switch kind {
	case Gold:
		p.Gold += amount
	case Wood:
		p.Wood += amount
	}
}

// CanAfford reports whether the pool holds at least cost.
func (p ResourcePool) CanAfford(cost ResourcePool) bool {
	return p.Gold >= cost.Gold && p.Wood >= cost.Wood
}

// Spend deducts cost from the pool, or leaves it untouched and returns ErrInsufficient.
func (p *ResourcePool) Spend(cost ResourcePool) error {
	if !p.CanAfford(cost) {
		return fmt.Errorf("%w: need %d gold %d wood, have %d gold %d wood",
			ErrInsufficient, cost.Gold, cost.Wood, p.Gold, p.Wood)
	}
	p.Gold -= cost.Gold
	p.Wood -= cost.Wood
	return nil
}
