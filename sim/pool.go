// Implements the fixed-capacity slot allocators for the three resource kinds.

package sim

import "fmt"

// ResourcePool is a fixed-capacity slot allocator for one resource kind.
// A slot is held by at most one process at a time and the number of
// occupied slots never exceeds the capacity.
type ResourcePool struct {
	Kind     ResourceKind
	occupied []bool
	used     int
}

// NewResourcePool creates a pool with capacity free slots.
func NewResourcePool(kind ResourceKind, capacity int) *ResourcePool {
	if capacity < 1 {
		panic(fmt.Sprintf("NewResourcePool: %s capacity must be positive, got %d", kind, capacity))
	}
	return &ResourcePool{Kind: kind, occupied: make([]bool, capacity)}
}

// Capacity returns the number of slots in the pool.
func (p *ResourcePool) Capacity() int { return len(p.occupied) }

// Occupied returns the number of slots currently held.
func (p *ResourcePool) Occupied() int { return p.used }

// Available reports whether at least one slot is free.
func (p *ResourcePool) Available() bool { return p.used < len(p.occupied) }

// Request grants the lowest free slot. ok is false when the pool is full.
func (p *ResourcePool) Request() (slot int, ok bool) {
	if !p.Available() {
		return NoSlot, false
	}
	for i, busy := range p.occupied {
		if !busy {
			p.occupied[i] = true
			p.used++
			return i, true
		}
	}
	panic(fmt.Sprintf("Request: %s pool reports %d/%d used but has no free slot", p.Kind, p.used, len(p.occupied)))
}

// Release frees slot. Releasing a free slot is a no-op.
func (p *ResourcePool) Release(slot int) {
	if slot < 0 || slot >= len(p.occupied) {
		panic(fmt.Sprintf("Release: %s slot %d out of range [0, %d)", p.Kind, slot, len(p.occupied)))
	}
	if p.occupied[slot] {
		p.occupied[slot] = false
		p.used--
	}
}

// Slots returns a copy of the per-slot occupancy.
func (p *ResourcePool) Slots() []bool {
	out := make([]bool, len(p.occupied))
	copy(out, p.occupied)
	return out
}

// Pools bundles one ResourcePool per resource kind.
type Pools struct {
	pools [NumResourceKinds]*ResourcePool
}

// NewPools creates the three pools with the configured capacities.
func NewPools(capacities Capacities) *Pools {
	ps := &Pools{}
	for _, kind := range ResourceKinds {
		ps.pools[kind] = NewResourcePool(kind, capacities.Of(kind))
	}
	return ps
}

// Pool returns the pool for kind.
func (ps *Pools) Pool(kind ResourceKind) *ResourcePool {
	return ps.pools[kind.mustIndex()]
}

// Request grants a slot of kind, or returns ok=false when none is free.
func (ps *Pools) Request(kind ResourceKind) (int, bool) {
	return ps.Pool(kind).Request()
}

// Release returns slot to the pool of kind.
func (ps *Pools) Release(kind ResourceKind, slot int) {
	ps.Pool(kind).Release(slot)
}

// Available reports whether kind has a free slot.
func (ps *Pools) Available(kind ResourceKind) bool {
	return ps.Pool(kind).Available()
}
