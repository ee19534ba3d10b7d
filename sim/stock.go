package sim

import (
	"fmt"
	"slices"
	"strings"
)

// Stock is the mutable inventory of named resource quantities.
// Quantities are never negative and zero entries are removed, so the
// inventory only ever holds resources that are actually present.
//
// Thread-safety: NOT thread-safe. Every Individual works on its own Clone.
type Stock struct {
	inventory map[string]int
	optimize  map[string]struct{}
}

// NewStock creates an empty Stock.
func NewStock() *Stock {
	return &Stock{
		inventory: make(map[string]int),
		optimize:  make(map[string]struct{}),
	}
}

// Add increments a resource. Non-positive quantities are ignored.
func (s *Stock) Add(resource string, qty int) {
	if qty <= 0 {
		return
	}
	s.inventory[resource] += qty
}

// Consume decrements a resource by qty. It returns false and leaves the
// inventory unchanged when fewer than qty units are available.
func (s *Stock) Consume(resource string, qty int) bool {
	if qty <= 0 {
		return true
	}
	have := s.inventory[resource]
	if have < qty {
		return false
	}
	if have == qty {
		delete(s.inventory, resource)
	} else {
		s.inventory[resource] = have - qty
	}
	return true
}

// Quantity returns the current amount of a resource, 0 when absent.
func (s *Stock) Quantity(resource string) int {
	return s.inventory[resource]
}

// CanLaunch reports whether every input of p is available at once.
// A process without inputs is always launchable.
func (s *Stock) CanLaunch(p *Process) bool {
	for _, in := range p.Inputs {
		if s.inventory[in.Resource] < in.Amount {
			return false
		}
	}
	return true
}

// Consumes takes all inputs of p from the stock, or none of them.
func (s *Stock) Consumes(p *Process) bool {
	if !s.CanLaunch(p) {
		return false
	}
	for _, in := range p.Inputs {
		s.Consume(in.Resource, in.Amount)
	}
	return true
}

// Produce adds every output of p to the stock.
func (s *Stock) Produce(p *Process) {
	for _, out := range p.Outputs {
		s.Add(out.Resource, out.Amount)
	}
}

// Clone returns a deep copy, optimize set included.
func (s *Stock) Clone() *Stock {
	c := &Stock{
		inventory: make(map[string]int, len(s.inventory)),
		optimize:  make(map[string]struct{}, len(s.optimize)),
	}
	for name, qty := range s.inventory {
		c.inventory[name] = qty
	}
	for name := range s.optimize {
		c.optimize[name] = struct{}{}
	}
	return c
}

// SetOptimize replaces the set of resources to optimize.
func (s *Stock) SetOptimize(resources ...string) {
	s.optimize = make(map[string]struct{}, len(resources))
	for _, r := range resources {
		s.optimize[r] = struct{}{}
	}
}

// IsOptimized reports whether resource belongs to the optimize set.
func (s *Stock) IsOptimized(resource string) bool {
	_, ok := s.optimize[resource]
	return ok
}

// Optimize returns the optimize set, sorted.
func (s *Stock) Optimize() []string {
	names := make([]string, 0, len(s.optimize))
	for name := range s.optimize {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resources returns the names of the resources currently held, sorted.
func (s *Stock) Resources() []string {
	names := make([]string, 0, len(s.inventory))
	for name := range s.inventory {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot returns a copy of the inventory.
func (s *Stock) Snapshot() map[string]int {
	snap := make(map[string]int, len(s.inventory))
	for name, qty := range s.inventory {
		snap[name] = qty
	}
	return snap
}

// Total returns the sum of all quantities.
func (s *Stock) Total() int {
	total := 0
	for _, qty := range s.inventory {
		total += qty
	}
	return total
}

// Len returns the number of distinct resources held.
func (s *Stock) Len() int {
	return len(s.inventory)
}

func (s *Stock) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, name := range s.Resources() {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%d", name, s.inventory[name])
	}
	sb.WriteString("]")
	return sb.String()
}
