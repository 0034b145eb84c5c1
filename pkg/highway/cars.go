package highway

import "highway_router/pkg/ordered"

// NoCar is the cached maximum range of a station without vehicles.
const NoCar int64 = -1

// Cars is the multiset of vehicle ranges parked at one station.
// Equal ranges share one tree entry holding their multiplicity, so the
// tree depth depends only on the number of distinct ranges.
type Cars struct {
	tree ordered.Tree[int64, int]
	size int
	max  int64
}

// NewCars returns a multiset holding ranges.
func NewCars(ranges ...int64) *Cars {
	c := &Cars{max: NoCar}
	for _, r := range ranges {
		c.Insert(r)
	}
	return c
}

// Insert parks one vehicle with range r.
func (c *Cars) Insert(r int64) {
	n, inserted := c.tree.Insert(r, 1)
	if !inserted {
		n.Value++
	}
	c.size++
	if r > c.max {
		c.max = r
	}
}

// Delete removes one vehicle with range r and reports whether one existed.
func (c *Cars) Delete(r int64) bool {
	n := c.tree.Get(r)
	if n == nil {
		return false
	}
	c.size--
	if n.Value > 1 {
		n.Value--
		return true
	}
	c.tree.DeleteNode(n)
	if r == c.max {
		if top := c.tree.Max(); top != nil {
			c.max = top.Key()
		} else {
			c.max = NoCar
		}
	}
	return true
}

// Max returns the largest range, or NoCar when empty.
func (c *Cars) Max() int64 { return c.max }

// Len returns the number of vehicles.
func (c *Cars) Len() int { return c.size }

// Count returns how many vehicles have range r.
func (c *Cars) Count(r int64) int {
	if n := c.tree.Get(r); n != nil {
		return n.Value
	}
	return 0
}

// Ranges lists every vehicle range in ascending order, duplicates included.
func (c *Cars) Ranges() []int64 {
	out := make([]int64, 0, c.size)
	c.tree.Ascend(func(n *ordered.Node[int64, int]) bool {
		for i := 0; i < n.Value; i++ {
			out = append(out, n.Key())
		}
		return true
	})
	return out
}

func (c *Cars) clear() {
	c.tree.Clear()
	c.size = 0
	c.max = NoCar
}
