// Package spatial provides a quadtree over axis-aligned bounding boxes,
// used to accelerate hit-testing and erasing on the whiteboard. The tree is
// a cache: the document's stroke and text sequences stay authoritative, and
// callers re-verify candidates with exact hit tests.
package spatial

import "github.com/quillboard/quillboard/backend-go/internal/geom"

// DefaultCapacity is the number of items a node holds before subdividing.
const DefaultCapacity = 8

// Index is a region-partitioning tree of item ids keyed by their bounds.
// Items are identified by stable string ids, so removal does not depend on
// reference identity.
type Index struct {
	root     *node
	capacity int
	items    map[string]geom.Bounds // id -> last inserted bounds
}

type entry struct {
	id     string
	bounds geom.Bounds
}

type node struct {
	bounds   geom.Bounds
	entries  []entry
	children []*node // nil for a leaf, else exactly four quadrants
}

// New creates an index covering the given initial region. The region grows
// automatically when items outside it are inserted, so the unbounded plane
// never loses items.
func New(bounds geom.Bounds, capacity int) *Index {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Index{
		root:     &node{bounds: bounds},
		capacity: capacity,
		items:    make(map[string]geom.Bounds),
	}
}

// Len returns the number of items in the index.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Insert adds an item under the given id. Re-inserting an existing id
// replaces its bounds.
func (ix *Index) Insert(id string, bounds geom.Bounds) {
	if _, ok := ix.items[id]; ok {
		ix.Remove(id)
	}

	if !ix.root.bounds.ContainsBounds(bounds) {
		ix.grow(bounds)
	}

	ix.items[id] = bounds
	ix.root.insert(entry{id: id, bounds: bounds}, ix.capacity)
}

// Remove deletes the item with the given id. Removing an absent id is a
// no-op and returns false.
func (ix *Index) Remove(id string) bool {
	bounds, ok := ix.items[id]
	if !ok {
		return false
	}
	delete(ix.items, id)
	return ix.root.remove(id, bounds)
}

// Retrieve returns the ids of all items whose bounds may intersect the
// query. The result is a superset of the true matches; callers re-verify
// with exact geometry.
func (ix *Index) Retrieve(query geom.Bounds) []string {
	var found []string
	ix.root.retrieve(query, &found)
	return found
}

// Clear removes all items, keeping the current region.
func (ix *Index) Clear() {
	ix.root = &node{bounds: ix.root.bounds}
	ix.items = make(map[string]geom.Bounds)
}

// grow expands the root region to cover out-of-region bounds and rebuilds.
// Rebuilding is O(n) but growth only happens when the user draws outside
// everything seen so far.
func (ix *Index) grow(bounds geom.Bounds) {
	region := ix.root.bounds.Union(bounds)
	// Overshoot so a run of inserts marching outward doesn't rebuild per item.
	region = region.Pad(max(region.Width(), region.Height()) / 2)

	ix.root = &node{bounds: region}
	for id, b := range ix.items {
		ix.root.insert(entry{id: id, bounds: b}, ix.capacity)
	}
}

func (n *node) insert(e entry, capacity int) {
	if n.children != nil {
		if child := n.childContaining(e.bounds); child != nil {
			child.insert(e, capacity)
			return
		}
		// Straddles a quadrant boundary: keep it here.
		n.entries = append(n.entries, e)
		return
	}

	if len(n.entries) < capacity {
		n.entries = append(n.entries, e)
		return
	}

	n.subdivide()

	// Redistribute through the normal path; oversized entries stay here.
	old := n.entries
	n.entries = nil
	for _, prev := range old {
		n.insert(prev, capacity)
	}
	n.insert(e, capacity)
}

func (n *node) subdivide() {
	midX := (n.bounds.MinX + n.bounds.MaxX) / 2
	midY := (n.bounds.MinY + n.bounds.MaxY) / 2

	n.children = []*node{
		{bounds: geom.Bounds{MinX: n.bounds.MinX, MinY: n.bounds.MinY, MaxX: midX, MaxY: midY}},
		{bounds: geom.Bounds{MinX: midX, MinY: n.bounds.MinY, MaxX: n.bounds.MaxX, MaxY: midY}},
		{bounds: geom.Bounds{MinX: n.bounds.MinX, MinY: midY, MaxX: midX, MaxY: n.bounds.MaxY}},
		{bounds: geom.Bounds{MinX: midX, MinY: midY, MaxX: n.bounds.MaxX, MaxY: n.bounds.MaxY}},
	}
}

// childContaining returns the single child fully containing bounds, or nil.
func (n *node) childContaining(bounds geom.Bounds) *node {
	for _, c := range n.children {
		if c.bounds.ContainsBounds(bounds) {
			return c
		}
	}
	return nil
}

func (n *node) remove(id string, bounds geom.Bounds) bool {
	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return true
		}
	}

	if n.children != nil {
		if child := n.childContaining(bounds); child != nil {
			return child.remove(id, bounds)
		}
		// Bounds straddle quadrants but the entry wasn't local; it may have
		// been inserted before this node subdivided. Search all children.
		for _, c := range n.children {
			if c.bounds.Intersects(bounds) && c.remove(id, bounds) {
				return true
			}
		}
	}
	return false
}

func (n *node) retrieve(query geom.Bounds, found *[]string) {
	if !n.bounds.Intersects(query) {
		return
	}

	for _, e := range n.entries {
		if e.bounds.Intersects(query) {
			*found = append(*found, e.id)
		}
	}

	for _, c := range n.children {
		c.retrieve(query, found)
	}
}
