// Package ordered provides a self-balancing ordered map with stable node
// handles, used for every sorted index in the highway model.
package ordered

import "cmp"

// Node is a handle to one entry of a Tree. A handle stays valid (and keeps
// its key and value) until its entry is deleted; rebalancing never moves
// entries between nodes.
type Node[K cmp.Ordered, V any] struct {
	key    K
	Value  V
	left   *Node[K, V]
	right  *Node[K, V]
	parent *Node[K, V]
	height int8
}

// Key returns the key of the entry.
func (n *Node[K, V]) Key() K { return n.key }

// Next returns the entry with the smallest key greater than n's, or nil.
// Walking a whole tree with Next touches every link twice, so a full
// traversal is linear.
func (n *Node[K, V]) Next() *Node[K, V] {
	if n.right != nil {
		return leftmost(n.right)
	}
	x, p := n, n.parent
	for p != nil && x == p.right {
		x, p = p, p.parent
	}
	return p
}

// Prev returns the entry with the largest key smaller than n's, or nil.
func (n *Node[K, V]) Prev() *Node[K, V] {
	if n.left != nil {
		return rightmost(n.left)
	}
	x, p := n, n.parent
	for p != nil && x == p.left {
		x, p = p, p.parent
	}
	return p
}

// Tree is an AVL tree keyed by K. The zero value is an empty tree.
type Tree[K cmp.Ordered, V any] struct {
	root *Node[K, V]
	size int
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int { return t.size }

// Get returns the node holding key, or nil.
func (t *Tree[K, V]) Get(key K) *Node[K, V] {
	x := t.root
	for x != nil {
		switch c := cmp.Compare(key, x.key); {
		case c < 0:
			x = x.left
		case c > 0:
			x = x.right
		default:
			return x
		}
	}
	return nil
}

// Min returns the entry with the smallest key, or nil if the tree is empty.
func (t *Tree[K, V]) Min() *Node[K, V] {
	if t.root == nil {
		return nil
	}
	return leftmost(t.root)
}

// Max returns the entry with the largest key, or nil if the tree is empty.
func (t *Tree[K, V]) Max() *Node[K, V] {
	if t.root == nil {
		return nil
	}
	return rightmost(t.root)
}

// Ceil returns the entry with the smallest key >= key, or nil.
func (t *Tree[K, V]) Ceil(key K) *Node[K, V] {
	var best *Node[K, V]
	x := t.root
	for x != nil {
		switch c := cmp.Compare(key, x.key); {
		case c < 0:
			best = x
			x = x.left
		case c > 0:
			x = x.right
		default:
			return x
		}
	}
	return best
}

// Insert adds key with value. If key is already present the tree is left
// untouched and the existing node is returned with inserted == false.
func (t *Tree[K, V]) Insert(key K, value V) (n *Node[K, V], inserted bool) {
	var parent *Node[K, V]
	x := t.root
	less := false
	for x != nil {
		parent = x
		switch c := cmp.Compare(key, x.key); {
		case c < 0:
			x, less = x.left, true
		case c > 0:
			x, less = x.right, false
		default:
			return x, false
		}
	}

	n = &Node[K, V]{key: key, Value: value, parent: parent, height: 1}
	switch {
	case parent == nil:
		t.root = n
	case less:
		parent.left = n
	default:
		parent.right = n
	}
	t.size++
	t.rebalance(parent)
	return n, true
}

// Delete removes key and returns its former node, or nil if absent.
func (t *Tree[K, V]) Delete(key K) *Node[K, V] {
	n := t.Get(key)
	if n == nil {
		return nil
	}
	t.DeleteNode(n)
	return n
}

// DeleteNode unlinks n, which must belong to t. Other handles are unaffected.
func (t *Tree[K, V]) DeleteNode(n *Node[K, V]) {
	var start *Node[K, V]
	switch {
	case n.left == nil:
		start = n.parent
		t.transplant(n, n.right)
	case n.right == nil:
		start = n.parent
		t.transplant(n, n.left)
	default:
		// Splice the in-order successor into n's position.
		y := leftmost(n.right)
		if y.parent != n {
			start = y.parent
			t.transplant(y, y.right)
			y.right = n.right
			y.right.parent = y
		} else {
			start = y
		}
		t.transplant(n, y)
		y.left = n.left
		y.left.parent = y
		y.height = n.height
	}
	n.left, n.right, n.parent = nil, nil, nil
	t.size--
	t.rebalance(start)
}

// Ascend calls fn for each entry in key order until fn returns false.
func (t *Tree[K, V]) Ascend(fn func(n *Node[K, V]) bool) {
	for n := t.Min(); n != nil; n = n.Next() {
		if !fn(n) {
			return
		}
	}
}

// Clear drops every entry. Outstanding handles become detached.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

func (t *Tree[K, V]) transplant(u, v *Node[K, V]) {
	t.replaceChild(u.parent, u, v)
	if v != nil {
		v.parent = u.parent
	}
}

func (t *Tree[K, V]) replaceChild(parent, old, repl *Node[K, V]) {
	switch {
	case parent == nil:
		t.root = repl
	case parent.left == old:
		parent.left = repl
	default:
		parent.right = repl
	}
}

// rebalance restores heights and the AVL balance on the path from n to the root.
func (t *Tree[K, V]) rebalance(n *Node[K, V]) {
	for n != nil {
		fix(n)
		switch bf := balance(n); {
		case bf > 1:
			if balance(n.left) < 0 {
				t.rotateLeft(n.left)
			}
			n = t.rotateRight(n)
		case bf < -1:
			if balance(n.right) > 0 {
				t.rotateRight(n.right)
			}
			n = t.rotateLeft(n)
		}
		n = n.parent
	}
}

func (t *Tree[K, V]) rotateLeft(x *Node[K, V]) *Node[K, V] {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.left = x
	x.parent = y
	fix(x)
	fix(y)
	return y
}

func (t *Tree[K, V]) rotateRight(x *Node[K, V]) *Node[K, V] {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.right = x
	x.parent = y
	fix(x)
	fix(y)
	return y
}

func height[K cmp.Ordered, V any](n *Node[K, V]) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

func fix[K cmp.Ordered, V any](n *Node[K, V]) {
	n.height = max(height(n.left), height(n.right)) + 1
}

func balance[K cmp.Ordered, V any](n *Node[K, V]) int8 {
	return height(n.left) - height(n.right)
}

func leftmost[K cmp.Ordered, V any](n *Node[K, V]) *Node[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func rightmost[K cmp.Ordered, V any](n *Node[K, V]) *Node[K, V] {
	for n.right != nil {
		n = n.right
	}
	return n
}
