package ordered

import (
	"math/rand"
	"slices"
	"testing"
)

// checkTree verifies ordering, parent links, cached heights and the AVL
// balance condition, returning the in-order keys.
func checkTree(t *testing.T, tr *Tree[int, string]) []int {
	t.Helper()
	var keys []int
	var walk func(n, parent *Node[int, string]) int8
	walk = func(n, parent *Node[int, string]) int8 {
		if n == nil {
			return 0
		}
		if n.parent != parent {
			t.Fatalf("key %d: parent link broken", n.key)
		}
		hl := walk(n.left, n)
		keys = append(keys, n.key)
		hr := walk(n.right, n)
		if hl-hr > 1 || hr-hl > 1 {
			t.Fatalf("key %d: unbalanced (left %d, right %d)", n.key, hl, hr)
		}
		h := max(hl, hr) + 1
		if n.height != h {
			t.Fatalf("key %d: height = %d, want %d", n.key, n.height, h)
		}
		return h
	}
	walk(tr.root, nil)
	if !slices.IsSorted(keys) {
		t.Fatalf("keys not sorted: %v", keys)
	}
	if len(keys) != tr.Len() {
		t.Fatalf("Len() = %d, walked %d", tr.Len(), len(keys))
	}
	return keys
}

func TestInsertAscendingStaysBalanced(t *testing.T) {
	var tr Tree[int, string]
	for i := 0; i < 1024; i++ {
		if _, ok := tr.Insert(i, ""); !ok {
			t.Fatalf("Insert(%d) reported duplicate", i)
		}
	}
	checkTree(t, &tr)
	// A perfectly balanced tree of 1024 keys has height 11; AVL allows ~1.44x.
	if h := tr.root.height; h > 15 {
		t.Errorf("height = %d after sorted insertion, want <= 15", h)
	}
}

func TestInsertDuplicateKeepsOriginal(t *testing.T) {
	var tr Tree[int, string]
	first, _ := tr.Insert(7, "a")
	n, ok := tr.Insert(7, "b")
	if ok {
		t.Fatal("duplicate insert reported success")
	}
	if n != first || n.Value != "a" {
		t.Errorf("duplicate insert returned %v/%q, want original node", n, n.Value)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
}

func TestNextPrevTraversal(t *testing.T) {
	var tr Tree[int, string]
	for _, k := range []int{50, 20, 80, 10, 30, 70, 90, 25} {
		tr.Insert(k, "")
	}
	var fwd []int
	for n := tr.Min(); n != nil; n = n.Next() {
		fwd = append(fwd, n.Key())
	}
	want := []int{10, 20, 25, 30, 50, 70, 80, 90}
	if !slices.Equal(fwd, want) {
		t.Errorf("forward = %v, want %v", fwd, want)
	}
	var bwd []int
	for n := tr.Max(); n != nil; n = n.Prev() {
		bwd = append(bwd, n.Key())
	}
	slices.Reverse(want)
	if !slices.Equal(bwd, want) {
		t.Errorf("backward = %v, want %v", bwd, want)
	}
}

func TestCeil(t *testing.T) {
	var tr Tree[int, string]
	for _, k := range []int{10, 20, 30} {
		tr.Insert(k, "")
	}
	tests := []struct {
		key  int
		want int
		ok   bool
	}{
		{5, 10, true},
		{10, 10, true},
		{11, 20, true},
		{30, 30, true},
		{31, 0, false},
	}
	for _, tt := range tests {
		n := tr.Ceil(tt.key)
		if (n != nil) != tt.ok {
			t.Errorf("Ceil(%d) = %v, want found=%v", tt.key, n, tt.ok)
			continue
		}
		if n != nil && n.Key() != tt.want {
			t.Errorf("Ceil(%d) = %d, want %d", tt.key, n.Key(), tt.want)
		}
	}
}

func TestDeleteKeepsHandlesStable(t *testing.T) {
	var tr Tree[int, string]
	handles := make(map[int]*Node[int, string])
	for _, k := range []int{40, 20, 60, 10, 30, 50, 70} {
		n, _ := tr.Insert(k, "")
		n.Value = "v"
		handles[k] = n
	}
	// 40 is the root with two children: its successor gets spliced in.
	if got := tr.Delete(40); got != handles[40] {
		t.Fatalf("Delete(40) returned %v, want the original handle", got)
	}
	checkTree(t, &tr)
	for k, n := range handles {
		if k == 40 {
			continue
		}
		if tr.Get(k) != n || n.Key() != k {
			t.Errorf("handle for %d moved after deleting 40", k)
		}
	}
	if tr.Delete(40) != nil {
		t.Error("second Delete(40) found a node")
	}
}

func TestRandomOperationsMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var tr Tree[int, string]
	ref := make(map[int]bool)

	for i := 0; i < 5000; i++ {
		k := rng.Intn(300)
		if rng.Intn(3) == 0 {
			got := tr.Delete(k) != nil
			if got != ref[k] {
				t.Fatalf("op %d: Delete(%d) = %v, want %v", i, k, got, ref[k])
			}
			delete(ref, k)
		} else {
			_, inserted := tr.Insert(k, "")
			if inserted == ref[k] {
				t.Fatalf("op %d: Insert(%d) inserted=%v with present=%v", i, k, inserted, ref[k])
			}
			ref[k] = true
		}
		if i%250 == 0 {
			checkTree(t, &tr)
		}
	}

	keys := checkTree(t, &tr)
	var want []int
	for k := range ref {
		want = append(want, k)
	}
	slices.Sort(want)
	if !slices.Equal(keys, want) {
		t.Errorf("final keys differ from reference")
	}
}

func TestClear(t *testing.T) {
	var tr Tree[int, string]
	tr.Insert(1, "")
	tr.Insert(2, "")
	tr.Clear()
	if tr.Len() != 0 || tr.Min() != nil || tr.Max() != nil {
		t.Error("tree not empty after Clear")
	}
	if _, ok := tr.Insert(1, ""); !ok {
		t.Error("insert after Clear reported duplicate")
	}
}
