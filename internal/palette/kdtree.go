package palette

import "container/heap"

// kdTree is a static 3-dimensional k-d tree over Oklab points, each
// carrying the index of the palette color it was built from. Built once
// per Prepared palette and queried many times (once per LUT cell), so it
// is a plain balanced binary tree built by recursive median split rather
// than anything incremental.
//
// spec.md scopes this as core engine machinery, not an external
// collaborator's concern, matching how original_source/src/interpolation
// treats its k-d tree (kiddo) as an implementation detail behind
// RBFRemapper/NearestNeighborRemapper rather than part of the public
// algorithm surface. Hand-written here rather than imported: see
// DESIGN.md for why no corpus example imports a Go k-d tree library.
type kdTree struct {
	root *kdNode
}

type kdNode struct {
	idx         int
	point       [3]float32
	left, right *kdNode
}

// buildKdTree constructs a balanced k-d tree over points, where point i
// carries payload index indices[i].
func buildKdTree(points [][3]float32, indices []int) *kdTree {
	if len(points) == 0 {
		return &kdTree{}
	}
	items := make([]kdItem, len(points))
	for i := range points {
		items[i] = kdItem{point: points[i], idx: indices[i]}
	}
	return &kdTree{root: buildNode(items, 0)}
}

type kdItem struct {
	point [3]float32
	idx   int
}

func buildNode(items []kdItem, depth int) *kdNode {
	if len(items) == 0 {
		return nil
	}
	axis := depth % 3
	sortByAxis(items, axis)
	mid := len(items) / 2
	node := &kdNode{idx: items[mid].idx, point: items[mid].point}
	node.left = buildNode(items[:mid], depth+1)
	node.right = buildNode(items[mid+1:], depth+1)
	return node
}

func sortByAxis(items []kdItem, axis int) {
	// Insertion sort is fine here: palettes are small (hundreds of
	// colors at most) and this only runs once per Prepare call.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].point[axis] < items[j-1].point[axis]; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func sqDist(a, b [3]float32) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// Nearest returns the payload index of the point closest to target, and
// true if the tree is non-empty.
func (t *kdTree) Nearest(target [3]float32) (int, bool) {
	if t.root == nil {
		return 0, false
	}
	best := t.root
	bestDist := sqDist(t.root.point, target)
	nearestSearch(t.root, target, 0, &best, &bestDist)
	return best.idx, true
}

func nearestSearch(node *kdNode, target [3]float32, depth int, best **kdNode, bestDist *float32) {
	if node == nil {
		return
	}
	d := sqDist(node.point, target)
	if d < *bestDist {
		*bestDist = d
		*best = node
	}

	axis := depth % 3
	diff := target[axis] - node.point[axis]
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}

	nearestSearch(near, target, depth+1, best, bestDist)
	if diff*diff < *bestDist {
		nearestSearch(far, target, depth+1, best, bestDist)
	}
}

// neighbor is one entry in a k-nearest result: Idx is the payload index,
// DistSq its squared distance to the query point.
type neighbor struct {
	Idx    int
	DistSq float32
}

// neighborHeap is a max-heap on DistSq, used to keep the k closest
// candidates seen so far while descending the tree.
type neighborHeap []neighbor

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[i].DistSq > h[j].DistSq }
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNearest returns up to k payload indices closest to target, sorted by
// ascending distance. If the tree holds fewer than k points, it returns
// all of them.
func (t *kdTree) KNearest(target [3]float32, k int) []neighbor {
	if t.root == nil || k <= 0 {
		return nil
	}
	h := &neighborHeap{}
	heap.Init(h)
	knnSearch(t.root, target, 0, k, h)

	result := make([]neighbor, h.Len())
	copy(result, *h)
	// h is a max-heap; sort ascending by distance for callers.
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].DistSq < result[j-1].DistSq; j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result
}

func knnSearch(node *kdNode, target [3]float32, depth, k int, h *neighborHeap) {
	if node == nil {
		return
	}
	d := sqDist(node.point, target)
	if h.Len() < k {
		heap.Push(h, neighbor{Idx: node.idx, DistSq: d})
	} else if d < (*h)[0].DistSq {
		heap.Pop(h)
		heap.Push(h, neighbor{Idx: node.idx, DistSq: d})
	}

	axis := depth % 3
	diff := target[axis] - node.point[axis]
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}

	knnSearch(near, target, depth+1, k, h)
	if h.Len() < k || diff*diff < (*h)[0].DistSq {
		knnSearch(far, target, depth+1, k, h)
	}
}
