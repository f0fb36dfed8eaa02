package searcher

import "math"

// Item is a scored candidate.
type Item struct {
	ID       uint32
	Distance float32
}

// Less orders items by ascending distance, then ascending ID.
// NaN distances rank after every other value.
func Less(a, b Item) bool {
	da, db := a.Distance, b.Distance
	if da != da {
		da = float32(math.Inf(1))
	}
	if db != db {
		db = float32(math.Inf(1))
	}
	if da != db {
		return da < db
	}
	return a.ID < b.ID
}

// TopK keeps the k best items using a max-heap rooted at the current worst
// item. It does NOT implement container/heap to avoid interface overhead.
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a bounded queue for k items.
func NewTopK(k int) *TopK {
	q := &TopK{}
	q.Reset(k)
	return q
}

// Reset clears the queue for reuse with a new bound.
func (q *TopK) Reset(k int) {
	q.k = k
	if cap(q.items) < k {
		q.items = make([]Item, 0, k)
	}
	q.items = q.items[:0]
}

// Len returns the number of items held.
func (q *TopK) Len() int {
	return len(q.items)
}

// K returns the bound.
func (q *TopK) K() int {
	return q.k
}

// Full reports whether k items are held.
func (q *TopK) Full() bool {
	return len(q.items) >= q.k
}

// Worst returns the worst item held.
func (q *TopK) Worst() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Push offers an item. When full, the item replaces the worst one only if
// it sorts strictly before it.
func (q *TopK) Push(item Item) {
	if q.k <= 0 {
		return
	}
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return
	}
	if Less(item, q.items[0]) {
		q.items[0] = item
		q.siftDown(0)
	}
}

// Merge pushes every item of other into q.
func (q *TopK) Merge(other *TopK) {
	for _, item := range other.items {
		q.Push(item)
	}
}

// Drain empties the queue into dst in ascending order and returns the
// extended slice.
func (q *TopK) Drain(dst []Item) []Item {
	n := len(q.items)
	start := len(dst)
	dst = append(dst, make([]Item, n)...)
	for i := n - 1; i >= 0; i-- {
		dst[start+i] = q.pop()
	}
	return dst
}

// before reports whether items[i] belongs above items[j] in the max-heap.
func (q *TopK) before(i, j int) bool {
	return Less(q.items[j], q.items[i])
}

func (q *TopK) pop() Item {
	n := len(q.items)
	item := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return item
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.before(i, parent) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && q.before(right, left) {
			child = right
		}
		if !q.before(child, i) {
			break
		}
		q.items[i], q.items[child] = q.items[child], q.items[i]
		i = child
	}
}
