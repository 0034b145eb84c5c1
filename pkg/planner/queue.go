package planner

// Queue is a FIFO ring buffer used as the BFS frontier.
// Concrete-typed to keep the hot loop free of interface boxing.
type Queue[T any] struct {
	items []T
	head  int
	count int
}

// NewQueue returns a queue with room for size items before growing.
func NewQueue[T any](size int) *Queue[T] {
	if size < 1 {
		size = 1
	}
	return &Queue[T]{items: make([]T, size)}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return q.count }

// Enqueue appends v at the tail.
func (q *Queue[T]) Enqueue(v T) {
	if q.count == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.count)%len(q.items)] = v
	q.count++
}

// Dequeue pops the head. It panics on an empty queue.
func (q *Queue[T]) Dequeue() T {
	if q.count == 0 {
		panic("planner: dequeue from empty queue")
	}
	var zero T
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--
	return v
}

// DrainAll empties the queue without visiting the remaining items.
func (q *Queue[T]) DrainAll() {
	clear(q.items)
	q.head = 0
	q.count = 0
}

func (q *Queue[T]) grow() {
	n := len(q.items) * 2
	if n == 0 {
		n = 8
	}
	items := make([]T, n)
	for i := 0; i < q.count; i++ {
		items[i] = q.items[(q.head+i)%len(q.items)]
	}
	q.items = items
	q.head = 0
}
