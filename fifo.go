package mpsc

// compactThreshold is the number of consumed slots a fifo tolerates at the
// front of its backing array before it shifts the live items down.
const compactThreshold = 1024

// fifo is a slice-backed FIFO queue. Popped slots are zeroed so the queue
// does not keep consumed values reachable.
//
// fifo is not synchronized; the shared queue is guarded by the channel
// mutex and the receiver's local buffer is owned by the consumer.
type fifo[T any] struct {
	items []T
	head  int
}

func newFIFO[T any](capacity int) fifo[T] {
	if capacity <= 0 {
		return fifo[T]{}
	}
	return fifo[T]{items: make([]T, 0, capacity)}
}

func (q *fifo[T]) len() int {
	return len(q.items) - q.head
}

func (q *fifo[T]) push(v T) {
	q.items = append(q.items, v)
}

func (q *fifo[T]) pushAll(vs []T) {
	q.items = append(q.items, vs...)
}

// pop removes the front item. The caller must check len first.
func (q *fifo[T]) pop() T {
	var zero T
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.reset()
	} else {
		q.compact()
	}
	return v
}

// reset empties the queue but keeps the backing array for reuse.
func (q *fifo[T]) reset() {
	q.items = q.items[:0]
	q.head = 0
}

// clear drops every item and returns how many there were.
func (q *fifo[T]) clear() int {
	n := q.len()
	clear(q.items[q.head:])
	q.reset()
	return n
}

func (q *fifo[T]) compact() {
	if q.head < compactThreshold && q.head*2 < len(q.items) {
		return
	}
	remaining := copy(q.items, q.items[q.head:])
	clear(q.items[remaining:])
	q.items = q.items[:remaining]
	q.head = 0
}
