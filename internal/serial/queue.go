package serial

// fifo is an unbounded ring-buffer queue of tasks.
//
// Not safe for concurrent use; the Serializer guards it with its mutex.
type fifo struct {
	buf  []*task
	head int
	size int
}

func newFIFO() *fifo {
	return &fifo{buf: make([]*task, 16)}
}

// push adds t to the back of the queue, growing the buffer when full.
func (q *fifo) push(t *task) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = t
	q.size++
}

// pop removes and returns the front task, or nil if the queue is empty.
func (q *fifo) pop() *task {
	if q.size == 0 {
		return nil
	}
	t := q.buf[q.head]
	// Release the slot so a settled task can be collected.
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	if q.size == 0 {
		q.head = 0
	}
	return t
}

func (q *fifo) len() int {
	return q.size
}

func (q *fifo) grow() {
	buf := make([]*task, len(q.buf)*2)
	for i := range q.size {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
