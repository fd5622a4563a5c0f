package workerpool

import (
	"container/heap"

	"github.com/eapache/queue"
)

const (
	initialLevelCap = 64
)

// levelQueue is the pool's single shared priority queue.
//
// Tasks are grouped into one FIFO bucket per distinct priority level.
// A max-heap keeps the levels that currently hold work, so Pop always
// serves the highest priority first and, within a level, the task that
// was pushed earliest. Equal priorities are therefore strictly FIFO.
//
// levelQueue is not safe for concurrent use; the pool guards it with
// its mutex.
type levelQueue struct {
	levels  levelHeap
	buckets map[Priority]*queue.Queue
	size    int
}

func newLevelQueue() *levelQueue {
	q := &levelQueue{
		levels:  make(levelHeap, 0, initialLevelCap),
		buckets: make(map[Priority]*queue.Queue, initialLevelCap),
	}
	heap.Init(&q.levels)
	return q
}

// Push appends t to the bucket of its priority, creating the level
// if it is not yet present.
func (q *levelQueue) Push(t *task) {
	b, ok := q.buckets[t.priority]
	if !ok {
		b = queue.New()
		q.buckets[t.priority] = b
		heap.Push(&q.levels, t.priority)
	}
	b.Add(t)
	q.size++
}

// Pop removes and returns the oldest task of the highest priority level.
// If the queue is empty, Pop returns nil and false.
func (q *levelQueue) Pop() (*task, bool) {
	if q.size == 0 {
		return nil, false
	}
	top := q.levels[0]
	b := q.buckets[top]
	t := b.Remove().(*task)
	if b.Length() == 0 {
		heap.Pop(&q.levels)
		delete(q.buckets, top)
	}
	q.size--
	return t, true
}

// Drain removes every queued task and returns them in dequeue order.
func (q *levelQueue) Drain() []*task {
	if q.size == 0 {
		return nil
	}
	out := make([]*task, 0, q.size)
	for {
		t, ok := q.Pop()
		if !ok {
			break
		}
		out = append(out, t)
	}
	return out
}

// Len returns the number of queued tasks across all levels.
func (q *levelQueue) Len() int {
	return q.size
}

// Levels returns the number of distinct priority levels holding work.
func (q *levelQueue) Levels() int {
	return q.levels.Len()
}
