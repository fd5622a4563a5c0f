package workerpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTask(prio Priority, name string) *task {
	return &task{priority: prio, name: name}
}

func popNames(t *testing.T, q *levelQueue) []string {
	t.Helper()

	var out []string
	for {
		tk, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, tk.name)
	}
}

func TestLevelQueuePopEmpty(t *testing.T) {
	q := newLevelQueue()

	tk, ok := q.Pop()
	assert.False(t, ok)
	assert.Nil(t, tk)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Drain())
}

func TestLevelQueuePriorityOrder(t *testing.T) {
	q := newLevelQueue()
	for _, p := range []Priority{5, -1, 10, 0, 7} {
		q.Push(mkTask(p, ""))
	}
	require.Equal(t, 5, q.Len())

	var got []Priority
	for {
		tk, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, tk.priority)
	}
	assert.Equal(t, []Priority{10, 7, 5, 0, -1}, got)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Levels())
}

func TestLevelQueueFIFOWithinLevel(t *testing.T) {
	q := newLevelQueue()
	q.Push(mkTask(1, "a1"))
	q.Push(mkTask(2, "b1"))
	q.Push(mkTask(1, "a2"))
	q.Push(mkTask(2, "b2"))
	q.Push(mkTask(1, "a3"))

	assert.Equal(t, 2, q.Levels())
	assert.Equal(t, []string{"b1", "b2", "a1", "a2", "a3"}, popNames(t, q))
}

func TestLevelQueueInterleavedPushPop(t *testing.T) {
	q := newLevelQueue()
	q.Push(mkTask(1, "low"))
	q.Push(mkTask(3, "high"))

	tk, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "high", tk.name)

	// a later high-priority task jumps the earlier low one
	q.Push(mkTask(2, "mid"))
	q.Push(mkTask(3, "high2"))
	assert.Equal(t, []string{"high2", "mid", "low"}, popNames(t, q))
}

func TestLevelQueueDrain(t *testing.T) {
	q := newLevelQueue()
	q.Push(mkTask(0, "z1"))
	q.Push(mkTask(4, "x"))
	q.Push(mkTask(0, "z2"))

	drained := q.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, "x", drained[0].name)
	assert.Equal(t, "z1", drained[1].name)
	assert.Equal(t, "z2", drained[2].name)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Levels())

	// reusable after draining
	q.Push(mkTask(1, "again"))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, []string{"again"}, popNames(t, q))
}

func BenchmarkLevelQueue_PushPop(b *testing.B) {
	q := newLevelQueue()
	tasks := make([]*task, 64)
	for i := range tasks {
		tasks[i] = mkTask(Priority(i%8), "")
	}

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		q.Push(tasks[i%len(tasks)])
		if q.Len() > 32 {
			q.Pop()
		}
		i++
	}
}
