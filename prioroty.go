package workerpool

// Priority orders queued tasks. Higher values are dequeued first.
type Priority int

// DefaultPriority is used when a task is submitted without WithPriority.
const DefaultPriority Priority = 0

// levelHeap — max-heap of the priority levels that currently hold tasks.
type levelHeap []Priority

func (h levelHeap) Len() int           { return len(h) }
func (h levelHeap) Less(i, j int) bool { return h[i] > h[j] } // max-heap
func (h levelHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *levelHeap) Push(x any) {
	*h = append(*h, x.(Priority))
}

func (h *levelHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
