// Implements the WaitQueue, which holds the ids of processes blocked on one resource kind.
// Processes are enqueued when a wait phase is spliced into their chain

package sim

import (
	"fmt"
	"slices"
	"strings"
)

// WaitQueue represents a FIFO queue of process ids waiting for one resource kind.
type WaitQueue struct {
	Kind  ResourceKind
	queue []int // FIFO queue of process ids
}

// Enqueue adds a process to the back of the wait queue.
func (wq *WaitQueue) Enqueue(pid int) {
	wq.queue = append(wq.queue, pid)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, pid := range wq.queue {
		sb.WriteString(fmt.Sprint(pid))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// ok is false if the queue is empty.
func (wq *WaitQueue) Peek() (pid int, ok bool) {
	if len(wq.queue) == 0 {
		return 0, false
	}
	return wq.queue[0], true
}

// Contains reports whether pid is queued.
func (wq *WaitQueue) Contains(pid int) bool {
	return slices.Contains(wq.queue, pid)
}

// Items returns a copy of the queue contents in FIFO order.
func (wq *WaitQueue) Items() []int {
	return slices.Clone(wq.queue)
}

// DequeueExpected removes the head of the queue, which must be pid.
// A waiter always leaves its queue in arrival order, so any other head
// means the engine's bookkeeping is broken.
func (wq *WaitQueue) DequeueExpected(pid int) {
	head, ok := wq.Peek()
	if !ok {
		panic(fmt.Sprintf("DequeueExpected: %s queue is empty, expected process %d at head", wq.Kind, pid))
	}
	if head != pid {
		panic(fmt.Sprintf("DequeueExpected: %s queue head is process %d, expected %d", wq.Kind, head, pid))
	}
	wq.queue = wq.queue[1:]
}
