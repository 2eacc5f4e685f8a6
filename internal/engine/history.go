package engine

// MaxHistory bounds the undo and redo stacks. Older snapshots fall off the
// bottom once the limit is reached.
const MaxHistory = 50

// historyStack holds serialized document snapshots, newest last
type historyStack struct {
	snapshots []string
	limit     int
}

func newHistoryStack(limit int) *historyStack {
	if limit <= 0 {
		limit = MaxHistory
	}
	return &historyStack{limit: limit}
}

// push appends a snapshot, dropping the oldest entry when full
func (h *historyStack) push(snapshot string) {
	if len(h.snapshots) >= h.limit {
		copy(h.snapshots, h.snapshots[1:])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	h.snapshots = append(h.snapshots, snapshot)
}

// peek returns the newest snapshot without removing it
func (h *historyStack) peek() (string, bool) {
	if len(h.snapshots) == 0 {
		return "", false
	}
	return h.snapshots[len(h.snapshots)-1], true
}

// pop removes and returns the newest snapshot
func (h *historyStack) pop() (string, bool) {
	snapshot, ok := h.peek()
	if ok {
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	return snapshot, ok
}

func (h *historyStack) clear() {
	h.snapshots = h.snapshots[:0]
}

func (h *historyStack) len() int {
	return len(h.snapshots)
}
