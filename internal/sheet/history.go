package sheet

// Snapshot is a deep copy of headers and data taken before a mutation.
type Snapshot struct {
	Headers []string
	Data    []Row
}

func takeSnapshot(headers []string, data []Row) Snapshot {
	return Snapshot{
		Headers: cloneStrings(headers),
		Data:    cloneRows(data),
	}
}

// clone returns an independent copy so that restoring a snapshot never
// hands its rows to live state.
func (s Snapshot) clone() Snapshot {
	return takeSnapshot(s.Headers, s.Data)
}

// History is an unbounded stack of snapshots used to undo edits and
// replacements.
type History struct {
	entries []Snapshot
}

// Push records a copy of headers and data.
func (h *History) Push(headers []string, data []Row) {
	h.entries = append(h.entries, takeSnapshot(headers, data))
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (Snapshot, bool) {
	if len(h.entries) == 0 {
		return Snapshot{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = Snapshot{}
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int { return len(h.entries) }

// Clear drops every snapshot.
func (h *History) Clear() { h.entries = nil }
