package models

import "slices"

// HistoryLog is the append-only story log of a run.
type HistoryLog struct {
	entries []Message
}

func (h *HistoryLog) Append(msg Message) {
	h.entries = append(h.entries, msg)
}

// Entries returns a copy of the whole log.
func (h *HistoryLog) Entries() []Message {
	return slices.Clone(h.entries)
}

// Recent returns a copy of the trailing n entries. The stored log is left
// untouched.
func (h *HistoryLog) Recent(n int) []Message {
	if n <= 0 {
		return nil
	}
	start := len(h.entries) - n
	if start < 0 {
		start = 0
	}
	return slices.Clone(h.entries[start:])
}

func (h *HistoryLog) Len() int {
	return len(h.entries)
}

// Reset empties the log for a new run.
func (h *HistoryLog) Reset() {
	h.entries = nil
}
