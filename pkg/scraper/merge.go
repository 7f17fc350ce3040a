package scraper

import "container/heap"

// MergeEntries combines per-file entry slices into a single slice ordered by
// timestamp (oldest first). Each input slice is assumed to already be in
// emission order, which log files are. Merging happens after reconstruction
// so tracebacks stay attached to their entries; interleaving raw lines
// across files before reconstruction would tear continuation lines away
// from their records.
//
// The merge is stable across inputs: for equal timestamps, entries from
// earlier slices come first.
func MergeEntries(slices ...[]Entry) []Entry {
	total := 0
	for _, s := range slices {
		total += len(s)
	}
	if total == 0 {
		return nil
	}

	h := &entryHeap{}
	heap.Init(h)
	for i, s := range slices {
		if len(s) > 0 {
			heap.Push(h, &entryCursor{entries: s, sliceIdx: i})
		}
	}

	merged := make([]Entry, 0, total)
	for h.Len() > 0 {
		cur := heap.Pop(h).(*entryCursor)
		merged = append(merged, cur.entries[cur.pos])
		cur.pos++
		if cur.pos < len(cur.entries) {
			heap.Push(h, cur)
		}
	}

	return merged
}

// entryCursor tracks the read position within one input slice.
type entryCursor struct {
	entries  []Entry
	pos      int
	sliceIdx int
}

func (c *entryCursor) head() *Entry {
	return &c.entries[c.pos]
}

// entryHeap implements heap.Interface for timestamp-ordered merging.
type entryHeap []*entryCursor

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	ti, tj := h[i].head().Timestamp, h[j].head().Timestamp
	if ti.Equal(tj) {
		return h[i].sliceIdx < h[j].sliceIdx
	}
	return ti.Before(tj)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(*entryCursor))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
