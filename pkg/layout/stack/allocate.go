package stack

import (
	"cmp"
	"slices"

	"github.com/matzehuels/yeargrid/pkg/event"
)

// Allocation is the number of lines granted to one event in a cell.
type Allocation struct {
	Event *event.Event
	Lines int
}

// Allocate returns one line count per entry of needed, in input order.
// Needs below one are treated as one.
func Allocate(needed []int, maxLinesTotal int) []int {
	n := len(needed)
	out := make([]int, n)
	if n == 0 {
		return out
	}

	need := make([]int, n)
	total := 0
	for i, v := range needed {
		need[i] = max(1, v)
		total += need[i]
	}

	switch {
	case maxLinesTotal <= n:
		for i := range out {
			out[i] = 1
		}
		return out
	case total <= maxLinesTotal:
		copy(out, need)
		return out
	}

	extra := maxLinesTotal - n
	extraNeed := total - n
	used := 0
	for i := range out {
		share := (need[i] - 1) * extra / extraNeed
		out[i] = 1 + share
		used += share
	}

	// Hand out what rounding left over, largest shortfall first.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(need[b]-out[b], need[a]-out[a])
	})

	left := extra - used
	for left > 0 {
		progress := false
		for _, i := range order {
			if left == 0 {
				break
			}
			if out[i] < need[i] {
				out[i]++
				left--
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	return out
}

// AllocateCell estimates each event's needed lines at the cell width and
// shares the cell's line budget between them.
func AllocateCell(events []*event.Event, m Metrics) []Allocation {
	needed := make([]int, len(events))
	for i, ev := range events {
		needed[i] = EstimateLines(ev.Title, m)
	}
	lines := Allocate(needed, Budget(m, len(events)))

	out := make([]Allocation, len(events))
	for i, ev := range events {
		out[i] = Allocation{Event: ev, Lines: lines[i]}
	}
	return out
}
