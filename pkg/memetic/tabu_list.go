package memetic

import "slices"

// tabuList is a bounded FIFO of the structures that recently failed to improve the best solution
type tabuList struct {
	capacity int
	entries  []Neighborhood
}

func newTabuList(capacity int) *tabuList {
	return &tabuList{
		capacity: capacity,
		entries:  make([]Neighborhood, 0, capacity+1),
	}
}

// Push appends the structure evicting the oldest one when over capacity. Structures already present are left in place
func (list *tabuList) Push(neighborhood Neighborhood) {
	if list.Contains(neighborhood) {
		return
	}
	list.entries = append(list.entries, neighborhood)
	if len(list.entries) > list.capacity {
		list.entries = slices.Delete(list.entries, 0, 1)
	}
}

// Contains matches structures by name
func (list *tabuList) Contains(neighborhood Neighborhood) bool {
	return slices.ContainsFunc(list.entries, func(entry Neighborhood) bool {
		return entry.Name() == neighborhood.Name()
	})
}

func (list *tabuList) Len() int {
	return len(list.entries)
}
