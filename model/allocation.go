package model

import (
	"fmt"
	"strings"
)

// Mode selects how a pass was triggered
type Mode string

const (
	// ModeInitial allocates the backlog as stored
	ModeInitial Mode = "initial"
	// ModeReorder re-runs allocation after demand priorities changed
	ModeReorder Mode = "reorder"
)

// ParseMode parses a mode name, empty defaults to initial
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeInitial:
		return ModeInitial, nil
	case ModeReorder:
		return ModeReorder, nil
	}
	return "", fmt.Errorf("unsupported mode: %q", name)
}

// Allocation represents demands assigned to a single developer
type Allocation struct {
	Developer        Developer `json:"developer"`
	AllocatedDemands []Demand  `json:"allocatedDemands"`
	RemainingHours   float64   `json:"remainingHours"`
}

// AllocatedHours returns the sum of assigned demand hours
func (a *Allocation) AllocatedHours() float64 {
	total := 0.0
	for _, demand := range a.AllocatedDemands {
		total += demand.Hours
	}
	return total
}

// Result is the outcome of one allocation pass, one entry per developer in
// iteration order. Demands that fit no developer are omitted.
type Result []*Allocation

// Allocated returns all assigned demands in developer then assignment order
func (r Result) Allocated() []Demand {
	var ret []Demand
	for _, allocation := range r {
		ret = append(ret, allocation.AllocatedDemands...)
	}
	return ret
}

// Unallocated returns backlog demands missing from result, in allocation order.
func Unallocated(backlog Demands, result Result) []Demand {
	assigned := map[int]bool{}
	for _, demand := range result.Allocated() {
		assigned[demand.ID] = true
	}
	ret := []Demand{}
	for _, demand := range backlog.Sorted() {
		if !assigned[demand.ID] {
			ret = append(ret, demand)
		}
	}
	return ret
}

// Summary describes a completed pass
type Summary struct {
	Mode        Mode   `json:"mode"`
	Developers  int    `json:"developers"`
	Demands     int    `json:"demands"`
	Allocated   int    `json:"allocated"`
	Unallocated int    `json:"unallocated"`
	ExportRef   string `json:"exportRef,omitempty"`
}
