package model

import "sort"

// Demand represents a unit of required work
type Demand struct {
	// ID is assigned on creation and unique within a backlog
	ID int `json:"id" yaml:"id"`
	// Name is a human-readable label
	Name string `json:"name" yaml:"name"`
	// Hours is the required effort, always > 0
	Hours float64 `json:"hours" yaml:"hours"`
	// Order is the priority, lower value means higher priority
	Order int `json:"order" yaml:"order"`
}

// Demands represents a backlog
type Demands []Demand

// Less reports whether d is allocated before other: ascending order, ties by id.
func (d *Demand) Less(other *Demand) bool {
	if d.Order != other.Order {
		return d.Order < other.Order
	}
	return d.ID < other.ID
}

// Sorted returns a copy of the backlog in allocation order.
func (d Demands) Sorted() Demands {
	ret := make(Demands, len(d))
	copy(ret, d)
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Less(&ret[j])
	})
	return ret
}
