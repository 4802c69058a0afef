package model

import "sort"

// Developer represents a capacity provider
type Developer struct {
	ID             int     `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	HoursAvailable float64 `json:"hoursAvailable" yaml:"hoursAvailable"`
}

// Developers represents a roster
type Developers []Developer

// Sorted returns a copy of the roster in its natural (id) order.
func (d Developers) Sorted() Developers {
	ret := make(Developers, len(d))
	copy(ret, d)
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].ID < ret[j].ID
	})
	return ret
}
