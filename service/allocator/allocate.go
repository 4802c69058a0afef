package allocator

import (
	"math"

	"github.com/viant/hourly/model"
	"github.com/viant/hourly/model/types"
)

// Allocate runs one pass. The whole request is rejected before any capacity is
// consumed when the backlog or roster is invalid.
func Allocate(backlog model.Demands, roster model.Developers) (model.Result, error) {
	if err := Validate(backlog, roster); err != nil {
		return nil, err
	}
	developers := roster.Sorted()
	ledger, err := NewLedger(developers)
	if err != nil {
		return nil, err
	}
	aBuilder := newBuilder(developers)
	for _, demand := range backlog.Sorted() {
		for _, developer := range developers {
			if ledger.TryConsume(developer.ID, demand.Hours) {
				aBuilder.assign(developer.ID, demand)
				break
			}
		}
	}
	return aBuilder.build(ledger), nil
}

// Validate checks backlog and roster records
func Validate(backlog model.Demands, roster model.Developers) error {
	demandIDs := make(map[int]bool, len(backlog))
	for _, demand := range backlog {
		if demandIDs[demand.ID] {
			return types.NewValidationError("demand", demand.ID, "id", "must be unique")
		}
		demandIDs[demand.ID] = true
		if math.IsNaN(demand.Hours) || math.IsInf(demand.Hours, 0) {
			return types.NewValidationError("demand", demand.ID, "hours", "must be a finite number")
		}
		if demand.Hours <= 0 {
			return types.NewValidationError("demand", demand.ID, "hours", "must be > 0")
		}
	}
	developerIDs := make(map[int]bool, len(roster))
	for _, developer := range roster {
		if developerIDs[developer.ID] {
			return types.NewValidationError("developer", developer.ID, "id", "must be unique")
		}
		developerIDs[developer.ID] = true
		if math.IsNaN(developer.HoursAvailable) || math.IsInf(developer.HoursAvailable, 0) {
			return types.NewValidationError("developer", developer.ID, "hoursAvailable", "must be a finite number")
		}
	}
	return nil
}
