package allocator

import "github.com/viant/hourly/model"

// builder accumulates assignments and shapes them into a Result
type builder struct {
	roster   model.Developers
	assigned map[int][]model.Demand
}

func newBuilder(roster model.Developers) *builder {
	return &builder{roster: roster, assigned: make(map[int][]model.Demand, len(roster))}
}

func (b *builder) assign(developerID int, demand model.Demand) {
	b.assigned[developerID] = append(b.assigned[developerID], demand)
}

// build preserves roster order and per-developer assignment order.
func (b *builder) build(ledger *Ledger) model.Result {
	ret := make(model.Result, 0, len(b.roster))
	for _, developer := range b.roster {
		demands := b.assigned[developer.ID]
		if demands == nil {
			demands = []model.Demand{}
		}
		ret = append(ret, &model.Allocation{
			Developer:        developer,
			AllocatedDemands: demands,
			RemainingHours:   ledger.Remaining(developer.ID),
		})
	}
	return ret
}
