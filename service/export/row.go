package export

import (
	"strconv"

	"github.com/viant/hourly/model"
)

// Header lists the CSV columns
var Header = []string{"developer", "demand", "hours", "order", "remainingHours"}

// Row represents one developer x demand pair, or a developer summary when HasDemand is false.
type Row struct {
	DeveloperName  string  `json:"developerName"`
	HasDemand      bool    `json:"-"`
	DemandName     string  `json:"demandName,omitempty"`
	DemandHours    float64 `json:"demandHours,omitempty"`
	DemandOrder    int     `json:"demandOrder,omitempty"`
	RemainingHours float64 `json:"remainingHours"`
}

// Rows flattens result preserving developer and assignment order
func Rows(result model.Result) []*Row {
	var ret []*Row
	for _, allocation := range result {
		if len(allocation.AllocatedDemands) == 0 {
			ret = append(ret, &Row{DeveloperName: allocation.Developer.Name, RemainingHours: allocation.RemainingHours})
			continue
		}
		for _, demand := range allocation.AllocatedDemands {
			ret = append(ret, &Row{
				DeveloperName:  allocation.Developer.Name,
				HasDemand:      true,
				DemandName:     demand.Name,
				DemandHours:    demand.Hours,
				DemandOrder:    demand.Order,
				RemainingHours: allocation.RemainingHours,
			})
		}
	}
	return ret
}

// Record returns CSV cells; summary rows leave demand cells empty.
func (r *Row) Record() []string {
	if !r.HasDemand {
		return []string{r.DeveloperName, "", "", "", formatHours(r.RemainingHours)}
	}
	return []string{
		r.DeveloperName,
		r.DemandName,
		formatHours(r.DemandHours),
		strconv.Itoa(r.DemandOrder),
		formatHours(r.RemainingHours),
	}
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
