package allocator

import (
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/model/types"
)

// Ledger tracks remaining capacity per developer during a single pass
type Ledger struct {
	remaining map[int]float64
}

// NewLedger seeds a ledger from the roster capacity
func NewLedger(roster model.Developers) (*Ledger, error) {
	ret := &Ledger{remaining: make(map[int]float64, len(roster))}
	for _, developer := range roster {
		if developer.HoursAvailable < 0 {
			return nil, &types.InvalidCapacityError{DeveloperID: developer.ID, Hours: developer.HoursAvailable}
		}
		ret.remaining[developer.ID] = developer.HoursAvailable
	}
	return ret, nil
}

// TryConsume decrements developer capacity when it covers hours, otherwise leaves it untouched.
func (l *Ledger) TryConsume(developerID int, hours float64) bool {
	remaining, ok := l.remaining[developerID]
	if !ok || remaining < hours {
		return false
	}
	l.remaining[developerID] = remaining - hours
	return true
}

// Remaining returns developer remaining capacity
func (l *Ledger) Remaining(developerID int) float64 {
	return l.remaining[developerID]
}
