package allocator

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/model/types"
)

type expectedAllocation struct {
	developerID int
	demandIDs   []int
	remaining   float64
}

func TestAllocate(t *testing.T) {
	var testCases = []struct {
		description string
		backlog     model.Demands
		roster      model.Developers
		expect      []expectedAllocation
		unallocated []int
	}{
		{
			description: "first demand fits, second exceeds remaining capacity",
			roster:      model.Developers{{ID: 1, Name: "A", HoursAvailable: 10}},
			backlog: model.Demands{
				{ID: 1, Name: "X", Hours: 6, Order: 1},
				{ID: 2, Name: "Y", Hours: 5, Order: 2},
			},
			expect:      []expectedAllocation{{developerID: 1, demandIDs: []int{1}, remaining: 4}},
			unallocated: []int{2},
		},
		{
			description: "priority change flips which demand wins",
			roster:      model.Developers{{ID: 1, Name: "A", HoursAvailable: 10}},
			backlog: model.Demands{
				{ID: 1, Name: "X", Hours: 6, Order: 2},
				{ID: 2, Name: "Y", Hours: 5, Order: 1},
			},
			expect:      []expectedAllocation{{developerID: 1, demandIDs: []int{2}, remaining: 5}},
			unallocated: []int{1},
		},
		{
			description: "first fit in roster order",
			roster:      model.Developers{{ID: 1, HoursAvailable: 5}, {ID: 2, HoursAvailable: 5}},
			backlog:     model.Demands{{ID: 1, Hours: 5, Order: 1}},
			expect: []expectedAllocation{
				{developerID: 1, demandIDs: []int{1}, remaining: 0},
				{developerID: 2, demandIDs: []int{}, remaining: 5},
			},
			unallocated: []int{},
		},
		{
			description: "empty roster",
			backlog:     model.Demands{{ID: 1, Hours: 5, Order: 1}},
			expect:      []expectedAllocation{},
			unallocated: []int{1},
		},
		{
			description: "empty backlog",
			roster:      model.Developers{{ID: 2, HoursAvailable: 8}, {ID: 1, HoursAvailable: 3}},
			expect: []expectedAllocation{
				{developerID: 1, demandIDs: []int{}, remaining: 3},
				{developerID: 2, demandIDs: []int{}, remaining: 8},
			},
			unallocated: []int{},
		},
		{
			description: "order ties broken by id, later demands skip full developers",
			roster:      model.Developers{{ID: 1, HoursAvailable: 4}, {ID: 2, HoursAvailable: 6}},
			backlog: model.Demands{
				{ID: 3, Hours: 3, Order: 1},
				{ID: 2, Hours: 4, Order: 1},
				{ID: 1, Hours: 2, Order: 5},
				{ID: 4, Hours: 1, Order: 9},
			},
			expect: []expectedAllocation{
				{developerID: 1, demandIDs: []int{2}, remaining: 0},
				{developerID: 2, demandIDs: []int{3, 1, 4}, remaining: 0},
			},
			unallocated: []int{},
		},
		{
			description: "first fit does not pack optimally",
			roster:      model.Developers{{ID: 1, HoursAvailable: 10}},
			backlog: model.Demands{
				{ID: 1, Hours: 4, Order: 1},
				{ID: 2, Hours: 7, Order: 2},
				{ID: 3, Hours: 6, Order: 3},
			},
			expect:      []expectedAllocation{{developerID: 1, demandIDs: []int{1, 3}, remaining: 0}},
			unallocated: []int{2},
		},
		{
			description: "zero capacity developer is listed with nothing",
			roster:      model.Developers{{ID: 1, HoursAvailable: 0}, {ID: 2, HoursAvailable: 2.5}},
			backlog:     model.Demands{{ID: 1, Hours: 2.5, Order: 1}},
			expect: []expectedAllocation{
				{developerID: 1, demandIDs: []int{}, remaining: 0},
				{developerID: 2, demandIDs: []int{1}, remaining: 0},
			},
			unallocated: []int{},
		},
	}

	for _, testCase := range testCases {
		result, err := Allocate(testCase.backlog, testCase.roster)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		require.Len(t, result, len(testCase.expect), testCase.description)
		for i, expect := range testCase.expect {
			allocation := result[i]
			assert.Equal(t, expect.developerID, allocation.Developer.ID, testCase.description)
			assert.Equal(t, expect.demandIDs, demandIDs(allocation.AllocatedDemands), testCase.description)
			assert.InDelta(t, expect.remaining, allocation.RemainingHours, 1e-9, testCase.description)
		}
		assert.Equal(t, testCase.unallocated, demandIDs(model.Unallocated(testCase.backlog, result)), testCase.description)
	}
}

func TestAllocate_Validation(t *testing.T) {
	var testCases = []struct {
		description string
		backlog     model.Demands
		roster      model.Developers
		rule        string
		capacity    bool
	}{
		{
			description: "zero hours demand",
			backlog:     model.Demands{{ID: 1, Hours: 0, Order: 1}},
			roster:      model.Developers{{ID: 1, HoursAvailable: 10}},
			rule:        "hours must be > 0",
		},
		{
			description: "negative hours demand",
			backlog:     model.Demands{{ID: 1, Hours: 2, Order: 1}, {ID: 2, Hours: -2, Order: 1}},
			roster:      model.Developers{{ID: 1, HoursAvailable: 10}},
			rule:        "hours must be > 0",
		},
		{
			description: "NaN hours demand",
			backlog:     model.Demands{{ID: 1, Hours: math.NaN(), Order: 1}},
			rule:        "hours must be a finite number",
		},
		{
			description: "duplicated demand id",
			backlog:     model.Demands{{ID: 1, Hours: 1, Order: 1}, {ID: 1, Hours: 2, Order: 2}},
			rule:        "id must be unique",
		},
		{
			description: "duplicated developer id",
			roster:      model.Developers{{ID: 1, HoursAvailable: 1}, {ID: 1, HoursAvailable: 1}},
			rule:        "id must be unique",
		},
		{
			description: "negative capacity",
			backlog:     model.Demands{{ID: 1, Hours: 1, Order: 1}},
			roster:      model.Developers{{ID: 1, HoursAvailable: 10}, {ID: 2, HoursAvailable: -3}},
			rule:        "hoursAvailable must be >= 0",
			capacity:    true,
		},
	}
	for _, testCase := range testCases {
		result, err := Allocate(testCase.backlog, testCase.roster)
		assert.Nil(t, result, testCase.description)
		assert.ErrorIs(t, err, types.ErrInvalidInput, testCase.description)
		assert.Equal(t, testCase.rule, types.Rule(err), testCase.description)
		var capacityErr *types.InvalidCapacityError
		assert.Equal(t, testCase.capacity, errors.As(err, &capacityErr), testCase.description)
	}
}

func TestAllocate_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		backlog, roster := randomInput(rnd)
		result, err := Allocate(backlog, roster)
		require.NoError(t, err)

		again, err := Allocate(backlog, roster)
		require.NoError(t, err)
		first, _ := json.Marshal(result)
		second, _ := json.Marshal(again)
		assert.Equal(t, string(first), string(second), "determinism")

		assert.Len(t, result, len(roster))
		seen := map[int]bool{}
		for _, allocation := range result {
			used := allocation.AllocatedHours()
			assert.LessOrEqual(t, used, allocation.Developer.HoursAvailable+1e-9, "capacity")
			assert.InDelta(t, allocation.Developer.HoursAvailable-used, allocation.RemainingHours, 1e-9)
			assert.GreaterOrEqual(t, allocation.RemainingHours, 0.0)
			for i, demand := range allocation.AllocatedDemands {
				assert.False(t, seen[demand.ID], "atomicity")
				seen[demand.ID] = true
				if i > 0 {
					prev := allocation.AllocatedDemands[i-1]
					assert.True(t, prev.Less(&demand), "priority ordering")
				}
			}
		}
		assert.Equal(t, len(backlog), len(seen)+len(model.Unallocated(backlog, result)))
	}
}

func TestAllocate_ReorderHasNoResidue(t *testing.T) {
	roster := model.Developers{{ID: 1, HoursAvailable: 8}, {ID: 2, HoursAvailable: 5}}
	backlog := model.Demands{
		{ID: 1, Hours: 5, Order: 1},
		{ID: 2, Hours: 4, Order: 2},
		{ID: 3, Hours: 3, Order: 3},
		{ID: 4, Hours: 2, Order: 4},
	}
	srv := New()
	ctx := context.Background()
	_, err := srv.Allocate(ctx, &Input{Mode: model.ModeInitial, Backlog: backlog, Roster: roster})
	require.NoError(t, err)

	backlog[3].Order = 0
	reordered, err := srv.Allocate(ctx, &Input{Mode: model.ModeReorder, Backlog: backlog, Roster: roster})
	require.NoError(t, err)
	fresh, err := Allocate(backlog, roster)
	require.NoError(t, err)
	assert.Equal(t, fresh, reordered.Result)
	assert.Equal(t, model.ModeReorder, reordered.Mode)
	assert.Equal(t, []int{4, 1}, demandIDs(reordered.Result[0].AllocatedDemands))
}

func TestService_Allocate(t *testing.T) {
	srv := New()
	input := &Input{
		Backlog: model.Demands{{ID: 1, Name: "X", Hours: 6, Order: 1}, {ID: 2, Name: "Y", Hours: 5, Order: 2}},
		Roster:  model.Developers{{ID: 1, Name: "A", HoursAvailable: 10}},
	}
	output, err := srv.Allocate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.ModeInitial, output.Mode)
	assert.Equal(t, []int{2}, demandIDs(output.Unallocated))
	assert.Equal(t, &model.Summary{Mode: model.ModeInitial, Developers: 1, Demands: 2, Allocated: 1, Unallocated: 1}, output.Summary())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = srv.Allocate(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = srv.Allocate(context.Background(), nil)
	assert.Error(t, err)
}

func randomInput(rnd *rand.Rand) (model.Demands, model.Developers) {
	roster := make(model.Developers, rnd.Intn(5))
	for i := range roster {
		roster[i] = model.Developer{ID: i + 1, HoursAvailable: float64(rnd.Intn(20))}
	}
	rnd.Shuffle(len(roster), func(i, j int) { roster[i], roster[j] = roster[j], roster[i] })
	backlog := make(model.Demands, rnd.Intn(12))
	for i := range backlog {
		backlog[i] = model.Demand{ID: i + 1, Hours: float64(1 + rnd.Intn(10)), Order: rnd.Intn(4)}
	}
	return backlog, roster
}

func demandIDs(demands []model.Demand) []int {
	ret := make([]int, 0, len(demands))
	for _, demand := range demands {
		ret = append(ret, demand.ID)
	}
	return ret
}
