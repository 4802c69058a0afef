package allocator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/viant/hourly/model"
	"github.com/viant/hourly/tracing"
)

// Input represents a pass request; Backlog and Roster are snapshots owned by the pass.
type Input struct {
	Mode    model.Mode
	Backlog model.Demands
	Roster  model.Developers
}

// Output represents a pass outcome
type Output struct {
	Mode        model.Mode
	Result      model.Result
	Unallocated []model.Demand
}

// Summary summarises the output
func (o *Output) Summary() *model.Summary {
	ret := &model.Summary{
		Mode:        o.Mode,
		Developers:  len(o.Result),
		Allocated:   len(o.Result.Allocated()),
		Unallocated: len(o.Unallocated),
	}
	ret.Demands = ret.Allocated + ret.Unallocated
	return ret
}

// Service runs allocation passes
type Service struct{}

// New creates an allocator service
func New() *Service {
	return &Service{}
}

// Allocate runs a single pass. A done context prevents the pass from starting;
// a started pass always runs to completion.
func (s *Service) Allocate(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("allocation input was nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("allocation not started: %w", err)
	}
	mode := input.Mode
	if mode == "" {
		mode = model.ModeInitial
	}
	_, span := tracing.StartSpan(ctx, "allocator.allocate", "INTERNAL")
	span.WithAttributes(map[string]string{
		"mode":       string(mode),
		"demands":    strconv.Itoa(len(input.Backlog)),
		"developers": strconv.Itoa(len(input.Roster)),
	})
	result, err := Allocate(input.Backlog, input.Roster)
	if err != nil {
		tracing.EndSpan(span, err)
		return nil, err
	}
	output := &Output{
		Mode:        mode,
		Result:      result,
		Unallocated: model.Unallocated(input.Backlog, result),
	}
	span.WithAttributes(map[string]string{
		"allocated":   strconv.Itoa(len(result.Allocated())),
		"unallocated": strconv.Itoa(len(output.Unallocated)),
	})
	tracing.EndSpan(span, nil)
	return output, nil
}
