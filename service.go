package hourly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/viant/hourly/model"
	"github.com/viant/hourly/model/types"
	"github.com/viant/hourly/service/allocator"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/dao/demand"
	"github.com/viant/hourly/service/dao/developer"
	"github.com/viant/hourly/service/event"
	"github.com/viant/hourly/service/export"
	"github.com/viant/hourly/tracing"
)

// Outcome represents a published pass: the Result, the demands it left out and
// the reference of its CSV export.
type Outcome struct {
	Mode        model.Mode     `json:"mode"`
	Result      model.Result   `json:"result"`
	Unallocated []model.Demand `json:"unallocated"`
	ExportRef   string         `json:"exportRef"`
	// Report compares this export with the previous pass, nil for the first pass
	Report *export.Report `json:"report,omitempty"`
	export []byte
}

// Service owns the demand and developer stores and runs allocation passes
// one at a time.
type Service struct {
	config     *Config
	logger     *slog.Logger
	demands    dao.Service[int, model.Demand]
	developers dao.Service[int, model.Developer]
	allocator  *allocator.Service
	exporter   *export.Service
	publisher  *event.Publisher[model.Summary]
	mux        sync.Mutex
	last       *Outcome
}

// AddDemand stores a new demand under the next free id
func (s *Service) AddDemand(ctx context.Context, aDemand *model.Demand) (*model.Demand, error) {
	if aDemand == nil {
		return nil, dao.ErrNilEntity
	}
	if err := validateRecord("demand", aDemand.Name, "hours", aDemand.Hours, true); err != nil {
		return nil, err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	records, err := s.demands.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list demands: %w", err)
	}
	ret := *aDemand
	ret.ID = 1
	for _, record := range records {
		if record.ID >= ret.ID {
			ret.ID = record.ID + 1
		}
	}
	if err = s.demands.Save(ctx, &ret); err != nil {
		return nil, fmt.Errorf("failed to save demand: %w", err)
	}
	return &ret, nil
}

// AddDeveloper stores a new developer under the next free id
func (s *Service) AddDeveloper(ctx context.Context, aDeveloper *model.Developer) (*model.Developer, error) {
	if aDeveloper == nil {
		return nil, dao.ErrNilEntity
	}
	if err := validateRecord("developer", aDeveloper.Name, "hoursAvailable", aDeveloper.HoursAvailable, false); err != nil {
		return nil, err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	records, err := s.developers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	ret := *aDeveloper
	ret.ID = 1
	for _, record := range records {
		if record.ID >= ret.ID {
			ret.ID = record.ID + 1
		}
	}
	if err = s.developers.Save(ctx, &ret); err != nil {
		return nil, fmt.Errorf("failed to save developer: %w", err)
	}
	return &ret, nil
}

// UpdateDemandOrder changes a stored demand priority; the next Reorder picks it up.
func (s *Service) UpdateDemandOrder(ctx context.Context, id int, order int) (*model.Demand, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	aDemand, err := s.demands.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load demand %d: %w", id, err)
	}
	aDemand.Order = order
	if err = s.demands.Save(ctx, aDemand); err != nil {
		return nil, fmt.Errorf("failed to save demand %d: %w", id, err)
	}
	return aDemand, nil
}

// Demands returns the stored backlog in id order, optionally filtered by Name parameters
func (s *Service) Demands(ctx context.Context, parameters ...*dao.Parameter) (model.Demands, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.backlog(ctx, parameters...)
}

// Developers returns the stored roster in id order, optionally filtered by Name parameters
func (s *Service) Developers(ctx context.Context, parameters ...*dao.Parameter) (model.Developers, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.roster(ctx, parameters...)
}

// Allocate runs an initial pass over the stored backlog and roster
func (s *Service) Allocate(ctx context.Context) (*Outcome, error) {
	return s.run(ctx, model.ModeInitial)
}

// Reorder re-runs allocation from scratch honouring the current demand priorities
func (s *Service) Reorder(ctx context.Context) (*Outcome, error) {
	return s.run(ctx, model.ModeReorder)
}

// Last returns the most recent outcome, nil before the first pass or after Reset
func (s *Service) Last() *Outcome {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.last
}

// Export returns the CSV content for a reference returned by a pass
func (s *Service) Export(ctx context.Context, ref string) ([]byte, error) {
	return s.exporter.Load(ctx, ref)
}

// Reset clears stored demands, developers, exports and the last outcome.
// Records are deleted one by one, so a store failure part way leaves the
// remaining records in place; the returned error says how far it got.
func (s *Service) Reset(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	demands, err := s.demands.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list demands: %w", err)
	}
	developers, err := s.developers.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list developers: %w", err)
	}
	s.last = nil
	progress := &resetProgress{demands: len(demands), developers: len(developers)}
	if err = s.clear(ctx, demands, developers, progress); err != nil {
		s.logger.Error("reset incomplete", "demandsDeleted", progress.demandsDeleted, "demands", progress.demands,
			"developersDeleted", progress.developersDeleted, "developers", progress.developers, "error", err)
		return fmt.Errorf("reset incomplete (%s): %w", progress, err)
	}
	s.logger.Info("store reset", "demands", len(demands), "developers", len(developers), "exports", progress.exports)
	s.publish(ctx, &event.Context{EventType: event.TypeReset}, model.Summary{Demands: len(demands), Developers: len(developers)})
	return nil
}

type resetProgress struct {
	demands           int
	demandsDeleted    int
	developers        int
	developersDeleted int
	exports           int
}

func (p *resetProgress) String() string {
	return fmt.Sprintf("deleted %d/%d demands, %d/%d developers", p.demandsDeleted, p.demands, p.developersDeleted, p.developers)
}

func (s *Service) clear(ctx context.Context, demands []*model.Demand, developers []*model.Developer, progress *resetProgress) error {
	for _, record := range demands {
		if err := s.demands.Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("failed to delete demand %d: %w", record.ID, err)
		}
		progress.demandsDeleted++
	}
	for _, record := range developers {
		if err := s.developers.Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("failed to delete developer %d: %w", record.ID, err)
		}
		progress.developersDeleted++
	}
	var err error
	progress.exports, err = s.exporter.Clear(ctx)
	return err
}

// run takes the snapshot, allocates, exports and publishes as one unit.
func (s *Service) run(ctx context.Context, mode model.Mode) (*Outcome, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s pass not started: %w", mode, err)
	}
	started := time.Now()
	ctx, span := tracing.StartSpan(ctx, "hourly."+string(mode), "INTERNAL")
	outcome, err := s.pass(ctx, mode)
	tracing.EndSpan(span, err)
	elapsed := int(time.Since(started).Milliseconds())
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			s.logger.Warn("pass rejected", "mode", mode, "rule", types.Rule(err), "error", err)
			s.publish(ctx, &event.Context{EventType: event.TypeRejected, Mode: string(mode), TimeTakenMs: elapsed}, model.Summary{Mode: mode})
		}
		return nil, err
	}
	summary := outcome.summary()
	s.logger.Info("pass completed", "mode", mode,
		"developers", summary.Developers, "demands", summary.Demands,
		"allocated", summary.Allocated, "unallocated", summary.Unallocated,
		"export", outcome.ExportRef, "elapsedMs", elapsed)
	s.publish(ctx, &event.Context{EventType: event.TypeAllocated, Mode: string(mode), TimeTakenMs: elapsed}, *summary)
	return outcome, nil
}

func (s *Service) pass(ctx context.Context, mode model.Mode) (*Outcome, error) {
	backlog, err := s.backlog(ctx)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	output, err := s.allocator.Allocate(ctx, &allocator.Input{Mode: mode, Backlog: backlog, Roster: roster})
	if err != nil {
		return nil, err
	}
	ref, data, err := s.exporter.Export(ctx, output.Result)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{
		Mode:        output.Mode,
		Result:      output.Result,
		Unallocated: output.Unallocated,
		ExportRef:   ref,
		export:      data,
	}
	if s.last != nil {
		if outcome.Report, err = export.Diff(s.last.export, data); err != nil {
			return nil, err
		}
	}
	s.last = outcome
	return outcome, nil
}

func (s *Service) publish(ctx context.Context, eventContext *event.Context, summary model.Summary) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event.NewEvent(eventContext, summary)); err != nil {
		s.logger.Error("failed to publish event", "eventType", eventContext.EventType, "error", err)
	}
}

func (s *Service) backlog(ctx context.Context, parameters ...*dao.Parameter) (model.Demands, error) {
	records, err := s.demands.List(ctx, parameters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list demands: %w", err)
	}
	ret := make(model.Demands, 0, len(records))
	for _, record := range records {
		ret = append(ret, *record)
	}
	return ret, nil
}

func (s *Service) roster(ctx context.Context, parameters ...*dao.Parameter) (model.Developers, error) {
	records, err := s.developers.List(ctx, parameters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	ret := make(model.Developers, 0, len(records))
	for _, record := range records {
		ret = append(ret, *record)
	}
	return ret.Sorted(), nil
}

func (o *Outcome) summary() *model.Summary {
	output := &allocator.Output{Mode: o.Mode, Result: o.Result, Unallocated: o.Unallocated}
	ret := output.Summary()
	ret.ExportRef = o.ExportRef
	return ret
}

func validateRecord(entity, name, field string, hours float64, positive bool) error {
	if strings.TrimSpace(name) == "" {
		return types.NewValidationError(entity, 0, "name", "is required")
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return types.NewValidationError(entity, 0, field, "must be a finite number")
	}
	if positive && hours <= 0 {
		return types.NewValidationError(entity, 0, field, "must be > 0")
	}
	if !positive && hours < 0 {
		return types.NewValidationError(entity, 0, field, "must be >= 0")
	}
	return nil
}

// New creates a service with in-memory stores and exports
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig()}
	ret.init(options)
	return ret
}

// NewFromConfig creates a service from config; options override config derived settings.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{config: config, exporter: export.New(config.Export)}
	if config.Store.Kind == StoreFS {
		var err error
		if ret.demands, err = demand.NewFS(config.Store.URL + "/demands"); err != nil {
			return nil, err
		}
		if ret.developers, err = developer.NewFS(config.Store.URL + "/developers"); err != nil {
			return nil, err
		}
	}
	if config.Tracing.Enabled {
		if err := tracing.Init(config.Tracing.Service, config.Tracing.Version, config.Tracing.Output); err != nil {
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	ret.init(options)
	return ret, nil
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.demands == nil {
		s.demands = demand.NewMemory()
	}
	if s.developers == nil {
		s.developers = developer.NewMemory()
	}
	if s.exporter == nil {
		s.exporter = export.New(s.config.Export)
	}
	s.allocator = allocator.New()
}
