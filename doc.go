// Package hourly allocates a finite pool of developer-hours against a
// prioritized backlog of demands.
//
// The root package exposes the Service façade that owns the demand and
// developer stores, serializes allocation passes, writes CSV exports and
// publishes pass summaries:
//
//	srv := hourly.New()
//	_, _ = srv.AddDeveloper(ctx, &model.Developer{Name: "A", HoursAvailable: 10})
//	_, _ = srv.AddDemand(ctx, &model.Demand{Name: "X", Hours: 6, Order: 1})
//	outcome, _ := srv.Allocate(ctx)
//
// The allocation engine itself lives in service/allocator and is a pure
// function of the backlog and roster snapshots taken at pass start.
package hourly
