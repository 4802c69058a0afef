// Package model contains the records consumed and produced by an allocation
// pass: demands (the prioritized backlog), developers (the roster) and the
// per-developer allocations that make up a Result.
//
// Records are plain values. A pass takes snapshots of the backlog and roster
// and never mutates them; capacity consumption is tracked by the allocator's
// transient ledger only.
package model
