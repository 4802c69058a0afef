// Package allocator maps a prioritized demand backlog onto a developer roster
// under capacity constraints.
//
// A pass is greedy, priority-first and first-fit: demands are taken in
// ascending order (ties by id) and each goes to the first developer, in id
// order, whose remaining capacity covers it. A demand is never split. Demands
// that fit nobody are left out of the Result. Decisions are final, so the
// outcome is predictable but not capacity-optimal.
//
// Allocate is a pure function of (backlog, roster, mode); the capacity ledger
// lives only for the duration of one pass.
package allocator
