// Package idgen generates opaque identifiers for exports. Callers treat the
// values as strings with no structure.
package idgen
