// Package export flattens an allocation Result into tabular rows, renders
// them as CSV and persists the file through viant/afs so that any supported
// storage (file://, mem://, gs://, s3://) can hold exports.
//
// An export is addressed by an opaque reference; the engine never interprets it.
package export
