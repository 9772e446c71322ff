// Package core defines the shared data types for metasql: severities,
// check metadata, and the metadata records (entities, attributes,
// relationships, attribute mappings) produced by an analysis run.
//
// This package is a DTO layer - it carries data without behavior and has no
// dependencies on the ast, walker, lint, or lineage packages, so any of them
// can import it without cycles.
package core
