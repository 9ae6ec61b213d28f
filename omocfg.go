// Package omocfg converts persisted oh-my-opencode configuration records into
// typed configuration values and back.
//
// Records are the loosely-structured map[string]any values handed over by a
// storage collaborator (a document store, a JSON/YAML/TOML file, an S3
// object). Over time those records have been written with two key
// conventions: snake_case, which is canonical, and camelCase, which is still
// accepted on read. This package hides that history behind two directions of
// conversion:
//
//   - Read: FromRecord and GlobalFromRecord never fail. Malformed or missing
//     fields degrade to their defaults one field at a time.
//   - Write: ToRecord and GlobalToRecord always emit canonical keys. A
//     serialization failure is reported to a DiagnosticHandler and an empty
//     record is returned, so a save is never blocked by this layer.
//
// All conversions are pure and safe for concurrent use as long as callers do
// not mutate a record while it is being read.
package omocfg
